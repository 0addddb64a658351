package tools

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("tool result is not JSON: %v (%q)", err, s)
	}
	return m
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	if len(defs) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(defs))
	}

	names := map[string]bool{}
	for _, d := range defs {
		names[d.Name] = true
		if d.Description == "" {
			t.Errorf("tool %s has no description", d.Name)
		}
		if d.Parameters["type"] != "object" {
			t.Errorf("tool %s parameters are not an object schema", d.Name)
		}
	}
	for _, want := range []string{"get_current_weather", "calculate_math", "get_current_time"} {
		if !names[want] {
			t.Errorf("missing tool %s", want)
		}
	}
}

func TestExecuteWeather(t *testing.T) {
	result := decode(t, Execute("get_current_weather", map[string]any{"location": "Tokyo"}))

	if result["location"] != "Tokyo" {
		t.Errorf("location = %v", result["location"])
	}
	if result["unit"] != "celsius" {
		t.Errorf("unit should default to celsius, got %v", result["unit"])
	}
	if result["temperature"] != float64(22) {
		t.Errorf("temperature = %v", result["temperature"])
	}
}

func TestExecuteMath(t *testing.T) {
	tests := []struct {
		expression string
		want       float64
	}{
		{"2 + 2", 4},
		{"15 * 23", 345},
		{"sqrt(144.0)", 12},
		{"sin(pi/2)", 1},
	}
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			result := decode(t, Execute("calculate_math", map[string]any{"expression": tt.expression}))
			if errMsg, ok := result["error"]; ok {
				t.Fatalf("unexpected error: %v", errMsg)
			}
			got, ok := result["result"].(float64)
			if !ok {
				t.Fatalf("result is not numeric: %v", result["result"])
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", tt.expression, got, tt.want)
			}
			if result["expression"] != tt.expression {
				t.Errorf("expression echo = %v", result["expression"])
			}
		})
	}
}

func TestExecuteMathInvalidExpression(t *testing.T) {
	result := decode(t, Execute("calculate_math", map[string]any{"expression": "2 +* 2"}))
	if _, ok := result["error"]; !ok {
		t.Error("invalid expression should produce an error field")
	}
	if result["expression"] != "2 +* 2" {
		t.Errorf("expression echo = %v", result["expression"])
	}
}

func TestExecuteUnknownFunction(t *testing.T) {
	result := decode(t, Execute("launch_rocket", nil))
	if result["error"] != "Unknown function: launch_rocket" {
		t.Errorf("error = %v", result["error"])
	}
}

func TestGetCurrentTime(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	result := decode(t, getCurrentTime(now))

	if result["current_time"] != "2025-03-14 09:30:00" {
		t.Errorf("current_time = %v", result["current_time"])
	}
	if result["timezone"] != "UTC" {
		t.Errorf("timezone = %v", result["timezone"])
	}
	if result["day_of_week"] != "Friday" {
		t.Errorf("day_of_week = %v", result["day_of_week"])
	}
}
