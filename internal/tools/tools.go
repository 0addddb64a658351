// Package tools holds the demo functions the tool-calling session exposes
// to the model: a canned weather lookup, a math expression evaluator and a
// clock. Every tool returns a JSON string; tool failures are returned as a
// JSON error object rather than a Go error so the model sees them.
package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/expr-lang/expr"

	"github.com/codybook/codybook/internal/session"
)

// Definitions returns the tool schemas advertised to the model.
func Definitions() []session.Tool {
	return []session.Tool{
		{
			Name:        "get_current_weather",
			Description: "Get the current weather for a specific location",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": "The city and country, e.g., 'San Francisco, CA'",
					},
					"unit": map[string]any{
						"type":        "string",
						"enum":        []string{"celsius", "fahrenheit"},
						"description": "The temperature unit to use. Defaults to celsius.",
					},
				},
				"required": []string{"location"},
			},
		},
		{
			Name:        "calculate_math",
			Description: "Calculate mathematical expressions safely",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"expression": map[string]any{
						"type":        "string",
						"description": "A mathematical expression to evaluate, e.g., '2 + 2' or 'sin(pi/2)'",
					},
				},
				"required": []string{"expression"},
			},
		},
		{
			Name:        "get_current_time",
			Description: "Get the current date and time",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Execute dispatches one model-issued call to the matching tool. Unknown
// function names yield a JSON error string, never a Go error.
func Execute(functionName string, args map[string]any) string {
	switch functionName {
	case "get_current_weather":
		return getCurrentWeather(stringArg(args, "location"), stringArg(args, "unit"))
	case "calculate_math":
		return calculateMath(stringArg(args, "expression"))
	case "get_current_time":
		return getCurrentTime(time.Now())
	default:
		return errorJSON(fmt.Sprintf("Unknown function: %s", functionName))
	}
}

// getCurrentWeather returns canned conditions; a real integration would call
// a weather API here.
func getCurrentWeather(location, unit string) string {
	if unit == "" {
		unit = "celsius"
	}
	return mustJSON(map[string]any{
		"location":    location,
		"temperature": 22,
		"unit":        unit,
		"description": "Partly cloudy",
		"humidity":    65,
		"wind_speed":  10,
	})
}

// mathEnv exposes the constants and functions expressions may reference.
var mathEnv = map[string]any{
	"pi":    math.Pi,
	"e":     math.E,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"sqrt":  math.Sqrt,
	"log":   math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"exp":   math.Exp,
	"pow":   math.Pow,
}

func calculateMath(expression string) string {
	result, err := expr.Eval(expression, mathEnv)
	if err != nil {
		return mustJSON(map[string]any{"expression": expression, "error": err.Error()})
	}
	return mustJSON(map[string]any{"expression": expression, "result": result})
}

func getCurrentTime(now time.Time) string {
	utc := now.UTC()
	return mustJSON(map[string]any{
		"current_time": utc.Format("2006-01-02 15:04:05"),
		"timezone":     "UTC",
		"day_of_week":  utc.Weekday().String(),
	})
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func errorJSON(msg string) string {
	return mustJSON(map[string]any{"error": msg})
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}
