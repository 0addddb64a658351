package session

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewCallID(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "call_0001"},
		{42, "call_0042"},
		{9999, "call_9999"},
		{10000, "call_10000"},
	}
	for _, tt := range tests {
		if got := NewCallID(tt.n); got != tt.want {
			t.Errorf("NewCallID(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestMessageJSON(t *testing.T) {
	t.Run("call id never serialized", func(t *testing.T) {
		data, err := json.Marshal(Message{Role: RoleUser, Content: "hi", CallID: "call_0001"})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if strings.Contains(string(data), "call_0001") {
			t.Errorf("CallID leaked into JSON: %s", data)
		}
	})

	t.Run("optional fields omitted", func(t *testing.T) {
		data, err := json.Marshal(Message{Role: RoleAssistant, Content: "hello"})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		for _, field := range []string{"name", "tool_call_id", "tool_calls"} {
			if strings.Contains(string(data), field) {
				t.Errorf("empty %s should be omitted: %s", field, data)
			}
		}
	})

	t.Run("tool message round trip", func(t *testing.T) {
		msg := Message{
			Role:       RoleTool,
			Content:    `{"temperature":22}`,
			Name:       "get_current_weather",
			ToolCallID: "toolu_01",
		}
		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		var back Message
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if back.Name != msg.Name || back.ToolCallID != msg.ToolCallID || back.Role != msg.Role {
			t.Errorf("round trip mismatch: %+v", back)
		}
	})
}
