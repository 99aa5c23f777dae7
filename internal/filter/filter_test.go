package filter

import (
	"bytes"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]interface{}{"name": "cat.png"}
	result, err := Apply(data, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]interface{})["name"] != "cat.png" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	data := map[string]interface{}{"name": "cat.png", "size": 123}
	result, err := Apply(data, ".name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "cat.png" {
		t.Errorf("expected 'cat.png', got %v", result)
	}
}

func TestApply_FilterArray(t *testing.T) {
	data := []interface{}{
		map[string]interface{}{"extension": "png"},
		map[string]interface{}{"extension": "gif"},
	}
	result, err := Apply(data, `.[] | select(.extension == "png")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]interface{})
	if m["extension"] != "png" {
		t.Errorf("expected extension 'png', got %v", m["extension"])
	}
}

func TestApply_MultipleResults(t *testing.T) {
	data := []interface{}{
		map[string]interface{}{"name": "a"},
		map[string]interface{}{"name": "b"},
	}
	result, err := Apply(data, `.[].name`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := result.([]interface{})
	if !ok || len(list) != 2 {
		t.Fatalf("expected 2 results, got %v", result)
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	data := map[string]interface{}{"name": "x"}
	_, err := Apply(data, "invalid[[[")
	if err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestApply_ItemsFallback(t *testing.T) {
	// List output is wrapped as {"items": [...]}; root-array queries
	// still work against the wrapper.
	data := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"name": "one"},
			map[string]interface{}{"name": "two"},
		},
	}
	result, err := Apply(data, `.[] | select(.name == "two")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]interface{})
	if m["name"] != "two" {
		t.Errorf("expected name 'two', got %v", m["name"])
	}
}

func TestApplyToJSON_ValidJSON(t *testing.T) {
	jsonData := []byte(`{"name": "cat.png", "size": 123}`)
	result, err := ApplyToJSON(jsonData, ".name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(result, []byte(`"cat.png"`)) {
		t.Error("expected JSON output to contain filtered result")
	}
}

func TestApplyToJSON_InvalidJSON(t *testing.T) {
	_, err := ApplyToJSON([]byte(`{invalid}`), ".name")
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestApplyToJSON_EmptyExpression(t *testing.T) {
	jsonData := []byte(`{"name": "cat.png"}`)
	result, err := ApplyToJSON(jsonData, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(jsonData, result) {
		t.Errorf("empty expression should return original JSON unchanged")
	}
}

func TestApply_ShellEscapedNotEqual(t *testing.T) {
	// Zsh escapes != to \!= even in single quotes
	data := []interface{}{
		map[string]interface{}{"value": nil},
		map[string]interface{}{"value": "x"},
	}
	result, err := Apply(data, `.[] | select(.value \!= null)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]interface{})
	if m["value"] != "x" {
		t.Errorf("expected value 'x', got %v", m["value"])
	}
}

func TestNormalizeExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`select(.x \!= null)`, `select(.x != null)`},
		{`select(.x != null)`, `select(.x != null)`},
		{`.[] | select(.a \!= .b)`, `.[] | select(.a != .b)`},
		{`select(.x == "y")`, `select(.x == "y")`},
	}
	for _, tt := range tests {
		got := NormalizeExpression(tt.input)
		if got != tt.expected {
			t.Errorf("NormalizeExpression(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
