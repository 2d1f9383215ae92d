package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("test error")
	if err == nil {
		t.Fatal("New() returned nil")
	}

	if !strings.Contains(err.Error(), "test error") {
		t.Errorf("Expected error message to contain 'test error', got: %s", err.Error())
	}

	if err.Location() == "" {
		t.Error("Location should not be empty")
	}
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")
	err := Wrap(baseErr, "wrapped")

	if err == nil {
		t.Fatal("Wrap() returned nil")
	}

	if !strings.Contains(err.Error(), "wrapped") {
		t.Errorf("Expected error message to contain 'wrapped', got: %s", err.Error())
	}

	if !strings.Contains(err.Error(), "base error") {
		t.Errorf("Expected error message to contain 'base error', got: %s", err.Error())
	}

	// Test unwrapping
	unwrapped := errors.Unwrap(err)
	if unwrapped != baseErr {
		t.Errorf("Unwrap() returned wrong error: %v", unwrapped)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "wrapped"); err != nil {
		t.Errorf("Wrap(nil) should return nil, got: %v", err)
	}
}

func TestWithField(t *testing.T) {
	err := New("test error").WithField("key", "value")

	fields := err.GetFields()
	if len(fields) != 1 {
		t.Fatalf("Expected 1 field, got %d", len(fields))
	}

	if fields["key"] != "value" {
		t.Errorf("Expected field['key'] = 'value', got: %v", fields["key"])
	}
}

func TestWithFields(t *testing.T) {
	fields := map[string]interface{}{
		"key1": "value1",
		"key2": 123,
	}

	err := New("test error").WithFields(fields)

	errFields := err.GetFields()
	if len(errFields) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(errFields))
	}

	if errFields["key1"] != "value1" {
		t.Errorf("Expected field['key1'] = 'value1', got: %v", errFields["key1"])
	}

	if errFields["key2"] != 123 {
		t.Errorf("Expected field['key2'] = 123, got: %v", errFields["key2"])
	}
}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", NewValidation("end before start"), ErrValidation},
		{"no provider", NewNoProviderAvailable("no credentials configured"), ErrNoProviderAvailable},
		{"provider call", NewProviderCall("openai", "status 500"), ErrProviderCall},
		{"response parse", NewResponseParse("not valid JSON"), ErrResponseParse},
		{"job not found", NewJobNotFound("job-123"), ErrJobNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

func TestSentinelCodes(t *testing.T) {
	if code := GetErrorCode(NewValidation("bad timestamps")); code != "VALIDATION_FAILED" {
		t.Errorf("Expected code VALIDATION_FAILED, got: %s", code)
	}

	if code := GetErrorCode(NewProviderCall("gemini", "timeout")); code != "PROVIDER_CALL_FAILED" {
		t.Errorf("Expected code PROVIDER_CALL_FAILED, got: %s", code)
	}
}

func TestProviderCallFields(t *testing.T) {
	err := NewProviderCall("openai", "status 429")

	fields := GetErrorFields(err)
	if fields["provider"] != "openai" {
		t.Errorf("Expected provider field 'openai', got: %v", fields["provider"])
	}
}

func TestJobNotFoundFields(t *testing.T) {
	err := NewJobNotFound("job-42")

	fields := GetErrorFields(err)
	if fields["job_id"] != "job-42" {
		t.Errorf("Expected job_id field 'job-42', got: %v", fields["job_id"])
	}

	if !strings.Contains(err.Error(), "job-42") {
		t.Errorf("Expected message to contain job ID, got: %s", err.Error())
	}
}

func TestAsJSON(t *testing.T) {
	err := NewValidation("non-monotonic timestamps").WithField("index", 3)

	jsonMap := err.AsJSON()
	if jsonMap["code"] != "VALIDATION_FAILED" {
		t.Errorf("Expected code VALIDATION_FAILED, got: %v", jsonMap["code"])
	}

	ctx, ok := jsonMap["context"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected context map in JSON output")
	}
	if ctx["index"] != 3 {
		t.Errorf("Expected context['index'] = 3, got: %v", ctx["index"])
	}
}
