package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeResolution, "unknown socket: %d", 42)

	if err.Code != ErrCodeResolution {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeResolution)
	}

	if err.Message != "unknown socket: 42" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown socket: 42")
	}

	expected := "RESOLUTION_ERROR: unknown socket: 42"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeMalformedDocument, cause, "parse payload")

	if err.Code != ErrCodeMalformedDocument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMalformedDocument)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidState, "test"),
			code:     ErrCodeInvalidState,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidState, "test"),
			code:     ErrCodeNotFound,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeStructural, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeStructural,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsStructural(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"structural", New(ErrCodeStructural, "x"), true},
		{"resolution", New(ErrCodeResolution, "x"), true},
		{"duplicate", New(ErrCodeDuplicateID, "x"), true},
		{"malformed", New(ErrCodeMalformedDocument, "x"), false},
		{"plain", errors.New("x"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStructural(tt.err); got != tt.want {
				t.Errorf("IsStructural() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsMalformed(t *testing.T) {
	if !IsMalformed(Wrap(ErrCodeMalformedDocument, errors.New("eof"), "decode")) {
		t.Error("IsMalformed() = false, want true")
	}
	if IsMalformed(New(ErrCodeResolution, "x")) {
		t.Error("IsMalformed() = true for resolution error")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeDuplicateID, "test"),
			expected: ErrCodeDuplicateID,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeMalformedDocument, "payload does not contain any nodes"),
			expected: "payload does not contain any nodes",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
