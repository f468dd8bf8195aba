package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"new", New(ErrCodeInvalidUnits, "units must be number, percent or degrees, got %q", "kg"),
			`INVALID_UNITS: units must be number, percent or degrees, got "kg"`},
		{"wrapped", Wrap(ErrCodeStorage, errors.New("access denied"), "upload %s", "a.png"),
			"STORAGE_ERROR: upload a.png: access denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeNetwork, cause, "export chart")
	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestIs(t *testing.T) {
	base := New(ErrCodeStyleNotFound, "no style %q", "tabloid")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct match", base, ErrCodeStyleNotFound, true},
		{"other code", base, ErrCodeInvalidStyle, false},
		{"through fmt wrap", fmt.Errorf("render: %w", base), ErrCodeStyleNotFound, true},
		{"outermost code wins", Wrap(ErrCodeInternal, base, "build"), ErrCodeStyleNotFound, false},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(fmt.Errorf("ctx: %w", New(ErrCodeDuplicateTime, "2016-01-01"))); got != ErrCodeDuplicateTime {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeDuplicateTime)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Wrap(ErrCodeRegionNotFound, errors.New("x"), "unknown region SE-99")); got != "unknown region SE-99" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("disk full")); got != "disk full" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsConfig(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInvalidInput, true},
		{ErrCodeInvalidLanguage, true},
		{ErrCodeInvalidFormat, true},
		{ErrCodeInvalidBaseMap, true},
		{ErrCodeRegionNotFound, true},
		{ErrCodeStorage, false},
		{ErrCodeNetwork, false},
		{ErrCodeInternal, false},
		{ErrCodeUnsupported, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsConfig(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsConfig(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
	if IsConfig(errors.New("plain")) {
		t.Error("plain errors are not configuration errors")
	}
}
