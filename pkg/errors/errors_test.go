package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
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
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeNetwork,
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

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidUsername, "test"),
			expected: ErrCodeInvalidUsername,
		},
		{
			name:     "rate limited",
			err:      &RateLimitedError{},
			expected: ErrCodeRateLimited,
		},
		{
			name:     "wrapped network error",
			err:      fmt.Errorf("fetch: %w", &NetworkError{Status: 500}),
			expected: ErrCodeNetwork,
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
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
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

func TestRateLimitedError(t *testing.T) {
	reset := time.Date(2025, 1, 2, 15, 4, 0, 0, time.UTC)

	t.Run("with reset time", func(t *testing.T) {
		err := &RateLimitedError{ResetAt: reset}
		expected := "rate limit exceeded: resets at 3:04PM"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without reset time", func(t *testing.T) {
		err := &RateLimitedError{}
		expected := "rate limit exceeded"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("custom message", func(t *testing.T) {
		err := &RateLimitedError{ResetAt: reset, Message: "slow down"}
		if err.Error() != "slow down" {
			t.Errorf("Error() = %v, want %v", err.Error(), "slow down")
		}
	})

	t.Run("retry after", func(t *testing.T) {
		err := &RateLimitedError{ResetAt: reset}
		if got := err.RetryAfter(reset.Add(-time.Minute)); got != time.Minute {
			t.Errorf("RetryAfter() = %v, want 1m", got)
		}
		if got := err.RetryAfter(reset.Add(time.Minute)); got != 0 {
			t.Errorf("RetryAfter() after reset = %v, want 0", got)
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &RateLimitedError{}
		if err.Code() != ErrCodeRateLimited {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeRateLimited)
		}
		if !Is(err, ErrCodeRateLimited) {
			t.Error("Is(err, ErrCodeRateLimited) = false, want true")
		}
	})
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *NetworkError
		want string
	}{
		{"status only", &NetworkError{Status: 502}, "network error: 502"},
		{"server message", &NetworkError{Status: 404, Message: "GitHub user 'x' not found"}, "GitHub user 'x' not found"},
		{"transport failure", &NetworkError{Cause: cause}, "network error: connection refused"},
		{"status with cause", &NetworkError{Status: 200, Cause: cause}, "network error: 200: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if tt.err.Code() != ErrCodeNetwork {
				t.Errorf("Code() = %v, want %v", tt.err.Code(), ErrCodeNetwork)
			}
		})
	}

	wrapped := &NetworkError{Cause: cause}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}
