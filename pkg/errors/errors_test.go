package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: characters.character")

	tests := []struct {
		name     string
		err      *Error
		wantCode Code
		wantMsg  string
		wantStr  string
	}{
		{
			name:     "new formats the message",
			err:      New(ErrCodeInvalidCharacter, "character too long (max %d runes)", 32),
			wantCode: ErrCodeInvalidCharacter,
			wantMsg:  "character too long (max 32 runes)",
			wantStr:  "INVALID_CHARACTER: character too long (max 32 runes)",
		},
		{
			name:     "wrap appends the cause",
			err:      Wrap(ErrCodeAlreadyExists, cause, "Word already known!"),
			wantCode: ErrCodeAlreadyExists,
			wantMsg:  "Word already known!",
			wantStr:  "ALREADY_EXISTS: Word already known!: UNIQUE constraint failed: characters.character",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode || tt.err.Message != tt.wantMsg {
				t.Errorf("got %q %q, want %q %q", tt.err.Code, tt.err.Message, tt.wantCode, tt.wantMsg)
			}
			if got := tt.err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}

	wrapped := Wrap(ErrCodeAlreadyExists, cause, "Word already known!")
	if errors.Unwrap(wrapped) != cause || !errors.Is(wrapped, cause) {
		t.Error("Wrap should keep the cause reachable through errors.Is/Unwrap")
	}
}

func TestCodeLookup(t *testing.T) {
	notFound := New(ErrCodeNotFound, "Character not found")

	tests := []struct {
		name        string
		err         error
		wantCode    Code
		wantMessage string
	}{
		{"coded", notFound, ErrCodeNotFound, "Character not found"},
		{"fmt wrapped", fmt.Errorf("delete 7: %w", notFound), ErrCodeNotFound, "Character not found"},
		{"outer code wins", Wrap(ErrCodeNetwork, notFound, "GET /characters/7"), ErrCodeNetwork, "GET /characters/7"},
		{"rate limited", &RateLimitedError{RetryAfter: 3}, ErrCodeRateLimited, "rate limited: retry after 3 seconds"},
		{"plain", errors.New("disk full"), "", "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if tt.wantCode != "" && !Is(tt.err, tt.wantCode) {
				t.Errorf("Is(err, %q) = false", tt.wantCode)
			}
			if Is(tt.err, ErrCodeExhausted) {
				t.Error("Is(err, EXHAUSTED) = true")
			}
			if got := UserMessage(tt.err); got != tt.wantMessage {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMessage)
			}
		})
	}

	if GetCode(nil) != "" || Is(nil, "") {
		t.Error("nil error has no code")
	}
}

func TestRateLimitedError(t *testing.T) {
	if got := (&RateLimitedError{}).Error(); got != "rate limited" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&RateLimitedError{}).Code(); got != ErrCodeRateLimited {
		t.Errorf("Code() = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid character", New(ErrCodeInvalidCharacter, "bad"), 422},
		{"already exists", New(ErrCodeAlreadyExists, "Word already known!"), 400},
		{"invalid format", New(ErrCodeInvalidFormat, "bad"), 400},
		{"not found", New(ErrCodeNotFound, "missing"), 404},
		{"exhausted", New(ErrCodeExhausted, "none left"), 404},
		{"wrapped not found", Wrap(ErrCodeNotFound, errors.New("sql: no rows"), "missing"), 404},
		{"rate limited", New(ErrCodeRateLimited, "slow down"), 429},
		{"rate limited type", &RateLimitedError{RetryAfter: 1}, 429},
		{"unsupported", New(ErrCodeUnsupported, "pdf needs a font"), 501},
		{"plain error", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Code
	}{
		{404, ErrCodeNotFound},
		{422, ErrCodeInvalidCharacter},
		{400, ErrCodeInvalidInput},
		{429, ErrCodeRateLimited},
		{504, ErrCodeTimeout},
		{503, ErrCodeNetwork},
		{200, ""},
	}
	for _, tt := range tests {
		if got := FromStatus(tt.status); got != tt.want {
			t.Errorf("FromStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
