package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"deadline", fmt.Errorf("do: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeCanceled},
		{"network", errors.New("connection refused"), ErrCodeUnavailable},
		{"already mapped", NotFound("gone"), ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(MapTransportError(tt.err)); got != tt.want {
				t.Errorf("MapTransportError() code = %v, want %v", got, tt.want)
			}
		})
	}

	if MapTransportError(nil) != nil {
		t.Errorf("MapTransportError(nil) should be nil")
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   ErrorCode
		wantMsg    string
		wantField  string
		wantFields map[string]string
	}{
		{
			name:     "detail not found",
			status:   404,
			body:     `{"detail":"User not found"}`,
			wantCode: ErrCodeNotFound,
			wantMsg:  "User not found",
		},
		{
			name:      "field errors",
			status:    400,
			body:      `{"username":["A user with that username already exists."],"email":["Enter a valid email address."]}`,
			wantCode:  ErrCodeValidation,
			wantMsg:   "Bad Request",
			wantField: "email",
			wantFields: map[string]string{
				"username": "A user with that username already exists.",
				"email":    "Enter a valid email address.",
			},
		},
		{
			name:     "unauthorized",
			status:   401,
			body:     `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`,
			wantCode: ErrCodeUnauthorized,
			wantMsg:  "Given token not valid for any token type",
		},
		{
			name:     "non json body",
			status:   500,
			body:     `<html>Server Error</html>`,
			wantCode: ErrCodeUpstream,
			wantMsg:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapStatus(tt.status, []byte(tt.body))
			var appErr *AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %v, want %v", appErr.Code, tt.wantCode)
			}
			if appErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMsg)
			}
			if appErr.Status != tt.status {
				t.Errorf("status = %d, want %d", appErr.Status, tt.status)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", appErr.Field, tt.wantField)
			}
			for k, v := range tt.wantFields {
				if appErr.Fields[k] != v {
					t.Errorf("fields[%s] = %q, want %q", k, appErr.Fields[k], v)
				}
			}
		})
	}
}
