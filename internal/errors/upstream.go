package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
)

// MapTransportError maps a failed round trip to the backend onto an AppError.
// Context errors become Timeout/Canceled; everything else is Unavailable.
func MapTransportError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	case errors.Is(err, context.Canceled):
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	default:
		return &AppError{
			Code:    ErrCodeUnavailable,
			Message: "Backend is unreachable.",
			Cause:   err,
		}
	}
}

// MapStatus maps a non-2xx backend response onto an AppError.
//
// Django REST Framework reports errors either as {"detail": "..."} or as a
// map of field name to a list of messages; both shapes are understood.
func MapStatus(status int, body []byte) error {
	detail, fields := parseErrorBody(body)

	var code ErrorCode
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = ErrCodeValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		code = ErrCodeUnauthorized
	case http.StatusNotFound:
		code = ErrCodeNotFound
	case http.StatusConflict:
		code = ErrCodeConflict
	default:
		code = ErrCodeUpstream
	}

	if detail == "" {
		detail = http.StatusText(status)
		if detail == "" {
			detail = "unexpected backend response"
		}
	}

	return &AppError{
		Code:    code,
		Message: detail,
		Fields:  fields,
		Field:   firstKey(fields),
		Status:  status,
	}
}

func parseErrorBody(body []byte) (string, map[string]string) {
	if len(body) == 0 {
		return "", nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", nil
	}

	var detail string
	fields := make(map[string]string)
	for key, val := range raw {
		msg := flattenMessage(val)
		if msg == "" {
			continue
		}
		switch key {
		case "detail", "non_field_errors":
			if detail == "" {
				detail = msg
			}
		default:
			fields[key] = msg
		}
	}

	if len(fields) == 0 {
		fields = nil
	}
	return detail, fields
}

func flattenMessage(val json.RawMessage) string {
	var s string
	if err := json.Unmarshal(val, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(val, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, " "))
	}
	return ""
}

func firstKey(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}
