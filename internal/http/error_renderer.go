package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/visitrack/frontdesk/internal/errors"
)

const errMsgFixBelow = "Please fix the errors below."

// ErrorRenderer renders a template with the given data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W   http.ResponseWriter
	R   *http.Request
	Err error // optional when only FieldErrors are set
	// FieldErrors maps form field name to message. Backend-reported field
	// errors carried by Err are merged in.
	FieldErrors map[string]string
	Renderer    ErrorRenderer
	PageMeta    PageMeta
	// Data is merged into the template data (form values, dropdown options).
	Data map[string]any
	// StatusCode defaults to 200 so htmx swaps the response.
	StatusCode int
	// ShowToast also fires a toast with the general message.
	ShowToast bool
}

// RenderError renders an error response with a general message and
// optional field errors.
//
//	RenderError(ErrorOpts{
//	    W: w, R: r, Err: err,
//	    Renderer: h.renderVisitorForm,
//	    PageMeta: PageMeta{Title: "Add Visitor", CurrentPage: PageVisitors},
//	    Data: map[string]any{"Form": reg},
//	})
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	generalError := processError(opts.Err, &opts.FieldErrors)

	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}

	if generalError != "" {
		builder.WithError(generalError)
	} else if len(opts.FieldErrors) > 0 {
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.ShowToast && generalError != "" {
		HTMX(opts.W).Toast(generalError, "error")
	}

	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError returns the user-facing message for err and merges any
// backend field errors into fieldErrors. Returns "" for a nil err.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}

	if fields := apperrors.GetFields(err); len(fields) > 0 && fieldErrors != nil {
		if *fieldErrors == nil {
			*fieldErrors = make(map[string]string, len(fields))
		}
		for k, v := range fields {
			if _, exists := (*fieldErrors)[k]; !exists {
				(*fieldErrors)[k] = v
			}
		}
	}

	return UserMessage(err)
}

// UserMessage turns err into text safe to show in the UI. Backend bodies
// are never echoed; only messages the application wrote itself are.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return "An error occurred. Please try again."
	}

	switch appErr.Code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeConflict:
		if appErr.Status != 0 && len(appErr.Fields) > 0 {
			return errMsgFixBelow
		}
		if appErr.Status != 0 && appErr.Message == http.StatusText(appErr.Status) {
			return "The submitted data was rejected."
		}
		return appErr.Message
	case apperrors.ErrCodeUnauthorized:
		return "Your session has expired. Please sign in again."
	case apperrors.ErrCodeNotFound:
		return "That record no longer exists."
	case apperrors.ErrCodeTimeout:
		return "Request timed out. Please try again."
	case apperrors.ErrCodeCanceled:
		return "Request was canceled."
	case apperrors.ErrCodeUnavailable:
		return "The visitor service is unreachable. Please try again shortly."
	case apperrors.ErrCodeUpstream:
		return "The visitor service reported an error. Please try again."
	default:
		return "An error occurred. Please try again."
	}
}
