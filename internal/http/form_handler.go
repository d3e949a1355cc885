package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/visitrack/frontdesk/internal/errors"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormSubmit performs the form's operation with the parsed value.
type FormSubmit[T, R any] func(ctx context.Context, req T) (R, error)

// FormRenderer is a function that renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// ErrorHandler maps a submit error to field errors and a general message.
// Return nil and "" to fall through to the default handling.
type ErrorHandler func(err error) (fieldErrors map[string]string, generalError string)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T, R any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Parser   FormParser[T]
	Submit   FormSubmit[T, R]
	Renderer FormRenderer
	// OnSuccess writes the response after a successful submit.
	OnSuccess func(w http.ResponseWriter, r *http.Request, res R)
	// Page metadata for rendering
	PageMeta PageMeta
	// Optional: additional data to pass to template on error
	ExtraData map[string]any
	// Optional: custom error handler for domain-specific errors
	HandleError ErrorHandler
	// Optional: HTTP status code to set on validation errors (defaults to 200 for HTMX compatibility)
	ErrorStatus int
}

// HandleForm parses, validates and submits a form. Validation and submit
// failures re-render the form with the submitted values; success is handed
// to OnSuccess.
//
//	HandleForm(FormHandlerOpts[visitor.Registration, *service.RegistrationResult]{
//	    W: w, R: r,
//	    Parser:    parseVisitorForm,
//	    Submit:    register,
//	    Renderer:  h.renderVisitorForm,
//	    OnSuccess: h.renderRegistered,
//	})
func HandleForm[T, R any](opts FormHandlerOpts[T, R]) {
	if opts.Parser == nil || opts.Submit == nil || opts.Renderer == nil || opts.OnSuccess == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, "", data)
		return
	}

	res, err := opts.Submit(opts.R.Context(), data)
	if err != nil {
		handleFormServiceError(opts, err, data)
		return
	}

	opts.OnSuccess(opts.W, opts.R, res)
}

// handleFormServiceError handles errors from the submit call.
func handleFormServiceError[T, R any](opts FormHandlerOpts[T, R], err error, data T) {
	if errors.Is(err, context.Canceled) {
		http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
		return
	}

	if opts.HandleError != nil {
		fieldErrors, generalError := opts.HandleError(err)
		if fieldErrors != nil || generalError != "" {
			opts.renderFormError(fieldErrors, generalError, data)
			return
		}
	}

	opts.renderFormError(apperrors.GetFields(err), UserMessage(err), data)
}

// renderFormError renders the form with errors and preserves form data.
func (fh FormHandlerOpts[T, R]) renderFormError(fieldErrors map[string]string, generalError string, data T) {
	if fh.ErrorStatus != 0 && len(fieldErrors) > 0 {
		fh.W.WriteHeader(fh.ErrorStatus)
	}

	templateData := NewTemplateData(fh.R, fh.PageMeta).WithFieldErrors(fieldErrors)

	if generalError != "" {
		templateData.WithError(generalError)
	} else if len(fieldErrors) > 0 {
		templateData.WithError(errMsgFixBelow)
	}

	// ExtraData first so FormData wins on a key clash.
	for k, v := range fh.ExtraData {
		templateData.With(k, v)
	}
	templateData.With("FormData", data)

	fh.Renderer(fh.W, fh.R, templateData.Build())
}
