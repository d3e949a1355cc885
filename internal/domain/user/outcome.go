package user

// Outcome is the result of validating a Form.
type Outcome int

const (
	OK Outcome = iota
	EmptyFields
	InvalidSelection
	InvalidEmail
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case EmptyFields:
		return "empty_fields"
	case InvalidSelection:
		return "invalid_selection"
	case InvalidEmail:
		return "invalid_email"
	default:
		return "unknown"
	}
}

// Message is the text shown to the user for a failed validation.
func (o Outcome) Message() string {
	switch o {
	case EmptyFields:
		return "Please fill in all fields"
	case InvalidSelection:
		return "Please select a valid role and status"
	case InvalidEmail:
		return "Please enter a valid email address"
	default:
		return ""
	}
}

// Err returns nil for OK and a *ValidationError otherwise.
func (o Outcome) Err() error {
	if o == OK {
		return nil
	}
	return &ValidationError{Outcome: o}
}

// ValidationError carries a non-OK Outcome through error returns.
type ValidationError struct {
	Outcome Outcome
}

func (e *ValidationError) Error() string { return e.Outcome.Message() }
