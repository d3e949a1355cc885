// Package user holds the add-user form, its validation, the confirmation
// gate and the workflow that ties them to a submitter.
package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Field names one input of the add-user form.
type Field string

const (
	FieldUsername  Field = "username"
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
	FieldRole      Field = "role"
	FieldStatus    Field = "status"
)

// Role is an account role accepted by the backend.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
)

// Status is the account state chosen in the form.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Rule is the validation rule attached to a field.
type Rule int

const (
	// RuleRequired only demands a non-blank value.
	RuleRequired Rule = iota
	// RuleSelection demands one of the field's options.
	RuleSelection
	// RuleEmail demands the local@domain.tld shape.
	RuleEmail
)

// FieldSpec describes one form field and how it is validated and rendered.
type FieldSpec struct {
	Field   Field
	Label   string
	Input   string // html input type
	Rule    Rule
	Options []string
}

// Specs enumerates the form fields in display order.
var Specs = []FieldSpec{
	{Field: FieldUsername, Label: "Username", Input: "text", Rule: RuleRequired},
	{Field: FieldFirstName, Label: "First Name", Input: "text", Rule: RuleRequired},
	{Field: FieldLastName, Label: "Last Name", Input: "text", Rule: RuleRequired},
	{Field: FieldEmail, Label: "Email", Input: "email", Rule: RuleEmail},
	{Field: FieldPassword, Label: "Password", Input: "password", Rule: RuleRequired},
	{
		Field:   FieldRole,
		Label:   "Role",
		Input:   "select",
		Rule:    RuleSelection,
		Options: []string{string(RoleAdmin), string(RoleReceptionist)},
	},
	{
		Field:   FieldStatus,
		Label:   "Status",
		Input:   "select",
		Rule:    RuleSelection,
		Options: []string{string(StatusActive), string(StatusInactive)},
	},
}

// ErrUnknownField is returned by Update for names outside the field set.
var ErrUnknownField = errors.New("unknown form field")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParseField resolves a submitted field name.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := lo.Find(Specs, func(s FieldSpec) bool { return s.Field == f }); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Form is the add-user field set. The zero value is the empty form.
type Form struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

func (f *Form) ref(field Field) *string {
	switch field {
	case FieldUsername:
		return &f.Username
	case FieldFirstName:
		return &f.FirstName
	case FieldLastName:
		return &f.LastName
	case FieldEmail:
		return &f.Email
	case FieldPassword:
		return &f.Password
	case FieldRole:
		return &f.Role
	case FieldStatus:
		return &f.Status
	default:
		return nil
	}
}

// Get returns the current value of field.
func (f Form) Get(field Field) string {
	if p := f.ref(field); p != nil {
		return *p
	}
	return ""
}

// Update replaces one field, leaving the others untouched.
func (f *Form) Update(field Field, value string) error {
	p := f.ref(field)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	*p = value
	return nil
}

// Clear resets every field to the empty string.
func (f *Form) Clear() { *f = Form{} }

// IsZero reports whether every field is empty.
func (f Form) IsZero() bool { return f == Form{} }

// Validate classifies the form. Blank fields are reported before bad
// selections, and bad selections before a malformed email.
func (f Form) Validate() Outcome {
	for _, spec := range Specs {
		if strings.TrimSpace(f.Get(spec.Field)) == "" {
			return EmptyFields
		}
	}
	for _, spec := range Specs {
		if spec.Rule == RuleSelection && !lo.Contains(spec.Options, f.Get(spec.Field)) {
			return InvalidSelection
		}
	}
	for _, spec := range Specs {
		if spec.Rule == RuleEmail && !emailPattern.MatchString(f.Get(spec.Field)) {
			return InvalidEmail
		}
	}
	return OK
}

// ToCreateRequest maps the form onto the backend's create-user body.
func (f Form) ToCreateRequest() CreateRequest {
	return CreateRequest{
		Username:  f.Username,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
		Role:      strings.ToLower(f.Role),
		IsActive:  f.Status == string(StatusActive),
	}
}
