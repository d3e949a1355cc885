package testutil

import (
	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/domain/visitor"
)

// UserFormBuilder provides a fluent interface for building add-user forms for testing.
type UserFormBuilder struct {
	form user.Form
}

// NewUserForm creates a UserFormBuilder that starts from a valid form.
func NewUserForm() *UserFormBuilder {
	return &UserFormBuilder{
		form: user.Form{
			Username:  "jdoe",
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jdoe@x.com",
			Password:  "p1",
			Role:      string(user.RoleAdmin),
			Status:    string(user.StatusActive),
		},
	}
}

// With sets one field.
func (b *UserFormBuilder) With(field user.Field, value string) *UserFormBuilder {
	_ = b.form.Update(field, value)
	return b
}

// WithRole sets the role.
func (b *UserFormBuilder) WithRole(role string) *UserFormBuilder {
	return b.With(user.FieldRole, role)
}

// WithStatus sets the status.
func (b *UserFormBuilder) WithStatus(status string) *UserFormBuilder {
	return b.With(user.FieldStatus, status)
}

// Build returns the form.
func (b *UserFormBuilder) Build() user.Form { return b.form }

// Values returns the form as posted form values keyed by field name.
func (b *UserFormBuilder) Values() map[string]string {
	out := make(map[string]string, len(user.Specs))
	for _, spec := range user.Specs {
		out[string(spec.Field)] = b.form.Get(spec.Field)
	}
	return out
}

// Fields returns the form keyed by typed field.
func (b *UserFormBuilder) Fields() map[user.Field]string {
	out := make(map[user.Field]string, len(user.Specs))
	for _, spec := range user.Specs {
		out[spec.Field] = b.form.Get(spec.Field)
	}
	return out
}

// VisitorBuilder provides a fluent interface for building visitors for testing.
type VisitorBuilder struct {
	v visitor.Visitor
}

// NewVisitor creates a VisitorBuilder with sensible defaults.
func NewVisitor(id int) *VisitorBuilder {
	return &VisitorBuilder{
		v: visitor.Visitor{
			ID:         id,
			LastName:   "Cruz",
			FirstName:  "Ana",
			Purpose:    "Meeting",
			Department: "Registrar",
			Date:       "2025-06-01",
			Time:       "09:30:00",
		},
	}
}

// Named sets the name parts.
func (b *VisitorBuilder) Named(last, first, middle string) *VisitorBuilder {
	b.v.LastName, b.v.FirstName, b.v.MiddleInitial = last, first, middle
	return b
}

// WithPurpose sets the purpose; "Other" takes the free-text override.
func (b *VisitorBuilder) WithPurpose(purpose, other string) *VisitorBuilder {
	b.v.Purpose, b.v.PurposeOther = purpose, other
	return b
}

// WithDepartment sets the department; "Other" takes the free-text override.
func (b *VisitorBuilder) WithDepartment(department, other string) *VisitorBuilder {
	b.v.Department, b.v.DepartmentOther = department, other
	return b
}

// Build returns the visitor.
func (b *VisitorBuilder) Build() visitor.Visitor { return b.v }
