package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		Username:  "jdoe",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jdoe@x.com",
		Password:  "p1",
		Role:      "admin",
		Status:    "Active",
	}
}

func TestForm_UpdateIsShallow(t *testing.T) {
	f := validForm()
	require.NoError(t, f.Update(FieldEmail, "jane@example.org"))

	want := validForm()
	want.Email = "jane@example.org"
	assert.Equal(t, want, f)
}

func TestForm_UpdateUnknownField(t *testing.T) {
	f := validForm()
	err := f.Update(Field("first_name"), "x")
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, validForm(), f)

	_, err = ParseField("nope")
	require.ErrorIs(t, err, ErrUnknownField)

	field, err := ParseField("lastName")
	require.NoError(t, err)
	assert.Equal(t, FieldLastName, field)
}

func TestForm_ValidateEmptyFields(t *testing.T) {
	for _, spec := range Specs {
		for _, blank := range []string{"", "   ", "\t\n"} {
			f := validForm()
			require.NoError(t, f.Update(spec.Field, blank))
			assert.Equal(t, EmptyFields, f.Validate(), "field %s blank %q", spec.Field, blank)
		}
	}

	// blank wins over a bad email
	f := validForm()
	f.Email = "not-an-email"
	f.Password = ""
	assert.Equal(t, EmptyFields, f.Validate())
}

func TestForm_ValidateInvalidSelection(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		status string
	}{
		{"placeholder role", "Select Role", "Active"},
		{"placeholder status", "admin", "Select Status"},
		{"capitalised role", "Admin", "Active"},
		{"lowercase status", "admin", "active"},
		{"unknown role", "visitor", "Inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			f.Role = tt.role
			f.Status = tt.status
			f.Email = "broken"
			assert.Equal(t, InvalidSelection, f.Validate())
		})
	}

	// an empty selection is blank, and blanks are reported first
	f := validForm()
	f.Role = ""
	assert.Equal(t, EmptyFields, f.Validate())
}

func TestForm_ValidateInvalidEmail(t *testing.T) {
	bad := []string{
		"plain",
		"no-at.example.com",
		"two@@x.com",
		"user@nodot",
		"us er@x.com",
		"user@x .com",
		"@x.com",
		"user@.",
	}
	for _, email := range bad {
		f := validForm()
		f.Email = email
		assert.Equal(t, InvalidEmail, f.Validate(), email)
		assert.Equal(t, "Please enter a valid email address", f.Validate().Message())
	}

	for _, email := range []string{"a@b.c", "first.last+tag@sub.example.org"} {
		f := validForm()
		f.Email = email
		assert.Equal(t, OK, f.Validate(), email)
	}
}

func TestForm_Clear(t *testing.T) {
	f := validForm()
	f.Clear()
	assert.True(t, f.IsZero())
	assert.Equal(t, EmptyFields, f.Validate())
}

func TestForm_ToCreateRequest(t *testing.T) {
	f := validForm()
	require.Equal(t, OK, f.Validate())

	body, err := json.Marshal(f.ToCreateRequest())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"username":"jdoe","first_name":"Jane","last_name":"Doe","email":"jdoe@x.com","password":"p1","role":"admin","is_active":true}`,
		string(body),
	)

	f.Status = string(StatusInactive)
	f.Role = "RECEPTIONIST"
	req := f.ToCreateRequest()
	assert.False(t, req.IsActive)
	assert.Equal(t, "receptionist", req.Role)
}

func TestOutcome_Err(t *testing.T) {
	assert.NoError(t, OK.Err())

	var vErr *ValidationError
	require.ErrorAs(t, EmptyFields.Err(), &vErr)
	assert.Equal(t, EmptyFields, vErr.Outcome)
	assert.Equal(t, "Please fill in all fields", vErr.Error())
	assert.Equal(t, "Please select a valid role and status", InvalidSelection.Message())
}
