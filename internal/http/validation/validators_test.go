package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "valid", value: "jdoe", want: ""},
		{name: "empty", value: "", want: "Username is required."},
		{name: "whitespace only", value: "   ", want: "Username is required."},
		{name: "at limit", value: strings.Repeat("a", 10), want: ""},
		{name: "over limit", value: strings.Repeat("a", 11), want: "Username cannot exceed 10 characters."},
		{name: "unicode counted by rune", value: "ñññññññññ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Required("Username", 10)(tt.value))
		})
	}
}

func TestIntRange(t *testing.T) {
	v := IntRange("User ID", 1, 100)
	assert.Empty(t, v("42"))
	assert.Empty(t, v(" 1 "))
	assert.Equal(t, "User ID must be a number.", v("abc"))
	assert.Equal(t, "User ID must be between 1 and 100.", v("0"))
	assert.Equal(t, "User ID must be between 1 and 100.", v("101"))
}

func TestOneOf(t *testing.T) {
	v := OneOf("Active", []string{"true", "false"})
	assert.Empty(t, v("true"))
	assert.Empty(t, v(" FALSE "))
	assert.Equal(t, "Active must be one of: true, false", v("yes"))
	assert.Equal(t, "Active must be one of: true, false", v(""))
}

func TestPattern(t *testing.T) {
	dateRe := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	v := Pattern("Date", dateRe)
	assert.Empty(t, v("2024-03-09"))
	assert.Empty(t, v(""), "empty values are left to Required")
	assert.Equal(t, "Date has an invalid format.", v("03/09/2024"))
}

func TestOptional(t *testing.T) {
	v := Optional("Middle initial", 1)
	assert.Empty(t, v(""))
	assert.Empty(t, v("Q"))
	assert.Equal(t, "Middle initial cannot exceed 1 characters.", v("QR"))
}

func TestFieldValidator(t *testing.T) {
	t.Run("collects one error per field", func(t *testing.T) {
		errs := New().
			Validate("username", "", Required("Username", 150)).
			Validate("password", "secret", Required("Password", 128)).
			Validate("id", "x", IntRange("User ID", 1, 10)).
			Errors()
		assert.Equal(t, map[string]string{
			"username": "Username is required.",
			"id":       "User ID must be a number.",
		}, errs)
	})

	t.Run("stops at first error", func(t *testing.T) {
		errs := New().
			Validate("date", "", Required("Date", 10), Pattern("Date", regexp.MustCompile(`^\d+$`))).
			Errors()
		assert.Equal(t, "Date is required.", errs["date"])
	})

	t.Run("second validator triggers", func(t *testing.T) {
		errs := New().
			Validate("date", "tomorrow", Required("Date", 10), Pattern("Date", regexp.MustCompile(`^\d+$`))).
			Errors()
		assert.Equal(t, "Date has an invalid format.", errs["date"])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, New().Validate("username", "jdoe", Required("Username", 150)).Errors())
	})
}
