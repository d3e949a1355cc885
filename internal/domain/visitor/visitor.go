// Package visitor models visitor appointments as the backend reports them
// and the registration form used to create them.
package visitor

import (
	"strings"

	"github.com/samber/lo"
)

// Other is the sentinel choice that defers to a free-text field.
const Other = "Other"

// Visitor is a read-only visitor appointment.
type Visitor struct {
	ID              int    `json:"id"`
	LastName        string `json:"last_name"`
	FirstName       string `json:"first_name"`
	MiddleInitial   string `json:"middle_initial"`
	Purpose         string `json:"purpose"`
	PurposeOther    string `json:"purpose_other"`
	Department      string `json:"department"`
	DepartmentOther string `json:"department_other"`
	Date            string `json:"date"`
	Time            string `json:"time"`
}

// EffectivePurpose returns the free-text purpose when Purpose is Other.
func (v Visitor) EffectivePurpose() string {
	return effective(v.Purpose, v.PurposeOther)
}

// EffectiveDepartment returns the free-text department when Department is Other.
func (v Visitor) EffectiveDepartment() string {
	return effective(v.Department, v.DepartmentOther)
}

// DisplayName renders "Last, First M".
func (v Visitor) DisplayName() string {
	name := v.LastName + ", " + v.FirstName
	if v.MiddleInitial != "" {
		name += " " + v.MiddleInitial
	}
	return name
}

// Matches reports whether term is a case-insensitive substring of the
// name ("last first middle"), the effective purpose or the effective
// department. Whitespace in term is significant.
func (v Visitor) Matches(term string) bool {
	term = strings.ToLower(term)
	if term == "" {
		return true
	}
	name := strings.ToLower(v.LastName + " " + v.FirstName + " " + v.MiddleInitial)
	return strings.Contains(name, term) ||
		strings.Contains(strings.ToLower(v.EffectivePurpose()), term) ||
		strings.Contains(strings.ToLower(v.EffectiveDepartment()), term)
}

// Filter returns the visitors matching term, preserving order.
func Filter(visitors []Visitor, term string) []Visitor {
	if term == "" {
		return visitors
	}
	return lo.Filter(visitors, func(v Visitor, _ int) bool { return v.Matches(term) })
}

func effective(value, other string) string {
	if value == Other {
		return other
	}
	return value
}
