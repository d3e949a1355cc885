package visitor

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Purposes are the canned visit purposes offered by the registration form.
var Purposes = []string{"Meeting", "Interview", "Delivery", "Enrollment", "Inquiry", Other}

// Departments are the canned departments offered by the registration form.
var Departments = []string{"Registrar", "Admissions", "Finance", "Human Resources", "IT Services", Other}

// Registration is the JSON body of POST /api/visitor/.
type Registration struct {
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

// Normalize trims input and drops free-text overrides that do not apply.
func (r Registration) Normalize() Registration {
	out := Registration{
		LastName:        strings.TrimSpace(r.LastName),
		FirstName:       strings.TrimSpace(r.FirstName),
		MiddleInitial:   strings.ToUpper(strings.TrimSpace(r.MiddleInitial)),
		Purpose:         strings.TrimSpace(r.Purpose),
		PurposeOther:    strings.TrimSpace(r.PurposeOther),
		Department:      strings.TrimSpace(r.Department),
		DepartmentOther: strings.TrimSpace(r.DepartmentOther),
		Date:            strings.TrimSpace(r.Date),
		Time:            strings.TrimSpace(r.Time),
	}
	if out.Purpose != Other {
		out.PurposeOther = ""
	}
	if out.Department != Other {
		out.DepartmentOther = ""
	}
	return out
}

// Validate reports problems per JSON field name. An empty map means the
// registration can be sent. Call it on a normalized value.
func (r Registration) Validate() map[string]string {
	errs := map[string]string{}
	required := map[string]string{
		"last_name":  r.LastName,
		"first_name": r.FirstName,
		"date":       r.Date,
		"time":       r.Time,
	}
	for field, v := range required {
		if v == "" {
			errs[field] = "This field is required."
		}
	}
	if utf8.RuneCountInString(r.MiddleInitial) > 1 {
		errs["middle_initial"] = "Use a single letter."
	}
	switch {
	case !lo.Contains(Purposes, r.Purpose):
		errs["purpose"] = "Select a purpose."
	case r.Purpose == Other && r.PurposeOther == "":
		errs["purpose_other"] = "Describe the purpose."
	}
	switch {
	case !lo.Contains(Departments, r.Department):
		errs["department"] = "Select a department."
	case r.Department == Other && r.DepartmentOther == "":
		errs["department_other"] = "Name the department."
	}
	return errs
}
