package visitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleVisitors() []Visitor {
	return []Visitor{
		{ID: 3, LastName: "Santos", FirstName: "Maria", MiddleInitial: "L", Purpose: "Meeting", Department: "Other", DepartmentOther: "Finance"},
		{ID: 2, LastName: "Reyes", FirstName: "Jose", Purpose: "Other", PurposeOther: "Campus tour", Department: "Registrar"},
		{ID: 1, LastName: "Cruz", FirstName: "Ana", MiddleInitial: "B", Purpose: "Interview", Department: "Human Resources"},
	}
}

func TestVisitor_EffectiveFields(t *testing.T) {
	v := sampleVisitors()
	assert.Equal(t, "Finance", v[0].EffectiveDepartment())
	assert.Equal(t, "Meeting", v[0].EffectivePurpose())
	assert.Equal(t, "Campus tour", v[1].EffectivePurpose())
	assert.Equal(t, "Registrar", v[1].EffectiveDepartment())

	blank := Visitor{Purpose: Other}
	assert.Empty(t, blank.EffectivePurpose())
}

func TestVisitor_DisplayName(t *testing.T) {
	v := sampleVisitors()
	assert.Equal(t, "Santos, Maria L", v[0].DisplayName())
	assert.Equal(t, "Reyes, Jose", v[1].DisplayName())
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []int
	}{
		{"empty term keeps all", "", []int{3, 2, 1}},
		{"department fallback", "finance", []int{3}},
		{"sentinel alone does not match", "other", nil},
		{"purpose fallback", "TOUR", []int{2}},
		{"last then first", "cruz ana", []int{1}},
		{"middle initial", "maria l", []int{3}},
		{"canonical department", "human", []int{1}},
		{"trailing space is literal", "e ", []int{2}},
		{"surrounding space is literal", "  reyes ", nil},
		{"single space matches every name", " ", []int{3, 2, 1}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, v := range Filter(sampleVisitors(), tt.term) {
				got = append(got, v.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistration_Normalize(t *testing.T) {
	r := Registration{
		LastName:        " Doe ",
		FirstName:       "Jane",
		MiddleInitial:   "q",
		Purpose:         "Meeting",
		PurposeOther:    "leftover",
		Department:      Other,
		DepartmentOther: " Library ",
		Date:            "2025-06-01",
		Time:            "09:30",
	}.Normalize()

	assert.Equal(t, "Doe", r.LastName)
	assert.Equal(t, "Q", r.MiddleInitial)
	assert.Empty(t, r.PurposeOther)
	assert.Equal(t, "Library", r.DepartmentOther)
}

func TestRegistration_Validate(t *testing.T) {
	valid := Registration{
		LastName: "Doe", FirstName: "Jane", Purpose: "Meeting",
		Department: "Finance", Date: "2025-06-01", Time: "09:30",
	}
	assert.Empty(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(*Registration)
		field string
	}{
		{"missing last name", func(r *Registration) { r.LastName = "" }, "last_name"},
		{"missing time", func(r *Registration) { r.Time = "" }, "time"},
		{"long middle initial", func(r *Registration) { r.MiddleInitial = "AB" }, "middle_initial"},
		{"unknown purpose", func(r *Registration) { r.Purpose = "Party" }, "purpose"},
		{"other purpose needs text", func(r *Registration) { r.Purpose = Other }, "purpose_other"},
		{"unknown department", func(r *Registration) { r.Department = "" }, "department"},
		{"other department needs text", func(r *Registration) { r.Department = Other }, "department_other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.edit(&r)
			errs := r.Validate()
			assert.Len(t, errs, 1)
			assert.Contains(t, errs, tt.field)
		})
	}
}
