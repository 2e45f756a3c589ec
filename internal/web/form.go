package web

import (
	"net/http"
	"strconv"
	"strings"

	"teacher-service/internal/teacher"
)

// teacherForm keeps the raw submitted strings so a rejected form can be
// shown again exactly as typed.
type teacherForm struct {
	ID             string
	FirstName      string
	LastName       string
	EmployeeNumber string
	HireDate       string
	Salary         string
	WorkPhone      string
}

func formFromTeacher(t *teacher.Teacher) teacherForm {
	form := teacherForm{
		ID:             strconv.Itoa(t.ID),
		FirstName:      t.FirstName,
		LastName:       t.LastName,
		EmployeeNumber: t.EmployeeNumber,
		HireDate:       t.HireDate.String(),
		Salary:         strconv.FormatFloat(t.Salary, 'f', 2, 64),
	}
	if t.WorkPhone != nil {
		form.WorkPhone = *t.WorkPhone
	}
	return form
}

// parseTeacherForm converts a posted form into a teacher. Fields that cannot
// be converted at all are reported as validation errors; every other rule is
// left to the service.
func parseTeacherForm(r *http.Request) (teacherForm, *teacher.Teacher, error) {
	if err := r.ParseForm(); err != nil {
		return teacherForm{}, nil, &teacher.ValidationError{Message: "Teacher data is required."}
	}

	form := teacherForm{
		ID:             strings.TrimSpace(r.PostForm.Get("id")),
		FirstName:      r.PostForm.Get("firstName"),
		LastName:       r.PostForm.Get("lastName"),
		EmployeeNumber: strings.TrimSpace(r.PostForm.Get("employeeNumber")),
		HireDate:       strings.TrimSpace(r.PostForm.Get("hireDate")),
		Salary:         strings.TrimSpace(r.PostForm.Get("salary")),
		WorkPhone:      r.PostForm.Get("workPhone"),
	}

	t := &teacher.Teacher{
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		EmployeeNumber: form.EmployeeNumber,
	}

	if form.ID != "" {
		id, err := strconv.Atoi(form.ID)
		if err != nil {
			return form, nil, &teacher.ValidationError{Field: "id", Message: "Route id and body id must match."}
		}
		t.ID = id
	}

	if form.HireDate != "" {
		d, err := teacher.ParseDate(form.HireDate)
		if err != nil {
			return form, nil, &teacher.ValidationError{Field: "hireDate", Message: "Hire date must be a valid date (YYYY-MM-DD)."}
		}
		t.HireDate = d
	}

	if form.Salary != "" {
		salary, err := strconv.ParseFloat(form.Salary, 64)
		if err != nil {
			return form, nil, &teacher.ValidationError{Field: "salary", Message: "Salary must be a number."}
		}
		t.Salary = salary
	}

	if _, ok := r.PostForm["workPhone"]; ok {
		phone := form.WorkPhone
		t.WorkPhone = &phone
	}

	return form, t, nil
}
