package teacher

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var employeeNumberPattern = regexp.MustCompile(`^T[0-9]+$`)

// MaxStorableSalary is the largest value of the DECIMAL(10,2) salary column.
const MaxStorableSalary = 99999999.99

var fieldLabels = map[string]string{
	"firstName":      "First name",
	"lastName":       "Last name",
	"employeeNumber": "Employee number",
	"hireDate":       "Hire date",
	"salary":         "Salary",
	"workPhone":      "Work phone",
}

// Mode selects create or update validation. The zero value is create.
type Mode struct {
	update   bool
	targetID int
}

func ForCreate() Mode {
	return Mode{}
}

func ForUpdate(id int) Mode {
	return Mode{update: true, targetID: id}
}

func (m Mode) IsUpdate() bool { return m.update }

func (m Mode) TargetID() int { return m.targetID }

// EmployeeNumberLookup answers whether an employee number belongs to a record
// other than excludeID. excludeID 0 excludes nothing.
type EmployeeNumberLookup interface {
	EmployeeNumberTaken(ctx context.Context, employeeNumber string, excludeID int) (bool, error)
}

type Validator struct {
	validate  *validator.Validate
	now       func() time.Time
	salaryMax float64
}

type Option func(*Validator)

// WithClock replaces the server clock used for the hire date rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithSalaryMax caps salary from above. Zero or negative leaves only the
// column limit, MaxStorableSalary.
func WithSalaryMax(max float64) Option {
	return func(v *Validator) { v.salaryMax = max }
}

func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}
		return nil
	}, Date{})

	// Registration only fails on empty tags or nil funcs.
	_ = v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.validate.RegisterValidation("empno", func(fl validator.FieldLevel) bool {
		return employeeNumberPattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !DateOf(t).After(v.today())
	})
	_ = v.validate.RegisterValidation("salary", func(fl validator.FieldLevel) bool {
		s := fl.Field().Float()
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			return false
		}
		return s <= v.maxSalary()
	})

	return v
}

// maxSalary is the configured cap, never above what the salary column holds.
func (v *Validator) maxSalary() float64 {
	if v.salaryMax > 0 && v.salaryMax < MaxStorableSalary {
		return v.salaryMax
	}
	return MaxStorableSalary
}

func (v *Validator) today() Date {
	return DateOf(v.now().UTC())
}

// Validate runs the static checks and then the stateful uniqueness check.
func (v *Validator) Validate(ctx context.Context, lookup EmployeeNumberLookup, t *Teacher, mode Mode) error {
	if err := v.Check(t, mode); err != nil {
		return err
	}
	return v.CheckUnique(ctx, lookup, t, mode)
}

// Check applies the pure field rules and returns the first failure as a
// *ValidationError.
func (v *Validator) Check(t *Teacher, mode Mode) error {
	if t == nil {
		return &ValidationError{Message: "Teacher data is required."}
	}

	var first validator.FieldError
	if err := v.validate.Struct(t); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok || len(fieldErrs) == 0 {
			return &ValidationError{Message: err.Error()}
		}
		first = fieldErrs[0]
	}

	if first != nil && first.Field() != "workPhone" {
		return &ValidationError{Field: first.Field(), Message: v.describe(first)}
	}

	if mode.update && t.ID != 0 && t.ID != mode.targetID {
		return &ValidationError{Field: "id", Message: "Route id and body id must match."}
	}

	if first != nil {
		return &ValidationError{Field: first.Field(), Message: v.describe(first)}
	}
	return nil
}

// CheckUnique rejects an employee number that belongs to a different record.
func (v *Validator) CheckUnique(ctx context.Context, lookup EmployeeNumberLookup, t *Teacher, mode Mode) error {
	excludeID := 0
	if mode.update {
		excludeID = mode.targetID
	}

	taken, err := lookup.EmployeeNumberTaken(ctx, t.EmployeeNumber, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &ConflictError{Field: "employeeNumber"}
	}
	return nil
}

func (v *Validator) describe(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s can't be longer than %s characters.", label, fe.Param())
	case "empno":
		return "Employee number must start with 'T' followed by digits (e.g., T5005)."
	case "notfuture":
		return "Hire date cannot be in the future."
	case "salary":
		s := fe.Value()
		if v.salaryMax > 0 {
			return fmt.Sprintf("Salary must be between 0 and %s.", formatAmount(v.maxSalary()))
		}
		if f, ok := s.(float64); ok && (f < 0 || math.IsNaN(f)) {
			return "Salary must be >= 0."
		}
		return fmt.Sprintf("Salary can't be more than %s.", formatAmount(MaxStorableSalary))
	default:
		return label + " is invalid."
	}
}

func formatAmount(amount float64) string {
	p := message.NewPrinter(language.English)
	if amount == math.Trunc(amount) {
		return p.Sprintf("%d", int64(amount))
	}
	return p.Sprintf("%.2f", amount)
}
