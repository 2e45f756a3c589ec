package teacher

import "github.com/uptrace/bun"

// Teacher is the sole persisted entity. ID is assigned by storage on insert.
// A nil WorkPhone means "not provided"; an empty string means "cleared".
type Teacher struct {
	bun.BaseModel `bun:"table:teachers,alias:t"`

	ID             int     `bun:"id,pk,autoincrement" json:"id"`
	FirstName      string  `bun:"first_name,type:varchar(100),notnull" json:"firstName" validate:"notblank,max=100"`
	LastName       string  `bun:"last_name,type:varchar(100),notnull" json:"lastName" validate:"notblank,max=100"`
	EmployeeNumber string  `bun:"employee_number,type:varchar(32),notnull,unique" json:"employeeNumber" validate:"required,empno,max=32"`
	HireDate       Date    `bun:"hire_date,type:date,notnull" json:"hireDate" validate:"required,notfuture"`
	Salary         float64 `bun:"salary,type:decimal(10,2),notnull" json:"salary" validate:"salary"`
	WorkPhone      *string `bun:"work_phone,type:varchar(255)" json:"workPhone" validate:"omitempty,max=255"`
}

// columns is the fixed column set read back from the teachers table.
var columns = []string{
	"id", "first_name", "last_name", "employee_number", "hire_date", "salary", "work_phone",
}

// mutableColumns are replaced by an update; id never changes.
var mutableColumns = []string{
	"first_name", "last_name", "employee_number", "hire_date", "salary", "work_phone",
}
