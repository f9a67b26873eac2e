package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines the read access the HR core needs to attendance records.
type AttendanceRepository interface {
	// Save stores a record; one record per employee per day.
	Save(ctx context.Context, a Attendance) error

	// GetByEmployeeAndDate retrieves attendance for specific employee on specific date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// ListByEmployeeBetween returns records with from <= date <= to, ordered by date
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
}
