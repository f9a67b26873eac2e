package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// FullDayMinutes is the expected length of a working day.
const FullDayMinutes = 480

// Attendance is owned by the attendance CRUD module; the HR core only reads it.
type Attendance struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	Date          time.Time  `json:"date"`
	Status        Status     `json:"status"`
	ClockIn       *time.Time `json:"clock_in,omitempty"`
	ClockOut      *time.Time `json:"clock_out,omitempty"`
	TotalDuration *int       `json:"total_duration,omitempty"` // minutes
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MissingMinutes returns how far a recorded day fell short of a full day.
// Records without a duration report false.
func (a Attendance) MissingMinutes() (int, bool) {
	if a.TotalDuration == nil || *a.TotalDuration >= FullDayMinutes {
		return 0, false
	}
	return FullDayMinutes - *a.TotalDuration, true
}
