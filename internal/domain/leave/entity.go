package leave

import (
	"time"
)

type LeaveType string

const (
	LeaveTypeAnnual       LeaveType = "annual"
	LeaveTypeAccidental   LeaveType = "accidental"
	LeaveTypeMedical      LeaveType = "medical"
	LeaveTypeUnpaid       LeaveType = "unpaid"
	LeaveTypeCompensation LeaveType = "compensation"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeAccidental, LeaveTypeMedical, LeaveTypeUnpaid, LeaveTypeCompensation:
		return true
	}
	return false
}

// DebitsBalance reports whether approval consumes a leave balance.
func (t LeaveType) DebitsBalance() bool {
	return t == LeaveTypeAnnual || t == LeaveTypeAccidental
}

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// LeaveRequest is created once at submission; only FinalApprovalStatus and
// RejectionReason change afterwards.
type LeaveRequest struct {
	ID                  string         `json:"id"`
	EmployeeID          string         `json:"employee_id"`
	Type                LeaveType      `json:"type"`
	StartDate           time.Time      `json:"start_date"`
	EndDate             time.Time      `json:"end_date"`
	NumDays             int            `json:"num_days"`
	DateOfRequest       time.Time      `json:"date_of_request"`
	FinalApprovalStatus ApprovalStatus `json:"final_approval_status"`
	RejectionReason     *string        `json:"rejection_reason,omitempty"`
	DecidedAt           *time.Time     `json:"decided_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Payload holds the type-specific fields of a leave, stored under the leave id.
type Payload struct {
	LeaveID               string     `json:"leave_id"`
	Reason                string     `json:"reason,omitempty"`
	ReplacementEmployeeID *string    `json:"replacement_employee_id,omitempty"`
	MedicalType           *string    `json:"medical_type,omitempty"`
	OriginalWorkday       *time.Time `json:"date_of_original_workday,omitempty"`
}

// ApprovalRecord is one approver's decision on one leave.
type ApprovalRecord struct {
	LeaveID    string         `json:"leave_id"`
	ApproverID string         `json:"approver_id"`
	Status     ApprovalStatus `json:"status"`
	Note       *string        `json:"note,omitempty"`
	DecidedAt  *time.Time     `json:"decided_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	s := truncateDay(start)
	e := truncateDay(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
