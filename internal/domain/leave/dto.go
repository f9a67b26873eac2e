package leave

import (
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/validator"
)

type SubmitLeaveRequest struct {
	EmployeeID            string  `json:"employee_id"`
	Type                  string  `json:"type"`
	StartDate             string  `json:"start_date"`
	EndDate               string  `json:"end_date"`
	Reason                string  `json:"reason,omitempty"`
	ReplacementEmployeeID *string `json:"replacement_employee_id,omitempty"`
	MedicalType           *string `json:"medical_type,omitempty"`
	OriginalWorkday       *string `json:"date_of_original_workday,omitempty"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	leaveType := LeaveType(r.Type)
	if !leaveType.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of annual, accidental, medical, unpaid, compensation",
		})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if r.ReplacementEmployeeID != nil {
		if validator.IsEmpty(*r.ReplacementEmployeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   "replacement_employee_id",
				Message: "replacement_employee_id must not be empty",
			})
		} else if *r.ReplacementEmployeeID == r.EmployeeID {
			errs = append(errs, validator.ValidationError{
				Field:   "replacement_employee_id",
				Message: "replacement_employee_id must differ from the requester",
			})
		}
	}

	if leaveType == LeaveTypeCompensation {
		if r.OriginalWorkday == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_original_workday",
				Message: "date_of_original_workday is required for compensation leave",
			})
		} else if _, ok := validator.IsValidDate(*r.OriginalWorkday); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_original_workday",
				Message: "date_of_original_workday must be in YYYY-MM-DD format",
			})
		}
	}

	if leaveType == LeaveTypeMedical && r.MedicalType != nil && validator.IsEmpty(*r.MedicalType) {
		errs = append(errs, validator.ValidationError{
			Field:   "medical_type",
			Message: "medical_type must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitLeaveResponse struct {
	Leave       LeaveRequestResponse `json:"leave"`
	ApproverIDs []string             `json:"approver_ids"`
}

type DecideApprovalRequest struct {
	LeaveID    string  `json:"leave_id"`
	ApproverID string  `json:"approver_id"`
	Status     string  `json:"status"`
	Note       *string `json:"note,omitempty"`
}

func (r *DecideApprovalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_id",
			Message: "leave_id is required",
		})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{
			Field:   "approver_id",
			Message: "approver_id is required",
		})
	}
	status := ApprovalStatus(r.Status)
	if status != ApprovalStatusApproved && status != ApprovalStatusRejected {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be approved or rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DecisionResponse reports the recorded vote and the resulting final status.
// Violation is set when a gate forced the rejection.
type DecisionResponse struct {
	LeaveID        string         `json:"leave_id"`
	ApproverID     string         `json:"approver_id"`
	RecordedStatus ApprovalStatus `json:"recorded_status"`
	FinalStatus    ApprovalStatus `json:"final_status"`
	Violation      *GateViolation `json:"violation,omitempty"`
	Message        string         `json:"message"`
}

type LeaveRequestResponse struct {
	ID                    string     `json:"id"`
	EmployeeID            string     `json:"employee_id"`
	Type                  string     `json:"type"`
	StartDate             time.Time  `json:"start_date"`
	EndDate               time.Time  `json:"end_date"`
	NumDays               int        `json:"num_days"`
	DateOfRequest         time.Time  `json:"date_of_request"`
	FinalApprovalStatus   string     `json:"final_approval_status"`
	RejectionReason       *string    `json:"rejection_reason,omitempty"`
	DecidedAt             *time.Time `json:"decided_at,omitempty"`
	Reason                string     `json:"reason,omitempty"`
	ReplacementEmployeeID *string    `json:"replacement_employee_id,omitempty"`
	MedicalType           *string    `json:"medical_type,omitempty"`
	OriginalWorkday       *time.Time `json:"date_of_original_workday,omitempty"`
}

type ApprovalRecordResponse struct {
	ApproverID string     `json:"approver_id"`
	Status     string     `json:"status"`
	Note       *string    `json:"note,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

type LeaveStatusResponse struct {
	LeaveRequestResponse
	Approvals []ApprovalRecordResponse `json:"approvals"`
}

type PendingApprovalResponse struct {
	LeaveID       string    `json:"leave_id"`
	RequesterID   string    `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	Type          string    `json:"type"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	NumDays       int       `json:"num_days"`
	DateOfRequest time.Time `json:"date_of_request"`
}

// ToResponse maps a request and its optional payload to the API shape.
func ToResponse(request LeaveRequest, payload *Payload) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                  request.ID,
		EmployeeID:          request.EmployeeID,
		Type:                string(request.Type),
		StartDate:           request.StartDate,
		EndDate:             request.EndDate,
		NumDays:             request.NumDays,
		DateOfRequest:       request.DateOfRequest,
		FinalApprovalStatus: string(request.FinalApprovalStatus),
		RejectionReason:     request.RejectionReason,
		DecidedAt:           request.DecidedAt,
	}
	if payload != nil {
		resp.Reason = payload.Reason
		resp.ReplacementEmployeeID = payload.ReplacementEmployeeID
		resp.MedicalType = payload.MedicalType
		resp.OriginalWorkday = payload.OriginalWorkday
	}
	return resp
}
