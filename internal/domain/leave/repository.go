package leave

import (
	"context"
)

// LeaveRequestRepository - leave requests keyed by id
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployeeID(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	// TransitionStatus moves a pending request to a terminal status. It fails
	// with ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	TransitionStatus(ctx context.Context, id string, to ApprovalStatus, reason *string) (LeaveRequest, error)
}

// PayloadRepository - type-specific leave fields keyed by leave id
type PayloadRepository interface {
	Save(ctx context.Context, payload Payload) error
	GetByLeaveID(ctx context.Context, leaveID string) (Payload, error)
}

// ApprovalRepository - one record per (leave, approver)
type ApprovalRepository interface {
	CreateBatch(ctx context.Context, records []ApprovalRecord) error
	Get(ctx context.Context, leaveID, approverID string) (ApprovalRecord, error)
	// Record overwrites the approver's decision (last write wins).
	Record(ctx context.Context, record ApprovalRecord) error
	ListByLeaveID(ctx context.Context, leaveID string) ([]ApprovalRecord, error)
	ListByApproverID(ctx context.Context, approverID string) ([]ApprovalRecord, error)
}
