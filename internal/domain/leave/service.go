package leave

import (
	"context"
)

type LeaveService interface {
	SubmitLeave(ctx context.Context, req SubmitLeaveRequest) (SubmitLeaveResponse, error)
	DecideApproval(ctx context.Context, req DecideApprovalRequest) (DecisionResponse, error)
	GetPendingApprovals(ctx context.Context, employeeID string) ([]PendingApprovalResponse, error)
	GetLeaveStatus(ctx context.Context, employeeID string) ([]LeaveStatusResponse, error)
}
