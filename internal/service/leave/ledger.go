package leave

import "github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"

// Aggregate folds approver decisions into a verdict: any rejection rejects,
// unanimous approval approves, anything else stays pending. An empty set
// stays pending.
func Aggregate(records []leave.ApprovalRecord) leave.ApprovalStatus {
	if len(records) == 0 {
		return leave.ApprovalStatusPending
	}

	approved := 0
	for _, r := range records {
		switch r.Status {
		case leave.ApprovalStatusRejected:
			return leave.ApprovalStatusRejected
		case leave.ApprovalStatusApproved:
			approved++
		}
	}
	if approved == len(records) {
		return leave.ApprovalStatusApproved
	}
	return leave.ApprovalStatusPending
}
