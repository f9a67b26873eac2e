package leave

import (
	"testing"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	rec := func(statuses ...leave.ApprovalStatus) []leave.ApprovalRecord {
		out := make([]leave.ApprovalRecord, 0, len(statuses))
		for _, s := range statuses {
			out = append(out, leave.ApprovalRecord{Status: s})
		}
		return out
	}

	tests := []struct {
		name    string
		records []leave.ApprovalRecord
		want    leave.ApprovalStatus
	}{
		{"no records", nil, leave.ApprovalStatusPending},
		{"all pending", rec(leave.ApprovalStatusPending, leave.ApprovalStatusPending), leave.ApprovalStatusPending},
		{"partial approval", rec(leave.ApprovalStatusApproved, leave.ApprovalStatusPending), leave.ApprovalStatusPending},
		{"all approved", rec(leave.ApprovalStatusApproved, leave.ApprovalStatusApproved), leave.ApprovalStatusApproved},
		{"single rejection wins", rec(leave.ApprovalStatusApproved, leave.ApprovalStatusRejected, leave.ApprovalStatusPending), leave.ApprovalStatusRejected},
		{"rejection with pending", rec(leave.ApprovalStatusPending, leave.ApprovalStatusRejected), leave.ApprovalStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.records))
		})
	}
}
