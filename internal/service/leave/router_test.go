package leave

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalRouter_Route(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		requester string
		leaveType leave.LeaveType
		want      []string
	}{
		{"professor annual goes to dean and department HR", "prof", leave.LeaveTypeAnnual, []string{"dean-eng", "hr-eng"}},
		{"dean annual goes to president and department HR", "dean-eng", leave.LeaveTypeAnnual, []string{"pres", "hr-eng"}},
		{"vice dean annual goes to president and department HR", "vdean-eng", leave.LeaveTypeAnnual, []string{"pres", "hr-eng"}},
		{"HR representative annual goes to more senior HR", "hr-eng", leave.LeaveTypeAnnual, []string{"hr-mgr"}},
		{"accidental goes to department HR", "prof", leave.LeaveTypeAccidental, []string{"hr-eng"}},
		{"compensation goes to department HR", "lect", leave.LeaveTypeCompensation, []string{"hr-eng"}},
		{"medical goes to doctors and every HR representative", "prof", leave.LeaveTypeMedical, []string{"doc", "hr-eng", "hr-med"}},
		{"medical never routes to the requester", "hr-eng", leave.LeaveTypeMedical, []string{"doc", "hr-med"}},
		{"unpaid goes to upper board and every HR representative", "prof", leave.LeaveTypeUnpaid, []string{"pres", "dean-eng", "dean-med", "vdean-eng", "hr-mgr", "hr-eng", "hr-med"}},
		{"department without dean or HR yields nobody", "ta", leave.LeaveTypeAnnual, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requester, err := env.dir.GetEmployee(context.Background(), tt.requester)
			require.NoError(t, err)

			got, err := env.router.Route(context.Background(), requester, tt.leaveType)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestApprovalRouter_StableAndUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// a doctor who is also an HR representative is listed once
	require.NoError(t, env.dir.RoleAssignmentRepository.Assign(ctx, employee.RoleAssignment{EmployeeID: "doc", RoleID: "hr_representative_medicine"}))

	prof, err := env.dir.GetEmployee(ctx, "prof")
	require.NoError(t, err)

	first, err := env.router.Route(ctx, prof, leave.LeaveTypeMedical)
	require.NoError(t, err)
	second, err := env.router.Route(ctx, prof, leave.LeaveTypeMedical)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, []string{"doc", "hr-eng", "hr-med"}, first)
}

func TestApprovalRouter_UnknownDepartment(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.router.Route(context.Background(), employee.Employee{ID: "x", DepartmentID: "nowhere"}, leave.LeaveTypeAnnual)
	assert.ErrorIs(t, err, employee.ErrDepartmentNotFound)
}
