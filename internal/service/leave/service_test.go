package leave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annual(employeeID, start, end string) leave.SubmitLeaveRequest {
	return leave.SubmitLeaveRequest{EmployeeID: employeeID, Type: string(leave.LeaveTypeAnnual), StartDate: start, EndDate: end}
}

func TestSubmitLeave_InclusiveDays(t *testing.T) {
	env := newTestEnv(t)

	five := env.submit(t, annual("prof", "2025-03-17", "2025-03-21"))
	assert.Equal(t, 5, five.Leave.NumDays)
	assert.Equal(t, string(leave.ApprovalStatusPending), five.Leave.FinalApprovalStatus)
	assert.ElementsMatch(t, []string{"dean-eng", "hr-eng"}, five.ApproverIDs)
	assert.Equal(t, testNow, five.Leave.DateOfRequest)

	one := env.submit(t, annual("prof", "2025-03-17", "2025-03-17"))
	assert.Equal(t, 1, one.Leave.NumDays)
}

func TestSubmitLeave_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.SubmitLeave(ctx, annual("prof", "2025-03-21", "2025-03-17"))
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = env.service.SubmitLeave(ctx, annual("ghost", "2025-03-17", "2025-03-17"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	req := annual("prof", "2025-03-17", "2025-03-17")
	req.ReplacementEmployeeID = strPtr("ghost")
	_, err = env.service.SubmitLeave(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	comp := leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "compensation", StartDate: "2025-03-17", EndDate: "2025-03-17"}
	_, err = env.service.SubmitLeave(ctx, comp)
	assert.True(t, errors.As(err, &verrs))
}

func TestSubmitLeave_EmptyApproverSetStaysPending(t *testing.T) {
	env := newTestEnv(t)
	resp := env.submit(t, annual("ta", "2025-03-17", "2025-03-18"))
	assert.Empty(t, resp.ApproverIDs)

	statuses, err := env.service.GetLeaveStatus(context.Background(), "ta")
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, string(leave.ApprovalStatusPending), statuses[0].FinalApprovalStatus)
	assert.Empty(t, statuses[0].Approvals)
}

func TestSubmitLeave_FailedApprovalWriteHidesRequest(t *testing.T) {
	store := &failingStore{Memory: kvstore.NewMemory(), failPrefix: "approval/", allow: 1}
	env := newTestEnvWithStore(t, store)
	ctx := context.Background()

	_, err := env.service.SubmitLeave(ctx, annual("prof", "2025-03-17", "2025-03-18"))
	require.Error(t, err)

	requests, err := env.leaves.ListByEmployeeID(ctx, "prof")
	require.NoError(t, err)
	assert.Empty(t, requests)

	for _, approverID := range []string{"dean-eng", "hr-eng"} {
		pending, err := env.service.GetPendingApprovals(ctx, approverID)
		require.NoError(t, err)
		assert.Empty(t, pending, approverID)
	}

	statuses, err := env.service.GetLeaveStatus(ctx, "prof")
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestDecideApproval_AllApprovedDebitsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	submitted := env.submit(t, annual("prof", "2025-03-17", "2025-03-21"))

	first := env.decide(t, submitted.Leave.ID, "dean-eng", leave.ApprovalStatusApproved)
	assert.Equal(t, leave.ApprovalStatusPending, first.FinalStatus)
	assert.Equal(t, leave.ApprovalStatusApproved, first.RecordedStatus)
	annualBalance, _ := env.balances(t, "prof")
	assert.Equal(t, 10, annualBalance)

	second := env.decide(t, submitted.Leave.ID, "hr-eng", leave.ApprovalStatusApproved)
	assert.Equal(t, leave.ApprovalStatusApproved, second.FinalStatus)
	assert.Nil(t, second.Violation)
	annualBalance, _ = env.balances(t, "prof")
	assert.Equal(t, 5, annualBalance)

	// replaying any decision on a settled request changes nothing
	for _, approver := range []string{"hr-eng", "dean-eng"} {
		_, err := env.service.DecideApproval(ctx, leave.DecideApprovalRequest{LeaveID: submitted.Leave.ID, ApproverID: approver, Status: "approved"})
		assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	}
	annualBalance, _ = env.balances(t, "prof")
	assert.Equal(t, 5, annualBalance)
}

func TestDecideApproval_RejectionWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	submitted := env.submit(t, annual("prof", "2025-03-17", "2025-03-18"))

	env.decide(t, submitted.Leave.ID, "dean-eng", leave.ApprovalStatusApproved)
	resp := env.decide(t, submitted.Leave.ID, "hr-eng", leave.ApprovalStatusRejected)
	assert.Equal(t, leave.ApprovalStatusRejected, resp.FinalStatus)
	assert.Nil(t, resp.Violation)

	_, err := env.service.DecideApproval(ctx, leave.DecideApprovalRequest{LeaveID: submitted.Leave.ID, ApproverID: "hr-eng", Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	annualBalance, _ := env.balances(t, "prof")
	assert.Equal(t, 10, annualBalance)

	stored, err := env.leaves.GetByID(ctx, submitted.Leave.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RejectionReason)
}

func TestDecideApproval_LastWriteWinsWhilePending(t *testing.T) {
	env := newTestEnv(t)
	submitted := env.submit(t, annual("prof", "2025-03-17", "2025-03-18"))

	env.decide(t, submitted.Leave.ID, "dean-eng", leave.ApprovalStatusApproved)
	env.decide(t, submitted.Leave.ID, "dean-eng", leave.ApprovalStatusApproved)
	resp := env.decide(t, submitted.Leave.ID, "hr-eng", leave.ApprovalStatusApproved)
	assert.Equal(t, leave.ApprovalStatusApproved, resp.FinalStatus)

	annualBalance, _ := env.balances(t, "prof")
	assert.Equal(t, 8, annualBalance)
}

func TestDecideApproval_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	submitted := env.submit(t, annual("prof", "2025-03-17", "2025-03-18"))

	_, err := env.service.DecideApproval(ctx, leave.DecideApprovalRequest{LeaveID: submitted.Leave.ID, ApproverID: "doc", Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrApprovalRecordNotFound)

	_, err = env.service.DecideApproval(ctx, leave.DecideApprovalRequest{LeaveID: "missing", ApproverID: "doc", Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = env.service.DecideApproval(ctx, leave.DecideApprovalRequest{LeaveID: submitted.Leave.ID, ApproverID: "dean-eng", Status: "pending"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestDecideApproval_AnnualBalanceGate(t *testing.T) {
	env := newTestEnv(t)
	submitted := env.submit(t, annual("prof", "2025-03-03", "2025-03-14"))
	require.Equal(t, 12, submitted.Leave.NumDays)

	resp := env.decide(t, submitted.Leave.ID, "dean-eng", leave.ApprovalStatusApproved)
	assert.Equal(t, leave.ApprovalStatusRejected, resp.FinalStatus)
	assert.Equal(t, leave.ApprovalStatusRejected, resp.RecordedStatus)
	require.NotNil(t, resp.Violation)
	assert.Equal(t, leave.GateBalance, resp.Violation.Gate)

	annualBalance, _ := env.balances(t, "prof")
	assert.Equal(t, 10, annualBalance)
}

func TestDecideApproval_AccidentalGates(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantStatus leave.ApprovalStatus
		wantGate   leave.Gate
		wantLeft   int
	}{
		{"one day within 48h is approved", "2025-03-11", "2025-03-11", leave.ApprovalStatusApproved, "", 1},
		{"two days are rejected", "2025-03-11", "2025-03-12", leave.ApprovalStatusRejected, leave.GateAccidentalShape, 2},
		{"one day far ahead is rejected", "2025-03-20", "2025-03-20", leave.ApprovalStatusRejected, leave.GateAccidentalShape, 2},
		{"one day in the past beyond 48h is rejected", "2025-03-05", "2025-03-05", leave.ApprovalStatusRejected, leave.GateAccidentalShape, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			submitted := env.submit(t, leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "accidental", StartDate: tt.start, EndDate: tt.end})

			resp := env.decide(t, submitted.Leave.ID, "hr-eng", leave.ApprovalStatusApproved)
			assert.Equal(t, tt.wantStatus, resp.FinalStatus)
			if tt.wantGate != "" {
				require.NotNil(t, resp.Violation)
				assert.Equal(t, tt.wantGate, resp.Violation.Gate)
			}

			_, accidental := env.balances(t, "prof")
			assert.Equal(t, tt.wantLeft, accidental)
		})
	}
}

func TestDecideApproval_UnpaidGates(t *testing.T) {
	env := newTestEnv(t)

	long := env.submit(t, leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "unpaid", StartDate: "2025-04-01", EndDate: "2025-05-01"})
	require.Equal(t, 31, long.Leave.NumDays)
	resp := env.decide(t, long.Leave.ID, long.ApproverIDs[0], leave.ApprovalStatusApproved)
	assert.Equal(t, leave.ApprovalStatusRejected, resp.FinalStatus)
	require.NotNil(t, resp.Violation)
	assert.Equal(t, leave.GateUnpaidCap, resp.Violation.Gate)

	first := env.submit(t, leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "unpaid", StartDate: "2025-04-01", EndDate: "2025-04-30"})
	second := env.submit(t, leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "unpaid", StartDate: "2025-11-03", EndDate: "2025-11-07"})
	nextYear := env.submit(t, leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "unpaid", StartDate: "2026-01-05", EndDate: "2026-01-09"})

	resp = env.approveAll(t, first)
	assert.Equal(t, leave.ApprovalStatusApproved, resp.FinalStatus)

	resp = env.decide(t, second.Leave.ID, second.ApproverIDs[0], leave.ApprovalStatusApproved)
	assert.Equal(t, leave.ApprovalStatusRejected, resp.FinalStatus)
	require.NotNil(t, resp.Violation)
	assert.Equal(t, leave.GateUnpaidYearly, resp.Violation.Gate)

	resp = env.approveAll(t, nextYear)
	assert.Equal(t, leave.ApprovalStatusApproved, resp.FinalStatus)

	annualBalance, accidental := env.balances(t, "prof")
	assert.Equal(t, 10, annualBalance)
	assert.Equal(t, 2, accidental)
}

func TestDecideApproval_ConcurrentUnpaidLeavesRespectYearlyCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	leaves := []leave.SubmitLeaveResponse{
		env.submit(t, leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "unpaid", StartDate: "2025-04-07", EndDate: "2025-04-11"}),
		env.submit(t, leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "unpaid", StartDate: "2025-09-01", EndDate: "2025-09-05"}),
	}
	for _, submitted := range leaves {
		require.NotEmpty(t, submitted.ApproverIDs)
		for _, approverID := range submitted.ApproverIDs[:len(submitted.ApproverIDs)-1] {
			resp := env.decide(t, submitted.Leave.ID, approverID, leave.ApprovalStatusApproved)
			require.Equal(t, leave.ApprovalStatusPending, resp.FinalStatus)
		}
	}

	results := make([]leave.DecisionResponse, len(leaves))
	var wg sync.WaitGroup
	for i, submitted := range leaves {
		i, submitted := i, submitted
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := env.service.DecideApproval(ctx, leave.DecideApprovalRequest{
				LeaveID:    submitted.Leave.ID,
				ApproverID: submitted.ApproverIDs[len(submitted.ApproverIDs)-1],
				Status:     "approved",
			})
			assert.NoError(t, err)
			results[i] = resp
		}()
	}
	wg.Wait()

	approved, rejected := 0, 0
	for _, resp := range results {
		switch resp.FinalStatus {
		case leave.ApprovalStatusApproved:
			approved++
		case leave.ApprovalStatusRejected:
			rejected++
			require.NotNil(t, resp.Violation)
			assert.Equal(t, leave.GateUnpaidYearly, resp.Violation.Gate)
		}
	}
	assert.Equal(t, 1, approved)
	assert.Equal(t, 1, rejected)
}

func TestDecideApproval_CompensationGates(t *testing.T) {
	ctx := context.Background()

	compensation := func(start, workday, replacement string) leave.SubmitLeaveRequest {
		req := leave.SubmitLeaveRequest{
			EmployeeID:      "prof",
			Type:            "compensation",
			StartDate:       start,
			EndDate:         start,
			OriginalWorkday: strPtr(workday),
		}
		if replacement != "" {
			req.ReplacementEmployeeID = strPtr(replacement)
		}
		return req
	}

	tests := []struct {
		name       string
		worked     *int
		req        leave.SubmitLeaveRequest
		wantStatus leave.ApprovalStatus
		wantGate   leave.Gate
	}{
		{"full day, same month, replacement off that weekday", minutes(480), compensation("2025-03-17", "2025-03-08", "lect"), leave.ApprovalStatusApproved, ""},
		{"400 minute workday is rejected", minutes(400), compensation("2025-03-17", "2025-03-08", "lect"), leave.ApprovalStatusRejected, leave.GateWorkHours},
		{"missing attendance is rejected", nil, compensation("2025-03-17", "2025-03-08", "lect"), leave.ApprovalStatusRejected, leave.GateWorkHours},
		{"different month is rejected", minutes(480), compensation("2025-04-07", "2025-03-08", "lect"), leave.ApprovalStatusRejected, leave.GateSameMonth},
		{"no replacement named is approved", minutes(480), compensation("2025-03-17", "2025-03-08", ""), leave.ApprovalStatusApproved, ""},
		{"no replacement named still needs a full day", minutes(400), compensation("2025-03-17", "2025-03-08", ""), leave.ApprovalStatusRejected, leave.GateWorkHours},
		{"replacement works that weekday", minutes(480), compensation("2025-03-18", "2025-03-08", "lect"), leave.ApprovalStatusRejected, leave.GateReplacementDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.worked != nil {
				require.NoError(t, env.attendance.Save(ctx, attendance.Attendance{
					EmployeeID:    "prof",
					Date:          time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC),
					Status:        attendance.StatusPresent,
					TotalDuration: tt.worked,
				}))
			}
			submitted := env.submit(t, tt.req)
			require.Equal(t, []string{"hr-eng"}, submitted.ApproverIDs)

			resp := env.decide(t, submitted.Leave.ID, "hr-eng", leave.ApprovalStatusApproved)
			assert.Equal(t, tt.wantStatus, resp.FinalStatus)
			if tt.wantGate != "" {
				require.NotNil(t, resp.Violation)
				assert.Equal(t, tt.wantGate, resp.Violation.Gate)
			}
		})
	}
}

func TestDecideApproval_MedicalHasNoGates(t *testing.T) {
	env := newTestEnv(t)
	submitted := env.submit(t, leave.SubmitLeaveRequest{EmployeeID: "prof", Type: "medical", StartDate: "2025-03-10", EndDate: "2025-03-30", MedicalType: strPtr("surgery")})
	require.Equal(t, 21, submitted.Leave.NumDays)

	resp := env.approveAll(t, submitted)
	assert.Equal(t, leave.ApprovalStatusApproved, resp.FinalStatus)

	annualBalance, accidental := env.balances(t, "prof")
	assert.Equal(t, 10, annualBalance)
	assert.Equal(t, 2, accidental)
}

func TestDecideApproval_ConcurrentDecisionsDebitOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	submitted := env.submit(t, annual("prof", "2025-03-17", "2025-03-19"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		approver := submitted.ApproverIDs[i%len(submitted.ApproverIDs)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.DecideApproval(ctx, leave.DecideApprovalRequest{LeaveID: submitted.Leave.ID, ApproverID: approver, Status: "approved"})
			if err != nil {
				assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
			}
		}()
	}
	wg.Wait()

	stored, err := env.leaves.GetByID(ctx, submitted.Leave.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.ApprovalStatusApproved, stored.FinalApprovalStatus)

	annualBalance, _ := env.balances(t, "prof")
	assert.Equal(t, 7, annualBalance)
}

func TestGetPendingApprovalsAndStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	submitted := env.submit(t, annual("prof", "2025-03-17", "2025-03-18"))

	pending, err := env.service.GetPendingApprovals(ctx, "dean-eng")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, submitted.Leave.ID, pending[0].LeaveID)
	assert.Equal(t, "prof", pending[0].RequesterName)

	env.decide(t, submitted.Leave.ID, "dean-eng", leave.ApprovalStatusApproved)

	pending, err = env.service.GetPendingApprovals(ctx, "dean-eng")
	require.NoError(t, err)
	assert.Empty(t, pending)

	pending, err = env.service.GetPendingApprovals(ctx, "hr-eng")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	statuses, err := env.service.GetLeaveStatus(ctx, "prof")
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	require.Len(t, statuses[0].Approvals, 2)

	byApprover := make(map[string]string)
	for _, a := range statuses[0].Approvals {
		byApprover[a.ApproverID] = a.Status
	}
	assert.Equal(t, "approved", byApprover["dean-eng"])
	assert.Equal(t, "pending", byApprover["hr-eng"])

	_, err = env.service.GetLeaveStatus(ctx, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
