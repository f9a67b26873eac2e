package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/service/directory"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	leave.PayloadRepository
	leave.ApprovalRepository
	attendance.AttendanceRepository
	directory *directory.Directory
	router    *ApprovalRouter
	locks     *keylock.Locker
	now       func() time.Time
}

func NewLeaveService(
	leaveRequestRepository leave.LeaveRequestRepository,
	payloadRepository leave.PayloadRepository,
	approvalRepository leave.ApprovalRepository,
	attendanceRepository attendance.AttendanceRepository,
	dir *directory.Directory,
	router *ApprovalRouter,
	locks *keylock.Locker,
	now func() time.Time,
) leave.LeaveService {
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		PayloadRepository:      payloadRepository,
		ApprovalRepository:     approvalRepository,
		AttendanceRepository:   attendanceRepository,
		directory:              dir,
		router:                 router,
		locks:                  locks,
		now:                    now,
	}
}

// SubmitLeave stores a pending request with one pending approval record per routed approver.
func (s *LeaveServiceImpl) SubmitLeave(ctx context.Context, req leave.SubmitLeaveRequest) (leave.SubmitLeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.SubmitLeaveResponse{}, err
	}

	requester, err := s.directory.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return leave.SubmitLeaveResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}
	if req.ReplacementEmployeeID != nil {
		if _, err := s.directory.GetEmployee(ctx, *req.ReplacementEmployeeID); err != nil {
			return leave.SubmitLeaveResponse{}, fmt.Errorf("failed to get replacement employee: %w", err)
		}
	}

	leaveType := leave.LeaveType(req.Type)
	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)

	approvers, err := s.router.Route(ctx, requester, leaveType)
	if err != nil {
		return leave.SubmitLeaveResponse{}, fmt.Errorf("failed to route approvals: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.SubmitLeaveResponse{}, fmt.Errorf("failed to generate leave id: %w", err)
	}
	leaveID := id.String()
	now := s.now().UTC()

	// The request is written last so it only becomes visible with its full approver set.
	payload := leave.Payload{
		LeaveID:               leaveID,
		Reason:                req.Reason,
		ReplacementEmployeeID: req.ReplacementEmployeeID,
		MedicalType:           req.MedicalType,
	}
	if req.OriginalWorkday != nil {
		workday, _ := validator.IsValidDate(*req.OriginalWorkday)
		payload.OriginalWorkday = &workday
	}
	if err := s.PayloadRepository.Save(ctx, payload); err != nil {
		return leave.SubmitLeaveResponse{}, fmt.Errorf("failed to save leave payload: %w", err)
	}

	records := make([]leave.ApprovalRecord, 0, len(approvers))
	for _, approverID := range approvers {
		records = append(records, leave.ApprovalRecord{
			LeaveID:    leaveID,
			ApproverID: approverID,
			Status:     leave.ApprovalStatusPending,
			CreatedAt:  now,
		})
	}
	if err := s.ApprovalRepository.CreateBatch(ctx, records); err != nil {
		return leave.SubmitLeaveResponse{}, fmt.Errorf("failed to create approval records: %w", err)
	}

	request, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		ID:                  leaveID,
		EmployeeID:          requester.ID,
		Type:                leaveType,
		StartDate:           startDate,
		EndDate:             endDate,
		NumDays:             leave.InclusiveDays(startDate, endDate),
		DateOfRequest:       now,
		FinalApprovalStatus: leave.ApprovalStatusPending,
	})
	if err != nil {
		return leave.SubmitLeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if len(approvers) == 0 {
		slog.Warn("Leave request has no approvers and will stay pending", "leave_id", request.ID, "employee_id", requester.ID, "type", leaveType)
	}
	slog.Info("Leave request submitted", "leave_id", request.ID, "employee_id", requester.ID, "type", leaveType, "approvers", len(approvers))

	return leave.SubmitLeaveResponse{
		Leave:       leave.ToResponse(request, &payload),
		ApproverIDs: approvers,
	}, nil
}

// DecideApproval records one approver's vote and settles the request when the
// votes allow it. Gate violations turn an approval into a rejection and are
// reported in the response, not as an error.
func (s *LeaveServiceImpl) DecideApproval(ctx context.Context, req leave.DecideApprovalRequest) (leave.DecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.DecisionResponse{}, err
	}

	unlock := s.locks.Lock("leave:" + req.LeaveID)
	defer unlock()

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.LeaveID)
	if err != nil {
		return leave.DecisionResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.FinalApprovalStatus.IsTerminal() {
		return leave.DecisionResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	if request.Type == leave.LeaveTypeUnpaid {
		// the yearly cap spans every unpaid leave of the employee
		unlockEmployee := s.locks.Lock("employee:" + request.EmployeeID)
		defer unlockEmployee()
	}

	record, err := s.ApprovalRepository.Get(ctx, request.ID, req.ApproverID)
	if err != nil {
		return leave.DecisionResponse{}, fmt.Errorf("failed to get approval record: %w", err)
	}

	decision := leave.ApprovalStatus(req.Status)
	note := req.Note
	var violation *leave.GateViolation

	if decision == leave.ApprovalStatusApproved {
		requester, err := s.directory.GetEmployee(ctx, request.EmployeeID)
		if err != nil {
			return leave.DecisionResponse{}, fmt.Errorf("failed to get requester: %w", err)
		}
		violation, err = s.checkGates(ctx, request, requester)
		if err != nil {
			return leave.DecisionResponse{}, err
		}
		if violation != nil {
			decision = leave.ApprovalStatusRejected
			note = &violation.Message
		}
	}

	now := s.now().UTC()
	record.Status = decision
	record.Note = note
	record.DecidedAt = &now
	if err := s.ApprovalRepository.Record(ctx, record); err != nil {
		return leave.DecisionResponse{}, fmt.Errorf("failed to record decision: %w", err)
	}

	records, err := s.ApprovalRepository.ListByLeaveID(ctx, request.ID)
	if err != nil {
		return leave.DecisionResponse{}, fmt.Errorf("failed to list approval records: %w", err)
	}

	switch Aggregate(records) {
	case leave.ApprovalStatusRejected:
		reason := fmt.Sprintf("rejected by approver %s", req.ApproverID)
		if violation != nil {
			reason = violation.Error()
		}
		request, err = s.LeaveRequestRepository.TransitionStatus(ctx, request.ID, leave.ApprovalStatusRejected, &reason)
		if err != nil {
			return leave.DecisionResponse{}, fmt.Errorf("failed to reject leave request: %w", err)
		}
		if violation != nil {
			slog.Info("Leave request force-rejected", "leave_id", request.ID, "gate", violation.Gate, "approver_id", req.ApproverID)
		}

	case leave.ApprovalStatusApproved:
		request, violation, err = s.approve(ctx, request, record)
		if err != nil {
			return leave.DecisionResponse{}, err
		}
	}

	recorded := record.Status
	if violation != nil {
		recorded = leave.ApprovalStatusRejected
	}

	return leave.DecisionResponse{
		LeaveID:        request.ID,
		ApproverID:     req.ApproverID,
		RecordedStatus: recorded,
		FinalStatus:    request.FinalApprovalStatus,
		Violation:      violation,
		Message:        decisionMessage(request.FinalApprovalStatus),
	}, nil
}

// approve debits the balance first and then claims the status. A lost status
// race gives the days back.
func (s *LeaveServiceImpl) approve(ctx context.Context, request leave.LeaveRequest, record leave.ApprovalRecord) (leave.LeaveRequest, *leave.GateViolation, error) {
	balance, debits := balanceOf(request.Type)
	if debits {
		err := s.debit(ctx, request.EmployeeID, balance, request.NumDays)
		if errors.Is(err, employee.ErrInsufficientBalance) {
			violation := &leave.GateViolation{
				Gate:    leave.GateBalance,
				Message: fmt.Sprintf("balance no longer covers %d days", request.NumDays),
			}
			record.Status = leave.ApprovalStatusRejected
			record.Note = &violation.Message
			if err := s.ApprovalRepository.Record(ctx, record); err != nil {
				return leave.LeaveRequest{}, nil, fmt.Errorf("failed to record decision: %w", err)
			}
			reason := violation.Error()
			rejected, err := s.LeaveRequestRepository.TransitionStatus(ctx, request.ID, leave.ApprovalStatusRejected, &reason)
			if err != nil {
				return leave.LeaveRequest{}, nil, fmt.Errorf("failed to reject leave request: %w", err)
			}
			slog.Info("Leave request force-rejected", "leave_id", request.ID, "gate", violation.Gate)
			return rejected, violation, nil
		}
		if err != nil {
			return leave.LeaveRequest{}, nil, fmt.Errorf("failed to debit balance: %w", err)
		}
	}

	approved, err := s.LeaveRequestRepository.TransitionStatus(ctx, request.ID, leave.ApprovalStatusApproved, nil)
	if err != nil {
		if debits {
			if _, cerr := s.directory.CreditBalance(ctx, request.EmployeeID, balance, request.NumDays); cerr != nil {
				slog.Error("Failed to credit balance back", "leave_id", request.ID, "employee_id", request.EmployeeID, "error", cerr)
			}
		}
		return leave.LeaveRequest{}, nil, fmt.Errorf("failed to approve leave request: %w", err)
	}

	slog.Info("Leave request approved", "leave_id", approved.ID, "employee_id", approved.EmployeeID, "type", approved.Type, "num_days", approved.NumDays)
	return approved, nil, nil
}

func (s *LeaveServiceImpl) debit(ctx context.Context, employeeID string, balance employee.BalanceType, days int) error {
	var err error
	switch balance {
	case employee.BalanceAnnual:
		_, err = s.directory.DebitAnnualBalance(ctx, employeeID, days)
	case employee.BalanceAccidental:
		_, err = s.directory.DebitAccidentalBalance(ctx, employeeID, days)
	default:
		err = employee.ErrUnsupportedBalanceType
	}
	return err
}

// GetPendingApprovals lists requests still waiting on employeeID's vote.
func (s *LeaveServiceImpl) GetPendingApprovals(ctx context.Context, employeeID string) ([]leave.PendingApprovalResponse, error) {
	records, err := s.ApprovalRepository.ListByApproverID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval records: %w", err)
	}

	responses := make([]leave.PendingApprovalResponse, 0)
	for _, record := range records {
		if record.Status != leave.ApprovalStatusPending {
			continue
		}
		request, err := s.LeaveRequestRepository.GetByID(ctx, record.LeaveID)
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			// left behind by a submit that failed before the request was written
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get leave request: %w", err)
		}
		if request.FinalApprovalStatus != leave.ApprovalStatusPending {
			continue
		}

		requesterName := ""
		if requester, err := s.directory.GetEmployee(ctx, request.EmployeeID); err == nil {
			requesterName = requester.FullName
		}

		responses = append(responses, leave.PendingApprovalResponse{
			LeaveID:       request.ID,
			RequesterID:   request.EmployeeID,
			RequesterName: requesterName,
			Type:          string(request.Type),
			StartDate:     request.StartDate,
			EndDate:       request.EndDate,
			NumDays:       request.NumDays,
			DateOfRequest: request.DateOfRequest,
		})
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].DateOfRequest.Before(responses[j].DateOfRequest)
	})
	return responses, nil
}

// GetLeaveStatus lists the employee's own requests, newest first, with the approval trail.
func (s *LeaveServiceImpl) GetLeaveStatus(ctx context.Context, employeeID string) ([]leave.LeaveStatusResponse, error) {
	if _, err := s.directory.GetEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	requests, err := s.LeaveRequestRepository.ListByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].DateOfRequest.After(requests[j].DateOfRequest)
	})

	responses := make([]leave.LeaveStatusResponse, 0, len(requests))
	for _, request := range requests {
		var payload *leave.Payload
		p, err := s.PayloadRepository.GetByLeaveID(ctx, request.ID)
		if err == nil {
			payload = &p
		} else if !errors.Is(err, leave.ErrLeavePayloadNotFound) {
			return nil, fmt.Errorf("failed to get leave payload: %w", err)
		}

		records, err := s.ApprovalRepository.ListByLeaveID(ctx, request.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list approval records: %w", err)
		}
		approvals := make([]leave.ApprovalRecordResponse, 0, len(records))
		for _, r := range records {
			approvals = append(approvals, leave.ApprovalRecordResponse{
				ApproverID: r.ApproverID,
				Status:     string(r.Status),
				Note:       r.Note,
				DecidedAt:  r.DecidedAt,
			})
		}

		responses = append(responses, leave.LeaveStatusResponse{
			LeaveRequestResponse: leave.ToResponse(request, payload),
			Approvals:            approvals,
		})
	}
	return responses, nil
}

func balanceOf(t leave.LeaveType) (employee.BalanceType, bool) {
	if !t.DebitsBalance() {
		return "", false
	}
	if t == leave.LeaveTypeAccidental {
		return employee.BalanceAccidental, true
	}
	return employee.BalanceAnnual, true
}

func decisionMessage(status leave.ApprovalStatus) string {
	switch status {
	case leave.ApprovalStatusApproved:
		return "Leave request approved"
	case leave.ApprovalStatusRejected:
		return "Leave request rejected"
	}
	return "Decision recorded, awaiting other approvers"
}
