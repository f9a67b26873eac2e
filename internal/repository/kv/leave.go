package kv

import (
	"context"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
)

type leaveRequestRepositoryImpl struct {
	store kvstore.Store
}

func NewLeaveRequestRepository(store kvstore.Store) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{store: store}
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	if request.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.LeaveRequest{}, err
		}
		request.ID = id
	}
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now
	if request.FinalApprovalStatus == "" {
		request.FinalApprovalStatus = leave.ApprovalStatusPending
	}

	if err := kvstore.SetJSON(ctx, r.store, key(prefixLeave, request.ID), request); err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	if err := kvstore.GetJSON(ctx, r.store, key(prefixLeave, id), &request); err != nil {
		return leave.LeaveRequest{}, mapNotFound(err, leave.ErrLeaveRequestNotFound)
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) ListByEmployeeID(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	all, err := kvstore.ListJSON[leave.LeaveRequest](ctx, r.store, prefixLeave)
	if err != nil {
		return nil, err
	}
	out := make([]leave.LeaveRequest, 0)
	for _, request := range all {
		if request.EmployeeID == employeeID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (r *leaveRequestRepositoryImpl) TransitionStatus(ctx context.Context, id string, to leave.ApprovalStatus, reason *string) (leave.LeaveRequest, error) {
	var updated leave.LeaveRequest
	err := kvstore.UpdateJSON(ctx, r.store, key(prefixLeave, id), func(request *leave.LeaveRequest) error {
		if request.FinalApprovalStatus != leave.ApprovalStatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}
		now := time.Now().UTC()
		request.FinalApprovalStatus = to
		request.RejectionReason = reason
		request.DecidedAt = &now
		request.UpdatedAt = now
		updated = *request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, mapNotFound(err, leave.ErrLeaveRequestNotFound)
	}
	return updated, nil
}

type payloadRepositoryImpl struct {
	store kvstore.Store
}

func NewPayloadRepository(store kvstore.Store) leave.PayloadRepository {
	return &payloadRepositoryImpl{store: store}
}

func (r *payloadRepositoryImpl) Save(ctx context.Context, payload leave.Payload) error {
	return kvstore.SetJSON(ctx, r.store, key(prefixLeavePayload, payload.LeaveID), payload)
}

func (r *payloadRepositoryImpl) GetByLeaveID(ctx context.Context, leaveID string) (leave.Payload, error) {
	var payload leave.Payload
	if err := kvstore.GetJSON(ctx, r.store, key(prefixLeavePayload, leaveID), &payload); err != nil {
		return leave.Payload{}, mapNotFound(err, leave.ErrLeavePayloadNotFound)
	}
	return payload, nil
}

type approvalRepositoryImpl struct {
	store kvstore.Store
}

func NewApprovalRepository(store kvstore.Store) leave.ApprovalRepository {
	return &approvalRepositoryImpl{store: store}
}

func (r *approvalRepositoryImpl) CreateBatch(ctx context.Context, records []leave.ApprovalRecord) error {
	now := time.Now().UTC()
	for _, record := range records {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		if err := kvstore.SetJSON(ctx, r.store, key(prefixApproval, record.LeaveID, record.ApproverID), record); err != nil {
			return err
		}
	}
	return nil
}

func (r *approvalRepositoryImpl) Get(ctx context.Context, leaveID, approverID string) (leave.ApprovalRecord, error) {
	var record leave.ApprovalRecord
	if err := kvstore.GetJSON(ctx, r.store, key(prefixApproval, leaveID, approverID), &record); err != nil {
		return leave.ApprovalRecord{}, mapNotFound(err, leave.ErrApprovalRecordNotFound)
	}
	return record, nil
}

func (r *approvalRepositoryImpl) Record(ctx context.Context, record leave.ApprovalRecord) error {
	err := kvstore.UpdateJSON(ctx, r.store, key(prefixApproval, record.LeaveID, record.ApproverID), func(current *leave.ApprovalRecord) error {
		createdAt := current.CreatedAt
		*current = record
		current.CreatedAt = createdAt
		return nil
	})
	return mapNotFound(err, leave.ErrApprovalRecordNotFound)
}

func (r *approvalRepositoryImpl) ListByLeaveID(ctx context.Context, leaveID string) ([]leave.ApprovalRecord, error) {
	return kvstore.ListJSON[leave.ApprovalRecord](ctx, r.store, key(prefixApproval, leaveID, ""))
}

func (r *approvalRepositoryImpl) ListByApproverID(ctx context.Context, approverID string) ([]leave.ApprovalRecord, error) {
	all, err := kvstore.ListJSON[leave.ApprovalRecord](ctx, r.store, prefixApproval)
	if err != nil {
		return nil, err
	}
	out := make([]leave.ApprovalRecord, 0)
	for _, record := range all {
		if record.ApproverID == approverID {
			out = append(out, record)
		}
	}
	return out, nil
}
