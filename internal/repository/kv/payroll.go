package kv

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
)

type deductionRepositoryImpl struct {
	store kvstore.Store
}

func NewDeductionRepository(store kvstore.Store) payroll.DeductionRepository {
	return &deductionRepositoryImpl{store: store}
}

func (r *deductionRepositoryImpl) Create(ctx context.Context, d payroll.Deduction) (payroll.Deduction, error) {
	if d.ID == "" {
		id, err := newID()
		if err != nil {
			return payroll.Deduction{}, err
		}
		d.ID = id
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Status == "" {
		d.Status = payroll.DeductionStatusPending
	}

	if err := kvstore.SetJSON(ctx, r.store, key(prefixDeduction, d.EmployeeID, d.ID), d); err != nil {
		return payroll.Deduction{}, err
	}
	return d, nil
}

func (r *deductionRepositoryImpl) ListByEmployeeID(ctx context.Context, employeeID string) ([]payroll.Deduction, error) {
	deductions, err := kvstore.ListJSON[payroll.Deduction](ctx, r.store, key(prefixDeduction, employeeID, ""))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(deductions, func(i, j int) bool {
		return deductions[i].Date.Before(deductions[j].Date)
	})
	return deductions, nil
}

func (r *deductionRepositoryImpl) ListPendingBetween(ctx context.Context, employeeID string, from, to time.Time) ([]payroll.Deduction, error) {
	all, err := r.ListByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]payroll.Deduction, 0, len(all))
	for _, d := range all {
		if d.Status == payroll.DeductionStatusPending && withinDay(d.Date, from, to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *deductionRepositoryImpl) Finalize(ctx context.Context, employeeID, id, payrollID string) (payroll.Deduction, error) {
	var updated payroll.Deduction
	err := kvstore.UpdateJSON(ctx, r.store, key(prefixDeduction, employeeID, id), func(d *payroll.Deduction) error {
		if d.Status != payroll.DeductionStatusPending {
			return payroll.ErrDeductionAlreadyFinal
		}
		d.Status = payroll.DeductionStatusFinalized
		d.PayrollID = &payrollID
		d.UpdatedAt = time.Now().UTC()
		updated = *d
		return nil
	})
	if err != nil {
		return payroll.Deduction{}, mapNotFound(err, payroll.ErrDeductionNotFound)
	}
	return updated, nil
}

func (r *deductionRepositoryImpl) Release(ctx context.Context, employeeID, id, payrollID string) error {
	err := kvstore.UpdateJSON(ctx, r.store, key(prefixDeduction, employeeID, id), func(d *payroll.Deduction) error {
		if d.Status != payroll.DeductionStatusFinalized || d.PayrollID == nil || *d.PayrollID != payrollID {
			return kvstore.ErrSkipUpdate
		}
		d.Status = payroll.DeductionStatusPending
		d.PayrollID = nil
		d.UpdatedAt = time.Now().UTC()
		return nil
	})
	return mapNotFound(err, payroll.ErrDeductionNotFound)
}

type payrollRepositoryImpl struct {
	store kvstore.Store
}

func NewPayrollRepository(store kvstore.Store) payroll.PayrollRepository {
	return &payrollRepositoryImpl{store: store}
}

func (r *payrollRepositoryImpl) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if record.ID == "" {
		id, err := newID()
		if err != nil {
			return payroll.PayrollRecord{}, err
		}
		record.ID = id
	}
	record.CreatedAt = time.Now().UTC()

	if err := kvstore.SetJSON(ctx, r.store, key(prefixPayroll, record.EmployeeID, record.ID), record); err != nil {
		return payroll.PayrollRecord{}, err
	}
	return record, nil
}

func (r *payrollRepositoryImpl) ListByEmployeeID(ctx context.Context, employeeID string) ([]payroll.PayrollRecord, error) {
	return kvstore.ListJSON[payroll.PayrollRecord](ctx, r.store, key(prefixPayroll, employeeID, ""))
}
