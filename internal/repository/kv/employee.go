package kv

import (
	"context"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
)

type employeeRepositoryImpl struct {
	store kvstore.Store
}

func NewEmployeeRepository(store kvstore.Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var e employee.Employee
	if err := kvstore.GetJSON(ctx, r.store, key(prefixEmployee, id), &e); err != nil {
		return employee.Employee{}, mapNotFound(err, employee.ErrEmployeeNotFound)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	return kvstore.ListJSON[employee.Employee](ctx, r.store, prefixEmployee)
}

func (r *employeeRepositoryImpl) Save(ctx context.Context, e employee.Employee) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return kvstore.SetJSON(ctx, r.store, key(prefixEmployee, e.ID), e)
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, fn func(e *employee.Employee) error) (employee.Employee, error) {
	var updated employee.Employee
	err := kvstore.UpdateJSON(ctx, r.store, key(prefixEmployee, id), func(e *employee.Employee) error {
		if err := fn(e); err != nil {
			return err
		}
		e.UpdatedAt = time.Now().UTC()
		updated = *e
		return nil
	})
	if err != nil {
		return employee.Employee{}, mapNotFound(err, employee.ErrEmployeeNotFound)
	}
	return updated, nil
}
