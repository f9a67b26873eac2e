package kv

import (
	"context"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
)

type attendanceRepositoryImpl struct {
	store kvstore.Store
}

func NewAttendanceRepository(store kvstore.Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

func (r *attendanceRepositoryImpl) Save(ctx context.Context, a attendance.Attendance) error {
	if a.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		a.ID = id
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	return kvstore.SetJSON(ctx, r.store, key(prefixAttendance, a.EmployeeID, dayKey(a.Date)), a)
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	var a attendance.Attendance
	if err := kvstore.GetJSON(ctx, r.store, key(prefixAttendance, employeeID, dayKey(date)), &a); err != nil {
		return attendance.Attendance{}, mapNotFound(err, attendance.ErrAttendanceNotFound)
	}
	return a, nil
}

// Keys embed the ISO date, so prefix order is date order.
func (r *attendanceRepositoryImpl) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	all, err := kvstore.ListJSON[attendance.Attendance](ctx, r.store, key(prefixAttendance, employeeID, ""))
	if err != nil {
		return nil, err
	}
	out := make([]attendance.Attendance, 0, len(all))
	for _, a := range all {
		if withinDay(a.Date, from, to) {
			out = append(out, a)
		}
	}
	return out, nil
}
