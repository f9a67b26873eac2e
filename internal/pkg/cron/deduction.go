package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MonthEndSweeper computes the month's deductions for every employee.
type MonthEndSweeper interface {
	RunMonthEndSweep(ctx context.Context) error
}

// DeductionJobs runs the month-end deduction sweep at most once per month.
type DeductionJobs struct {
	sweeper  MonthEndSweeper
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastMonth string
}

func NewDeductionJobs(sweeper MonthEndSweeper, interval time.Duration, now func() time.Time) *DeductionJobs {
	if now == nil {
		now = time.Now
	}
	return &DeductionJobs{
		sweeper:  sweeper,
		interval: interval,
		now:      now,
	}
}

func (j *DeductionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("month_end_deduction_sweep", j.interval, j.SweepMonthEnd)
}

// SweepMonthEnd is a no-op except on the last day of a month that has not been swept yet.
func (j *DeductionJobs) SweepMonthEnd(ctx context.Context) error {
	today := j.now()
	if today.AddDate(0, 0, 1).Month() == today.Month() {
		return nil
	}
	month := today.Format("2006-01")

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.lastMonth == month {
		slog.Debug("Cron: deduction sweep already ran", "month", month)
		return nil
	}

	slog.Info("Cron: Starting month-end deduction sweep", "month", month)
	if err := j.sweeper.RunMonthEndSweep(ctx); err != nil {
		return err
	}
	j.lastMonth = month
	return nil
}
