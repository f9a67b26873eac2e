package kv

import (
	"errors"
	"strings"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
	"github.com/google/uuid"
)

// Key prefixes of every entity kept in the record store.
const (
	prefixEmployee       = "employee/"
	prefixRole           = "role/"
	prefixDepartment     = "department/"
	prefixRoleAssignment = "role_assignment/"
	prefixLeave          = "leave/"
	prefixLeavePayload   = "leave_payload/"
	prefixApproval       = "approval/"
	prefixAttendance     = "attendance/"
	prefixDeduction      = "deduction/"
	prefixPayroll        = "payroll/"
)

func key(prefix string, parts ...string) string {
	return prefix + strings.Join(parts, "/")
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// mapNotFound swaps the store sentinel for a domain one.
func mapNotFound(err, domainErr error) error {
	if errors.Is(err, kvstore.ErrNotFound) {
		return domainErr
	}
	return err
}

func withinDay(t, from, to time.Time) bool {
	d := dayKey(t)
	return d >= dayKey(from) && d <= dayKey(to)
}
