package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrRoleNotFound           = errors.New("role not found")
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrInsufficientBalance    = errors.New("insufficient leave balance")
	ErrInvalidDebit           = errors.New("debit days must be positive")
	ErrUnsupportedBalanceType = errors.New("leave type has no balance")
)
