package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrEmployeeClaimMissing):
		Forbidden(w, "Employee ID not found in token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrRoleNotFound):
		NotFound(w, "Role not found")
	case errors.Is(err, employee.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, employee.ErrInsufficientBalance):
		UnprocessableEntity(w, "INSUFFICIENT_BALANCE", "Insufficient leave balance")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeavePayloadNotFound):
		NotFound(w, "Leave payload not found")
	case errors.Is(err, leave.ErrApprovalRecordNotFound):
		NotFound(w, "You are not an approver of this leave request")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrDeductionNotFound):
		NotFound(w, "Deduction not found")
	case errors.Is(err, payroll.ErrDeductionAlreadyFinal):
		Conflict(w, "Deduction already finalized")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Store errors
	case errors.Is(err, kvstore.ErrNotFound):
		NotFound(w, "Record not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
