package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeavePayloadNotFound         = errors.New("leave payload not found")
	ErrApprovalRecordNotFound       = errors.New("approval record not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
)

type Gate string

const (
	GateBalance         Gate = "balance"
	GateAccidentalShape Gate = "accidental_window"
	GateUnpaidCap       Gate = "unpaid_cap"
	GateUnpaidYearly    Gate = "unpaid_yearly"
	GateWorkHours       Gate = "compensation_work_hours"
	GateSameMonth       Gate = "compensation_same_month"
	GateReplacementDay  Gate = "compensation_replacement_day_off"
)

// GateViolation is a business rejection. It is reported inside a successful
// decision result, never as a request failure.
type GateViolation struct {
	Gate    Gate   `json:"gate"`
	Message string `json:"message"`
}

func (v *GateViolation) Error() string {
	return fmt.Sprintf("%s: %s", v.Gate, v.Message)
}
