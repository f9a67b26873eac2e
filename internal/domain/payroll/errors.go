package payroll

import "errors"

var (
	ErrDeductionNotFound     = errors.New("deduction not found")
	ErrDeductionAlreadyFinal = errors.New("deduction already finalized")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
	ErrUnknownDeductionKind  = errors.New("unknown deduction kind")
)
