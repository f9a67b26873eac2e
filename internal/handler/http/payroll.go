package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	ComputeDeductions(w http.ResponseWriter, r *http.Request)
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	ListEmployeePayrolls(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	deductionService payroll.DeductionService
	payrollService   payroll.PayrollService
}

func NewPayrollHandler(deductionService payroll.DeductionService, payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		deductionService: deductionService,
		payrollService:   payrollService,
	}
}

// ========== DEDUCTIONS ==========

func (h *payrollHandlerImpl) ComputeDeductions(w http.ResponseWriter, r *http.Request) {
	var req payroll.ComputeDeductionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ComputeDeductions decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.deductionService.ComputeDeductions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deductions computed successfully", result)
}

// ========== PAYROLL ==========

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GeneratePayroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.GeneratePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated successfully", result)
}

func (h *payrollHandlerImpl) ListEmployeePayrolls(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.payrollService.ListPayrollRecords(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
