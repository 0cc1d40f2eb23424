package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tidyops/payroll-backend-go/internal/domain/payrollrun"
	"github.com/tidyops/payroll-backend-go/internal/handler/http/response"
)

type PayrollRunHandler interface {
	// Cycle
	GetCycle(w http.ResponseWriter, r *http.Request)
	UpdateCycle(w http.ResponseWriter, r *http.Request)
	GetCurrentPeriod(w http.ResponseWriter, r *http.Request)

	// Runs
	CreateRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	ListCandidates(w http.ResponseWriter, r *http.Request)
	ApproveTimesheets(w http.ResponseWriter, r *http.Request)
	RecalculateRun(w http.ResponseWriter, r *http.Request)
	LockRun(w http.ResponseWriter, r *http.Request)
	DeleteRun(w http.ResponseWriter, r *http.Request)
}

type payrollRunHandlerImpl struct {
	runService payrollrun.RunService
}

func NewPayrollRunHandler(runService payrollrun.RunService) PayrollRunHandler {
	return &payrollRunHandlerImpl{runService: runService}
}

// ========== CYCLE ==========

func (h *payrollRunHandlerImpl) GetCycle(w http.ResponseWriter, r *http.Request) {
	result, err := h.runService.GetCycle(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollRunHandlerImpl) UpdateCycle(w http.ResponseWriter, r *http.Request) {
	var req payrollrun.UpdateCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.runService.UpdateCycle(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollRunHandlerImpl) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.runService.CurrentPeriod(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== RUNS ==========

func (h *payrollRunHandlerImpl) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req payrollrun.CreateRunRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.runService.CreateRun(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run created", result)
}

func (h *payrollRunHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.runService.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollRunHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	result, err := h.runService.ListRuns(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollRunHandlerImpl) ListCandidates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.runService.ListCandidates(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollRunHandlerImpl) ApproveTimesheets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req payrollrun.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.runService.ApproveTimesheets(r.Context(), id, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheets processed", result)
}

func (h *payrollRunHandlerImpl) RecalculateRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.runService.RecalculateRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run recalculated", result)
}

func (h *payrollRunHandlerImpl) LockRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.runService.LockRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run locked", result)
}

func (h *payrollRunHandlerImpl) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.runService.DeleteRun(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run deleted", nil)
}
