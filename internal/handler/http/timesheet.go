package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tidyops/payroll-backend-go/internal/domain/timesheet"
	"github.com/tidyops/payroll-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Unapprove(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

// ========== GENERATION ==========

func (h *timesheetHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req timesheet.GenerateTimesheetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	report, err := h.timesheetService.Generate(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet generation completed", report)
}

// ========== CRUD ==========

func (h *timesheetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req timesheet.CreateTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.timesheetService.CreateTimesheet(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet created", result)
}

func (h *timesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.timesheetService.GetTimesheet(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *timesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var q timesheet.ListTimesheetsQuery
	if v := query.Get("employee_id"); v != "" {
		q.EmployeeID = &v
	}
	if v := query.Get("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "Invalid from date", nil)
			return
		}
		q.From = &from
	}
	if v := query.Get("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "Invalid to date", nil)
			return
		}
		q.To = &to
	}

	result, err := h.timesheetService.ListTimesheets(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *timesheetHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req timesheet.UpdateTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.timesheetService.UpdateTimesheet(r.Context(), id, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *timesheetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.timesheetService.DeleteTimesheet(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet deleted", nil)
}

// ========== EMPLOYEE APPROVAL ==========

func (h *timesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.timesheetService.ApproveTimesheet(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet approved", result)
}

func (h *timesheetHandlerImpl) Unapprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.timesheetService.UnapproveTimesheet(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet approval withdrawn", result)
}
