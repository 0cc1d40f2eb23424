package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
	"github.com/tidyops/payroll-backend-go/internal/handler/http/response"
)

type RateHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
}

type rateHandlerImpl struct {
	rateService rate.RateService
}

func NewRateHandler(rateService rate.RateService) RateHandler {
	return &rateHandlerImpl{rateService: rateService}
}

func (h *rateHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req rate.CreateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.rateService.CreateRate(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Rate created", result)
}

func (h *rateHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.rateService.ListRates(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Resolve reports the rate in force for an employee on a date. A missing
// rate is a structured found=false result, not an error.
func (h *rateHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := rate.ResolveRateRequest{
		EmployeeID: query.Get("employee_id"),
		Date:       query.Get("date"),
	}
	if v := query.Get("location_id"); v != "" {
		req.LocationID = &v
	}
	if v := query.Get("client_id"); v != "" {
		req.ClientID = &v
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.rateService.ResolveRate(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
