package payrollrun

import (
	"time"

	"github.com/tidyops/payroll-backend-go/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type UpdateCycleRequest struct {
	Frequency     string  `json:"frequency"`
	AnchorWeekday *int    `json:"anchor_weekday,omitempty"`
	AnchorDay     *int    `json:"anchor_day,omitempty"`
	AnchorDate    *string `json:"anchor_date,omitempty"`
}

func (r *UpdateCycleRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Frequency) {
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "Frequency is required"})
		return errs
	}
	if !validator.IsInSlice(r.Frequency, CycleFrequencyValues) {
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "Frequency must be one of: weekly, biweekly, monthly"})
		return errs
	}

	switch CycleFrequency(r.Frequency) {
	case FrequencyWeekly:
		if r.AnchorWeekday == nil {
			errs = append(errs, validator.ValidationError{Field: "anchor_weekday", Message: "Anchor weekday is required for a weekly cycle"})
		} else if *r.AnchorWeekday < 0 || *r.AnchorWeekday > 6 {
			errs = append(errs, validator.ValidationError{Field: "anchor_weekday", Message: "Anchor weekday must be between 0 (Sunday) and 6 (Saturday)"})
		}
	case FrequencyBiweekly:
		if r.AnchorDate == nil || validator.IsEmpty(*r.AnchorDate) {
			errs = append(errs, validator.ValidationError{Field: "anchor_date", Message: "Anchor date is required for a biweekly cycle"})
		} else if _, ok := validator.IsValidDate(*r.AnchorDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "anchor_date", Message: "Anchor date must be in YYYY-MM-DD format"})
		}
	case FrequencyMonthly:
		if r.AnchorDay == nil {
			errs = append(errs, validator.ValidationError{Field: "anchor_day", Message: "Anchor day is required for a monthly cycle"})
		} else if *r.AnchorDay < 1 || *r.AnchorDay > 28 {
			errs = append(errs, validator.ValidationError{Field: "anchor_day", Message: "Anchor day must be between 1 and 28"})
		}
	}

	return errs
}

func (r *UpdateCycleRequest) ToEntity() Cycle {
	c := Cycle{Frequency: CycleFrequency(r.Frequency)}
	switch c.Frequency {
	case FrequencyWeekly:
		c.AnchorWeekday = r.AnchorWeekday
	case FrequencyBiweekly:
		anchor, _ := time.Parse("2006-01-02", *r.AnchorDate)
		c.AnchorDate = &anchor
	case FrequencyMonthly:
		c.AnchorDay = r.AnchorDay
	}
	return c
}

// CreateRunRequest opens a run for an explicit period. When both dates are
// omitted the last completed period of the configured cycle is used.
type CreateRunRequest struct {
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
}

func (r *CreateRunRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if (r.PeriodStart == nil) != (r.PeriodEnd == nil) {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "Period start and end must be provided together"})
		return errs
	}
	if r.PeriodStart == nil {
		return errs
	}

	start, startOK := validator.IsValidDate(*r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "Period start must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(*r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "Period end must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && !start.Before(end) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "Period end must be after period start"})
	}

	return errs
}

// ApproveRequest attaches timesheets to a draft run. By default only
// employee-approved timesheets are accepted; IncludeUnapproved overrides
// that per batch.
type ApproveRequest struct {
	TimesheetIDs      []string `json:"timesheet_ids"`
	IncludeUnapproved bool     `json:"include_unapproved"`
}

func (r *ApproveRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if len(r.TimesheetIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "timesheet_ids", Message: "At least one timesheet ID is required"})
	}
	for _, id := range r.TimesheetIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "timesheet_ids", Message: "Timesheet IDs must be valid UUIDs"})
			break
		}
	}

	return errs
}

// ========== RESPONSE DTOs ==========

type CycleResponse struct {
	Frequency     string  `json:"frequency"`
	AnchorWeekday *int    `json:"anchor_weekday,omitempty"`
	AnchorDay     *int    `json:"anchor_day,omitempty"`
	AnchorDate    *string `json:"anchor_date,omitempty"`
	UpdatedAt     string  `json:"updated_at"`
}

func ToCycleResponse(c Cycle) CycleResponse {
	resp := CycleResponse{
		Frequency:     string(c.Frequency),
		AnchorWeekday: c.AnchorWeekday,
		AnchorDay:     c.AnchorDay,
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
	if c.AnchorDate != nil {
		s := c.AnchorDate.Format("2006-01-02")
		resp.AnchorDate = &s
	}
	return resp
}

type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func ToPeriodResponse(p Period) PeriodResponse {
	return PeriodResponse{
		Start: p.Start.Format("2006-01-02"),
		End:   p.End.Format("2006-01-02"),
	}
}

type RunResponse struct {
	ID             string  `json:"id"`
	PeriodStart    string  `json:"period_start"`
	PeriodEnd      string  `json:"period_end"`
	Status         string  `json:"status"`
	TotalHours     string  `json:"total_hours"`
	TotalAmount    string  `json:"total_amount"`
	TimesheetCount int     `json:"timesheet_count"`
	LockedAt       *string `json:"locked_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func ToRunResponse(r PayrollRun) RunResponse {
	resp := RunResponse{
		ID:             r.ID,
		PeriodStart:    r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:      r.PeriodEnd.Format("2006-01-02"),
		Status:         string(r.Status),
		TotalHours:     r.TotalHours.StringFixed(2),
		TotalAmount:    r.TotalAmount.StringFixed(2),
		TimesheetCount: r.TimesheetCount,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
	if r.LockedAt != nil {
		s := r.LockedAt.Format(time.RFC3339)
		resp.LockedAt = &s
	}
	return resp
}

func ToRunResponses(runs []PayrollRun) []RunResponse {
	responses := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		responses = append(responses, ToRunResponse(r))
	}
	return responses
}

type EmployeeTotalResponse struct {
	EmployeeID     string `json:"employee_id"`
	TimesheetCount int    `json:"timesheet_count"`
	Hours          string `json:"hours"`
	Total          string `json:"total"`
}

func ToEmployeeTotalResponses(totals []EmployeeTotal) []EmployeeTotalResponse {
	responses := make([]EmployeeTotalResponse, 0, len(totals))
	for _, t := range totals {
		responses = append(responses, EmployeeTotalResponse{
			EmployeeID:     t.EmployeeID,
			TimesheetCount: t.TimesheetCount,
			Hours:          t.Hours.StringFixed(2),
			Total:          t.Total.StringFixed(2),
		})
	}
	return responses
}

// RunDetailResponse is a run with its per-employee breakdown.
type RunDetailResponse struct {
	RunResponse
	EmployeeTotals []EmployeeTotalResponse `json:"employee_totals"`
}

// ApproveItemResult records the outcome for one timesheet in an approval
// batch. Rejections carry a reason instead of failing the batch.
type ApproveItemResult struct {
	TimesheetID string  `json:"timesheet_id"`
	Attached    bool    `json:"attached"`
	Reason      *string `json:"reason,omitempty"`
}

type ApproveResponse struct {
	Run     RunResponse         `json:"run"`
	Results []ApproveItemResult `json:"results"`
}
