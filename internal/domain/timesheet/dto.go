package timesheet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
	"github.com/tidyops/payroll-backend-go/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type GenerateTimesheetsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r *GenerateTimesheetsRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	from, fromOK := validator.IsValidDate(r.From)
	if validator.IsEmpty(r.From) {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "From date is required"})
	} else if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "From date must be in YYYY-MM-DD format"})
	}

	to, toOK := validator.IsValidDate(r.To)
	if validator.IsEmpty(r.To) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "To date is required"})
	} else if !toOK {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "To date must be in YYYY-MM-DD format"})
	}

	if len(errs) == 0 && !from.Before(to) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "To date must be after from date"})
	}

	return errs
}

// CreateTimesheetRequest is a manual admin entry. The rate snapshot is
// resolved and frozen at creation time, same as generated timesheets.
type CreateTimesheetRequest struct {
	EmployeeID string  `json:"employee_id"`
	JobID      *string `json:"job_id,omitempty"`
	WorkDate   string  `json:"work_date"`
	StartAt    *string `json:"start_at,omitempty"`
	EndAt      *string `json:"end_at,omitempty"`
	Hours      *string `json:"hours,omitempty"`
	Units      *int    `json:"units,omitempty"`
}

func (r *CreateTimesheetRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "Employee ID is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "Employee ID must be a valid UUID"})
	}

	if r.JobID != nil && !validator.IsValidUUID(*r.JobID) {
		errs = append(errs, validator.ValidationError{Field: "job_id", Message: "Job ID must be a valid UUID"})
	}

	if validator.IsEmpty(r.WorkDate) {
		errs = append(errs, validator.ValidationError{Field: "work_date", Message: "Work date is required"})
	} else if _, ok := validator.IsValidDate(r.WorkDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "work_date", Message: "Work date must be in YYYY-MM-DD format"})
	}

	errs = append(errs, validateTimeRange(r.StartAt, r.EndAt)...)

	if r.Hours != nil {
		if h, err := decimal.NewFromString(*r.Hours); err != nil {
			errs = append(errs, validator.ValidationError{Field: "hours", Message: "Hours must be a valid decimal number"})
		} else if h.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "hours", Message: "Hours must not be negative"})
		}
	}
	if r.Units != nil && *r.Units < 0 {
		errs = append(errs, validator.ValidationError{Field: "units", Message: "Units must not be negative"})
	}

	return errs
}

// UpdateTimesheetRequest carries a partial edit. Nil fields are untouched.
type UpdateTimesheetRequest struct {
	JobID           *string `json:"job_id,omitempty"`
	StartAt         *string `json:"start_at,omitempty"`
	EndAt           *string `json:"end_at,omitempty"`
	Hours           *string `json:"hours,omitempty"`
	Units           *int    `json:"units,omitempty"`
	EmployeeComment *string `json:"employee_comment,omitempty"`
}

func (r *UpdateTimesheetRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if r.JobID == nil && r.StartAt == nil && r.EndAt == nil && r.Hours == nil && r.Units == nil && r.EmployeeComment == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "At least one field must be provided"})
		return errs
	}

	if r.JobID != nil && !validator.IsValidUUID(*r.JobID) {
		errs = append(errs, validator.ValidationError{Field: "job_id", Message: "Job ID must be a valid UUID"})
	}

	errs = append(errs, validateTimeRange(r.StartAt, r.EndAt)...)

	if r.Hours != nil {
		if h, err := decimal.NewFromString(*r.Hours); err != nil {
			errs = append(errs, validator.ValidationError{Field: "hours", Message: "Hours must be a valid decimal number"})
		} else if h.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "hours", Message: "Hours must not be negative"})
		}
	}

	if r.Units != nil && *r.Units < 0 {
		errs = append(errs, validator.ValidationError{Field: "units", Message: "Units must not be negative"})
	}

	return errs
}

// TouchesPayableFields reports whether the edit changes anything that affects
// earnings or the claimed working time, which is what resets approvals.
func (r *UpdateTimesheetRequest) TouchesPayableFields() bool {
	return r.JobID != nil || r.StartAt != nil || r.EndAt != nil || r.Hours != nil || r.Units != nil
}

// validateTimeRange checks optional start/end timestamps and their ordering.
func validateTimeRange(startAt, endAt *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	var start, end time.Time
	startOK, endOK := true, true
	if startAt != nil {
		if start, startOK = validator.IsValidDateTime(*startAt); !startOK {
			errs = append(errs, validator.ValidationError{Field: "start_at", Message: "Start time must be a valid RFC3339 timestamp"})
		}
	}
	if endAt != nil {
		if end, endOK = validator.IsValidDateTime(*endAt); !endOK {
			errs = append(errs, validator.ValidationError{Field: "end_at", Message: "End time must be a valid RFC3339 timestamp"})
		}
	}
	if startAt != nil && endAt != nil && startOK && endOK && !start.Before(end) {
		errs = append(errs, validator.ValidationError{Field: "end_at", Message: "End time must be after start time"})
	}

	return errs
}

type ListTimesheetsQuery struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
}

// ========== RESPONSE DTOs ==========

type TimesheetResponse struct {
	ID               string         `json:"id"`
	EmployeeID       string         `json:"employee_id"`
	JobID            *string        `json:"job_id,omitempty"`
	WorkDate         string         `json:"work_date"`
	StartAt          *string        `json:"start_at,omitempty"`
	EndAt            *string        `json:"end_at,omitempty"`
	Hours            string         `json:"hours"`
	Units            int            `json:"units"`
	RateSnapshot     *rate.Snapshot `json:"rate_snapshot,omitempty"`
	Earnings         string         `json:"earnings"`
	EmployeeApproved bool           `json:"employee_approved"`
	AdminApproved    bool           `json:"admin_approved"`
	ApprovedInRunID  *string        `json:"approved_in_run_id,omitempty"`
	EmployeeComment  *string        `json:"employee_comment,omitempty"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

func ToTimesheetResponse(t Timesheet) TimesheetResponse {
	resp := TimesheetResponse{
		ID:               t.ID,
		EmployeeID:       t.EmployeeID,
		JobID:            t.JobID,
		WorkDate:         t.WorkDate.Format("2006-01-02"),
		Hours:            t.Hours.StringFixed(2),
		Units:            t.Units,
		RateSnapshot:     t.RateSnapshot,
		Earnings:         t.Earnings().StringFixed(2),
		EmployeeApproved: t.EmployeeApproved,
		AdminApproved:    t.AdminApproved,
		ApprovedInRunID:  t.ApprovedInRunID,
		EmployeeComment:  t.EmployeeComment,
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        t.UpdatedAt.Format(time.RFC3339),
	}
	if t.StartAt != nil {
		s := t.StartAt.Format(time.RFC3339)
		resp.StartAt = &s
	}
	if t.EndAt != nil {
		s := t.EndAt.Format(time.RFC3339)
		resp.EndAt = &s
	}
	return resp
}

func ToTimesheetResponses(timesheets []Timesheet) []TimesheetResponse {
	responses := make([]TimesheetResponse, 0, len(timesheets))
	for _, t := range timesheets {
		responses = append(responses, ToTimesheetResponse(t))
	}
	return responses
}
