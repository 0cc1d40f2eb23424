package timesheet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
)

// Timesheet is one employee's payable record, usually for one job but also
// created ad hoc by an admin. The rate snapshot is frozen at creation time;
// editing payable fields resets both approvals and detaches the timesheet
// from any draft payroll run.
type Timesheet struct {
	ID               string
	EmployeeID       string
	JobID            *string
	WorkDate         time.Time
	StartAt          *time.Time
	EndAt            *time.Time
	Hours            decimal.Decimal
	Units            int
	RateSnapshot     *rate.Snapshot
	EmployeeApproved bool
	AdminApproved    bool
	ApprovedInRunID  *string
	EmployeeComment  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Earnings computes the timesheet's pay from its frozen snapshot. Hourly pay
// is amount times hours; per-visit pay is amount times units, with zero units
// treated as one visit. A missing snapshot earns zero rather than failing.
// Rounded to 2 decimal places, half away from zero.
func (t Timesheet) Earnings() decimal.Decimal {
	if t.RateSnapshot == nil {
		return decimal.Zero
	}
	switch t.RateSnapshot.Type {
	case rate.RateTypeHourly:
		return t.RateSnapshot.Amount.Mul(t.Hours).Round(2)
	case rate.RateTypePerVisit:
		units := t.Units
		if units == 0 {
			units = 1
		}
		return t.RateSnapshot.Amount.Mul(decimal.NewFromInt(int64(units))).Round(2)
	}
	return decimal.Zero
}

// GenerationReport summarizes one timesheet generation pass. Created carries
// the full drafts so the caller can present them without a second fetch.
type GenerationReport struct {
	Created         []TimesheetResponse `json:"created"`
	SkippedExisting int                 `json:"skipped_existing"`
	MissingRates    []MissingRateEntry  `json:"missing_rates"`
	Failed          []FailedEntry       `json:"failed"`
}

// MissingRateEntry records an employee/job pair for which no rate could be
// resolved. The pair is reported for operator review, not silently dropped.
type MissingRateEntry struct {
	EmployeeID string `json:"employee_id"`
	JobID      string `json:"job_id"`
}

// FailedEntry records a pair whose timesheet could not be persisted.
type FailedEntry struct {
	EmployeeID string `json:"employee_id"`
	JobID      string `json:"job_id"`
	Reason     string `json:"reason"`
}
