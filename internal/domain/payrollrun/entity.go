package payrollrun

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft  RunStatus = "draft"
	RunStatusLocked RunStatus = "locked"
)

// PayrollRun collects admin-approved timesheets for one pay period. A draft
// run can gain and lose timesheets; locking is terminal and freezes both the
// run and every timesheet attached to it.
type PayrollRun struct {
	ID             string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Status         RunStatus
	TotalHours     decimal.Decimal
	TotalAmount    decimal.Decimal
	TimesheetCount int
	LockedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmployeeTotal is one employee's slice of a run.
type EmployeeTotal struct {
	EmployeeID     string
	TimesheetCount int
	Hours          decimal.Decimal
	Total          decimal.Decimal
}

// CycleFrequency enum
type CycleFrequency string

const (
	FrequencyWeekly   CycleFrequency = "weekly"
	FrequencyBiweekly CycleFrequency = "biweekly"
	FrequencyMonthly  CycleFrequency = "monthly"
)

var CycleFrequencyValues = []string{
	string(FrequencyWeekly),
	string(FrequencyBiweekly),
	string(FrequencyMonthly),
}

// Cycle is the company's pay-period configuration. Exactly one anchor field
// is meaningful per frequency: weekday for weekly, a past start date for
// biweekly, a day of month for monthly.
type Cycle struct {
	Frequency     CycleFrequency
	AnchorWeekday *int
	AnchorDay     *int
	AnchorDate    *time.Time
	UpdatedAt     time.Time
}

// Period is a half-open date interval [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}
