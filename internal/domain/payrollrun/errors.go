package payrollrun

import "errors"

var (
	ErrRunNotFound        = errors.New("payroll run not found")
	ErrRunLocked          = errors.New("payroll run is locked")
	ErrRunExistsForPeriod = errors.New("a payroll run already exists for this period")
	ErrCycleNotConfigured = errors.New("payroll cycle is not configured")
	ErrNoCompletedPeriod  = errors.New("no pay period has completed yet")
)
