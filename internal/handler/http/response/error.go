package response

import (
	"errors"
	"net/http"

	"github.com/tidyops/payroll-backend-go/internal/domain/job"
	"github.com/tidyops/payroll-backend-go/internal/domain/payrollrun"
	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
	"github.com/tidyops/payroll-backend-go/internal/domain/timesheet"
	"github.com/tidyops/payroll-backend-go/internal/pkg/jwt"
	"github.com/tidyops/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Rate domain errors
	case errors.Is(err, rate.ErrRateNotFound):
		NotFound(w, "Rate not found")
	case errors.Is(err, rate.ErrRateExists):
		Conflict(w, "An identical rate already exists")

	// Job domain errors
	case errors.Is(err, job.ErrJobNotFound):
		NotFound(w, "Job not found")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrTimesheetExists):
		Conflict(w, "Timesheet already exists for this employee and job")
	case errors.Is(err, timesheet.ErrTimesheetLocked):
		Conflict(w, "Timesheet belongs to a locked payroll run")
	case errors.Is(err, timesheet.ErrNotTimesheetOwner):
		Forbidden(w, "Timesheet belongs to another employee")
	case errors.Is(err, timesheet.ErrTimesheetNotApproved):
		Conflict(w, "Timesheet has not been approved by the employee")

	// Payroll run domain errors
	case errors.Is(err, payrollrun.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payrollrun.ErrRunLocked):
		Conflict(w, "Payroll run is locked")
	case errors.Is(err, payrollrun.ErrRunExistsForPeriod):
		Conflict(w, "A payroll run already exists for this period")
	case errors.Is(err, payrollrun.ErrCycleNotConfigured):
		NotFound(w, "Payroll cycle is not configured")
	case errors.Is(err, payrollrun.ErrNoCompletedPeriod):
		NotFound(w, "No pay period has completed yet")

	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
