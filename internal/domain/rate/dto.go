package rate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tidyops/payroll-backend-go/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type CreateRateRequest struct {
	EmployeeID    string  `json:"employee_id"`
	RateType      string  `json:"rate_type"`
	Amount        string  `json:"amount"`
	EffectiveDate string  `json:"effective_date"`
	LocationID    *string `json:"location_id,omitempty"`
	ClientID      *string `json:"client_id,omitempty"`
}

func (r *CreateRateRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "Employee ID is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "Employee ID must be a valid UUID"})
	}

	if validator.IsEmpty(r.RateType) {
		errs = append(errs, validator.ValidationError{Field: "rate_type", Message: "Rate type is required"})
	} else if !validator.IsInSlice(r.RateType, RateTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "rate_type", Message: "Rate type must be one of: hourly, per_visit"})
	}

	if validator.IsEmpty(r.Amount) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "Amount is required"})
	} else if amt, err := decimal.NewFromString(r.Amount); err != nil {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "Amount must be a valid decimal number"})
	} else if !amt.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "Amount must be greater than zero"})
	}

	if validator.IsEmpty(r.EffectiveDate) {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "Effective date is required"})
	} else if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "Effective date must be in YYYY-MM-DD format"})
	}

	if r.LocationID != nil && !validator.IsValidUUID(*r.LocationID) {
		errs = append(errs, validator.ValidationError{Field: "location_id", Message: "Location ID must be a valid UUID"})
	}
	if r.ClientID != nil && !validator.IsValidUUID(*r.ClientID) {
		errs = append(errs, validator.ValidationError{Field: "client_id", Message: "Client ID must be a valid UUID"})
	}

	return errs
}

// ToEntity converts a validated request into an EmployeeRate.
func (r *CreateRateRequest) ToEntity() EmployeeRate {
	amount, _ := decimal.NewFromString(r.Amount)
	effectiveDate, _ := time.Parse("2006-01-02", r.EffectiveDate)
	return EmployeeRate{
		EmployeeID:    r.EmployeeID,
		RateType:      RateType(r.RateType),
		Amount:        amount,
		EffectiveDate: effectiveDate,
		LocationID:    r.LocationID,
		ClientID:      r.ClientID,
	}
}

type ResolveRateRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	LocationID *string `json:"location_id,omitempty"`
	ClientID   *string `json:"client_id,omitempty"`
}

func (r *ResolveRateRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "Employee ID is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "Employee ID must be a valid UUID"})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "Date is required"})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "Date must be in YYYY-MM-DD format"})
	}

	if r.LocationID != nil && !validator.IsValidUUID(*r.LocationID) {
		errs = append(errs, validator.ValidationError{Field: "location_id", Message: "Location ID must be a valid UUID"})
	}
	if r.ClientID != nil && !validator.IsValidUUID(*r.ClientID) {
		errs = append(errs, validator.ValidationError{Field: "client_id", Message: "Client ID must be a valid UUID"})
	}

	return errs
}

// ========== RESPONSE DTOs ==========

type RateResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	RateType      string  `json:"rate_type"`
	Amount        string  `json:"amount"`
	EffectiveDate string  `json:"effective_date"`
	LocationID    *string `json:"location_id,omitempty"`
	ClientID      *string `json:"client_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func ToRateResponse(r EmployeeRate) RateResponse {
	return RateResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		RateType:      string(r.RateType),
		Amount:        r.Amount.StringFixed(2),
		EffectiveDate: r.EffectiveDate.Format("2006-01-02"),
		LocationID:    r.LocationID,
		ClientID:      r.ClientID,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func ToRateResponses(rates []EmployeeRate) []RateResponse {
	responses := make([]RateResponse, 0, len(rates))
	for _, r := range rates {
		responses = append(responses, ToRateResponse(r))
	}
	return responses
}

// ResolveRateResponse reports the outcome of rate resolution. A missing rate
// is a normal outcome, not an error.
type ResolveRateResponse struct {
	Found bool          `json:"found"`
	Rate  *RateResponse `json:"rate,omitempty"`
}
