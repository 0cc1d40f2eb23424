package rate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validCreateRateRequest() CreateRateRequest {
	return CreateRateRequest{
		EmployeeID:    uuid.NewString(),
		RateType:      "hourly",
		Amount:        "20.00",
		EffectiveDate: "2026-01-01",
	}
}

func TestCreateRateRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateRateRequest)
		wantField string
	}{
		{
			name:   "valid request",
			mutate: func(r *CreateRateRequest) {},
		},
		{
			name:      "zero amount rejected",
			mutate:    func(r *CreateRateRequest) { r.Amount = "0" },
			wantField: "amount",
		},
		{
			name:      "negative amount rejected",
			mutate:    func(r *CreateRateRequest) { r.Amount = "-5.00" },
			wantField: "amount",
		},
		{
			name:      "non-numeric amount rejected",
			mutate:    func(r *CreateRateRequest) { r.Amount = "twenty" },
			wantField: "amount",
		},
		{
			name:      "unknown rate type rejected",
			mutate:    func(r *CreateRateRequest) { r.RateType = "salaried" },
			wantField: "rate_type",
		},
		{
			name:      "malformed effective date rejected",
			mutate:    func(r *CreateRateRequest) { r.EffectiveDate = "01/01/2026" },
			wantField: "effective_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRateRequest()
			tt.mutate(&req)
			errs := req.Validate()
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			assert.NotEmpty(t, errs)
			assert.Contains(t, errs.ToMap(), tt.wantField)
		})
	}
}
