package rate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
)

type fakeRateRepo struct {
	rates []rate.EmployeeRate
}

func (f *fakeRateRepo) Create(_ context.Context, r *rate.EmployeeRate) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now()
	f.rates = append(f.rates, *r)
	return nil
}

func (f *fakeRateRepo) ListByEmployee(_ context.Context, employeeID string) ([]rate.EmployeeRate, error) {
	var out []rate.EmployeeRate
	for _, r := range f.rates {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRateRepo) ListEffective(_ context.Context, employeeID string, asOf time.Time) ([]rate.EmployeeRate, error) {
	var out []rate.EmployeeRate
	for _, r := range f.rates {
		if r.EmployeeID == employeeID && !r.EffectiveDate.After(asOf) {
			out = append(out, r)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func newRate(employeeID, rateType, amount, effective string, locationID, clientID *string) rate.EmployeeRate {
	amt, _ := decimal.NewFromString(amount)
	eff, _ := time.Parse("2006-01-02", effective)
	return rate.EmployeeRate{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		RateType:      rate.RateType(rateType),
		Amount:        amt,
		EffectiveDate: eff,
		LocationID:    locationID,
		ClientID:      clientID,
		CreatedAt:     eff,
	}
}

func TestResolveRate_LatestEffectiveWins(t *testing.T) {
	employeeID := uuid.NewString()
	repo := &fakeRateRepo{rates: []rate.EmployeeRate{
		newRate(employeeID, "hourly", "20.00", "2026-01-01", nil, nil),
		newRate(employeeID, "hourly", "22.50", "2026-03-01", nil, nil),
		newRate(employeeID, "hourly", "25.00", "2026-06-01", nil, nil),
	}}
	svc := NewRateService(repo)

	resp, err := svc.ResolveRate(context.Background(), &rate.ResolveRateRequest{
		EmployeeID: employeeID,
		Date:       "2026-04-15",
	})
	require.NoError(t, err)
	require.True(t, resp.Found)
	assert.Equal(t, "22.50", resp.Rate.Amount)
}

func TestResolveRate_ScopedBeatsNewerGlobal(t *testing.T) {
	employeeID := uuid.NewString()
	locationID := uuid.NewString()
	repo := &fakeRateRepo{rates: []rate.EmployeeRate{
		newRate(employeeID, "hourly", "21.00", "2026-01-01", strPtr(locationID), nil),
		// A newer global rate must not displace the location-specific one.
		newRate(employeeID, "hourly", "30.00", "2026-05-01", nil, nil),
	}}
	svc := NewRateService(repo)

	resp, err := svc.ResolveRate(context.Background(), &rate.ResolveRateRequest{
		EmployeeID: employeeID,
		Date:       "2026-06-01",
		LocationID: strPtr(locationID),
	})
	require.NoError(t, err)
	require.True(t, resp.Found)
	assert.Equal(t, "21.00", resp.Rate.Amount)
}

func TestResolveRate_ScopedRateIgnoredOutsideItsScope(t *testing.T) {
	employeeID := uuid.NewString()
	repo := &fakeRateRepo{rates: []rate.EmployeeRate{
		newRate(employeeID, "per_visit", "80.00", "2026-01-01", strPtr(uuid.NewString()), nil),
		newRate(employeeID, "hourly", "19.00", "2026-01-01", nil, nil),
	}}
	svc := NewRateService(repo)

	// Resolving for a different location falls back to the global rate.
	resp, err := svc.ResolveRate(context.Background(), &rate.ResolveRateRequest{
		EmployeeID: employeeID,
		Date:       "2026-02-01",
		LocationID: strPtr(uuid.NewString()),
	})
	require.NoError(t, err)
	require.True(t, resp.Found)
	assert.Equal(t, "19.00", resp.Rate.Amount)
}

func TestResolveRate_ClientScopeMustMatch(t *testing.T) {
	employeeID := uuid.NewString()
	locationID := uuid.NewString()
	clientID := uuid.NewString()
	repo := &fakeRateRepo{rates: []rate.EmployeeRate{
		newRate(employeeID, "hourly", "28.00", "2026-01-01", strPtr(locationID), strPtr(clientID)),
	}}
	svc := NewRateService(repo)

	// Location matches but the rate also requires a client match.
	resp, err := svc.ResolveRate(context.Background(), &rate.ResolveRateRequest{
		EmployeeID: employeeID,
		Date:       "2026-02-01",
		LocationID: strPtr(locationID),
	})
	require.NoError(t, err)
	assert.False(t, resp.Found)

	resp, err = svc.ResolveRate(context.Background(), &rate.ResolveRateRequest{
		EmployeeID: employeeID,
		Date:       "2026-02-01",
		LocationID: strPtr(locationID),
		ClientID:   strPtr(clientID),
	})
	require.NoError(t, err)
	require.True(t, resp.Found)
	assert.Equal(t, "28.00", resp.Rate.Amount)
}

func TestResolveRate_NoRateBeforeFirstEffectiveDate(t *testing.T) {
	employeeID := uuid.NewString()
	repo := &fakeRateRepo{rates: []rate.EmployeeRate{
		newRate(employeeID, "hourly", "20.00", "2026-03-01", nil, nil),
	}}
	svc := NewRateService(repo)

	resp, err := svc.ResolveRate(context.Background(), &rate.ResolveRateRequest{
		EmployeeID: employeeID,
		Date:       "2026-02-28",
	})
	require.NoError(t, err)
	assert.False(t, resp.Found)
	assert.Nil(t, resp.Rate)
}

func TestResolveRate_SameDayTieBreaksOnCreatedAt(t *testing.T) {
	employeeID := uuid.NewString()
	first := newRate(employeeID, "hourly", "20.00", "2026-01-01", nil, nil)
	second := newRate(employeeID, "hourly", "21.00", "2026-01-01", nil, nil)
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	repo := &fakeRateRepo{rates: []rate.EmployeeRate{first, second}}
	svc := NewRateService(repo)

	resp, err := svc.ResolveRate(context.Background(), &rate.ResolveRateRequest{
		EmployeeID: employeeID,
		Date:       "2026-01-15",
	})
	require.NoError(t, err)
	require.True(t, resp.Found)
	assert.Equal(t, "21.00", resp.Rate.Amount)
}
