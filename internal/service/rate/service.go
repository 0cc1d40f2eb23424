package rate

import (
	"context"
	"time"

	"github.com/tidyops/payroll-backend-go/internal/domain/rate"
)

type rateService struct {
	rateRepo rate.RateRepository
}

func NewRateService(rateRepo rate.RateRepository) rate.RateService {
	return &rateService{rateRepo: rateRepo}
}

func (s *rateService) CreateRate(ctx context.Context, req *rate.CreateRateRequest) (*rate.RateResponse, error) {
	entity := req.ToEntity()
	if err := s.rateRepo.Create(ctx, &entity); err != nil {
		return nil, err
	}
	resp := rate.ToRateResponse(entity)
	return &resp, nil
}

func (s *rateService) ListRates(ctx context.Context, employeeID string) ([]rate.RateResponse, error) {
	rates, err := s.rateRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return rate.ToRateResponses(rates), nil
}

// ResolveRate finds the rate in force for an employee on a date, under an
// optional location/client scope. A missing rate is a normal outcome and is
// reported as found=false rather than an error.
func (s *rateService) ResolveRate(ctx context.Context, req *rate.ResolveRateRequest) (*rate.ResolveRateResponse, error) {
	asOf, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	candidates, err := s.rateRepo.ListEffective(ctx, req.EmployeeID, asOf)
	if err != nil {
		return nil, err
	}

	picked := rate.PickEffective(candidates, rate.Scope{
		LocationID: req.LocationID,
		ClientID:   req.ClientID,
	})
	if picked == nil {
		return &rate.ResolveRateResponse{Found: false}, nil
	}

	resp := rate.ToRateResponse(*picked)
	return &rate.ResolveRateResponse{Found: true, Rate: &resp}, nil
}
