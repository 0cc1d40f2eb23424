package rate

import "context"

type RateService interface {
	CreateRate(ctx context.Context, req *CreateRateRequest) (*RateResponse, error)
	ListRates(ctx context.Context, employeeID string) ([]RateResponse, error)
	ResolveRate(ctx context.Context, req *ResolveRateRequest) (*ResolveRateResponse, error)
}
