package rate

import "errors"

var (
	ErrRateNotFound = errors.New("rate not found")
	ErrRateExists   = errors.New("an identical rate already exists for this employee and effective date")
)
