package extraction

import (
	"context"
	"sync"
)

// StaticExtractor is an in-memory Extractor that returns canned results.
// It records every request it receives.
type StaticExtractor struct {
	mu sync.Mutex

	Result         *Result
	Identification *Identification
	ExtractErr     error
	IdentifyErr    error

	Requests []Request
}

// Extract returns a copy of the canned result.
func (s *StaticExtractor) Extract(_ context.Context, req Request) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.ExtractErr != nil {
		return nil, s.ExtractErr
	}
	if s.Result == nil {
		return &Result{}, nil
	}
	return s.Result.Clone(), nil
}

// Identify returns the canned identification.
func (s *StaticExtractor) Identify(_ context.Context, req Request) (*Identification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.IdentifyErr != nil {
		return nil, s.IdentifyErr
	}
	if s.Identification == nil {
		return &Identification{}, nil
	}
	id := *s.Identification
	return &id, nil
}

// Strategies returns the strategy of each recorded request in order.
func (s *StaticExtractor) Strategies() []Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Strategy, len(s.Requests))
	for i, r := range s.Requests {
		out[i] = r.Strategy
	}
	return out
}
