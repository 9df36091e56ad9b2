package plans

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the catalog, possibly empty.
func (s *Service) List(ctx context.Context) ([]Plan, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing plans: %w", err)
	}
	if plans == nil {
		plans = []Plan{}
	}
	return plans, nil
}

// Seed replaces the catalog with DefaultCatalog and returns its size.
func (s *Service) Seed(ctx context.Context) (int, error) {
	catalog := DefaultCatalog()
	if err := s.repo.ReplaceAll(ctx, catalog); err != nil {
		return 0, fmt.Errorf("error seeding plans: %w", err)
	}
	return len(catalog), nil
}
