package services

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/dmitrijs2005/recharge/internal/client/client"
	"github.com/dmitrijs2005/recharge/internal/client/models"
)

// Plan sort orders.
const (
	SortPrice     = "price"
	SortPriceDesc = "price-desc"
	SortValidity  = "validity"
	SortData      = "data"
)

// Category thresholds.
const (
	minDataPerDayGB = 2
	minValidityDays = 56
)

// PlanQuery narrows and orders the catalog. Empty fields match everything.
type PlanQuery struct {
	Category string
	Operator string
	Search   string
	SortBy   string
}

type PlanService interface {
	// List fetches the catalog. An empty catalog is seeded once and fetched again.
	List(ctx context.Context) ([]models.Plan, error)
	// Find lists the catalog and applies q.
	Find(ctx context.Context, q PlanQuery) ([]models.Plan, error)
}

type planService struct {
	api client.API
}

func NewPlanService(api client.API) PlanService {
	return &planService{api: api}
}

func (s *planService) List(ctx context.Context) ([]models.Plan, error) {
	plans, err := s.api.ListPlans(ctx)
	if err != nil {
		return nil, oops.Code(CodePlansFailed).Wrap(err)
	}
	if len(plans) > 0 {
		return plans, nil
	}

	if err := s.api.SeedPlans(ctx); err != nil {
		return nil, oops.Code(CodePlansFailed).With("operation", "seed").Wrap(err)
	}
	plans, err = s.api.ListPlans(ctx)
	if err != nil {
		return nil, oops.Code(CodePlansFailed).Wrap(err)
	}
	return plans, nil
}

func (s *planService) Find(ctx context.Context, q PlanQuery) ([]models.Plan, error) {
	plans, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := FilterPlans(plans, q)
	SortPlans(out, q.SortBy)
	return out, nil
}

// FilterPlans returns the plans matching q, in their original order.
func FilterPlans(plans []models.Plan, q PlanQuery) []models.Plan {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Plan, 0, len(plans))

	for _, p := range plans {
		if !matchesCategory(p, q.Category) {
			continue
		}
		if q.Operator != "" && q.Operator != models.CategoryAll && !strings.EqualFold(p.Operator, q.Operator) {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesCategory(p models.Plan, category string) bool {
	switch category {
	case "", models.CategoryAll:
		return true
	case models.CategoryPopular:
		return p.Popular
	case models.CategoryData:
		return p.DataPerDay() >= minDataPerDayGB
	case models.CategoryValidity:
		return p.ValidityDays() >= minValidityDays
	default:
		return strings.EqualFold(p.Category, category)
	}
}

func matchesSearch(p models.Plan, term string) bool {
	return strings.Contains(strconv.Itoa(p.Price), term) ||
		strings.Contains(strings.ToLower(p.Validity), term) ||
		strings.Contains(strings.ToLower(p.Data), term) ||
		strings.Contains(strings.ToLower(p.Operator), term)
}

// SortPlans orders plans in place. Unknown orders leave it unchanged.
func SortPlans(plans []models.Plan, by string) {
	var cmp func(a, b models.Plan) int
	switch by {
	case SortPrice:
		cmp = func(a, b models.Plan) int { return a.Price - b.Price }
	case SortPriceDesc:
		cmp = func(a, b models.Plan) int { return b.Price - a.Price }
	case SortValidity:
		cmp = func(a, b models.Plan) int { return a.ValidityDays() - b.ValidityDays() }
	case SortData:
		cmp = func(a, b models.Plan) int {
			da, db := a.DataPerDay(), b.DataPerDay()
			switch {
			case da > db:
				return -1
			case da < db:
				return 1
			}
			return 0
		}
	default:
		return
	}
	slices.SortStableFunc(plans, cmp)
}
