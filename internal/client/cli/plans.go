package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/services"
)

// Plans lists the catalog. Arguments:
//
//	category=all|popular|data|validity
//	operator=<name>
//	sort=price|price-desc|validity|data
//	<words>   search term
//
// The printed list is remembered so "recharge plan=N" can refer to it.
func (a *App) Plans(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	opts := parseOptions(args)
	q := services.PlanQuery{
		Category: opts["category"],
		Operator: opts["operator"],
		Search:   opts[""],
		SortBy:   opts["sort"],
	}

	plans, err := a.plans.Find(ctx, q)
	if err != nil {
		a.report(ctx, err, "Failed to load plans")
		return err
	}

	a.mu.Lock()
	a.lastPlan = plans
	a.mu.Unlock()

	if len(plans) == 0 {
		fmt.Fprintln(a.out, "No plans found")
		return nil
	}

	printPlans(a, plans)
	return nil
}

func printPlans(a *App, plans []models.Plan) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tOPERATOR\tPRICE\tVALIDITY\tDATA\tCALLS\t")
	for i, p := range plans {
		name := p.Operator
		if p.Popular {
			name += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t₹%d\t%s\t%s\t%s\t\n", i+1, name, p.Price, p.Validity, p.Data, p.Calls)
	}
	_ = tw.Flush()
}

// planAt returns plan n (1-based) of the last listing.
func (a *App) planAt(n int) (*models.Plan, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 1 || n > len(a.lastPlan) {
		return nil, fmt.Errorf("no plan #%d in the last listing (run 'plans' first)", n)
	}
	p := a.lastPlan[n-1]
	return &p, nil
}
