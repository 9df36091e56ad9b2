package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/services"
	"github.com/dmitrijs2005/recharge/internal/filex"
)

// History lists past recharges. Arguments:
//
//	operator=<name>                         only this operator
//	sort=newest|oldest|amount-high|amount-low
//	stats                                   print totals instead of rows
//	export=<file.csv>                       write the filtered list as CSV
//	<words>                                 search mobile number or operator
func (a *App) History(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	opts := parseOptions(args)
	showStats := false
	var search []string
	for _, w := range strings.Fields(opts[""]) {
		if w == "stats" {
			showStats = true
			continue
		}
		search = append(search, w)
	}

	h, err := a.txs.History(ctx)
	if err != nil {
		a.report(ctx, err, "Failed to load transactions")
		return err
	}
	if h.Cached {
		fmt.Fprintf(a.out, "Showing saved history (%s)\n", services.Message(h.Err, "backend unavailable"))
	}

	txs := services.FilterTransactions(h.Transactions, services.HistoryQuery{
		Search:   strings.Join(search, " "),
		Operator: opts["operator"],
		SortBy:   opts["sort"],
	})

	if path := opts["export"]; path != "" {
		if err := exportHistory(path, txs); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
		fmt.Fprintf(a.out, "Exported %d transactions to %s\n", len(txs), path)
		return nil
	}

	if showStats {
		st := services.ComputeStats(txs)
		fmt.Fprintf(a.out, "Total spent:        ₹%d\nAverage recharge:   ₹%d\nMost used operator: %s\nTransactions:       %d\n",
			st.TotalAmount, st.AverageAmount, st.MostUsedOperator, st.Count)
		return nil
	}

	if len(txs) == 0 {
		fmt.Fprintln(a.out, "No transactions found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tOPERATOR\tMOBILE\tAMOUNT\tTRANSACTION\tSTATUS\t")
	for _, t := range txs {
		date := "-"
		if !t.CreatedAt.IsZero() {
			date = t.CreatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t₹%d\t%s\t%s\t\n", date, t.Operator, t.MobileNumber, t.Amount, t.TransactionID, t.Status)
	}
	return tw.Flush()
}

func exportHistory(path string, txs []models.Transaction) (err error) {
	if path, err = filex.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return services.ExportCSV(f, txs)
}
