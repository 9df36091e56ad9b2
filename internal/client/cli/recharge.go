package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/services"
)

var paymentMethods = []string{
	string(models.PaymentMethodUPI),
	string(models.PaymentMethodCard),
	string(models.PaymentMethodNetBanking),
	string(models.PaymentMethodWallet),
}

// Recharge collects the recharge form and submits it. Arguments:
//
//	plan=N           use plan N of the last "plans" listing
//	mobile=<number>  skip the mobile number prompt
//	operator=<name>  skip the operator prompt
func (a *App) Recharge(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	req, err := a.rechargeForm(parseOptions(args))
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	tx, err := a.txs.Recharge(ctx, req)
	if err != nil {
		a.report(ctx, err, "Recharge failed. Please try again.")
		return err
	}

	fmt.Fprintf(a.out, "Recharge successful! ₹%d for %s (%s)\nTransaction ID: %s\n",
		tx.Amount, tx.MobileNumber, tx.Operator, tx.TransactionID)
	return nil
}

func (a *App) rechargeForm(opts map[string]string) (services.RechargeRequest, error) {
	var req services.RechargeRequest
	var err error

	if s, ok := opts["plan"]; ok {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			return req, fmt.Errorf("invalid plan number %q", s)
		}
		if req.Plan, err = a.planAt(n); err != nil {
			return req, err
		}
		req.Operator = req.Plan.Operator
		req.Amount = req.Plan.Price
	}

	if v := opts["operator"]; v != "" {
		req.Operator = v
	}
	if req.Operator == "" {
		if req.Operator, err = getSimpleText(a.reader, "Enter operator (jio, airtel, vi, bsnl)", a.out); err != nil {
			return req, err
		}
	}

	req.MobileNumber = opts["mobile"]
	if req.MobileNumber == "" {
		if req.MobileNumber, err = getSimpleText(a.reader, "Enter 10-digit mobile number", a.out); err != nil {
			return req, err
		}
	}

	if req.Plan == nil {
		if req.Amount, err = GetNumber(a.reader, "Enter amount (₹)", 0, a.out); err != nil {
			return req, err
		}
	}

	method, err := GetChoice(a.reader, "Select payment method", paymentMethods, a.out)
	if err != nil {
		return req, err
	}
	req.PaymentMethod = models.PaymentMethod(method)

	switch req.PaymentMethod {
	case models.PaymentMethodUPI:
		if req.UPIID, err = getSimpleText(a.reader, "Enter UPI ID", a.out); err != nil {
			return req, err
		}
	case models.PaymentMethodCard:
		if req.CardNumber, err = getSimpleText(a.reader, "Enter card number", a.out); err != nil {
			return req, err
		}
		if req.Expiry, err = getSimpleText(a.reader, "Enter expiry (MM/YY)", a.out); err != nil {
			return req, err
		}
		if req.CVV, err = getPassword(a.reader, "Enter CVV", a.out); err != nil {
			return req, err
		}
	}

	return req, nil
}
