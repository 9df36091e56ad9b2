package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

var errNotLoggedIn = errors.New("not logged in")

// Signup prompts for the registration form, validates it and creates the
// account. On success the user is logged in.
func (a *App) Signup(ctx context.Context) error {
	var p models.Profile
	var err error

	if p.Name, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	if p.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if p.Phone, err = getSimpleText(a.reader, "Enter mobile number", a.out); err != nil {
		return err
	}
	if p.Password, err = getPassword(a.reader, "Enter password", a.out); err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}

	if err := services.ValidateSignup(p, confirm); err != nil {
		fmt.Fprintln(a.out, "Error:", services.Message(err, "Signup failed"))
		return err
	}

	principal, err := a.auth.Signup(ctx, p)
	if err != nil {
		a.report(ctx, err, "Signup failed")
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", principal.DisplayName())
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// The form is validated locally first; the backend is only contacted for a
// well-formed email and password. On failure the user-facing message
// follows services.Message precedence with "Login failed" as fallback.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	if err := services.ValidateLogin(email, password); err != nil {
		fmt.Fprintln(a.out, "Error:", services.Message(err, "Login failed"))
		return err
	}

	principal, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.report(ctx, err, "Login failed")
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", principal.DisplayName())
	return nil
}

// Google signs in with a Google ID token given as the first argument or
// pasted at the prompt.
func (a *App) Google(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		var err error
		if token, err = getSimpleText(a.reader, "Paste Google ID token", a.out); err != nil {
			return err
		}
	}

	principal, err := a.auth.FederatedLogin(ctx, token)
	if err != nil {
		a.report(ctx, err, "Google login failed")
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", principal.DisplayName())
	return nil
}

// WhoAmI prints the signed-in principal.
func (a *App) WhoAmI(_ context.Context) error {
	st := a.auth.Current()
	if !st.Authenticated {
		fmt.Fprintln(a.out, "Not logged in")
		return errNotLoggedIn
	}

	p := st.Principal
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\n", p.Name, p.Email)
	if p.Phone != "" {
		fmt.Fprintf(a.out, "Phone: %s\n", p.Phone)
	}
	if p.Role != "" {
		fmt.Fprintf(a.out, "Role:  %s\n", p.Role)
	}
	return nil
}

// Logout ends the session locally. It never contacts the backend.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.report(ctx, err, "Logout failed")
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// requireLogin prints a hint and returns errNotLoggedIn when nobody is
// signed in.
func (a *App) requireLogin() error {
	if a.auth.Current().Authenticated {
		return nil
	}
	fmt.Fprintln(a.out, "Please log in first (type 'login')")
	return errNotLoggedIn
}
