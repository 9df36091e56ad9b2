// Package services contains the application services of the recharge client.
//
// Services sit between the CLI and the session client: AuthService drives
// the session lifecycle, PlanService and TransactionService wrap the catalog
// and recharge endpoints, SupportService files tickets. Failures are tagged
// with oops codes and keep the client error chain intact, so callers can
// still match client.ErrUnauthorized and friends and turn any error into a
// user-facing string with Message.
package services
