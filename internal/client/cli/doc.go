// Package cli provides the interactive recharge command-line client.
//
// It wires configuration, local storage, the session store, the API client
// and the application services into a REPL. Typical flow: restore the
// stored session or prompt for credentials, then execute user commands.
//
// Key features:
//   - Login / Signup / Google sign-in / Logout
//   - Browse plans with category, operator and search filters
//   - Simulated recharge with UPI, card, net banking or wallet payment
//   - Transaction history with filters, sorting, stats and CSV export
//   - Support tickets
//
// When the backend rejects the credential the session is cleared and the
// REPL drops back to the login prompt. The REPL is started via App.Run,
// which blocks until the user exits.
package cli
