package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	takeExpired() (string, bool)
	onExpired(ctx context.Context, reason string)
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Google(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
	Plans(ctx context.Context, args []string) error
	Recharge(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Support(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the recharge CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF, when ctx is done, or when
// the user types "exit" or "quit".
//
// Before every prompt the loop checks for a forced logout; if one happened
// the user is told and taken back to the login prompt.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                   show available commands
//	  - signup                 create an account
//	  - login                  authenticate with email and password
//	  - google <id-token>      authenticate with a Google ID token
//	  - exit | quit            leave the program
//
//	Logged in:
//	  - help                   show available commands
//	  - whoami                 show the signed-in user
//	  - plans [k=v...]         list plans (category, operator, sort, search words)
//	  - recharge [plan=N]      recharge a number, optionally with a listed plan
//	  - history [k=v...]       list transactions (operator, sort, stats, export)
//	  - support                open a support ticket
//	  - logout                 log out
//	  - exit | quit            leave the program
//
// Any errors returned by command handlers are ignored here; handlers
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		if reason, ok := a.takeExpired(); ok {
			a.onExpired(ctx, reason)
		}

		printlnFn(fmt.Sprintf("recharge %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, plans, recharge, history, support, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, google, exit")
			}

		case "signup", "register":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.Google(ctx, args)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "p", "plans":
			_ = a.Plans(ctx, args)

		case "recharge":
			_ = a.Recharge(ctx, args)

		case "h", "history":
			_ = a.History(ctx, args)

		case "support":
			_ = a.Support(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
