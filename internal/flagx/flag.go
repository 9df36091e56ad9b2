// Package flagx lets several loaders share os.Args: each one picks out the
// flags it owns and parses only those.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the arguments of args that belong to valueFlags or
// boolFlags, keeping their order.
//
// Value flags take "-f value" or "-f=value". Bool flags never consume the
// next argument, so "-v positional" keeps only "-v".
func FilterArgs(args []string, valueFlags []string, boolFlags ...string) []string {
	values := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		values[f] = struct{}{}
	}
	bools := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		bools[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			_, isValue := values[name]
			_, isBool := bools[name]
			if isValue || isBool {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := bools[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := values[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFileFlag returns the path given with -c or -config, or "".
func ConfigFileFlag() string {
	return stringFlag("json", []string{"-c", "-config", "--config"}, "config", "c")
}

// EnvFileFlag returns the path given with -env, or "".
func EnvFileFlag() string {
	return stringFlag("env", []string{"-env", "--env"}, "env")
}

func stringFlag(set string, accepted []string, names ...string) string {
	var v string

	args := FilterArgs(os.Args[1:], accepted)

	fs := flag.NewFlagSet(set, flag.ContinueOnError)
	for _, n := range names {
		fs.StringVar(&v, n, "", "")
	}
	fs.SetOutput(nopWriter{})
	_ = fs.Parse(args)

	return v
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
