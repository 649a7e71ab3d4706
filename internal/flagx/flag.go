// Package flagx lets several components share os.Args: each one picks out
// the flags it owns and parses them with its own flag.FlagSet.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the arguments of args that belong to allowedFlags,
// together with their values. Both "-c conf.json" and "-c=conf.json" forms are
// recognised, and so is the double-dash spelling ("--c") that package flag
// accepts for every flag.
func FilterArgs(args []string, allowedFlags []string) []string {
	return FilterArgsWithBools(args, allowedFlags, nil)
}

// FilterArgsWithBools is FilterArgs for flag sets that contain boolean flags.
// A flag listed in boolFlags never takes the following argument as its value;
// an explicit value must use the "-R=false" form, as with package flag.
func FilterArgsWithBools(args []string, allowedFlags, boolFlags []string) []string {
	allowed := nameSet(allowedFlags)
	bools := nameSet(boolFlags)

	// never nil, so callers can pass it straight to FlagSet.Parse
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-flag=value"
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[canonical(name)]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		name := canonical(arg)
		if _, ok := allowed[name]; !ok || !strings.HasPrefix(arg, "-") {
			continue
		}
		filtered = append(filtered, arg)

		if _, isBool := bools[name]; isBool {
			continue
		}
		// the next argument is the value unless it looks like a flag
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func nameSet(flags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		set[canonical(f)] = struct{}{}
	}
	return set
}

// canonical maps "-c" and "--c" to the same key.
func canonical(name string) string {
	if strings.HasPrefix(name, "--") {
		return name[1:]
	}
	return name
}

// ConfigPath returns the value of -c/-config in args, or "" when neither is
// given. The last occurrence wins.
func ConfigPath(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}

// JsonConfigFlags is ConfigPath applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}
