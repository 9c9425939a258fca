package complete

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ryanfowler/curlc/internal/cli"
	"github.com/ryanfowler/curlc/internal/core"
	"github.com/ryanfowler/curlc/internal/curl"
)

// Complete returns the completions output for the provided shell and
// arguments. The first argument is the program name.
func Complete(shell Shell, args []string) string {
	if len(args) <= 1 {
		return shell.Complete(nil)
	}
	args = args[1:]

	flags := getFlags()
	short, long := cli.IndexFlags(flags)

	for len(args) > 0 {
		arg := args[0]
		args = args[1:]

		if arg == "--" || !strings.HasPrefix(arg, "-") {
			// The curl command has started.
			return shell.Complete(completeCommand(args))
		}

		// If last argument, attempt completion for it.
		if len(args) == 0 {
			if arg == "-" {
				return shell.Complete(allFlags(flags))
			}

			// Complete long flag.
			after, ok := strings.CutPrefix(arg, "--")
			if ok {
				return shell.Complete(completeLongFlag(flags, long, after))
			}

			// Complete short flag.
			return shell.Complete(completeShortFlag(flags, short, arg[1:]))
		}

		// Parse long flag.
		after, ok := strings.CutPrefix(arg, "--")
		if ok {
			name, _, hasVal := strings.Cut(after, "=")
			flag, ok := long[name]
			if !ok || flag.Args == "" || hasVal {
				continue
			}

			// Check if the argument to this flag needs completion.
			if len(args) == 1 {
				return shell.Complete(completeValue(flag, "", args[0]))
			}

			// Otherwise, we need to skip the next argument.
			args = args[1:]
			continue
		}

		// Parse short flag.
		values := arg[1:]
		for i := range values {
			flag, ok := short[values[i:i+1]]
			if !ok {
				break
			}
			if flag.Args == "" {
				continue
			}
			if i != len(values)-1 {
				// Value is inline, e.g. -t5.
				break
			}

			if len(args) == 1 {
				return shell.Complete(completeValue(flag, "", args[0]))
			}
			args = args[1:]
			break
		}
	}

	return shell.Complete(nil)
}

// completeCommand completes curl flags once the curl command has started.
func completeCommand(args []string) []core.KeyVal {
	if len(args) == 0 {
		return nil
	}
	last := args[len(args)-1]
	if !strings.HasPrefix(last, "-") {
		return nil
	}

	var out []core.KeyVal
	for _, f := range curl.SupportedFlags() {
		if strings.HasPrefix(f, last) {
			out = append(out, core.KeyVal{Key: f})
		}
	}
	return out
}

func getFlags() []cli.Flag {
	var app cli.App
	return app.CLI().Flags
}

func completeLongFlag(flags []cli.Flag, long map[string]cli.Flag, value string) []core.KeyVal {
	if key, val, ok := strings.Cut(value, "="); ok {
		flag, ok := long[key]
		if !ok {
			return nil
		}
		return completeValue(flag, "--"+key+"=", val)
	}

	var out []core.KeyVal
	for _, flag := range flags {
		if strings.HasPrefix(flag.Long, value) {
			out = append(out, core.KeyVal{
				Key: "--" + flag.Long,
				Val: flag.Description,
			})
		}
	}
	return out
}

func completeShortFlag(flags []cli.Flag, short map[string]cli.Flag, value string) []core.KeyVal {
	values := make(map[string]struct{})
	for i := range value {
		name := value[i : i+1]
		flag, ok := short[name]
		if !ok {
			return nil
		}
		if flag.Args != "" {
			prefix := "-" + value[:i+1]
			val := value[i+1:]
			if len(val) > 0 && val[0] == '=' {
				prefix += "="
				val = val[1:]
			}
			return completeValue(flag, prefix, val)
		}
		values[name] = struct{}{}
	}

	var out []core.KeyVal
	for _, flag := range flags {
		if flag.Short == "" {
			continue
		}
		if _, ok := values[flag.Short]; ok {
			continue
		}
		out = append(out, core.KeyVal{
			Key: "-" + value + flag.Short,
			Val: flag.Description,
		})
	}
	return out
}

func completeValue(flag cli.Flag, prefix, value string) []core.KeyVal {
	if flag.Args == "" {
		return nil
	}

	if len(flag.Values) > 0 {
		var kvs []core.KeyVal
		for _, v := range flag.Values {
			if strings.HasPrefix(v, value) {
				kvs = append(kvs, core.KeyVal{Key: prefix + v})
			}
		}
		return kvs
	}

	switch flag.Long {
	case "config", "file":
		return completePath(prefix, value)
	}
	return nil
}

func completePath(prefix, orig string) []core.KeyVal {
	path := os.ExpandEnv(orig)

	if orig == "~" {
		return []core.KeyVal{{Key: prefix + "~/", Val: "File"}}
	}

	if len(path) >= 2 && path[0] == '~' && path[1] == os.PathSeparator {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home + path[1:]
		}
	}

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var base string
	if path != "" && !strings.HasSuffix(path, string(os.PathSeparator)) {
		base = filepath.Base(path)
	}

	var out []core.KeyVal
	for _, entry := range entries {
		name := entry.Name()

		// Skip hidden files when listing all files in a directory.
		if base == "" && strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasPrefix(name, base) {
			continue
		}

		file := filepath.Join(filepath.Dir(orig), name)
		if entry.IsDir() {
			file += string(os.PathSeparator)
		}
		out = append(out, core.KeyVal{Key: prefix + file, Val: "File"})
	}
	return out
}

func allFlags(flags []cli.Flag) []core.KeyVal {
	kvs := make([]core.KeyVal, 0, len(flags))
	for _, flag := range flags {
		kvs = append(kvs, core.KeyVal{
			Key: "--" + flag.Long,
			Val: flag.Description,
		})
	}
	return kvs
}
