package cli

import (
	"strings"

	"github.com/ryanfowler/curlc/internal/config"
	"github.com/ryanfowler/curlc/internal/core"
)

// App represents the full configuration for a curlc invocation.
type App struct {
	Command []string

	Cfg config.Config

	Complete   string
	ConfigPath string
	DryRun     bool
	File       string
	Help       bool
	Session    string
	Version    bool
}

// CommandString returns the curl command. A single argument is the command
// as written. Multiple arguments are words the shell has already unquoted, so
// each is quoted again before joining.
func (a *App) CommandString() string {
	if len(a.Command) == 1 {
		return a.Command[0]
	}

	var sb strings.Builder
	for i, arg := range a.Command {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(quoteArg(arg))
	}
	return sb.String()
}

// quoteArg single-quotes s if it is empty or holds whitespace, quotes or
// backslashes.
func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\r\n'\"\\") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (a *App) PrintHelp(p *core.Printer) {
	printHelp(a.CLI(), p)
}

func (a *App) CLI() *CLI {
	return &CLI{
		Description: "curlc compiles curl commands into HTTP requests and sends them",
		Args: []Arguments{
			{Name: "COMMAND", Description: "The curl command, e.g. curl -H 'Accept: text/plain' URL"},
		},
		ArgFn: func(s string) error {
			a.Command = append(a.Command, s)
			return nil
		},
		ExclusiveFlags: [][]string{
			{"silent", "verbose"},
		},
		Flags: []Flag{
			cfgFlag("color", "", "OPTION", "Enable/disable color",
				func() bool { return a.Cfg.Color != core.ColorUnknown },
				a.Cfg.ParseColor,
			).WithAliases("colour").WithValues("auto", "off", "on"),
			stringFlag(&a.Complete, "complete", "", "SHELL", "Output shell completion").
				WithValues("bash", "fish", "zsh"),
			stringFlag(&a.ConfigPath, "config", "c", "PATH", "Path to config file"),
			boolFlag(&a.DryRun, "dry-run", "", "Print the compiled request without sending it"),
			stringFlag(&a.File, "file", "f", "PATH", "Read the command from a file ('-' for stdin)"),
			cfgFlag("format", "", "OPTION", "Dry-run output format",
				func() bool { return a.Cfg.Format != core.FormatUnknown },
				a.Cfg.ParseFormat,
			).WithValues("text", "json", "yaml"),
			cfgFlag("header", "", "NAME:VALUE", "Default request header",
				func() bool { return len(a.Cfg.Headers) > 0 },
				a.Cfg.ParseHeader,
			),
			boolFlag(&a.Help, "help", "h", "Print help"),
			ptrBoolFlag(&a.Cfg.Insecure, true, "insecure", "k", "Accept invalid TLS certs (!)"),
			cfgFlag("max-conns", "", "NUM", "Maximum idle connections",
				func() bool { return a.Cfg.MaxConns != nil },
				a.Cfg.ParseMaxConns,
			),
			cfgFlag("max-conns-per-host", "", "NUM", "Maximum connections per host",
				func() bool { return a.Cfg.MaxConnsPerHost != nil },
				a.Cfg.ParseMaxConnsPerHost,
			),
			ptrBoolFlag(&a.Cfg.Redirects, false, "no-redirects", "", "Do not follow redirects"),
			cfgFlag("proxy", "x", "PROXY", "Configure a proxy",
				func() bool { return a.Cfg.Proxy != nil },
				a.Cfg.ParseProxy,
			),
			stringFlag(&a.Session, "session", "S", "NAME", "Persist cookies in a named session"),
			ptrBoolFlag(&a.Cfg.Silent, true, "silent", "s", "Print only errors to stderr"),
			cfgFlag("timeout", "t", "SECONDS", "Timeout applied to the request",
				func() bool { return a.Cfg.Timeout != nil },
				a.Cfg.ParseTimeout,
			),
			cfgFlag("var", "", "NAME=VALUE", "Substitute ${NAME} in the command",
				func() bool { return len(a.Cfg.Vars) > 0 },
				a.Cfg.ParseVar,
			),
			{
				Short:       "v",
				Long:        "verbose",
				Description: "Verbosity of the output",
				IsSet: func() bool {
					return a.Cfg.Verbosity != nil
				},
				Fn: func(string) error {
					if a.Cfg.Verbosity == nil {
						a.Cfg.Verbosity = core.PointerTo(1)
					} else {
						(*a.Cfg.Verbosity)++
					}
					return nil
				},
			},
			boolFlag(&a.Version, "version", "V", "Print version"),
		},
	}
}
