package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ryanfowler/curlc/internal/cli"
	"github.com/ryanfowler/curlc/internal/client"
	"github.com/ryanfowler/curlc/internal/complete"
	"github.com/ryanfowler/curlc/internal/config"
	"github.com/ryanfowler/curlc/internal/core"
	"github.com/ryanfowler/curlc/internal/curl"
	"github.com/ryanfowler/curlc/internal/format"
	"github.com/ryanfowler/curlc/internal/session"
)

func main() {
	// Cancel the context when one of the below signals are caught.
	ctx, cancel := context.WithCancelCause(context.Background())
	chSig := make(chan os.Signal, 1)
	signal.Notify(chSig, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	go func() {
		sig := <-chSig
		cancel(core.SignalError(sig.String()))
	}()

	// Parse the CLI args.
	app, err := cli.Parse(os.Args[1:])
	if err != nil {
		p := core.NewHandle(app.Cfg.Color).Stderr()
		writeCLIErr(p, err)
		os.Exit(1)
	}

	// Print help to stdout.
	if app.Help {
		p := core.NewHandle(app.Cfg.Color).Stdout()
		app.PrintHelp(p)
		p.Flush()
		os.Exit(0)
	}

	// Print version to stdout.
	if app.Version {
		fmt.Fprintln(os.Stdout, "curlc", core.Version)
		os.Exit(0)
	}

	// Print shell completions to stdout.
	if app.Complete != "" {
		os.Exit(writeCompletion(app))
	}

	// Read the curl command from the args, a file, or stdin.
	command, err := readCommand(app)
	if err != nil {
		p := core.NewHandle(app.Cfg.Color).Stderr()
		writeCLIErr(p, err)
		os.Exit(1)
	}

	// Parse any config file, and merge with it.
	err = parseConfigFile(app, command)
	if err != nil {
		p := core.NewHandle(app.Cfg.Color).Stderr()
		core.WriteErrorMsg(p, err)
		os.Exit(1)
	}

	handle := core.NewHandle(app.Cfg.Color)
	os.Exit(run(ctx, app, handle, command))
}

func run(ctx context.Context, app *cli.App, handle *core.Handle, command string) int {
	verbosity := getVerbosity(app)
	stderr := handle.Stderr()

	var store *session.Store
	if app.Session != "" {
		var err error
		store, err = session.LoadStore(app.Session)
		if err != nil {
			if store == nil {
				core.WriteErrorMsg(stderr, err)
				return 1
			}
			msg := fmt.Sprintf("unable to load session '%s': %s", app.Session, err.Error())
			core.WriteWarningMsg(stderr, msg)
		}
		if verbosity >= core.VExtraVerbose {
			msg := fmt.Sprintf("loaded session '%s' with %d cookies", app.Session, len(store.Cookies))
			core.WriteInfoMsg(stderr, msg)
		}
	}

	sess, err := session.New(session.Config{
		Client: client.ClientConfig{
			Insecure:        getValue(app.Cfg.Insecure),
			MaxConns:        getValue(app.Cfg.MaxConns),
			MaxConnsPerHost: getValue(app.Cfg.MaxConnsPerHost),
			Proxy:           app.Cfg.Proxy,
			Timeout:         getValue(app.Cfg.Timeout),
		},
		Headers:   app.Cfg.Headers,
		Redirects: app.Cfg.Redirects,
		Store:     store,
		OnDiagnostic: func(d curl.Diagnostic) {
			if verbosity > core.VSilent {
				core.WriteWarningMsg(stderr, d.String())
			}
		},
	})
	if err != nil {
		core.WriteErrorMsg(stderr, err)
		return 1
	}

	req, err := sess.Compile(command, app.Cfg.Vars...)
	if err != nil {
		core.WriteErrorMsg(stderr, err)
		return 2
	}

	if app.DryRun {
		p := handle.Stdout()
		if err := format.FormatRequest(req, app.Cfg.Format, p); err != nil {
			p.Discard()
			core.WriteErrorMsg(stderr, err)
			return 1
		}
		p.Flush()
		return 0
	}

	if verbosity >= core.VVerbose {
		format.FormatRequest(req, core.FormatText, stderr)
		stderr.WriteString("\n")
		stderr.Flush()
	}

	resp, err := sess.Do(ctx, req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			err = cause
		}
		core.WriteErrorMsg(stderr, err)
		return 1
	}

	if verbosity >= core.VVerbose {
		format.FormatResponseHead(stderr, resp.Proto, resp.Status, resp.Header)
		stderr.Flush()
	}
	if verbosity >= core.VExtraVerbose {
		size := format.FormatSize(int64(len(resp.Body)))
		msg := fmt.Sprintf("received %s in %s", size, resp.Elapsed.Round(time.Millisecond))
		core.WriteInfoMsg(stderr, msg)
	}

	stdout := handle.Stdout()
	stdout.WriteString(resp.Text())
	stdout.Flush()

	if err := sess.Save(); err != nil && verbosity > core.VSilent {
		msg := fmt.Sprintf("unable to save session '%s': %s", app.Session, err.Error())
		core.WriteWarningMsg(stderr, msg)
	}

	return 0
}

// writeCompletion writes the completion registration script for the shell,
// or the completions for the provided arguments.
func writeCompletion(app *cli.App) int {
	shell := complete.GetShell(app.Complete)
	if shell == nil {
		p := core.NewHandle(app.Cfg.Color).Stderr()
		usage := "must be one of [" + strings.Join(complete.Names(), ", ") + "]"
		writeCLIErr(p, core.NewValueError("complete", app.Complete, usage, false))
		return 1
	}

	if len(app.Command) == 0 {
		fmt.Fprintln(os.Stdout, shell.Register())
		return 0
	}
	fmt.Fprint(os.Stdout, complete.Complete(shell, app.Command))
	return 0
}

// readCommand returns the curl command from the positional args, the file
// provided with --file, or a piped stdin.
func readCommand(app *cli.App) (string, error) {
	if app.File != "" {
		return session.ReadCommand(app.File)
	}
	if len(app.Command) > 0 {
		return app.CommandString(), nil
	}
	if !core.IsStdinTerm {
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		if len(buf) > 0 {
			return string(buf), nil
		}
	}
	return "", errors.New("<COMMAND> must be provided")
}

// parse and merge any config file with the CLI app configuration. Host
// sections are matched against the host of the command's URL.
func parseConfigFile(app *cli.App, command string) error {
	file, err := config.GetFile(app.ConfigPath)
	if err != nil {
		return err
	}
	if file == nil {
		return nil
	}

	if host := commandHost(app, file, command); host != "" {
		if hostCfg := file.HostConfig(host); hostCfg != nil {
			app.Cfg.Merge(hostCfg)
		}
	}

	app.Cfg.Merge(file.Global)
	return nil
}

// commandHost compiles the command with the variables known before host
// sections apply, returning the URL's hostname or an empty string.
func commandHost(app *cli.App, file *config.File, command string) string {
	cfg := app.Cfg
	cfg.Merge(file.Global)

	req, _, err := curl.Compile(session.Expand(command, cfg.Vars))
	if err != nil {
		return ""
	}
	return req.URL.Hostname()
}

func getValue[T any](v *T) T {
	if v == nil {
		var t T
		return t
	}
	return *v
}

// getVerbosity returns the Verbosity level based on the app configuration.
func getVerbosity(app *cli.App) core.Verbosity {
	if getValue(app.Cfg.Silent) {
		return core.VSilent
	}
	switch getValue(app.Cfg.Verbosity) {
	case 0:
		return core.VNormal
	case 1:
		return core.VVerbose
	default:
		return core.VExtraVerbose
	}
}

// writeCLIErr writes the provided CLI error to the Printer.
func writeCLIErr(p *core.Printer, err error) {
	core.WriteErrorMsgNoFlush(p, err)

	p.WriteString("\nFor more information, try '")

	p.Set(core.Bold)
	p.WriteString("--help")
	p.Reset()

	p.WriteString("'.\n")
	p.Flush()
}
