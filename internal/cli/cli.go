package cli

import (
	"strings"

	"github.com/ryanfowler/curlc/internal/core"
)

// CLI describes the command line: its flags, positional arguments, and the
// groups of flags that cannot be combined.
type CLI struct {
	Description    string
	ArgFn          func(s string) error
	Args           []Arguments
	Flags          []Flag
	ExclusiveFlags [][]string
}

type Arguments struct {
	Name        string
	Description string
}

// Flag is a single option. Args names the flag's value in help output; a flag
// with an empty Args takes no value.
type Flag struct {
	Short       string
	Long        string
	Aliases     []string
	Args        string
	Description string
	Values      []string
	IsSet       func() bool
	Fn          func(value string) error
}

func (f Flag) takesValue() bool {
	return f.Args != ""
}

// IndexFlags returns the flags keyed by short and long name, aliases
// included.
func IndexFlags(flags []Flag) (short, long map[string]Flag) {
	short = make(map[string]Flag)
	long = make(map[string]Flag)
	for _, flag := range flags {
		if flag.Short != "" {
			short[flag.Short] = flag
		}
		if flag.Long != "" {
			long[flag.Long] = flag
		}
		for _, alias := range flag.Aliases {
			if len(alias) == 1 {
				short[alias] = flag
			} else {
				long[alias] = flag
			}
		}
	}
	return short, long
}

// parser consumes the arguments one at a time. Flag parsing ends at the
// first positional argument or at "--"; everything after belongs to ArgFn.
type parser struct {
	cli         *CLI
	short, long map[string]Flag
	rest        []string
}

func parse(cli *CLI, args []string) error {
	p := &parser{cli: cli, rest: args}
	p.short, p.long = IndexFlags(cli.Flags)

	if err := p.flags(); err != nil {
		return err
	}
	for _, arg := range p.rest {
		if err := cli.ArgFn(arg); err != nil {
			return err
		}
	}
	return p.checkExclusives()
}

func (p *parser) flags() error {
	for len(p.rest) > 0 {
		arg := p.rest[0]
		switch {
		case arg == "--":
			p.rest = p.rest[1:]
			return nil
		case len(arg) <= 1 || arg[0] != '-':
			// The command starts here, including any flags of its own.
			return nil
		}

		p.rest = p.rest[1:]
		var err error
		if strings.HasPrefix(arg, "--") {
			err = p.longFlag(arg[2:])
		} else {
			err = p.shortFlags(arg[1:])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// next pops the following argument as the value for the named flag.
func (p *parser) next(name string) (string, error) {
	if len(p.rest) == 0 {
		return "", argRequiredError(name)
	}
	value := p.rest[0]
	p.rest = p.rest[1:]
	return value, nil
}

// shortFlags handles "-abc", "-t5", "-t=5" and "-t 5".
func (p *parser) shortFlags(group string) error {
	for i := 0; i < len(group); i++ {
		name := "-" + group[i:i+1]
		flag, ok := p.short[group[i:i+1]]
		if !ok {
			return unknownFlagError(name)
		}

		inline, hasInline := strings.CutPrefix(group[i+1:], "=")
		if !flag.takesValue() {
			if hasInline {
				return flagNoArgsError(name)
			}
			if err := flag.Fn(""); err != nil {
				return err
			}
			continue
		}

		value := inline
		if !hasInline {
			value = group[i+1:]
		}
		if value == "" && !hasInline {
			var err error
			if value, err = p.next(name); err != nil {
				return err
			}
		}
		return flag.Fn(value)
	}
	return nil
}

// longFlag handles "--name", "--name=value" and "--name value".
func (p *parser) longFlag(arg string) error {
	key, value, hasValue := strings.Cut(arg, "=")
	name := "--" + key

	flag, ok := p.long[key]
	if !ok {
		return unknownFlagError(name)
	}

	switch {
	case !flag.takesValue() && hasValue:
		return flagNoArgsError(name)
	case flag.takesValue() && !hasValue:
		var err error
		if value, err = p.next(name); err != nil {
			return err
		}
	}
	return flag.Fn(value)
}

func (p *parser) checkExclusives() error {
	for _, group := range p.cli.ExclusiveFlags {
		var first string
		for _, name := range group {
			if !p.long[name].IsSet() {
				continue
			}
			if first != "" {
				return newExclusiveFlagsError(first, name)
			}
			first = name
		}
	}
	return nil
}

// Parse parses the command line arguments into an App.
func Parse(args []string) (*App, error) {
	var app App

	cli := app.CLI()
	if err := parse(cli, args); err != nil {
		return &app, err
	}

	if app.File != "" && len(app.Command) > 0 {
		return &app, fileCommandExclusiveError{}
	}

	return &app, nil
}

func printHelp(cli *CLI, p *core.Printer) {
	p.WriteString(cli.Description)
	p.WriteString("\n\n")

	writeHeading(p, "Usage")
	p.WriteString(" ")
	p.Set(core.Bold)
	p.WriteString("curlc")
	p.Reset()
	p.WriteString(" [OPTIONS]")
	for _, arg := range cli.Args {
		p.WriteString(" [" + arg.Name + "]...")
	}
	p.WriteString("\n")

	if len(cli.Args) > 0 {
		p.WriteString("\n")
		writeHeading(p, "Arguments")
		p.WriteString("\n")
		for _, arg := range cli.Args {
			p.WriteString("  [" + arg.Name + "]  " + arg.Description + "\n")
		}
	}

	p.WriteString("\n")
	writeHeading(p, "Options")
	p.WriteString("\n")

	width := 0
	for _, flag := range cli.Flags {
		width = max(width, len(flagLabel(flag)))
	}
	for _, flag := range cli.Flags {
		writeFlagHelp(p, flag, width)
	}
}

func writeHeading(p *core.Printer, title string) {
	p.Set(core.Bold)
	p.Set(core.Underline)
	p.WriteString(title)
	p.Reset()
	p.WriteString(":")
}

// flagLabel returns the plain text of a flag's help column, e.g.
// "-c, --config <PATH>".
func flagLabel(f Flag) string {
	label := "    --" + f.Long
	if f.Short != "" {
		label = "-" + f.Short + ", --" + f.Long
	}
	if f.takesValue() {
		label += " <" + f.Args + ">"
	}
	return label
}

func writeFlagHelp(p *core.Printer, f Flag, width int) {
	label := flagLabel(f)
	names, args, _ := strings.Cut(label, " <")

	p.WriteString("  ")
	p.Set(core.Bold)
	p.WriteString(names)
	p.Reset()
	if f.takesValue() {
		p.WriteString(" <" + args)
	}
	p.WriteString(strings.Repeat(" ", width-len(label)+2))

	p.WriteString(f.Description)
	if len(f.Values) > 0 {
		p.WriteString(" [" + strings.Join(f.Values, ", ") + "]")
	}
	p.WriteString("\n")
}
