package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ryanfowler/curlc/internal/core"
)

// Config represents the configuration options for curlc.
type Config struct {
	isFile bool

	Color           core.Color
	Format          core.Format
	Headers         []core.KeyVal
	Insecure        *bool
	MaxConns        *int
	MaxConnsPerHost *int
	Proxy           *url.URL
	Redirects       *bool
	Silent          *bool
	Timeout         *time.Duration
	Vars            []core.KeyVal
	Verbosity       *int
}

// Merge merges the two Configs together, with "c" taking priority.
func (c *Config) Merge(c2 *Config) {
	if c.Color == core.ColorUnknown {
		c.Color = c2.Color
	}
	if c.Format == core.FormatUnknown {
		c.Format = c2.Format
	}
	if len(c2.Headers) > 0 {
		c.Headers = slices.Concat(c2.Headers, c.Headers)
	}
	if c.Insecure == nil {
		c.Insecure = c2.Insecure
	}
	if c.MaxConns == nil {
		c.MaxConns = c2.MaxConns
	}
	if c.MaxConnsPerHost == nil {
		c.MaxConnsPerHost = c2.MaxConnsPerHost
	}
	if c.Proxy == nil {
		c.Proxy = c2.Proxy
	}
	if c.Redirects == nil {
		c.Redirects = c2.Redirects
	}
	if c.Silent == nil {
		c.Silent = c2.Silent
	}
	if c.Timeout == nil {
		c.Timeout = c2.Timeout
	}
	if len(c2.Vars) > 0 {
		c.Vars = slices.Concat(c2.Vars, c.Vars)
	}
	if c.Verbosity == nil {
		c.Verbosity = c2.Verbosity
	}
}

// Set sets the provided key and value pair, returning any error encountered.
func (c *Config) Set(key, val string) error {
	var err error
	switch key {
	case "color", "colour":
		err = c.ParseColor(val)
	case "format":
		err = c.ParseFormat(val)
	case "header":
		err = c.ParseHeader(val)
	case "insecure":
		err = c.ParseInsecure(val)
	case "max-conns":
		err = c.ParseMaxConns(val)
	case "max-conns-per-host":
		err = c.ParseMaxConnsPerHost(val)
	case "proxy":
		err = c.ParseProxy(val)
	case "redirects":
		err = c.ParseRedirects(val)
	case "silent":
		err = c.ParseSilent(val)
	case "timeout":
		err = c.ParseTimeout(val)
	case "var":
		err = c.ParseVar(val)
	case "verbosity":
		err = c.ParseVerbosity(val)
	default:
		err = invalidOptionError(key)
	}
	return err
}

func (c *Config) ParseColor(value string) error {
	switch value {
	case "auto":
		c.Color = core.ColorAuto
	case "off":
		c.Color = core.ColorOff
	case "on":
		c.Color = core.ColorOn
	default:
		const usage = "must be one of [auto, off, on]"
		return core.NewValueError("color", value, usage, c.isFile)
	}
	return nil
}

func (c *Config) ParseFormat(value string) error {
	switch value {
	case "text":
		c.Format = core.FormatText
	case "json":
		c.Format = core.FormatJSON
	case "yaml":
		c.Format = core.FormatYAML
	default:
		const usage = "must be one of [text, json, yaml]"
		return core.NewValueError("format", value, usage, c.isFile)
	}
	return nil
}

func (c *Config) ParseHeader(value string) error {
	key, val, ok := cut(value, ":")
	if !ok || key == "" {
		return core.NewValueError("header", value, "must be in the format 'NAME: VALUE'", c.isFile)
	}
	c.Headers = append(c.Headers, core.KeyVal{Key: key, Val: val})
	return nil
}

func (c *Config) ParseInsecure(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return core.NewValueError("insecure", value, "must be a boolean", c.isFile)
	}
	c.Insecure = &v
	return nil
}

func (c *Config) ParseMaxConns(value string) error {
	n, err := parseCount("max-conns", value, c.isFile)
	if err != nil {
		return err
	}
	c.MaxConns = &n
	return nil
}

func (c *Config) ParseMaxConnsPerHost(value string) error {
	n, err := parseCount("max-conns-per-host", value, c.isFile)
	if err != nil {
		return err
	}
	c.MaxConnsPerHost = &n
	return nil
}

func (c *Config) ParseProxy(value string) error {
	proxy, err := url.Parse(value)
	if err != nil {
		return core.NewValueError("proxy", value, err.Error(), c.isFile)
	}
	c.Proxy = proxy
	return nil
}

func (c *Config) ParseRedirects(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return core.NewValueError("redirects", value, "must be a boolean", c.isFile)
	}
	c.Redirects = &v
	return nil
}

func (c *Config) ParseSilent(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return core.NewValueError("silent", value, "must be a boolean", c.isFile)
	}
	c.Silent = &v
	return nil
}

func (c *Config) ParseTimeout(value string) error {
	secs, err := strconv.ParseFloat(value, 64)
	if err != nil || secs < 0 {
		return core.NewValueError("timeout", value, "must be a non-negative number", c.isFile)
	}
	c.Timeout = core.PointerTo(time.Duration(float64(time.Second) * secs))
	return nil
}

func (c *Config) ParseVar(value string) error {
	key, val, ok := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return core.NewValueError("var", value, "must be in the format 'NAME=VALUE'", c.isFile)
	}
	c.Vars = append(c.Vars, core.KeyVal{Key: key, Val: val})
	return nil
}

func (c *Config) ParseVerbosity(value string) error {
	v, err := strconv.Atoi(value)
	if err != nil || v < 0 {
		return core.NewValueError("verbosity", value, "must be a valid integer", c.isFile)
	}
	c.Verbosity = &v
	return nil
}

func parseCount(option, value string, isFile bool) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, core.NewValueError(option, value, "must be a positive integer", isFile)
	}
	return n, nil
}

func cut(s, sep string) (string, string, bool) {
	key, val, ok := strings.Cut(s, sep)
	key, val = strings.TrimSpace(key), strings.TrimSpace(val)
	return key, val, ok
}

type invalidOptionError string

func (err invalidOptionError) Error() string {
	return fmt.Sprintf("invalid option: '%s'", string(err))
}

func (err invalidOptionError) PrintTo(p *core.Printer) {
	p.WriteString("invalid option: '")
	p.Set(core.Bold)
	p.WriteString(string(err))
	p.Reset()
	p.WriteString("'")
}
