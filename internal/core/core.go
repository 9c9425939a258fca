package core

// Color represents the options for enabling or disabling color output.
type Color int

const (
	ColorUnknown Color = iota
	ColorAuto
	ColorOn
	ColorOff
)

// Format represents how a compiled request descriptor is rendered.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Verbosity represents how verbose the output should be.
type Verbosity int

const (
	VSilent Verbosity = iota
	VNormal
	VVerbose
	VExtraVerbose
)

type KeyVal struct {
	Key, Val string
}

// PointerTo returns a pointer to the provided value.
func PointerTo[T any](t T) *T {
	return &t
}
