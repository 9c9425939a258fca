package curl

// Command is the root of a parsed curl invocation.
type Command struct {
	Flags []Flag
	URL   *URL
}

// URL holds the literal URL text of a Command.
type URL struct {
	Raw string
}

// Method is an HTTP method name.
type Method struct {
	Name string
}

const (
	MethodGet  = "GET"
	MethodPost = "POST"
	MethodPut  = "PUT"
)

// Method derives the request method from the Command's flags. An explicit
// method always wins, otherwise the presence of a request body implies POST.
// Flag order does not matter.
func (c *Command) Method() Method {
	var explicit string
	var hasData bool
	for _, f := range c.Flags {
		switch f := f.(type) {
		case ExplicitMethod:
			explicit = f.Method
		case Data:
			hasData = true
		}
	}

	switch {
	case explicit != "":
		return Method{Name: explicit}
	case hasData:
		return Method{Name: MethodPost}
	default:
		return Method{Name: MethodGet}
	}
}

// Flag is one of Header, Data, Compressed or ExplicitMethod.
type Flag interface {
	flag()
}

// Header is a -H/--header flag with its raw "Name: value" argument.
type Header struct {
	Value string
}

// Data is a -d/--data flag with its raw body argument.
type Data struct {
	Value string
}

// Compressed is the --compressed flag.
type Compressed struct{}

// ExplicitMethod is a -X/--request flag.
type ExplicitMethod struct {
	Method string
}

func (Header) flag()         {}
func (Data) flag()           {}
func (Compressed) flag()     {}
func (ExplicitMethod) flag() {}
