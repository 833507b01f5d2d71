package tl

// Category tells whether a definition constructs a data type or names a
// remote procedure. It is a property of the definition's position in the
// schema, set by the iterator from the section markers.
type Category int

const (
	Types Category = iota
	Functions
)

const (
	typesSeparator     = "---types---"
	functionsSeparator = "---functions---"
)

func (c Category) String() string {
	switch c {
	case Types:
		return "types"
	case Functions:
		return "functions"
	default:
		return "unknown"
	}
}

// MarshalText lets categories appear by name in JSON and YAML dumps.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
