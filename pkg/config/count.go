package config

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// CountKind selects between the binding default and a manual count.
type CountKind int

const (
	CountDefault CountKind = iota
	CountManual
)

const countExpected = `"default" or an integer >= 0`

// countField marks which document key a Count belongs to, so that the four
// count settings share one grammar but keep their own diagnostics.
type countField interface {
	key() string
}

type numWorkers struct{}
type backlog struct{}
type maxConnections struct{}
type maxConnectionRate struct{}

func (numWorkers) key() string        { return "num-workers" }
func (backlog) key() string           { return "backlog" }
func (maxConnections) key() string    { return "max-connections" }
func (maxConnectionRate) key() string { return "max-connection-rate" }

// Count is a bounded-count setting: the literal "default" or a base-10
// non-negative integer. The zero value is CountDefault.
type Count[F countField] struct {
	Kind CountKind
	N    uint64
}

type (
	NumWorkers        = Count[numWorkers]
	Backlog           = Count[backlog]
	MaxConnections    = Count[maxConnections]
	MaxConnectionRate = Count[maxConnectionRate]
)

// ParseCount parses text with the count grammar for field F.
func ParseCount[F countField](text string) (Count[F], error) {
	if text == "default" {
		return Count[F]{}, nil
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		var f F
		return Count[F]{}, invalidValue(f.key(), countExpected, text)
	}
	return Count[F]{Kind: CountManual, N: n}, nil
}

// Manual returns the manual count and true, or 0 and false for the default.
func (c Count[F]) Manual() (uint64, bool) {
	return c.N, c.Kind == CountManual
}

func (c Count[F]) String() string {
	if c.Kind != CountManual {
		return "default"
	}
	return strconv.FormatUint(c.N, 10)
}

func (c *Count[F]) Set(text string) error {
	v, err := ParseCount[F](text)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Count[F]) fieldKey() string {
	var f F
	return f.key()
}

func (c Count[F]) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Count[F]) UnmarshalText(b []byte) error { return c.Set(string(b)) }

func (c *Count[F]) UnmarshalTOML(data any) error { return decodeTOML(c, c.fieldKey(), data) }

func (c *Count[F]) UnmarshalYAML(node *yaml.Node) error { return decodeYAML(c, c.fieldKey(), node) }

func (c *Count[F]) UnmarshalJSON(b []byte) error { return decodeJSON(c, c.fieldKey(), b) }
