package config

import "gopkg.in/yaml.v3"

// Mode is the deployment mode.
type Mode int

const (
	Development Mode = iota
	Production
)

const modeExpected = `"development" | "production"`

// ParseMode accepts exactly "development" or "production".
func ParseMode(text string) (Mode, error) {
	switch text {
	case "development":
		return Development, nil
	case "production":
		return Production, nil
	default:
		return 0, invalidValue("mode", modeExpected, text)
	}
}

func (m Mode) String() string {
	if m == Production {
		return "production"
	}
	return "development"
}

func (m *Mode) Set(text string) error {
	v, err := ParseMode(text)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error { return m.Set(string(b)) }

func (m *Mode) UnmarshalTOML(data any) error { return decodeTOML(m, "mode", data) }

func (m *Mode) UnmarshalYAML(node *yaml.Node) error { return decodeYAML(m, "mode", node) }

func (m *Mode) UnmarshalJSON(b []byte) error { return decodeJSON(m, "mode", b) }
