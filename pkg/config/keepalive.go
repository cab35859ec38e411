package config

import (
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// KeepAliveKind is the connection keep-alive policy.
type KeepAliveKind int

const (
	KeepAliveDefault KeepAliveKind = iota
	KeepAliveDisabled
	KeepAliveOS
	KeepAliveSeconds
)

const keepAliveExpected = `"default", "disabled", "os", or "N seconds" where N is an integer >= 0`

var keepAliveRegex = regexp.MustCompile(`^(\d+) seconds$`)

// KeepAlive is the keep-alive setting. Seconds is only meaningful when
// Kind is KeepAliveSeconds.
type KeepAlive struct {
	Kind    KeepAliveKind
	Seconds uint64
}

// ParseKeepAlive parses "default", "disabled", "os", "OS" or "N seconds".
func ParseKeepAlive(text string) (KeepAlive, error) {
	switch text {
	case "default":
		return KeepAlive{}, nil
	case "disabled":
		return KeepAlive{Kind: KeepAliveDisabled}, nil
	case "os", "OS":
		return KeepAlive{Kind: KeepAliveOS}, nil
	}

	m := keepAliveRegex.FindStringSubmatch(text)
	if m == nil {
		return KeepAlive{}, invalidValue("keep-alive", keepAliveExpected, text)
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return KeepAlive{}, invalidValue("keep-alive", keepAliveExpected, text)
	}
	return KeepAlive{Kind: KeepAliveSeconds, Seconds: n}, nil
}

// Duration returns the keep-alive period for KeepAliveSeconds and 0 for
// every other kind. "0 seconds" therefore also converts to 0, which a
// binding treats like "disabled". A period too large for time.Duration
// wraps ErrDurationOverflow.
func (k KeepAlive) Duration() (time.Duration, error) {
	if k.Kind != KeepAliveSeconds {
		return 0, nil
	}
	return scale(k.Seconds, time.Second, k.String())
}

func (k KeepAlive) String() string {
	switch k.Kind {
	case KeepAliveDisabled:
		return "disabled"
	case KeepAliveOS:
		return "os"
	case KeepAliveSeconds:
		return strconv.FormatUint(k.Seconds, 10) + " seconds"
	default:
		return "default"
	}
}

func (k *KeepAlive) Set(text string) error {
	v, err := ParseKeepAlive(text)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func (k KeepAlive) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *KeepAlive) UnmarshalText(b []byte) error { return k.Set(string(b)) }

func (k *KeepAlive) UnmarshalTOML(data any) error { return decodeTOML(k, "keep-alive", data) }

func (k *KeepAlive) UnmarshalYAML(node *yaml.Node) error { return decodeYAML(k, "keep-alive", node) }

func (k *KeepAlive) UnmarshalJSON(b []byte) error { return decodeJSON(k, "keep-alive", b) }
