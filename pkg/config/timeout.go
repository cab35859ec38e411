package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// TimeoutUnit selects the default or the unit a timeout was written in.
type TimeoutUnit int

const (
	TimeoutDefault TimeoutUnit = iota
	TimeoutMilliseconds
	TimeoutSeconds
)

const timeoutExpected = `"default", "N milliseconds" or "N seconds" where N is an integer >= 0`

var timeoutRegex = regexp.MustCompile(`^(\d+) (milliseconds|seconds)$`)

// Timeout is a duration-or-default setting used by client-timeout,
// client-shutdown and shutdown-timeout.
type Timeout struct {
	Unit TimeoutUnit
	N    uint64
}

// ParseTimeout parses "default", "N milliseconds" or "N seconds".
func ParseTimeout(text string) (Timeout, error) {
	if text == "default" {
		return Timeout{}, nil
	}

	m := timeoutRegex.FindStringSubmatch(text)
	if m == nil {
		return Timeout{}, invalidValue("", timeoutExpected, text)
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Timeout{}, invalidValue("", timeoutExpected, text)
	}
	if m[2] == "milliseconds" {
		return Timeout{Unit: TimeoutMilliseconds, N: n}, nil
	}
	return Timeout{Unit: TimeoutSeconds, N: n}, nil
}

// IsDefault reports whether the timeout was written as "default".
func (t Timeout) IsDefault() bool { return t.Unit == TimeoutDefault }

// Duration converts a manual timeout. The default converts to 0. A value
// too large for time.Duration wraps ErrDurationOverflow.
func (t Timeout) Duration() (time.Duration, error) {
	switch t.Unit {
	case TimeoutMilliseconds:
		return scale(t.N, time.Millisecond, t.String())
	case TimeoutSeconds:
		return scale(t.N, time.Second, t.String())
	default:
		return 0, nil
	}
}

func scale(n uint64, unit time.Duration, text string) (time.Duration, error) {
	if n > uint64(math.MaxInt64/int64(unit)) {
		return 0, fmt.Errorf("config: %q: %w", text, ErrDurationOverflow)
	}
	return time.Duration(n) * unit, nil
}

func (t Timeout) String() string {
	switch t.Unit {
	case TimeoutMilliseconds:
		return strconv.FormatUint(t.N, 10) + " milliseconds"
	case TimeoutSeconds:
		return strconv.FormatUint(t.N, 10) + " seconds"
	default:
		return "default"
	}
}

func (t *Timeout) Set(text string) error {
	v, err := ParseTimeout(text)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t Timeout) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Timeout) UnmarshalText(b []byte) error { return t.Set(string(b)) }

func (t *Timeout) UnmarshalTOML(data any) error { return decodeTOML(t, "timeout", data) }

func (t *Timeout) UnmarshalYAML(node *yaml.Node) error { return decodeYAML(t, "timeout", node) }

func (t *Timeout) UnmarshalJSON(b []byte) error { return decodeJSON(t, "timeout", b) }
