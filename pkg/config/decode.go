package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a structured document syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the document format from a file extension. Unknown or
// missing extensions are treated as TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// ErrMissingKey is wrapped when a required document key is absent.
var ErrMissingKey = errors.New("missing required key")

var (
	requiredKeys = []string{
		"hosts", "mode", "enable-compression", "enable-log",
		"num-workers", "backlog", "max-connections", "max-connection-rate",
		"keep-alive", "client-timeout", "client-shutdown", "shutdown-timeout",
		"ssl",
	}
	requiredSslKeys = []string{"enabled", "certificate", "private-key"}
)

// Decode decodes a document in the given format into Settings[X].
func Decode[X any](data []byte, format Format) (*Settings[X], error) {
	var raw map[string]any
	if err := unmarshal(data, format, &raw); err != nil {
		return nil, &DocumentError{Format: format, Err: err}
	}
	if err := checkRequired(raw); err != nil {
		return nil, &DocumentError{Format: format, Err: err}
	}

	s := new(Settings[X])
	if err := unmarshal(data, format, s); err != nil {
		if format == FormatTOML {
			err = grammarErrorTOML(raw, err)
		}
		return nil, &DocumentError{Format: format, Err: err}
	}
	return s, nil
}

// grammarErrorTOML recovers the typed grammar error behind a TOML decode
// failure. The toml package reports errors from UnmarshalTOML as a
// ParseError that cannot be unwrapped, so each grammar key of the raw
// document is decoded again on its own. The line number of the original
// error is kept. If no grammar key fails, err is returned as is.
func grammarErrorTOML(raw map[string]any, err error) error {
	fields := []struct {
		key string
		v   toml.Unmarshaler
	}{
		{"hosts", new(AddressList)},
		{"mode", new(Mode)},
		{"num-workers", new(NumWorkers)},
		{"backlog", new(Backlog)},
		{"max-connections", new(MaxConnections)},
		{"max-connection-rate", new(MaxConnectionRate)},
		{"keep-alive", new(KeepAlive)},
		{"client-timeout", new(Timeout)},
		{"client-shutdown", new(Timeout)},
		{"shutdown-timeout", new(Timeout)},
	}

	for _, f := range fields {
		typed := f.v.UnmarshalTOML(raw[f.key])
		if typed == nil {
			continue
		}
		var pe toml.ParseError
		if errors.As(err, &pe) {
			return fmt.Errorf("line %d (key %q): %w", pe.Position.Line, f.key, typed)
		}
		return fmt.Errorf("key %q: %w", f.key, typed)
	}
	return err
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	default:
		_, err := toml.Decode(string(data), v)
		return err
	}
}

func checkRequired(raw map[string]any) error {
	for _, key := range requiredKeys {
		v, ok := raw[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
		if v == nil {
			return nullValue(key)
		}
	}
	ssl, ok := raw["ssl"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: ssl must be a table", ErrMissingKey)
	}
	for _, key := range requiredSslKeys {
		v, ok := ssl[key]
		if !ok {
			return fmt.Errorf("%w: ssl.%s", ErrMissingKey, key)
		}
		if v == nil {
			return nullValue("ssl." + key)
		}
	}
	return nil
}

// nullValue rejects an explicit null (YAML ~, JSON null). YAML never hands
// a null node to UnmarshalYAML, so this is the only place it can be caught.
func nullValue(key string) error {
	if key == "hosts" {
		return &ParseAddressError{Text: "null"}
	}
	return &InvalidValueError{Field: key, Expected: "a value", Got: "null"}
}

// The helpers below are the only place where document values reach a
// grammar. Each accepts a single string scalar and hands it to Set.

func decodeTOML(v Value, field string, data any) error {
	s, ok := data.(string)
	if !ok {
		return notAString(field, fmt.Sprint(data))
	}
	return stripSite(v.Set(s))
}

func decodeYAML(v Value, field string, node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
		return notAString(field, node.Value)
	}
	return stripSite(v.Set(node.Value))
}

func decodeJSON(v Value, field string, b []byte) error {
	if isJSONNull(b) {
		return notAString(field, "null")
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return notAString(field, string(b))
	}
	return stripSite(v.Set(s))
}

func isJSONNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

func notAString(field, got string) error {
	return &InvalidValueError{Field: field, Expected: "a string", Got: got}
}

// stripSite drops grammar source coordinates, which mean nothing once the
// error is reported against a document.
func stripSite(err error) error {
	var iv *InvalidValueError
	if errors.As(err, &iv) {
		return &InvalidValueError{Field: iv.Field, Expected: iv.Expected, Got: iv.Got}
	}
	return err
}
