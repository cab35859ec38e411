package config

import (
	"errors"
	"io/fs"
	"os"
)

// Ssl references TLS material. The files themselves are not inspected.
type Ssl struct {
	Enabled     bool   `toml:"enabled" yaml:"enabled" json:"enabled" env:"ENABLED"`
	Certificate string `toml:"certificate" yaml:"certificate" json:"certificate" env:"CERTIFICATE"`
	PrivateKey  string `toml:"private-key" yaml:"private-key" json:"private-key" env:"PRIVATE_KEY"`
}

// Settings is the whole server configuration plus an application-defined
// ExtendedFields payload, decoded from the document's [extended-fields]
// table with the same decoder as the rest of the document.
type Settings[X any] struct {
	Hosts             AddressList       `toml:"hosts" yaml:"hosts" json:"hosts" env:"HOSTS"`
	Mode              Mode              `toml:"mode" yaml:"mode" json:"mode" env:"MODE"`
	EnableCompression bool              `toml:"enable-compression" yaml:"enable-compression" json:"enable-compression" env:"ENABLE_COMPRESSION"`
	EnableLog         bool              `toml:"enable-log" yaml:"enable-log" json:"enable-log" env:"ENABLE_LOG"`
	NumWorkers        NumWorkers        `toml:"num-workers" yaml:"num-workers" json:"num-workers" env:"NUM_WORKERS"`
	Backlog           Backlog           `toml:"backlog" yaml:"backlog" json:"backlog" env:"BACKLOG"`
	MaxConnections    MaxConnections    `toml:"max-connections" yaml:"max-connections" json:"max-connections" env:"MAX_CONNECTIONS"`
	MaxConnectionRate MaxConnectionRate `toml:"max-connection-rate" yaml:"max-connection-rate" json:"max-connection-rate" env:"MAX_CONNECTION_RATE"`
	KeepAlive         KeepAlive         `toml:"keep-alive" yaml:"keep-alive" json:"keep-alive" env:"KEEP_ALIVE"`
	ClientTimeout     Timeout           `toml:"client-timeout" yaml:"client-timeout" json:"client-timeout" env:"CLIENT_TIMEOUT"`
	ClientShutdown    Timeout           `toml:"client-shutdown" yaml:"client-shutdown" json:"client-shutdown" env:"CLIENT_SHUTDOWN"`
	ShutdownTimeout   Timeout           `toml:"shutdown-timeout" yaml:"shutdown-timeout" json:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT"`
	Ssl               Ssl               `toml:"ssl" yaml:"ssl" json:"ssl" envPrefix:"SSL_"`
	ExtendedFields    X                 `toml:"extended-fields" yaml:"extended-fields" json:"extended-fields" envPrefix:"EXT_"`
}

// Standard is Settings with free-form string extension fields.
type Standard = Settings[map[string]string]

// Load reads the document at path, picking the format from its extension.
//
// A missing TOML document is first created from the canonical template. If
// another process creates it in the meantime, that file is read instead.
func Load[X any](path string) (*Settings[X], error) {
	format := FormatOf(path)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && format == FormatTOML {
		if err := WriteTemplate(path); err != nil && !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return Decode[X](data, format)
}

// FromTemplate decodes a TOML document held in memory.
func FromTemplate[X any](text string) (*Settings[X], error) {
	return Decode[X]([]byte(text), FormatTOML)
}

// FromDefaultTemplate decodes the canonical template.
func FromDefaultTemplate[X any]() (*Settings[X], error) {
	return FromTemplate[X](Template())
}
