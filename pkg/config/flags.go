package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// flagUsage lists one command-line flag per document key, in document order.
var flagUsage = []struct {
	key   string
	usage string
}{
	{"hosts", `listeners, e.g. [["0.0.0.0", 9000]]`},
	{"mode", `"development" or "production"`},
	{"enable-compression", "toggle the compression middleware"},
	{"enable-log", "toggle the logging middleware"},
	{"num-workers", `"default" or a worker count`},
	{"backlog", `"default" or a listen backlog`},
	{"max-connections", `"default" or a connection limit`},
	{"max-connection-rate", `"default" or connections per second`},
	{"keep-alive", `"default", "disabled", "os" or "N seconds"`},
	{"client-timeout", `"default", "N milliseconds" or "N seconds"`},
	{"client-shutdown", `"default", "N milliseconds" or "N seconds"`},
	{"shutdown-timeout", `"default", "N milliseconds" or "N seconds"`},
	{"ssl.enabled", "enable TLS"},
	{"ssl.certificate", "path to the certificate"},
	{"ssl.private-key", "path to the private key"},
}

// RegisterFlags adds a string flag for every core setting to fs. The flags
// carry raw text; ApplyFlags parses the ones the user actually set.
func RegisterFlags(fs *pflag.FlagSet) {
	for _, f := range flagUsage {
		fs.String(f.key, "", f.usage)
	}
}

// ApplyFlags overrides every setting whose flag was changed on fs, in
// document order. It stops at the first value that fails its grammar.
func ApplyFlags[X any](fs *pflag.FlagSet, s *Settings[X]) error {
	setters := s.setters()
	for _, f := range flagUsage {
		flag := fs.Lookup(f.key)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := setters[f.key](flag.Value.String()); err != nil {
			return fmt.Errorf("config: flag --%s: %w", f.key, err)
		}
	}
	return nil
}

// setters maps each document key to an Override on the matching field.
func (s *Settings[X]) setters() map[string]func(string) error {
	return map[string]func(string) error{
		"hosts":               overrider(&s.Hosts),
		"mode":                overrider(&s.Mode),
		"enable-compression":  overrider(&s.EnableCompression),
		"enable-log":          overrider(&s.EnableLog),
		"num-workers":         overrider(&s.NumWorkers),
		"backlog":             overrider(&s.Backlog),
		"max-connections":     overrider(&s.MaxConnections),
		"max-connection-rate": overrider(&s.MaxConnectionRate),
		"keep-alive":          overrider(&s.KeepAlive),
		"client-timeout":      overrider(&s.ClientTimeout),
		"client-shutdown":     overrider(&s.ClientShutdown),
		"shutdown-timeout":    overrider(&s.ShutdownTimeout),
		"ssl.enabled":         overrider(&s.Ssl.Enabled),
		"ssl.certificate":     overrider(&s.Ssl.Certificate),
		"ssl.private-key":     overrider(&s.Ssl.PrivateKey),
	}
}

// Set overrides the core setting named by its document key, e.g.
// "keep-alive" or "ssl.enabled".
func (s *Settings[X]) Set(key, text string) error {
	set, ok := s.setters()[key]
	if !ok {
		return fmt.Errorf("config: unknown setting %q", key)
	}
	return set(text)
}

func overrider[T any](field *T) func(string) error {
	return func(text string) error { return Override(field, text) }
}
