package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overlays every field that has a matching environment variable,
// using the `env` and `envPrefix` tags on Settings and, when X is a struct,
// on the extension payload. Names are prefix + tag, e.g. with prefix
// "SRVCONF_": SRVCONF_NUM_WORKERS, SRVCONF_SSL_ENABLED, SRVCONF_EXT_<tag>.
//
// Typed settings go through their own grammar, so an env value is held to
// the same rules as a document value or a single Override.
func ApplyEnv[X any](s *Settings[X], prefix string) error {
	if err := env.ParseWithOptions(s, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("config: applying env overrides: %w", err)
	}
	return nil
}
