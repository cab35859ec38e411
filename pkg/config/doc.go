// Package config loads and validates server settings.
//
// Every setting has a typed value with its own strict textual grammar.
// The same grammar is used whether the text comes from a TOML, YAML or
// JSON document, from an environment variable or from a command-line flag,
// so a value that is rejected in one place is rejected everywhere.
//
// Settings is generic over an extension payload X that holds
// application-specific keys from the document's [extended-fields] table.
//
// Example usage:
//
//	type Extras struct {
//	    Greeting string `toml:"greeting"`
//	}
//
//	settings, err := config.Load[Extras]("Server.toml")
//	if err != nil {
//	    // handle error
//	}
//	if err := config.OverrideFromEnv(&settings.NumWorkers, "APP_WORKERS"); err != nil {
//	    // handle error
//	}
//
// The package never logs and never binds sockets; see package engine for a
// server that consumes a Settings value.
package config
