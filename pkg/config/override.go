package config

import (
	"os"
	"unicode/utf8"
)

// Override replaces *field with the parse of text. On error the field is
// left unchanged. Any field works, nested or extension fields included, as
// long as Parse knows its type.
//
// Example usage:
//
//	err := config.Override(&settings.Ssl.Enabled, "true")
func Override[T any](field *T, text string) error {
	v, err := Parse[T](text)
	if err != nil {
		return err
	}
	*field = v
	return nil
}

// OverrideFromEnv applies Override with the value of the environment
// variable name. An unset variable is not an error and leaves the field as
// it is; a value that is not valid UTF-8 yields *EnvVarError.
func OverrideFromEnv[T any](field *T, name string) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	if !utf8.ValidString(v) {
		return &EnvVarError{Name: name, Err: ErrNotUnicode}
	}
	return Override(field, v)
}
