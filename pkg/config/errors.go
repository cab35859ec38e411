package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"runtime"
)

// ErrNotUnicode is wrapped by EnvVarError when a variable is set
// but its value is not valid UTF-8.
var ErrNotUnicode = errors.New("environment variable is not valid unicode")

// ErrDurationOverflow is wrapped when a manual duration is too large to be
// represented as a time.Duration.
var ErrDurationOverflow = errors.New("duration overflows time.Duration")

// EnvVarError reports an environment variable that is present but unreadable.
type EnvVarError struct {
	Name string
	Err  error
}

func (e *EnvVarError) Error() string {
	return fmt.Sprintf("config: env var %q: %v", e.Name, e.Err)
}

func (e *EnvVarError) Unwrap() error { return e.Err }

// FileExistsError is returned by WriteTemplate when the target is occupied.
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("config: file already exists: %s", e.Path)
}

// Is lets callers match with errors.Is(err, fs.ErrExist).
func (e *FileExistsError) Is(target error) bool { return target == fs.ErrExist }

// Site is the source location of the grammar rule that rejected a value.
// It is meant for internal diagnostics, not for end-user messages.
type Site struct {
	File string
	Line int
}

func (s Site) String() string {
	if s.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// InvalidValueError reports text that does not match a field grammar.
type InvalidValueError struct {
	Field    string // document key, empty when the grammar is not field specific
	Expected string
	Got      string
	Site     Site
}

func (e *InvalidValueError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config: invalid value %q for %s: expected %s", e.Got, e.Field, e.Expected)
	}
	return fmt.Sprintf("config: invalid value %q: expected %s", e.Got, e.Expected)
}

// invalidValue builds an InvalidValueError stamped with the caller's location.
func invalidValue(field, expected, got string) *InvalidValueError {
	e := &InvalidValueError{Field: field, Expected: expected, Got: got}
	if _, file, line, ok := runtime.Caller(1); ok {
		e.Site = Site{File: filepath.Base(file), Line: line}
	}
	return e
}

// IOError wraps a file system failure while reading or writing a document.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("config: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseAddressError carries the original offending text verbatim.
type ParseAddressError struct {
	Text string
	Err  error // optional cause, e.g. a port overflow
}

func (e *ParseAddressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: invalid address %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("config: invalid address %q", e.Text)
}

func (e *ParseAddressError) Unwrap() error { return e.Err }

// DocumentError reports a malformed or schema-violating document.
type DocumentError struct {
	Format Format
	Err    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("config: decoding %s document: %v", e.Format, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// UnsupportedTypeError is returned by Parse for types without a grammar.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("config: no grammar for type %s", e.Type)
}
