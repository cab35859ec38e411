package config

import (
	"reflect"
	"strconv"
	"time"
)

// Value is the parsing contract shared by every typed setting.
//
// String renders the canonical textual form and Set replaces the receiver
// with the parse of text, leaving it untouched on failure. The method set
// matches flag.Value, so any setting can also be used as a command-line flag.
type Value interface {
	String() string
	Set(text string) error
}

// Parse converts text into a T.
//
// Types whose pointer implements Value use their own grammar. Booleans,
// strings, integers of every width, float64 and time.Duration use the
// strconv/time conversions; a failure there is a *strconv.NumError.
// Any other type yields *UnsupportedTypeError.
func Parse[T any](text string) (T, error) {
	var v T
	if err := parseInto(&v, text); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func parseInto(ptr any, text string) error {
	if v, ok := ptr.(Value); ok {
		return v.Set(text)
	}

	switch p := ptr.(type) {
	case *string:
		*p = text
	case *bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		*p = b
	case *float64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return err
		}
		*p = f
	case *time.Duration:
		d, err := time.ParseDuration(text)
		if err != nil {
			return err
		}
		*p = d
	default:
		return parseKind(reflect.ValueOf(ptr).Elem(), text)
	}
	return nil
}

// parseKind covers named types whose underlying type is a primitive.
func parseKind(rv reflect.Value, text string) error {
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(text)
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetUint(n)
	default:
		return &UnsupportedTypeError{Type: rv.Type()}
	}
	return nil
}
