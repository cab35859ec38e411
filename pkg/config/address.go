package config

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	addrRegex     = regexp.MustCompile(`^\s*\[\s*"([^"]+)"\s*,\s*(\d+)\s*\]\s*$`)
	addrElemRegex = regexp.MustCompile(`\[\s*"([^"]+)"\s*,\s*(\d+)\s*\]`)
	addrListRegex = regexp.MustCompile(
		`^\s*\[\s*(?:` + addrElemRegex.String() + `(?:\s*,\s*` + addrElemRegex.String() + `)*\s*,?)?\s*\]\s*$`,
	)
)

// Address is one network endpoint, written ["host", port].
type Address struct {
	Host string
	Port uint16
}

// ParseAddress parses a single ["host", port] pair.
func ParseAddress(text string) (Address, error) {
	m := addrRegex.FindStringSubmatch(text)
	if m == nil {
		return Address{}, &ParseAddressError{Text: text}
	}
	return newAddress(text, m[1], m[2])
}

func newAddress(text, host, port string) (Address, error) {
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return Address{}, &ParseAddressError{Text: text, Err: err}
	}
	return Address{Host: host, Port: uint16(p)}, nil
}

// HostPort renders the address as host:port for dialing or listening.
func (a Address) HostPort() string {
	return net.JoinHostPort(a.Host, strconv.FormatUint(uint64(a.Port), 10))
}

func (a Address) String() string {
	return fmt.Sprintf(`["%s", %d]`, a.Host, a.Port)
}

func (a *Address) Set(text string) error {
	v, err := ParseAddress(text)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(b []byte) error { return a.Set(string(b)) }

func (a *Address) UnmarshalTOML(data any) error {
	v, err := addressFromPair(data)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a *Address) UnmarshalYAML(node *yaml.Node) error {
	var pair []any
	if err := node.Decode(&pair); err != nil {
		return &ParseAddressError{Text: node.Value, Err: err}
	}
	return a.UnmarshalTOML(pair)
}

func (a *Address) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return &ParseAddressError{Text: "null"}
	}
	var pair []any
	if err := json.Unmarshal(b, &pair); err != nil {
		return &ParseAddressError{Text: string(b), Err: err}
	}
	return a.UnmarshalTOML(pair)
}

// AddressList is an ordered list of endpoints, written [[...], [...]].
type AddressList []Address

// ParseAddressList parses a bracketed list of ["host", port] pairs. The whole
// text must match before any element is extracted.
func ParseAddressList(text string) (AddressList, error) {
	if !addrListRegex.MatchString(text) {
		return nil, &ParseAddressError{Text: text}
	}
	matches := addrElemRegex.FindAllStringSubmatch(text, -1)
	list := make(AddressList, 0, len(matches))
	for _, m := range matches {
		addr, err := newAddress(text, m[1], m[2])
		if err != nil {
			return nil, err
		}
		list = append(list, addr)
	}
	return list, nil
}

func (l AddressList) String() string {
	parts := make([]string, len(l))
	for i, a := range l {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *AddressList) Set(text string) error {
	v, err := ParseAddressList(text)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l AddressList) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *AddressList) UnmarshalText(b []byte) error { return l.Set(string(b)) }

func (l *AddressList) UnmarshalTOML(data any) error {
	items, ok := data.([]any)
	if !ok {
		return &ParseAddressError{Text: fmt.Sprint(data)}
	}
	list := make(AddressList, 0, len(items))
	for _, item := range items {
		addr, err := addressFromPair(item)
		if err != nil {
			return err
		}
		list = append(list, addr)
	}
	*l = list
	return nil
}

func (l *AddressList) UnmarshalYAML(node *yaml.Node) error {
	var items []Address
	if err := node.Decode(&items); err != nil {
		return err
	}
	*l = AddressList(items)
	return nil
}

func (l *AddressList) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return &ParseAddressError{Text: "null"}
	}
	var items []Address
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = AddressList(items)
	return nil
}

// addressFromPair validates a decoded [host, port] pair. TOML hands us int64,
// YAML int and JSON float64 for the port.
func addressFromPair(data any) (Address, error) {
	bad := func(err error) (Address, error) {
		return Address{}, &ParseAddressError{Text: fmt.Sprint(data), Err: err}
	}

	pair, ok := data.([]any)
	if !ok || len(pair) != 2 {
		return bad(nil)
	}
	host, ok := pair[0].(string)
	if !ok || host == "" || strings.Contains(host, `"`) {
		return bad(nil)
	}

	var port int64
	switch n := pair[1].(type) {
	case int64:
		port = n
	case int:
		port = int64(n)
	case uint64:
		if n > math.MaxUint16 {
			return bad(strconv.ErrRange)
		}
		port = int64(n)
	case float64:
		if n != math.Trunc(n) {
			return bad(nil)
		}
		port = int64(n)
	default:
		return bad(nil)
	}
	if port < 0 || port > math.MaxUint16 {
		return bad(strconv.ErrRange)
	}
	return Address{Host: host, Port: uint16(port)}, nil
}
