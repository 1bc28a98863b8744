// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"
)

// ErrLabelTooLong indicates a hostname label longer than 63 octets
// after ASCII-compatible encoding. It is wrapped inside a
// [*InvalidHostnameError].
var ErrLabelTooLong = errors.New("hostname label exceeds 63 octets")

// InvalidHostnameError indicates a hostname that cannot be represented
// in ASCII-compatible (punycode) form.
type InvalidHostnameError struct {
	// Hostname is the offending input, verbatim.
	Hostname string

	// cause is the underlying encoding failure, if any.
	cause error
}

// Error implements error.
func (e *InvalidHostnameError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid hostname %q: %s", e.Hostname, e.cause.Error())
	}
	return fmt.Sprintf("invalid hostname %q", e.Hostname)
}

// Unwrap returns the underlying encoding failure, if any.
func (e *InvalidHostnameError) Unwrap() error {
	return e.cause
}

// InvalidIPAddressError indicates a value that does not parse as an
// IPv4 or IPv6 literal, or that belongs to the wrong address family
// for the record type declaring it.
type InvalidIPAddressError struct {
	// Value is the offending input, verbatim.
	Value string
}

// Error implements error.
func (e *InvalidIPAddressError) Error() string {
	return fmt.Sprintf("invalid IP address %q", e.Value)
}

// RecordContextError indicates a declared value that cannot be
// interpreted as a record of the type it was declared under. It wraps
// the low-level parse or validation failure.
type RecordContextError struct {
	// Rtype is the record type mnemonic ("A", "MX", ...).
	Rtype string

	// Value is the offending input, verbatim.
	Value string

	// cause is the underlying failure.
	cause error
}

// Error implements error.
func (e *RecordContextError) Error() string {
	return fmt.Sprintf("cannot interpret as DNS name: %s. Invalid %s record context", e.Value, e.Rtype)
}

// Unwrap returns the underlying failure.
func (e *RecordContextError) Unwrap() error {
	return e.cause
}

// RecordNotFoundError reports the question of a query that matched no
// declared record. It is only surfaced when a not-found handler is
// installed via [WithNotFoundHandler].
type RecordNotFoundError struct {
	// Name is the canonical queried name.
	Name string

	// Qtype is the queried record type.
	Qtype uint16
}

// Error implements error.
func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record not found: %s %s", e.Name, dns.TypeToString[e.Qtype])
}
