// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"strings"

	"github.com/miekg/dns"
)

// ReverseName converts an IPv4 or IPv6 literal to its canonical
// reverse name: octets reversed under in-addr.arpa for IPv4, nibbles
// reversed under ip6.arpa for IPv6. The result is fully qualified. A
// name that is already in reverse form passes through unchanged modulo
// canonicalization.
func ReverseName(addr string) (string, error) {
	if isReverseName(addr) {
		return dns.CanonicalName(addr), nil
	}
	arpa, err := dns.ReverseAddr(addr)
	if err != nil {
		return "", &InvalidIPAddressError{Value: addr}
	}
	return arpa, nil
}

func isReverseName(name string) bool {
	canonical := dns.CanonicalName(name)
	return strings.HasSuffix(canonical, ".in-addr.arpa.") ||
		strings.HasSuffix(canonical, ".ip6.arpa.")
}
