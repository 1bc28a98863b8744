// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// aceProfile maps and validates names like a lookup would, but without
// STD3 rules so that names containing underscores are accepted.
var aceProfile = idna.New(idna.MapForLookup(), idna.StrictDomainName(false))

// maxLabelLength is the RFC 1035 limit on a single label.
const maxLabelLength = 63

// ToACE converts a hostname, possibly containing non-ASCII characters
// and possibly carrying a trailing dot, to its ASCII-compatible
// encoding: each label punycoded independently, lowercased, without a
// trailing dot. Applying ToACE to an already-encoded name returns it
// unchanged modulo case and trailing-dot normalization.
func ToACE(hostname string) (string, error) {
	trimmed := strings.TrimSuffix(hostname, ".")
	if trimmed == "" {
		return "", &InvalidHostnameError{Hostname: hostname}
	}
	ascii, err := aceProfile.ToASCII(trimmed)
	if err != nil {
		return "", &InvalidHostnameError{Hostname: hostname, cause: err}
	}
	for label := range strings.SplitSeq(ascii, ".") {
		if len(label) > maxLabelLength {
			return "", &InvalidHostnameError{Hostname: hostname, cause: ErrLabelTooLong}
		}
	}
	return ascii, nil
}

// canonicalHost returns the fully-qualified canonical form of a
// hostname: punycoded, lowercased, with a trailing dot. Every owner
// and target name is stored in this form. Queried names arrive in
// ASCII on the wire and are matched after dns.CanonicalName, which
// yields the same form for them.
func canonicalHost(hostname string) (string, error) {
	ascii, err := ToACE(hostname)
	if err != nil {
		return "", err
	}
	return dns.Fqdn(ascii), nil
}
