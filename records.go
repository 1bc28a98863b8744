// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"fmt"
	"net/netip"

	"github.com/miekg/dns"
)

// Records maps owner names to the record sets served under them. An
// owner is a hostname (ASCII or UTF-8, with or without a trailing dot)
// or an IP literal: literals are stored under their in-addr.arpa or
// ip6.arpa reverse name, which is what PTR lookups ask for.
type Records map[string]RecordSet

// RecordSet declares the records served under one owner name, one
// field per supported type. Lists preserve declaration order in the
// answer section.
type RecordSet struct {
	// A and AAAA are IPv4 and IPv6 address literals.
	A    []string `yaml:"a"`
	AAAA []string `yaml:"aaaa"`

	// CNAME is the canonical name for this owner. A name has at most
	// one canonical name, hence a scalar.
	CNAME string `yaml:"cname"`

	// MX entries are "exchange" or "exchange:preference" strings; see
	// [MXPref] for the structured form. Entries without an explicit
	// preference receive 10, 20, 30, ... in declaration order, where an
	// explicit preference overrides its own position only. ".:0" is
	// the RFC 7505 null MX.
	MX []string `yaml:"mx"`

	NS  []string `yaml:"ns"`
	PTR []string `yaml:"ptr"`

	// SOA is a scalar: an owner never has more than one SOA.
	SOA *SOA `yaml:"soa"`

	// TXT entries are single character-strings of at most 255 octets.
	TXT []string `yaml:"txt"`
}

// SOA declares a start-of-authority record. The integer fields are
// validated to fit in 32 bits at build time.
type SOA struct {
	MName   string `yaml:"mname"`
	RName   string `yaml:"rname"`
	Serial  int64  `yaml:"serial"`
	Refresh int64  `yaml:"refresh"`
	Retry   int64  `yaml:"retry"`
	Expire  int64  `yaml:"expire"`
	Minimum int64  `yaml:"minimum"`
}

// MXPref formats a structured (preference, exchange) pair as the
// string form accepted by [RecordSet].
func MXPref(preference uint16, exchange string) string {
	return fmt.Sprintf("%s:%d", exchange, preference)
}

// dictKey identifies one answer list: canonical owner name plus
// record type. Lookups never leak across types.
type dictKey struct {
	name  string
	qtype uint16
}

// dictionary is the compiled form of [Records] consulted at query
// time. It is never mutated after buildDictionary returns; reassigning
// records swaps in a whole new dictionary.
type dictionary map[dictKey][]dns.RR

// buildDictionary compiles user-declared records into a dictionary.
// The first factory failure aborts the build; a partial dictionary is
// never returned.
func buildDictionary(records Records) (dictionary, error) {
	dict := dictionary{}
	for owner, set := range records {
		name, err := normalizeOwner(owner)
		if err != nil {
			return nil, err
		}
		if err := compileRecordSet(dict, name, set); err != nil {
			return nil, err
		}
	}
	return dict, nil
}

// normalizeOwner maps a declared owner to the canonical name stored in
// the dictionary: IP literals become their reverse name, hostnames are
// punycoded and fully qualified.
func normalizeOwner(owner string) (string, error) {
	if _, err := netip.ParseAddr(owner); err == nil {
		return ReverseName(owner)
	}
	return canonicalHost(owner)
}

func compileRecordSet(dict dictionary, name string, set RecordSet) error {
	type typeFactory struct {
		build  func(owner, value string) (dns.RR, error)
		values []string
	}

	// declaration order within each list is answer order
	factories := []typeFactory{
		{buildA, set.A},
		{buildAAAA, set.AAAA},
		{buildNS, set.NS},
		{buildPTR, set.PTR},
		{buildTXT, set.TXT},
	}
	if set.CNAME != "" {
		factories = append(factories, typeFactory{buildCNAME, []string{set.CNAME}})
	}
	for _, factory := range factories {
		for _, value := range factory.values {
			rr, err := factory.build(name, value)
			if err != nil {
				return err
			}
			dict.add(name, rr)
		}
	}

	if err := compileMX(dict, name, set.MX); err != nil {
		return err
	}

	if set.SOA != nil {
		rr, err := buildSOA(name, set.SOA)
		if err != nil {
			return err
		}
		// an owner has exactly one SOA, never a list
		dict[dictKey{name: name, qtype: dns.TypeSOA}] = []dns.RR{rr}
	}
	return nil
}

// compileMX resolves preferences across the whole MX list before
// storing: position i defaults to 10*(i+1) and an explicit value
// replaces the default for that position only.
func compileMX(dict dictionary, name string, values []string) error {
	for index, raw := range values {
		value, err := parseMX(raw)
		if err != nil {
			return err
		}
		if !value.explicit {
			value.preference = mxDefaultStep * uint16(index+1)
		}
		rr, err := buildMX(name, value)
		if err != nil {
			return err
		}
		dict.add(name, rr)
	}
	return nil
}

func (dict dictionary) add(name string, rr dns.RR) {
	key := dictKey{name: name, qtype: rr.Header().Rrtype}
	dict[key] = append(dict[key], rr)
}
