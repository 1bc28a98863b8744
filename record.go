// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"fmt"
	"math"
	"net/netip"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// recordTTL is the TTL carried by every served record. Tests want
// freshness, not caching.
const recordTTL = 1

// maxTXTLength is the RFC 1035 limit on a single character-string.
const maxTXTLength = 255

// mxDefaultStep is the spacing between automatically assigned MX
// preferences.
const mxDefaultStep = 10

func header(owner string, rtype uint16) dns.RR_Header {
	return dns.RR_Header{
		Name:   owner,
		Rrtype: rtype,
		Class:  dns.ClassINET,
		Ttl:    recordTTL,
	}
}

func buildA(owner, value string) (dns.RR, error) {
	addr, err := netip.ParseAddr(value)
	if err != nil || !addr.Is4() {
		return nil, &RecordContextError{
			Rtype: "A",
			Value: value,
			cause: &InvalidIPAddressError{Value: value},
		}
	}
	return &dns.A{Hdr: header(owner, dns.TypeA), A: addr.AsSlice()}, nil
}

func buildAAAA(owner, value string) (dns.RR, error) {
	addr, err := netip.ParseAddr(value)
	if err != nil || addr.Is4() || addr.Is4In6() {
		return nil, &RecordContextError{
			Rtype: "AAAA",
			Value: value,
			cause: &InvalidIPAddressError{Value: value},
		}
	}
	return &dns.AAAA{Hdr: header(owner, dns.TypeAAAA), AAAA: addr.AsSlice()}, nil
}

func buildCNAME(owner, value string) (dns.RR, error) {
	target, err := canonicalHost(value)
	if err != nil {
		return nil, &RecordContextError{Rtype: "CNAME", Value: value, cause: err}
	}
	return &dns.CNAME{Hdr: header(owner, dns.TypeCNAME), Target: target}, nil
}

func buildNS(owner, value string) (dns.RR, error) {
	target, err := canonicalHost(value)
	if err != nil {
		return nil, &RecordContextError{Rtype: "NS", Value: value, cause: err}
	}
	return &dns.NS{Hdr: header(owner, dns.TypeNS), Ns: target}, nil
}

func buildPTR(owner, value string) (dns.RR, error) {
	target, err := canonicalHost(value)
	if err != nil {
		return nil, &RecordContextError{Rtype: "PTR", Value: value, cause: err}
	}
	return &dns.PTR{Hdr: header(owner, dns.TypePTR), Ptr: target}, nil
}

// mxValue is a parsed MX declaration. Preferences are resolved by the
// dictionary builder: an entry without an explicit preference receives
// mxDefaultStep*(index+1) based on its declaration position.
type mxValue struct {
	exchange   string
	preference uint16
	explicit   bool
}

// parseMX splits an "exchange" or "exchange:preference" declaration.
func parseMX(value string) (mxValue, error) {
	out := mxValue{exchange: value}
	if i := strings.LastIndex(value, ":"); i >= 0 {
		preference, err := strconv.ParseUint(value[i+1:], 10, 16)
		if err != nil {
			return mxValue{}, &RecordContextError{Rtype: "MX", Value: value, cause: err}
		}
		out.exchange = value[:i]
		out.preference = uint16(preference)
		out.explicit = true
	}
	return out, nil
}

func buildMX(owner string, value mxValue) (dns.RR, error) {
	// "." is the RFC 7505 null MX exchange and stays the root label.
	target := value.exchange
	if target != "." {
		var err error
		target, err = canonicalHost(value.exchange)
		if err != nil {
			return nil, &RecordContextError{Rtype: "MX", Value: value.exchange, cause: err}
		}
	}
	return &dns.MX{
		Hdr:        header(owner, dns.TypeMX),
		Preference: value.preference,
		Mx:         target,
	}, nil
}

func buildSOA(owner string, value *SOA) (dns.RR, error) {
	mname, err := canonicalHost(value.MName)
	if err != nil {
		return nil, &RecordContextError{Rtype: "SOA", Value: value.MName, cause: err}
	}
	rname, err := canonicalHost(value.RName)
	if err != nil {
		return nil, &RecordContextError{Rtype: "SOA", Value: value.RName, cause: err}
	}
	rr := &dns.SOA{Hdr: header(owner, dns.TypeSOA), Ns: mname, Mbox: rname}
	for _, field := range []struct {
		name string
		in   int64
		out  *uint32
	}{
		{"serial", value.Serial, &rr.Serial},
		{"refresh", value.Refresh, &rr.Refresh},
		{"retry", value.Retry, &rr.Retry},
		{"expire", value.Expire, &rr.Expire},
		{"minimum", value.Minimum, &rr.Minttl},
	} {
		if field.in < 0 || field.in > math.MaxUint32 {
			return nil, &RecordContextError{
				Rtype: "SOA",
				Value: fmt.Sprintf("%s=%d", field.name, field.in),
				cause: fmt.Errorf("%s does not fit in 32 bits", field.name),
			}
		}
		*field.out = uint32(field.in)
	}
	return rr, nil
}

func buildTXT(owner, value string) (dns.RR, error) {
	if len(value) > maxTXTLength {
		return nil, &RecordContextError{
			Rtype: "TXT",
			Value: value,
			cause: fmt.Errorf("character-string exceeds %d octets", maxTXTLength),
		}
	}
	return &dns.TXT{Hdr: header(owner, dns.TypeTXT), Txt: []string{value}}, nil
}
