// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, records Records) *handler {
	t.Helper()
	dict, err := buildDictionary(records)
	require.NoError(t, err)
	return newHandler(dict, nil, zerolog.Nop())
}

func queryFor(name string, qtype uint16) *dns.Msg {
	query := &dns.Msg{}
	query.SetQuestion(dns.Fqdn(name), qtype)
	return query
}

func TestHandlerPrepareReply(t *testing.T) {
	type testCase struct {
		name           string
		records        Records
		getQuery       func() *dns.Msg
		expectedRcode  int
		expectMiss     bool
		validateAnswer func(t *testing.T, resp *dns.Msg)
	}

	testCases := []testCase{
		{
			name:    "successful A record lookup",
			records: Records{"example.com": {A: []string{"1.2.3.4"}}},
			getQuery: func() *dns.Msg {
				return queryFor("example.com", dns.TypeA)
			},
			expectedRcode: dns.RcodeSuccess,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				require.Len(t, resp.Answer, 1)
				a := resp.Answer[0].(*dns.A)
				assert.Equal(t, "1.2.3.4", a.A.String())
				assert.Equal(t, uint32(1), a.Hdr.Ttl)
			},
		},

		{
			name:    "answers come back in declaration order",
			records: Records{"example.com": {A: []string{"5.6.7.8", "1.2.3.4"}}},
			getQuery: func() *dns.Msg {
				return queryFor("example.com", dns.TypeA)
			},
			expectedRcode: dns.RcodeSuccess,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				require.Len(t, resp.Answer, 2)
				assert.Equal(t, "5.6.7.8", resp.Answer[0].(*dns.A).A.String())
				assert.Equal(t, "1.2.3.4", resp.Answer[1].(*dns.A).A.String())
			},
		},

		{
			name:    "query case does not matter",
			records: Records{"example.com": {A: []string{"1.2.3.4"}}},
			getQuery: func() *dns.Msg {
				return queryFor("EXAMPLE.com", dns.TypeA)
			},
			expectedRcode: dns.RcodeSuccess,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				assert.Len(t, resp.Answer, 1)
			},
		},

		{
			name:    "no cross-type leakage",
			records: Records{"example.com": {A: []string{"1.2.3.4"}}},
			getQuery: func() *dns.Msg {
				return queryFor("example.com", dns.TypeAAAA)
			},
			expectedRcode: dns.RcodeSuccess,
			expectMiss:    true,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				assert.Empty(t, resp.Answer)
			},
		},

		{
			name:    "miss answers NOERROR with no records",
			records: Records{},
			getQuery: func() *dns.Msg {
				return queryFor("absent.example.com", dns.TypeA)
			},
			expectedRcode: dns.RcodeSuccess,
			expectMiss:    true,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				assert.Empty(t, resp.Answer)
			},
		},

		{
			name:    "non-IN class answers NOERROR with no records",
			records: Records{"example.com": {A: []string{"1.2.3.4"}}},
			getQuery: func() *dns.Msg {
				query := &dns.Msg{}
				query.Question = append(query.Question, dns.Question{
					Name:   dns.CanonicalName("example.com"),
					Qtype:  dns.TypeA,
					Qclass: dns.ClassCHAOS,
				})
				return query
			},
			expectedRcode: dns.RcodeSuccess,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				assert.Empty(t, resp.Answer)
			},
		},

		{
			name:    "invalid query (no question)",
			records: Records{},
			getQuery: func() *dns.Msg {
				return &dns.Msg{}
			},
			expectedRcode: dns.RcodeRefused,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				assert.Empty(t, resp.Answer)
			},
		},

		{
			name:    "invalid query (response flag set)",
			records: Records{},
			getQuery: func() *dns.Msg {
				query := queryFor("example.com", dns.TypeA)
				query.Response = true
				return query
			},
			expectedRcode: dns.RcodeRefused,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				assert.Empty(t, resp.Answer)
			},
		},

		{
			name: "PTR lookup under the reverse name",
			records: Records{
				"1.2.3.4": {PTR: []string{"domain_1.com", "domain_2.com"}},
			},
			getQuery: func() *dns.Msg {
				return queryFor("4.3.2.1.in-addr.arpa", dns.TypePTR)
			},
			expectedRcode: dns.RcodeSuccess,
			validateAnswer: func(t *testing.T, resp *dns.Msg) {
				require.Len(t, resp.Answer, 2)
				assert.Equal(t, "domain_1.com.", resp.Answer[0].(*dns.PTR).Ptr)
				assert.Equal(t, "domain_2.com.", resp.Answer[1].(*dns.PTR).Ptr)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, tc.records)
			resp, missing := h.prepareReply(tc.getQuery())

			require.NotNil(t, resp)
			assert.Equal(t, tc.expectedRcode, resp.Rcode)
			assert.Equal(t, tc.expectMiss, missing != nil)
			if tc.validateAnswer != nil {
				tc.validateAnswer(t, resp)
			}
		})
	}
}

func TestHandlerReportsMissedQuestion(t *testing.T) {
	h := newTestHandler(t, Records{})
	_, missing := h.prepareReply(queryFor("absent.example.com", dns.TypeTXT))
	require.NotNil(t, missing)
	assert.Equal(t, "absent.example.com.", missing.Name)
	assert.Equal(t, dns.TypeTXT, missing.Qtype)
}

func TestHandlerPunycodeEquivalence(t *testing.T) {
	// a query for the punycode form finds the records declared under
	// the UTF-8 form of the same owner
	h := newTestHandler(t, Records{
		"mañana.com": {MX: []string{"másletras.mañana.com"}},
	})

	resp, missing := h.prepareReply(queryFor("xn--maana-pta.com", dns.TypeMX))
	require.Nil(t, missing)
	require.Len(t, resp.Answer, 1)
	mx := resp.Answer[0].(*dns.MX)
	assert.Equal(t, uint16(10), mx.Preference)
	assert.Equal(t, "xn--msletras-8ya.xn--maana-pta.com.", mx.Mx)
}
