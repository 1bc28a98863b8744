// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"sync/atomic"

	"github.com/miekg/dns"
	"github.com/rs/zerolog"
)

// handler resolves queries against the current dictionary snapshot.
//
// The dictionary lives behind an atomic pointer: queries load a
// snapshot and [*Server.AssignMocks] stores a freshly built one, so a
// query sees either the whole old dictionary or the whole new one.
type handler struct {
	dict     atomic.Pointer[dictionary]
	notFound func(*RecordNotFoundError)
	logger   zerolog.Logger
}

func newHandler(dict dictionary, notFound func(*RecordNotFoundError), logger zerolog.Logger) *handler {
	h := &handler{notFound: notFound, logger: logger}
	h.dict.Store(&dict)
	return h
}

func (h *handler) swap(dict dictionary) {
	h.dict.Store(&dict)
}

// Ensure that [*handler] implements [dns.Handler].
var _ dns.Handler = &handler{}

// ServeDNS implements [dns.Handler].
func (h *handler) ServeDNS(rw dns.ResponseWriter, query *dns.Msg) {
	resp, missing := h.prepareReply(query)

	// Always answer before reporting a miss so the client sees
	// NOERROR instead of hanging in a retry loop.
	rw.WriteMsg(resp)

	if missing != nil {
		h.logger.Debug().
			Str("name", missing.Name).
			Str("qtype", dns.TypeToString[missing.Qtype]).
			Msg("no mock for query")
		if h.notFound != nil {
			h.notFound(missing)
		}
	}
}

// prepareReply returns the response for the given query plus, on a
// dictionary miss, the question that missed.
func (h *handler) prepareReply(query *dns.Msg) (*dns.Msg, *RecordNotFoundError) {
	// 1. reject blatantly wrong queries
	if query.Response || len(query.Question) != 1 {
		resp := &dns.Msg{}
		resp.SetRcode(query, dns.RcodeRefused)
		return resp, nil
	}

	q0 := query.Question[0]
	resp := &dns.Msg{}
	resp.SetReply(query)

	// 2. lookup is defined for IN only: anything else gets an
	// empty NOERROR answer
	if q0.Qclass != dns.ClassINET {
		return resp, nil
	}

	// 3. exact (canonical name, qtype) match against the snapshot
	key := dictKey{name: dns.CanonicalName(q0.Name), qtype: q0.Qtype}
	answers, found := (*h.dict.Load())[key]
	if !found {
		return resp, &RecordNotFoundError{Name: key.name, Qtype: key.qtype}
	}

	h.logger.Debug().
		Str("name", key.name).
		Str("qtype", dns.TypeToString[key.qtype]).
		Int("answers", len(answers)).
		Msg("serving mock answers")

	resp.Answer = append(resp.Answer, answers...)
	return resp, nil
}
