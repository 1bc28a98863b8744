// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"context"
	"net"
	"strconv"
	"sync"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"
	"github.com/rs/zerolog"
)

// DefaultPort is the UDP port used when no port option is given.
const DefaultPort = 5300

// ListenConfig is the subset of [*net.ListenConfig] used by
// [StartServer].
type ListenConfig interface {
	ListenPacket(ctx context.Context, network, address string) (net.PacketConn, error)
}

// Ensure that [*net.ListenConfig] implements [ListenConfig].
var _ ListenConfig = &net.ListenConfig{}

type config struct {
	records  Records
	port     uint16
	notFound func(*RecordNotFoundError)
	logger   zerolog.Logger
	lc       ListenConfig
}

// Option configures [StartServer].
type Option func(*config)

// WithRecords declares the records the server answers with.
func WithRecords(records Records) Option {
	return func(c *config) { c.records = records }
}

// WithPort binds the server to an explicit UDP port. Port 0 requests
// a kernel-assigned ephemeral port, like [WithEphemeralPort].
func WithPort(port uint16) Option {
	return func(c *config) { c.port = port }
}

// WithEphemeralPort lets the kernel pick a free port; read it back
// with [*Server.Port].
func WithEphemeralPort() Option {
	return func(c *config) { c.port = 0 }
}

// WithNotFoundHandler enables strict mode: a query matching no
// declared record still receives an empty NOERROR reply, and then
// handler is invoked with the missed question. The handler runs on
// the serving goroutine and must not block.
func WithNotFoundHandler(handler func(*RecordNotFoundError)) Option {
	return func(c *config) { c.notFound = handler }
}

// WithLogger attaches a logger; lifecycle and per-query events are
// emitted at debug level. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithListenConfig overrides the listen configuration used to bind
// the UDP socket.
func WithListenConfig(lc ListenConfig) Option {
	return func(c *config) { c.lc = lc }
}

// Server is a running mock DNS server bound to one UDP port.
//
// Construct using [StartServer] or [MustStartServer].
type Server struct {
	// addr is the bound host:port.
	addr string

	// port is the bound port, read back from the kernel when an
	// ephemeral port was requested.
	port uint16

	// handler resolves queries and owns the dictionary.
	handler *handler

	// done is closed when the serve goroutine exits.
	done chan struct{}

	// srv is the underlying server.
	srv *dns.Server

	// stopOnce makes Stop idempotent.
	stopOnce sync.Once

	logger zerolog.Logger
}

// StartServer builds the record dictionary, binds a UDP socket on
// 127.0.0.1, registers the server, and starts answering queries on a
// background goroutine. On a record build failure no socket is bound
// and no server is registered.
func StartServer(opts ...Option) (*Server, error) {
	cfg := &config{
		port:   DefaultPort,
		logger: zerolog.Nop(),
		lc:     &net.ListenConfig{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dict, err := buildDictionary(cfg.records)
	if err != nil {
		return nil, err
	}

	address := net.JoinHostPort("127.0.0.1", strconv.Itoa(int(cfg.port)))
	pconn, err := cfg.lc.ListenPacket(context.Background(), "udp", address)
	if err != nil {
		return nil, err
	}

	port := cfg.port
	if udpAddr, ok := pconn.LocalAddr().(*net.UDPAddr); ok {
		port = uint16(udpAddr.Port)
	}

	h := newHandler(dict, cfg.notFound, cfg.logger)
	started := make(chan struct{})
	srv := &Server{
		addr:    pconn.LocalAddr().String(),
		port:    port,
		handler: h,
		done:    make(chan struct{}),
		srv: &dns.Server{
			PacketConn:        pconn,
			Handler:           h,
			NotifyStartedFunc: func() { close(started) },
		},
		logger: cfg.logger,
	}
	var serveErr error
	go func() {
		serveErr = srv.srv.ActivateAndServe() // in background
		close(srv.done)
	}()
	// wait until the server can be shut down before handing it out
	select {
	case <-started:
	case <-srv.done:
		return nil, serveErr
	}
	register(srv)
	srv.logger.Debug().Str("addr", srv.addr).Msg("mock DNS server listening")
	return srv, nil
}

// MustStartServer is like [StartServer] but PANICS on failure.
func MustStartServer(opts ...Option) *Server {
	return runtimex.PanicOnError1(StartServer(opts...))
}

// Addr returns the listening UDP address for this server.
func (srv *Server) Addr() string {
	return srv.addr
}

// Port returns the bound UDP port.
func (srv *Server) Port() uint16 {
	return srv.port
}

// AssignMocks rebuilds the dictionary from records and swaps it in
// atomically: an in-flight query observes either the old dictionary
// or the new one, never a mix. On build failure the old dictionary
// stays in place.
func (srv *Server) AssignMocks(records Records) error {
	dict, err := buildDictionary(records)
	if err != nil {
		return err
	}
	srv.handler.swap(dict)
	srv.logger.Debug().Str("addr", srv.addr).Msg("mock records reassigned")
	return nil
}

// Stop closes the socket, which unblocks the serve goroutine, waits
// for it to exit, and unregisters the server. Stopping twice is a
// no-op.
func (srv *Server) Stop() {
	srv.stopOnce.Do(func() {
		runtimex.PanicOnError0(srv.srv.Shutdown())
		<-srv.done
		unregister(srv)
		srv.logger.Debug().Str("addr", srv.addr).Msg("mock DNS server stopped")
	})
}
