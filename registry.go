// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"slices"
	"sync"
)

// registry is the process-wide list of live servers, in start order.
// It is the only process-wide state in this package.
var registry struct {
	mu      sync.Mutex
	servers []*Server
}

func register(srv *Server) {
	registry.mu.Lock()
	registry.servers = append(registry.servers, srv)
	registry.mu.Unlock()
}

func unregister(srv *Server) {
	registry.mu.Lock()
	registry.servers = slices.DeleteFunc(registry.servers, func(s *Server) bool {
		return s == srv
	})
	registry.mu.Unlock()
}

// RunningServers returns a snapshot of the currently running servers,
// in start order.
func RunningServers() []*Server {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return slices.Clone(registry.servers)
}

// StopRunningServers stops every running server and waits for each to
// exit. Calling it with no servers running is a no-op.
func StopRunningServers() {
	// Stop without holding the lock: each Stop unregisters itself.
	for _, srv := range RunningServers() {
		srv.Stop()
	}
}
