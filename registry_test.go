// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopRunningServersOnEmptyRegistry(t *testing.T) {
	StopRunningServers()
	assert.Empty(t, RunningServers())
}

func TestRegistryTracksServersInStartOrder(t *testing.T) {
	srv1 := MustStartServer(WithEphemeralPort())
	srv2 := MustStartServer(WithEphemeralPort())
	defer StopRunningServers()

	require.Equal(t, []*Server{srv1, srv2}, RunningServers())

	srv1.Stop()
	assert.Equal(t, []*Server{srv2}, RunningServers())

	// stopping twice is a no-op
	srv1.Stop()
	assert.Equal(t, []*Server{srv2}, RunningServers())
}

func TestStopRunningServersStopsEverything(t *testing.T) {
	MustStartServer(WithEphemeralPort())
	MustStartServer(WithEphemeralPort())
	MustStartServer(WithEphemeralPort())
	require.Len(t, RunningServers(), 3)

	StopRunningServers()
	assert.Empty(t, RunningServers())

	// calling it again still succeeds
	StopRunningServers()
	assert.Empty(t, RunningServers())
}
