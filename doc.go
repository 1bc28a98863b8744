// SPDX-License-Identifier: GPL-3.0-or-later

/*
Package dnsmock implements a mock DNS server for automated test suites.

A test declares the records it wants served using [Records], starts one
or more servers with [StartServer] (each on its own UDP port, either a
fixed port or a kernel-assigned ephemeral one), points the code under
test at the server's address, and asserts on the real DNS responses it
receives. There is no recursion, no forwarding, and no caching: every
answer comes from the declared records, with a TTL of one second so
clients never hold on to stale data between test cases.

Records are declared loosely (string addresses, "exchange:preference"
MX values, UTF-8 hostnames) and compiled into fully-typed resource
records up front: internationalized names are punycoded, MX entries
without an explicit preference receive positional defaults, and owners
that are IP literals become their in-addr.arpa or ip6.arpa reverse
names, so a PTR mock declared under "1.2.3.4" answers `dig -x 1.2.3.4`.

The overall intention is to support writing tests against servers that
are created and managed by this package; it does not aim to mimic a
production resolver. The API design is inspired by net/http/httptest,
including [MustStartServer], which panics when the server cannot be
created because, in a test, such a failure should be loud and obvious.
*/
package dnsmock
