// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/btcsuite/btclog"

// log is, by default, the disabled logger all package exports use
// until a caller wires in a real backend via UseLogger, matching the
// btcsuite convention for library packages that must not force a
// logging backend on their importers.
var log = btclog.Disabled

// UseLogger lets a calling application point this package's log
// output at its own btclog.Logger instance (e.g. one backed by
// jrick/logrotate, as cmd/mine-genesis sets up for its own log file).
func UseLogger(logger btclog.Logger) {
	log = logger
}
