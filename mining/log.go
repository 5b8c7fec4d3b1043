// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import "github.com/btcsuite/btclog"

var log = btclog.Disabled

// UseLogger lets a calling application point this package's log
// output at its own btclog.Logger instance.
func UseLogger(logger btclog.Logger) {
	log = logger
}
