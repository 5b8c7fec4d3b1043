// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	rotator "github.com/jrick/logrotate/rotator"
)

var logRotator *rotator.Rotator

// initLogRotator initializes the logging rotator to write logs to
// logFile and create roll files in the same directory. It must be
// called before the package-level log rotator variable is used.
func initLogRotator(logFile string) {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			os.Stderr.WriteString("failed to create log directory: " + err.Error() + "\n")
			os.Exit(1)
		}
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		os.Stderr.WriteString("failed to create log rotator: " + err.Error() + "\n")
		os.Exit(1)
	}
	logRotator = r
}

var backendLog = btclog.NewBackend(logWriter{})

var log = backendLog.Logger("MNGN")

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}
