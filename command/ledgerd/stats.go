// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"
)

const (
	statsInterval = time.Minute
	mega          = 1024 * 1024
)

// periodically log the heap size along with the ledger size
type memoryStats struct {
	log    *logger.L
	height func() uint64
	peers  func() int
}

func (m *memoryStats) Run(args interface{}, shutdown <-chan struct{}) {

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
		}

		var s runtime.MemStats
		runtime.ReadMemStats(&s)
		m.log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M  goroutines: %d",
			s.Alloc/mega, s.TotalAlloc/mega, s.Sys/mega, runtime.NumGoroutine())
		m.log.Infof("height: %d  peers: %d", m.height(), m.peers())
	}
}
