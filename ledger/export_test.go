// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"
)

// SetClock - fix the time used for block timestamps
func (l *Ledger) SetClock(now func() time.Time) {
	l.Lock()
	defer l.Unlock()
	l.now = now
}

// SetSolvedHook - run f after each proof search completes
func (l *Ledger) SetSolvedHook(f func()) {
	l.mining.Lock()
	defer l.mining.Unlock()
	l.solved = f
}
