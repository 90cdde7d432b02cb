// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/bitmark-inc/ledgerd/difficulty"
)

// names of all chains
const (
	Ledger  = "ledger"
	Testing = "testing"
	Local   = "local"
)

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Ledger, Testing, Local:
		return true
	default:
		return false
	}
}

// DefaultDifficulty - difficulty used by a chain unless configured
//
// all nodes of one chain must agree on the difficulty
func DefaultDifficulty(name string) difficulty.Difficulty {
	switch name {
	case Local:
		return difficulty.Difficulty(2)
	default:
		return difficulty.Difficulty(difficulty.Default)
	}
}
