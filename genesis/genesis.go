// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis

import (
	"github.com/bitmark-inc/ledgerd/blockdigest"
	"github.com/bitmark-inc/ledgerd/blockrecord"
)

// some constants embedded into the genesis block
//
// every node must build an identical genesis block so the timestamp
// is fixed rather than the node start time
const (
	BlockNumber = 1
	Proof       = 100
	Timestamp   = 1577836800 // 2020-01-01T00:00:00Z
)

// PreviousHash - sentinel previous hash of the genesis block
var PreviousHash = blockdigest.Zero

// Block - create the genesis block
func Block() blockrecord.Block {
	return blockrecord.Block{
		Index:        BlockNumber,
		Timestamp:    Timestamp,
		Transactions: []blockrecord.Transaction{},
		Proof:        Proof,
		PreviousHash: PreviousHash,
	}
}
