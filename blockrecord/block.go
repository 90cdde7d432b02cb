// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"github.com/bitmark-inc/ledgerd/blockdigest"
)

// RewardSender - sender of the transaction paying a miner
const RewardSender = "0"

// RewardAmount - amount paid to the miner of each block
const RewardAmount Amount = "1"

// Transaction - transfer of an amount between two identifiers
type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    Amount `json:"amount"`
}

// IsReward - true for the transaction paying a miner
func (tx Transaction) IsReward() bool {
	return RewardSender == tx.Sender
}

// Block - a set of transactions linked to its predecessor
type Block struct {
	Index        uint64             `json:"index"`
	Timestamp    int64              `json:"timestamp"`
	Transactions []Transaction      `json:"transactions"`
	Proof        uint64             `json:"proof"`
	PreviousHash blockdigest.Digest `json:"previous_hash"`
}

// Copy - a block that shares no storage with the receiver
func (b Block) Copy() Block {
	if nil != b.Transactions {
		transactions := make([]Transaction, len(b.Transactions))
		copy(transactions, b.Transactions)
		b.Transactions = transactions
	}
	return b
}

// Digest - canonical digest of the whole block
func (b Block) Digest() blockdigest.Digest {
	return blockdigest.NewDigest(CanonicalBytes(b))
}

// Chain - a chain as exchanged between nodes
type Chain struct {
	Length uint64  `json:"length"`
	Blocks []Block `json:"chain"`
}

// LastBlock - the final block of a chain, false if there are no blocks
func (c Chain) LastBlock() (Block, bool) {
	n := len(c.Blocks)
	if 0 == n {
		return Block{}, false
	}
	return c.Blocks[n-1], true
}
