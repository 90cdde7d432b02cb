// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerd/blockdigest"
	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/difficulty"
	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/genesis"
	"github.com/bitmark-inc/ledgerd/proof"
	"github.com/bitmark-inc/ledgerd/reservoir"
)

// Ledger - a node's chain and pending pool
type Ledger struct {
	sync.RWMutex

	log        *logger.L
	identity   string
	difficulty difficulty.Difficulty

	blocks []blockrecord.Block
	pool   *reservoir.Pool

	// one proof search at a time
	mining sync.Mutex

	now func() time.Time

	// called between the proof search and forging, nil outside tests
	solved func()
}

// New - create a ledger holding only the genesis block
func New(log *logger.L, identity string, d difficulty.Difficulty) *Ledger {
	l := &Ledger{
		log:        log,
		identity:   identity,
		difficulty: d,
		blocks:     []blockrecord.Block{genesis.Block()},
		pool:       reservoir.New(),
		now:        time.Now,
	}

	log.Infof("identity: %s  difficulty: %d", identity, d)
	log.Debugf("genesis digest: %s", l.blocks[0].Digest())

	return l
}

// Identity - node identifier that receives mining rewards
func (l *Ledger) Identity() string {
	return l.identity
}

// Difficulty - proof of work difficulty used for mining and validation
func (l *Ledger) Difficulty() difficulty.Difficulty {
	return l.difficulty
}

// SubmitTransaction - queue a transaction for the next block
//
// returns the index of the block that is expected to include it
func (l *Ledger) SubmitTransaction(sender string, recipient string, amount blockrecord.Amount) uint64 {
	l.Lock()
	defer l.Unlock()

	l.pool.Append(blockrecord.Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	})

	index := l.blocks[len(l.blocks)-1].Index + 1
	l.log.Debugf("submit: %s → %s  amount: %s  block: %d", sender, recipient, amount, index)

	return index
}

// Mine - search for the next proof then forge a block rewarding this node
//
// fails with the context error if cancelled during the search, or with
// fault.StaleProof if the chain was replaced while searching in which
// case the pending pool is unchanged
func (l *Ledger) Mine(ctx context.Context) (blockrecord.Block, error) {
	l.mining.Lock()
	defer l.mining.Unlock()

	last := l.LastBlock()
	lastDigest := last.Digest()

	start := time.Now()
	p, err := proof.Solve(ctx, last.Proof, l.difficulty)
	if nil != err {
		l.log.Warnf("mine: block: %d  search abandoned: %s", last.Index+1, err)
		return blockrecord.Block{}, err
	}
	l.log.Debugf("mine: block: %d  proof: %d  search time: %s", last.Index+1, p, time.Since(start))

	if nil != l.solved {
		l.solved()
	}

	l.Lock()
	defer l.Unlock()

	if l.blocks[len(l.blocks)-1].Digest() != lastDigest {
		l.log.Warnf("mine: chain replaced during search for block: %d", last.Index+1)
		return blockrecord.Block{}, fault.StaleProof
	}

	l.pool.Append(blockrecord.Transaction{
		Sender:    blockrecord.RewardSender,
		Recipient: l.identity,
		Amount:    blockrecord.RewardAmount,
	})

	return l.forge(p, lastDigest), nil
}

// NewBlock - forge and append a block from the pending pool
//
// the proof is not checked against the chain; callers that do not
// obtain it from Mine must verify it themselves
func (l *Ledger) NewBlock(p uint64, previousHash blockdigest.Digest) blockrecord.Block {
	l.Lock()
	defer l.Unlock()

	return l.forge(p, previousHash)
}

// must hold the write lock
func (l *Ledger) forge(p uint64, previousHash blockdigest.Digest) blockrecord.Block {
	b := blockrecord.Block{
		Index:        uint64(len(l.blocks)) + 1,
		Timestamp:    l.now().Unix(),
		Transactions: l.pool.Drain(),
		Proof:        p,
		PreviousHash: previousHash,
	}
	l.blocks = append(l.blocks, b)

	l.log.Infof("forged block: %d  transactions: %d  digest: %s", b.Index, len(b.Transactions), b.Digest())

	return b.Copy()
}

// Chain - snapshot of the whole chain
func (l *Ledger) Chain() blockrecord.Chain {
	l.RLock()
	defer l.RUnlock()

	return blockrecord.Chain{
		Length: uint64(len(l.blocks)),
		Blocks: copyBlocks(l.blocks),
	}
}

// LastBlock - the most recent block
func (l *Ledger) LastBlock() blockrecord.Block {
	l.RLock()
	defer l.RUnlock()

	return l.blocks[len(l.blocks)-1].Copy()
}

// Height - number of blocks in the chain
func (l *Ledger) Height() uint64 {
	l.RLock()
	defer l.RUnlock()

	return uint64(len(l.blocks))
}

// Pending - copy of the transactions waiting for the next block
func (l *Ledger) Pending() []blockrecord.Transaction {
	l.RLock()
	defer l.RUnlock()

	return l.pool.Items()
}

// Replace - adopt a candidate chain if it is strictly longer
//
// the candidate must already have been validated; pending transactions
// are kept
func (l *Ledger) Replace(candidate []blockrecord.Block) bool {
	l.Lock()
	defer l.Unlock()

	if len(candidate) <= len(l.blocks) {
		l.log.Debugf("replace: candidate length: %d  not longer than: %d", len(candidate), len(l.blocks))
		return false
	}

	blocks := copyBlocks(candidate)

	l.log.Infof("replace: height: %d → %d", len(l.blocks), len(blocks))
	l.blocks = blocks

	return true
}

// deep copy, no transaction storage is shared with the argument
func copyBlocks(blocks []blockrecord.Block) []blockrecord.Block {
	c := make([]blockrecord.Block, len(blocks))
	for i, b := range blocks {
		c[i] = b.Copy()
	}
	return c
}
