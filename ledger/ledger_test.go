// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/chain"
	"github.com/bitmark-inc/ledgerd/difficulty"
	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/fixtures"
	"github.com/bitmark-inc/ledgerd/genesis"
	"github.com/bitmark-inc/ledgerd/ledger"
	"github.com/bitmark-inc/ledgerd/proof"
)

const (
	testDifficulty = difficulty.Difficulty(2)
	nodeIdentity   = "0f8e1c2a9b7d4e6f8a1b2c3d4e5f6a7b"
)

func newTestLedger() *ledger.Ledger {
	return ledger.New(logger.New(fixtures.LogCategory), nodeIdentity, testDifficulty)
}

func mineN(t *testing.T, l *ledger.Ledger, n int) {
	for i := 0; i < n; i += 1 {
		_, err := l.Mine(context.Background())
		if nil != err {
			t.Fatalf("mine error: %s", err)
		}
	}
}

func reward() blockrecord.Transaction {
	return blockrecord.Transaction{
		Sender:    blockrecord.RewardSender,
		Recipient: nodeIdentity,
		Amount:    blockrecord.RewardAmount,
	}
}

func TestNewLedger(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := newTestLedger()

	c := l.Chain()
	assert.Equal(t, uint64(1), c.Length, "wrong length")
	assert.Equal(t, 1, len(c.Blocks), "wrong block count")
	assert.Equal(t, genesis.Block(), c.Blocks[0], "not the genesis block")
	assert.Equal(t, genesis.Block(), l.LastBlock(), "wrong last block")
	assert.Equal(t, uint64(1), l.Height(), "wrong height")
	assert.Equal(t, 0, len(l.Pending()), "pool not empty")
	assert.Equal(t, nodeIdentity, l.Identity(), "wrong identity")
	assert.Equal(t, testDifficulty, l.Difficulty(), "wrong difficulty")
}

func TestSubmitThenMine(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := newTestLedger()
	l.SetClock(func() time.Time { return time.Unix(1600000000, 0) })

	index := l.SubmitTransaction("A", "B", "10")
	assert.Equal(t, uint64(2), index, "wrong expected block index")
	assert.Equal(t, 1, len(l.Pending()), "transaction not pending")

	b, err := l.Mine(context.Background())
	assert.Nil(t, err, "mine error")

	g := genesis.Block()
	assert.Equal(t, uint64(2), b.Index, "wrong index")
	assert.Equal(t, int64(1600000000), b.Timestamp, "wrong timestamp")
	assert.Equal(t, []blockrecord.Transaction{
		{Sender: "A", Recipient: "B", Amount: "10"},
		reward(),
	}, b.Transactions, "wrong transactions")
	assert.True(t, proof.Valid(g.Proof, b.Proof, testDifficulty), "proof not valid against genesis")
	assert.Equal(t, g.Digest(), b.PreviousHash, "not linked to genesis")

	assert.Equal(t, 0, len(l.Pending()), "pool not drained")
	assert.Equal(t, b, l.LastBlock(), "block not appended")

	// nothing submitted: the block carries only the reward
	b, err = l.Mine(context.Background())
	assert.Nil(t, err, "second mine error")
	assert.Equal(t, uint64(3), b.Index, "wrong second index")
	assert.Equal(t, []blockrecord.Transaction{reward()}, b.Transactions, "wrong second transactions")

	assert.Equal(t, uint64(4), l.SubmitTransaction("C", "D", "1"), "wrong expected index after mining")
}

func TestMinedChainIsValid(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := newTestLedger()
	for i := 0; i < 5; i += 1 {
		l.SubmitTransaction("A", "B", blockrecord.Amount(strconv.Itoa(i+1)))
		mineN(t, l, 1)
	}

	c := l.Chain()
	assert.Equal(t, uint64(6), c.Length, "wrong length")

	for i := 1; i < len(c.Blocks); i += 1 {
		assert.Equal(t, c.Blocks[i-1].Digest(), c.Blocks[i].PreviousHash, "block: %d  not linked", i)
		assert.True(t, proof.Valid(c.Blocks[i-1].Proof, c.Blocks[i].Proof, testDifficulty), "block: %d  invalid proof", i)
		assert.Equal(t, uint64(i+1), c.Blocks[i].Index, "block: %d  wrong index", i)
	}
	assert.True(t, chain.IsValid(c.Blocks, testDifficulty), "mined chain invalid")
}

func TestMineWithDefaultDifficulty(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := ledger.New(logger.New(fixtures.LogCategory), nodeIdentity, difficulty.Default)
	mineN(t, l, 1)

	assert.True(t, chain.IsValid(l.Chain().Blocks, difficulty.Default), "mined chain invalid")
}

func TestMineWhenCancelled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := ledger.New(logger.New(fixtures.LogCategory), nodeIdentity, difficulty.Maximum)
	l.SubmitTransaction("A", "B", "10")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Mine(ctx)
	assert.Equal(t, context.Canceled, err, "wrong error")
	assert.Equal(t, uint64(1), l.Height(), "block appended")
	assert.Equal(t, 1, len(l.Pending()), "pool changed")
}

func TestMineWhenChainReplacedDuringSearch(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	longer := newTestLedger()
	mineN(t, longer, 3)

	l := newTestLedger()
	l.SubmitTransaction("A", "B", "10")

	l.SetSolvedHook(func() {
		assert.True(t, l.Replace(longer.Chain().Blocks), "replace failed")
	})

	_, err := l.Mine(context.Background())
	assert.Equal(t, fault.StaleProof, err, "wrong error")
	assert.Equal(t, longer.Chain(), l.Chain(), "chain not replaced")
	assert.Equal(t, []blockrecord.Transaction{{Sender: "A", Recipient: "B", Amount: "10"}}, l.Pending(), "pool changed")

	// the next search uses the new last block
	l.SetSolvedHook(nil)
	b, err := l.Mine(context.Background())
	assert.Nil(t, err, "mine error")
	assert.Equal(t, uint64(5), b.Index, "wrong index")
	assert.True(t, chain.IsValid(l.Chain().Blocks, testDifficulty), "chain invalid")
}

func TestNewBlockDoesNotCheckProof(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := newTestLedger()
	l.SubmitTransaction("A", "B", "10")

	last := l.LastBlock()
	b := l.NewBlock(7, last.Digest())

	assert.Equal(t, uint64(2), b.Index, "wrong index")
	assert.Equal(t, uint64(7), b.Proof, "wrong proof")
	assert.Equal(t, last.Digest(), b.PreviousHash, "wrong previous hash")
	assert.Equal(t, []blockrecord.Transaction{{Sender: "A", Recipient: "B", Amount: "10"}}, b.Transactions, "wrong transactions")
	assert.Equal(t, uint64(2), l.Height(), "block not appended")
	assert.Equal(t, 0, len(l.Pending()), "pool not drained")
}

func TestNewBlockFromEmptyPool(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := newTestLedger()
	b := l.NewBlock(1, l.LastBlock().Digest())

	assert.NotNil(t, b.Transactions, "nil transactions")
	assert.Equal(t, 0, len(b.Transactions), "unexpected transactions")
}

func TestReplace(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	a := newTestLedger()
	mineN(t, a, 2)

	b := newTestLedger()
	mineN(t, b, 3)

	same := newTestLedger()
	mineN(t, same, 2)

	a.SubmitTransaction("X", "Y", "3")
	original := a.Chain()

	assert.False(t, a.Replace(same.Chain().Blocks), "equal length chain adopted")
	assert.False(t, a.Replace(original.Blocks[:1]), "shorter chain adopted")
	assert.Equal(t, original, a.Chain(), "chain changed")

	assert.True(t, a.Replace(b.Chain().Blocks), "longer chain rejected")
	assert.Equal(t, b.Chain(), a.Chain(), "chain not adopted")
	assert.Equal(t, 1, len(a.Pending()), "pool not kept")
	assert.Equal(t, uint64(5), a.SubmitTransaction("Y", "Z", "1"), "wrong expected index")
}

func TestChainIsASnapshot(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := newTestLedger()
	c := l.Chain()
	c.Blocks[0].Proof = 1

	assert.Equal(t, uint64(100), l.LastBlock().Proof, "ledger shares its storage")

	l.SubmitTransaction("A", "B", "10")
	mined, err := l.Mine(context.Background())
	assert.Nil(t, err, "mine error")

	stored := l.Chain()
	digest := stored.Blocks[1].Digest()

	c = l.Chain()
	c.Blocks[1].Transactions[0].Amount = "999"
	last := l.LastBlock()
	last.Transactions[0].Sender = "X"
	mined.Transactions[1].Recipient = "thief"

	assert.Equal(t, stored, l.Chain(), "appended block changed")
	assert.Equal(t, digest, l.LastBlock().Digest(), "digest changed")
	assert.Equal(t, blockrecord.Amount("10"), l.LastBlock().Transactions[0].Amount, "stored amount changed")
	assert.True(t, chain.IsValid(l.Chain().Blocks, testDifficulty), "chain invalid")
}

func TestReplaceCopiesCandidate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	longer := newTestLedger()
	longer.SubmitTransaction("A", "B", "10")
	mineN(t, longer, 2)

	l := newTestLedger()
	candidate := longer.Chain().Blocks
	assert.True(t, l.Replace(candidate), "replace failed")

	candidate[1].Transactions[0].Amount = "999"

	assert.Equal(t, longer.Chain(), l.Chain(), "ledger shares the candidate transactions")
	assert.True(t, chain.IsValid(l.Chain().Blocks, testDifficulty), "chain invalid")
}

func TestConcurrentSubmitAndMine(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := newTestLedger()

	const (
		submitters  = 8
		submissions = 25
		mines       = 5
	)

	wg := sync.WaitGroup{}
	for i := 0; i < submitters; i += 1 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < submissions; j += 1 {
				l.SubmitTransaction(fmt.Sprintf("s%d", i), "r", blockrecord.Amount(strconv.Itoa(j+1)))
			}
		}(i)
	}
	for i := 0; i < mines; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Mine(context.Background())
			assert.Nil(t, err, "mine error")
		}()
	}
	wg.Wait()

	c := l.Chain()
	assert.Equal(t, uint64(mines+1), c.Length, "wrong length")
	assert.True(t, chain.IsValid(c.Blocks, testDifficulty), "chain invalid")

	// every transaction appears exactly once, in a block or still pending
	seen := make(map[blockrecord.Transaction]int)
	rewards := 0
	for _, b := range c.Blocks {
		for _, tx := range b.Transactions {
			if tx.IsReward() {
				rewards += 1
				continue
			}
			seen[tx] += 1
		}
	}
	for _, tx := range l.Pending() {
		seen[tx] += 1
	}

	assert.Equal(t, mines, rewards, "wrong reward count")
	assert.Equal(t, submitters*submissions, len(seen), "transactions lost")
	for tx, n := range seen {
		assert.Equal(t, 1, n, "transaction: %v  included %d times", tx, n)
	}
}

func TestTimestampIsWholeSeconds(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	l := newTestLedger()
	l.SetClock(func() time.Time { return time.Unix(1600000000, 999999999) })

	b, err := l.Mine(context.Background())
	assert.Nil(t, err, "mine error")
	assert.Equal(t, int64(1600000000), b.Timestamp, "wrong timestamp")
	assert.Contains(t, string(blockrecord.CanonicalBytes(b)), `"timestamp":1600000000,`, "timestamp not an integer")
}
