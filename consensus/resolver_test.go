// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/consensus"
	"github.com/bitmark-inc/ledgerd/consensus/mocks"
	"github.com/bitmark-inc/ledgerd/difficulty"
	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/fixtures"
	"github.com/bitmark-inc/ledgerd/ledger"
	"github.com/bitmark-inc/ledgerd/peer"
)

const testDifficulty = difficulty.Difficulty(2)

// a ledger of the given length, mined by identity
func minedLedger(t *testing.T, identity string, length int) *ledger.Ledger {
	l := ledger.New(logger.New(fixtures.LogCategory), identity, testDifficulty)
	for l.Height() < uint64(length) {
		_, err := l.Mine(context.Background())
		if nil != err {
			t.Fatalf("mine error: %s", err)
		}
	}
	return l
}

func chainOf(l *ledger.Ledger) *blockrecord.Chain {
	c := l.Chain()
	return &c
}

func registryOf(t *testing.T, addresses ...string) peer.Registry {
	r := peer.NewRegistry()
	for _, address := range addresses {
		_, err := r.Register(address)
		if nil != err {
			t.Fatalf("register: %q  error: %s", address, err)
		}
	}
	return r
}

func newResolver(l consensus.Ledger, r consensus.Registry, source consensus.PeerSource) *consensus.Resolver {
	return consensus.New(logger.New(fixtures.LogCategory), l, r, source, testDifficulty, time.Second)
}

func TestResolveAdoptsLongerChain(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a := minedLedger(t, "node-a", 3)
	b := minedLedger(t, "node-b", 4)

	source := mocks.NewMockPeerSource(ctl)
	source.EXPECT().FetchChain(gomock.Any(), "127.0.0.1:5001").Return(chainOf(b), nil).Times(1)

	resolver := newResolver(a, registryOf(t, "http://127.0.0.1:5001"), source)

	assert.True(t, resolver.Resolve(context.Background()), "chain not replaced")
	assert.Equal(t, uint64(4), a.Height(), "wrong height")
	assert.Equal(t, b.Chain(), a.Chain(), "peer chain not adopted")
}

func TestResolveKeepsEqualLengthChain(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a := minedLedger(t, "node-a", 3)
	b := minedLedger(t, "node-b", 3)
	original := a.Chain()

	source := mocks.NewMockPeerSource(ctl)
	source.EXPECT().FetchChain(gomock.Any(), "127.0.0.1:5001").Return(chainOf(b), nil).Times(1)

	resolver := newResolver(a, registryOf(t, "127.0.0.1:5001"), source)

	assert.False(t, resolver.Resolve(context.Background()), "equal length chain adopted")
	assert.Equal(t, original, a.Chain(), "local chain changed")
}

func TestResolveNeverShortens(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a := minedLedger(t, "node-a", 4)
	b := minedLedger(t, "node-b", 2)
	original := a.Chain()

	source := mocks.NewMockPeerSource(ctl)
	source.EXPECT().FetchChain(gomock.Any(), "127.0.0.1:5001").Return(chainOf(b), nil).Times(1)

	resolver := newResolver(a, registryOf(t, "127.0.0.1:5001"), source)

	assert.False(t, resolver.Resolve(context.Background()), "shorter chain adopted")
	assert.Equal(t, original, a.Chain(), "local chain changed")
}

func TestResolveWithoutPeers(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a := minedLedger(t, "node-a", 2)
	source := mocks.NewMockPeerSource(ctl)

	resolver := newResolver(a, registryOf(t), source)
	assert.False(t, resolver.Resolve(context.Background()), "replaced without peers")
}

func TestResolveSkipsBadPeers(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a := minedLedger(t, "node-a", 2)
	good := minedLedger(t, "node-good", 4)

	// longer than the good chain but with a broken link
	tampered := chainOf(minedLedger(t, "node-bad", 6))
	tampered.Blocks[3].Proof += 1

	// reports more blocks than it carries
	mismatched := chainOf(minedLedger(t, "node-liar", 5))
	mismatched.Length = 9

	source := mocks.NewMockPeerSource(ctl)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.1:5000").Return(nil, fault.PeerUnreachable).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.2:5000").Return(nil, fault.MalformedPeerResponse).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.3:5000").Return(tampered, nil).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.4:5000").Return(mismatched, nil).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.5:5000").Return(chainOf(good), nil).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.6:5000").Return(nil, nil).Times(1)

	resolver := newResolver(a, registryOf(t, "10.0.0.1:5000", "10.0.0.2:5000", "10.0.0.3:5000", "10.0.0.4:5000", "10.0.0.5:5000", "10.0.0.6:5000"), source)

	assert.True(t, resolver.Resolve(context.Background()), "good chain not adopted")
	assert.Equal(t, good.Chain(), a.Chain(), "wrong chain adopted")
}

func TestResolveAdoptsLongest(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a := minedLedger(t, "node-a", 2)
	p1 := minedLedger(t, "node-1", 4)
	p2 := minedLedger(t, "node-2", 5)
	p3 := minedLedger(t, "node-3", 3)

	source := mocks.NewMockPeerSource(ctl)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.1:5000").Return(chainOf(p1), nil).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.2:5000").Return(chainOf(p2), nil).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.3:5000").Return(chainOf(p3), nil).Times(1)

	resolver := newResolver(a, registryOf(t, "10.0.0.3:5000", "10.0.0.1:5000", "10.0.0.2:5000"), source)

	assert.True(t, resolver.Resolve(context.Background()), "chain not replaced")
	assert.Equal(t, p2.Chain(), a.Chain(), "longest chain not adopted")
}

func TestResolveEqualCandidatesKeepFirstInOrder(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a := minedLedger(t, "node-a", 2)
	p1 := minedLedger(t, "node-1", 4)
	p2 := minedLedger(t, "node-2", 4)

	source := mocks.NewMockPeerSource(ctl)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.1:5000").Return(chainOf(p1), nil).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.2:5000").Return(chainOf(p2), nil).Times(1)

	resolver := newResolver(a, registryOf(t, "10.0.0.2:5000", "10.0.0.1:5000"), source)

	// only a strictly longer candidate displaces the current best
	assert.True(t, resolver.Resolve(context.Background()), "chain not replaced")
	assert.Equal(t, p1.Chain(), a.Chain(), "wrong equal length candidate adopted")
}

func TestResolveTreatsTimeoutAsUnreachable(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a := minedLedger(t, "node-a", 2)
	b := minedLedger(t, "node-b", 3)

	source := mocks.NewMockPeerSource(ctl)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.1:5000").DoAndReturn(
		func(ctx context.Context, address string) (*blockrecord.Chain, error) {
			<-ctx.Done()
			return nil, fault.PeerUnreachable
		}).Times(1)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.2:5000").Return(chainOf(b), nil).Times(1)

	resolver := consensus.New(logger.New(fixtures.LogCategory), a, registryOf(t, "10.0.0.1:5000", "10.0.0.2:5000"), source, testDifficulty, 20*time.Millisecond)

	start := time.Now()
	assert.True(t, resolver.Resolve(context.Background()), "responsive peer ignored")
	assert.True(t, time.Since(start) < time.Second, "timeout not applied")
	assert.Equal(t, b.Chain(), a.Chain(), "wrong chain adopted")
}

func TestResolveWhenReplaceRefused(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	b := minedLedger(t, "node-b", 3)

	local := mocks.NewMockLedger(ctl)
	local.EXPECT().Height().Return(uint64(1)).AnyTimes()
	local.EXPECT().Replace(b.Chain().Blocks).Return(false).Times(1)

	registry := mocks.NewMockRegistry(ctl)
	registry.EXPECT().Addresses().Return([]string{"10.0.0.1:5000"}).Times(1)

	source := mocks.NewMockPeerSource(ctl)
	source.EXPECT().FetchChain(gomock.Any(), "10.0.0.1:5000").Return(chainOf(b), nil).Times(1)

	resolver := newResolver(local, registry, source)
	assert.False(t, resolver.Resolve(context.Background()), "refused replacement reported")
}

func TestRunWhenDisabled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	resolver := newResolver(mocks.NewMockLedger(ctl), mocks.NewMockRegistry(ctl), mocks.NewMockPeerSource(ctl))

	shutdown := make(chan struct{})
	wg := new(sync.WaitGroup)
	wg.Add(1)

	go func(wg *sync.WaitGroup) {
		resolver.Run(nil, shutdown)
		wg.Done()
	}(wg)

	close(shutdown)
	wg.Wait()
}

func TestRunResolvesPeriodically(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	called := make(chan struct{}, 100)

	registry := mocks.NewMockRegistry(ctl)
	registry.EXPECT().Addresses().DoAndReturn(func() []string {
		called <- struct{}{}
		return []string{}
	}).MinTimes(2)

	resolver := newResolver(mocks.NewMockLedger(ctl), registry, mocks.NewMockPeerSource(ctl))
	resolver.SetInterval(5 * time.Millisecond)

	shutdown := make(chan struct{})
	wg := new(sync.WaitGroup)
	wg.Add(1)

	go func(wg *sync.WaitGroup) {
		resolver.Run(nil, shutdown)
		wg.Done()
	}(wg)

	<-called
	<-called
	close(shutdown)
	wg.Wait()
}
