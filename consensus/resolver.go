// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/chain"
	"github.com/bitmark-inc/ledgerd/difficulty"
	"github.com/bitmark-inc/ledgerd/fault"
)

// DefaultTimeout - limit on a single peer fetch
const DefaultTimeout = 5 * time.Second

// Resolver - longest valid chain resolution
type Resolver struct {
	log        *logger.L
	ledger     Ledger
	registry   Registry
	source     PeerSource
	difficulty difficulty.Difficulty
	timeout    time.Duration
	interval   time.Duration
}

type fetched struct {
	chain *blockrecord.Chain
	err   error
}

// New - create a resolver
//
// a zero timeout selects DefaultTimeout
func New(log *logger.L, ledger Ledger, registry Registry, source PeerSource, d difficulty.Difficulty, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		log:        log,
		ledger:     ledger,
		registry:   registry,
		source:     source,
		difficulty: d,
		timeout:    timeout,
	}
}

// Resolve - adopt the longest valid peer chain that is longer than the
// local one
//
// returns true if the local chain was replaced; unreachable peers,
// malformed replies and invalid chains are skipped
func (r *Resolver) Resolve(ctx context.Context) bool {
	log := r.log

	addresses := r.registry.Addresses()
	if 0 == len(addresses) {
		log.Debug("resolve: no peers")
		return false
	}

	// fetch concurrently, each result in its own slot
	results := make([]fetched, len(addresses))
	g := errgroup.Group{}
	for i, address := range addresses {
		i, address := i, address
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			c, err := r.source.FetchChain(fetchCtx, address)
			results[i] = fetched{
				chain: c,
				err:   err,
			}
			return nil
		})
	}
	_ = g.Wait()

	// evaluate in registry order
	threshold := r.ledger.Height()
	var best []blockrecord.Block
	bestAddress := ""

check_peers:
	for i, address := range addresses {
		result := results[i]

		switch {
		case nil != result.err:
			log.Warnf("resolve: peer: %s  skipped: %s", address, result.err)
			continue check_peers
		case nil == result.chain:
			log.Warnf("resolve: peer: %s  skipped: %s", address, fault.MalformedPeerResponse)
			continue check_peers
		case result.chain.Length != uint64(len(result.chain.Blocks)):
			log.Warnf("resolve: peer: %s  skipped: %s", address, fault.ChainLengthMismatch)
			continue check_peers
		case result.chain.Length <= threshold:
			log.Debugf("resolve: peer: %s  length: %d  not longer than: %d", address, result.chain.Length, threshold)
			continue check_peers
		}

		err := chain.Validate(result.chain.Blocks, r.difficulty)
		if nil != err {
			log.Warnf("resolve: peer: %s  length: %d  invalid chain: %s", address, result.chain.Length, err)
			continue check_peers
		}

		threshold = result.chain.Length
		best = result.chain.Blocks
		bestAddress = address
	}

	if nil == best {
		log.Debugf("resolve: local chain kept at height: %d", r.ledger.Height())
		return false
	}

	replaced := r.ledger.Replace(best)
	log.Infof("resolve: peer: %s  length: %d  replaced: %t", bestAddress, len(best), replaced)

	return replaced
}

// SetInterval - time between resolutions when run in the background
//
// zero disables the background process
func (r *Resolver) SetInterval(interval time.Duration) {
	r.interval = interval
}

// Run - background process resolving periodically
func (r *Resolver) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log

	if r.interval <= 0 {
		log.Info("periodic resolve disabled")
		<-shutdown
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Infof("starting…  interval: %s", r.interval)

loop:
	for {
		log.Debug("waiting…")
		select {
		case <-shutdown:
			break loop
		case <-time.After(r.interval):
			r.Resolve(ctx)
		}
	}

	log.Info("stopped")
}
