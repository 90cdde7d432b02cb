// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"

	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/difficulty"
)

// Ledger - node operations served by the handler
type Ledger interface {
	SubmitTransaction(string, string, blockrecord.Amount) uint64
	Mine(context.Context) (blockrecord.Block, error)
	Chain() blockrecord.Chain
	LastBlock() blockrecord.Block
	Height() uint64
	Pending() []blockrecord.Transaction
	Identity() string
	Difficulty() difficulty.Difficulty
}

// Registry - peer registration
type Registry interface {
	Register(string) (string, error)
	Addresses() []string
	Count() int
}

// Resolver - consensus with peers
type Resolver interface {
	Resolve(context.Context) bool
}
