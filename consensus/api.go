// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"context"

	"github.com/bitmark-inc/ledgerd/blockrecord"
)

//go:generate mockgen -source=api.go -destination=mocks/mock_source.go -package=mocks

// PeerSource - fetch the chain reply of a peer
type PeerSource interface {
	FetchChain(context.Context, string) (*blockrecord.Chain, error)
}

// Ledger - the local chain as seen by the resolver
type Ledger interface {
	Height() uint64
	Replace([]blockrecord.Block) bool
}

// Registry - the peers to consult
type Registry interface {
	Addresses() []string
}
