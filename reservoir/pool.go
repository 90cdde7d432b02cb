// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"github.com/bitmark-inc/ledgerd/blockrecord"
)

// Pool - ordered pending transactions
type Pool struct {
	items []blockrecord.Transaction
}

// New - create an empty pool
func New() *Pool {
	return &Pool{
		items: []blockrecord.Transaction{},
	}
}

// Append - add a transaction to the end of the pool
func (p *Pool) Append(tx blockrecord.Transaction) {
	p.items = append(p.items, tx)
}

// Count - number of pending transactions
func (p *Pool) Count() int {
	return len(p.items)
}

// Items - copy of the pending transactions in arrival order
func (p *Pool) Items() []blockrecord.Transaction {
	items := make([]blockrecord.Transaction, len(p.items))
	copy(items, p.items)
	return items
}

// Drain - remove and return all pending transactions
//
// the result is never nil so that a block built from an empty pool
// still encodes its transactions as an array
func (p *Pool) Drain() []blockrecord.Transaction {
	items := p.items
	p.items = []blockrecord.Transaction{}
	return items
}
