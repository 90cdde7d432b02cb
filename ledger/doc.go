// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the chain of blocks and the pool of pending
// transactions owned by a node
//
// a Ledger is created once and shared by reference; every operation
// is safe for concurrent use.  The proof of work search runs outside
// the chain lock so that reads and submissions are not blocked while a
// block is being mined.
package ledger
