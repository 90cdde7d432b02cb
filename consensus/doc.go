// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package consensus - reconcile the local chain with the chains held
// by peers using the longest valid chain rule
//
// peer chains are obtained through a PeerSource so the resolver itself
// performs no network I/O
package consensus
