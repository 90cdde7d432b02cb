// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - serve the node operations over HTTP with JSON replies
//
// the /chain route is also the wire contract used by peers fetching
// this node's chain
package rpc
