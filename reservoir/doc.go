// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reservoir - pending transactions waiting to be included in
// the next mined block
//
// a Pool performs no locking; its owner serialises access
package reservoir
