// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package discovery - sources of peer addresses for the node registry
//
// peers may be listed in a watched text file, published as DNS TXT
// records or restored from a backup written at the previous shutdown
package discovery

// Registrar - accepts peer addresses
type Registrar interface {
	Register(string) (string, error)
}
