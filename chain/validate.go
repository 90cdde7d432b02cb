// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/difficulty"
	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/proof"
)

// Validate - check the links and proofs of a candidate chain
//
// the first block is taken to be the genesis block and is not checked
// itself; every following block must carry the digest of its
// predecessor and a proof that is valid after the predecessor's proof
func Validate(blocks []blockrecord.Block, d difficulty.Difficulty) error {
	for i := 1; i < len(blocks); i += 1 {
		previous := blocks[i-1]
		current := blocks[i]

		if current.PreviousHash != previous.Digest() {
			return fault.PreviousHashMismatch
		}
		if !proof.Valid(previous.Proof, current.Proof, d) {
			return fault.ProofMismatch
		}
	}
	return nil
}

// IsValid - boolean form of Validate
func IsValid(blocks []blockrecord.Block, d difficulty.Difficulty) bool {
	return nil == Validate(blocks, d)
}
