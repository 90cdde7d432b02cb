// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"context"
	"strconv"

	"github.com/bitmark-inc/ledgerd/blockdigest"
	"github.com/bitmark-inc/ledgerd/difficulty"
)

// number of candidates tried between cancellation checks
const checkInterval = 4096

// Valid - check the proof of work predicate
func Valid(lastProof uint64, proof uint64, d difficulty.Difficulty) bool {
	guess := strconv.FormatUint(lastProof, 10) + strconv.FormatUint(proof, 10)
	return d.Satisfied(blockdigest.NewDigest([]byte(guess)).String())
}

// Solve - find the smallest proof that is valid after lastProof
//
// the search has no upper bound, it only stops early if the context
// is cancelled, returning the context's error
func Solve(ctx context.Context, lastProof uint64, d difficulty.Difficulty) (uint64, error) {
	for proof := uint64(0); ; proof += 1 {
		if 0 == proof%checkInterval {
			if err := ctx.Err(); nil != err {
				return 0, err
			}
		}
		if Valid(lastProof, proof, d) {
			return proof, nil
		}
	}
}
