// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"strings"

	"github.com/bitmark-inc/ledgerd/fault"
)

// limits and default value
const (
	Minimum = 1
	Maximum = 64 // characters in a hex SHA-256 digest
	Default = 4
)

// Difficulty - number of leading zero hex digits a proof digest must have
type Difficulty int

// New - create a difficulty, rejecting out of range values
func New(zeros int) (Difficulty, error) {
	if zeros < Minimum || zeros > Maximum {
		return 0, fault.InvalidDifficulty
	}
	return Difficulty(zeros), nil
}

// Prefix - the required leading characters of a hex digest
func (d Difficulty) Prefix() string {
	return strings.Repeat("0", int(d))
}

// Satisfied - check a hex digest against the difficulty
func (d Difficulty) Satisfied(hexDigest string) bool {
	n := int(d)
	if n > len(hexDigest) {
		return false
	}
	for i := 0; i < n; i += 1 {
		if '0' != hexDigest[i] {
			return false
		}
	}
	return true
}
