// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package proof - proof of work predicate and nonce search
//
// a proof p is valid after a previous proof q when the hex SHA-256 of
// the decimal digits of q followed by the decimal digits of p starts
// with the number of zeros given by the difficulty
package proof
