// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockdigest - the SHA-256 digest used to link blocks
//
// A digest is printed, marshalled and scanned as 64 lowercase
// hexadecimal characters in natural byte order.
package blockdigest
