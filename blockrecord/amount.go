// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/bitmark-inc/ledgerd/fault"
)

// Amount - a transaction amount held as the text of a JSON number
//
// no range or sign is imposed; the text is carried unchanged into the
// canonical encoding so a block hashes the same on every node
type Amount string

// JSON number grammar
var amountPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ParseAmount - accept any JSON number, surrounding spaces are ignored
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return "", fault.InvalidAmount
	}
	return Amount(s), nil
}

// String - the number text
func (amount Amount) String() string {
	return string(amount)
}

// MarshalJSON - emit the number exactly as it was received
func (amount Amount) MarshalJSON() ([]byte, error) {
	if "" == amount {
		return []byte("0"), nil
	}
	return []byte(amount), nil
}

// UnmarshalJSON - accept a number, or a string holding a number
func (amount *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		err := json.Unmarshal(b, &s)
		if nil != err {
			return err
		}
	}

	a, err := ParseAmount(s)
	if nil != err {
		return err
	}
	*amount = a
	return nil
}
