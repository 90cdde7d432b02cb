// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"strings"

	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/util"
)

// the tag to detect applicable TXT records from DNS
var supportedTags = map[string]struct{}{
	"ledger-peer=v1": {},
}

// decode DNS TXT records of the form
//
//   <TAG> a=<HOST:PORT>[;<HOST:PORT>...]
//
// unknown items are ignored, an IPv6 literal must be bracketed
func parseTxt(s string) ([]string, error) {

	addresses := []string{}
	countA := 0

words:
	for i, w := range strings.Fields(s) {

		if 0 == i {
			if _, ok := supportedTags[w]; ok {
				continue words
			}
			return nil, fault.InvalidDnsTxtRecord
		}

		if len(w) < 2 || '=' != w[1] {
			return nil, fault.InvalidDnsTxtRecord
		}

		switch w[0] {
		case 'a':
			countA += 1
			for _, a := range strings.Split(w[2:], ";") {
				if "" == a {
					continue
				}
				location, err := util.CanonicalHostAndPort(a)
				if nil != err {
					return nil, fault.InvalidDnsTxtRecord
				}
				addresses = append(addresses, location)
			}
		default:
		}
	}

	if 1 != countA || 0 == len(addresses) {
		return nil, fault.InvalidDnsTxtRecord
	}
	return addresses, nil
}
