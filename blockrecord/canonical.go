// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"bytes"
	"encoding/json"

	"github.com/bitmark-inc/logger"
)

// CanonicalBytes - the encoding of a block that is hashed to link blocks
//
// the block is converted to nested maps so that every object is
// emitted with its keys in lexicographic order, independent of the
// order fields are declared or were received in; output is compact
// JSON without HTML escaping or a trailing newline
func CanonicalBytes(b Block) []byte {

	transactions := make([]interface{}, len(b.Transactions))
	for i, tx := range b.Transactions {
		transactions[i] = map[string]interface{}{
			"sender":    tx.Sender,
			"recipient": tx.Recipient,
			"amount":    tx.Amount,
		}
	}

	record := map[string]interface{}{
		"index":         b.Index,
		"timestamp":     b.Timestamp,
		"transactions":  transactions,
		"proof":         b.Proof,
		"previous_hash": b.PreviousHash.String(),
	}

	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(record)
	logger.PanicIfError("blockrecord.CanonicalBytes", err)

	return bytes.TrimSuffix(buffer.Bytes(), []byte{'\n'})
}
