// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"encoding/json"
	"os"
)

// PeerList - the format of a peers backup file
type PeerList struct {
	Peers []string `json:"peers"`
}

// BackupPeers - write the addresses into a peers backup file
func BackupPeers(peerFile string, addresses []string) error {
	f, err := os.OpenFile(peerFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if nil != err {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(PeerList{Peers: addresses})
}

// RestorePeers - register the addresses from a peers backup file
//
// a missing file is not an error, as on the first start of a node;
// returns the number of addresses registered
func RestorePeers(peerFile string, registry Registrar) (int, error) {
	f, err := os.Open(peerFile)
	if nil != err {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var peers PeerList
	err = json.NewDecoder(f).Decode(&peers)
	if nil != err {
		return 0, err
	}

	n := 0
	for _, address := range peers.Peers {
		if _, err := registry.Register(address); nil == err {
			n += 1
		}
	}
	return n, nil
}
