// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerd/discovery"
	"github.com/bitmark-inc/ledgerd/peer"
)

func TestRestorePeersWhenMissing(t *testing.T) {
	// first start of a node: no backup yet
	n, err := discovery.RestorePeers("file_not_exist.json", peer.NewRegistry())
	assert.Nil(t, err, "missing backup reported as error")
	assert.Equal(t, 0, n, "wrong count")
}

func TestBackupThenRestorePeers(t *testing.T) {
	dir, err := ioutil.TempDir("", "backup")
	assert.Nil(t, err, "temp dir error")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "peers.json")
	original := peer.NewRegistry()
	for _, address := range []string{"127.0.0.1:5001", "node.example.org:5000"} {
		_, err := original.Register(address)
		assert.Nil(t, err, "register error")
	}

	err = discovery.BackupPeers(path, original.Addresses())
	assert.Nil(t, err, "backup error")

	restored := peer.NewRegistry()
	n, err := discovery.RestorePeers(path, restored)
	assert.Nil(t, err, "restore error")
	assert.Equal(t, 2, n, "wrong count")
	assert.Equal(t, original.Addresses(), restored.Addresses(), "wrong addresses")
}

func TestRestorePeersWhenCorrupt(t *testing.T) {
	dir, err := ioutil.TempDir("", "backup")
	assert.Nil(t, err, "temp dir error")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "peers.json")
	err = ioutil.WriteFile(path, []byte("{not json"), 0600)
	assert.Nil(t, err, "write error")

	_, err = discovery.RestorePeers(path, peer.NewRegistry())
	assert.NotNil(t, err, "corrupt backup accepted")
}
