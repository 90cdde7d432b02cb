// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/util"
)

// Registry - interface for the set of peer network locations
type Registry interface {
	Register(string) (string, error)
	Addresses() []string
	Count() int
}

type registry struct {
	sync.RWMutex
	nodes map[string]struct{}
}

// NewRegistry - create an empty registry
func NewRegistry() Registry {
	return &registry{
		nodes: make(map[string]struct{}),
	}
}

// Register - add the network location of an address
//
// accepts a URL such as "http://192.168.0.5:5000" or a bare
// "host:port"; returns the canonical location, registering the same
// location again has no effect
func (r *registry) Register(address string) (string, error) {
	location, err := NetworkLocation(address)
	if nil != err {
		return "", err
	}

	r.Lock()
	r.nodes[location] = struct{}{}
	r.Unlock()

	return location, nil
}

// Addresses - sorted copy of all registered locations
func (r *registry) Addresses() []string {
	r.RLock()
	defer r.RUnlock()

	addresses := make([]string, 0, len(r.nodes))
	for location := range r.nodes {
		addresses = append(addresses, location)
	}
	sort.Strings(addresses)
	return addresses
}

// Count - number of registered locations
func (r *registry) Count() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.nodes)
}

// NetworkLocation - canonical "host[:port]" of a peer address
func NetworkLocation(address string) (string, error) {
	address = strings.TrimSpace(address)
	if "" == address {
		return "", fault.InvalidPeerAddress
	}

	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if nil != err || "" == u.Host {
		return "", fault.InvalidPeerAddress
	}

	return util.CanonicalHostAndPort(u.Host)
}
