// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/fault"
)

const (
	chainPath = "/chain"

	// largest chain reply accepted from a peer
	maximumResponseSize = 64 << 20
)

// Client - fetches chains from peers over HTTP
type Client struct {
	log    *logger.L
	client *http.Client
}

// NewClient - create a peer client
//
// a nil http.Client selects http.DefaultClient; per request time limits
// come from the context passed to FetchChain
func NewClient(log *logger.L, client *http.Client) *Client {
	if nil == client {
		client = http.DefaultClient
	}
	return &Client{
		log:    log,
		client: client,
	}
}

// FetchChain - GET http://<address>/chain and decode the chain reply
func (c *Client) FetchChain(ctx context.Context, address string) (*blockrecord.Chain, error) {

	u := url.URL{
		Scheme: "http",
		Host:   address,
		Path:   chainPath,
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if nil != err {
		c.log.Debugf("peer: %s  request error: %s", address, err)
		return nil, fault.InvalidPeerAddress
	}

	response, err := c.client.Do(request)
	if nil != err {
		c.log.Debugf("peer: %s  fetch error: %s", address, err)
		return nil, fault.PeerUnreachable
	}
	defer response.Body.Close()

	if http.StatusOK != response.StatusCode {
		c.log.Debugf("peer: %s  status: %d", address, response.StatusCode)
		return nil, fault.PeerUnreachable
	}

	body, err := ioutil.ReadAll(io.LimitReader(response.Body, maximumResponseSize+1))
	if nil != err {
		c.log.Debugf("peer: %s  read error: %s", address, err)
		return nil, fault.PeerUnreachable
	}
	if len(body) > maximumResponseSize {
		c.log.Warnf("peer: %s  reply exceeds %d bytes", address, maximumResponseSize)
		return nil, fault.ResponseBodyTooLarge
	}

	var reply blockrecord.Chain
	err = json.Unmarshal(body, &reply)
	if nil != err {
		c.log.Debugf("peer: %s  decode error: %s", address, err)
		return nil, fault.MalformedPeerResponse
	}

	if 0 == len(reply.Blocks) || reply.Length != uint64(len(reply.Blocks)) {
		c.log.Debugf("peer: %s  length: %d  blocks: %d", address, reply.Length, len(reply.Blocks))
		return nil, fault.MalformedPeerResponse
	}

	return &reply, nil
}
