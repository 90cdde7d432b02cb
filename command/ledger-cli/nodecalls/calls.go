// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nodecalls

import (
	"net/http"

	"github.com/bitmark-inc/ledgerd/blockdigest"
	"github.com/bitmark-inc/ledgerd/blockrecord"
)

// TransactionArguments - a transaction to submit
type TransactionArguments struct {
	Sender    string             `json:"sender"`
	Recipient string             `json:"recipient"`
	Amount    blockrecord.Amount `json:"amount"`
}

// TransactionReply - index of the block that will hold the transaction
type TransactionReply struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

// MineReply - the newly forged block
type MineReply struct {
	Message      string                    `json:"message"`
	Index        uint64                    `json:"index"`
	Transactions []blockrecord.Transaction `json:"transactions"`
	Proof        uint64                    `json:"proof"`
	PreviousHash blockdigest.Digest        `json:"previous_hash"`
	Timestamp    int64                     `json:"timestamp"`
}

type registerArguments struct {
	Nodes []string `json:"nodes"`
}

// RegisterReply - all peers known to the node
type RegisterReply struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

// ResolveReply - consensus outcome and the resulting chain
type ResolveReply struct {
	Message  string              `json:"message"`
	Replaced bool                `json:"replaced"`
	Chain    []blockrecord.Block `json:"chain"`
}

// DetailsReply - node information
type DetailsReply struct {
	Version     string             `json:"version"`
	Identity    string             `json:"identity"`
	Uptime      string             `json:"uptime"`
	Height      uint64             `json:"height"`
	LastBlock   blockdigest.Digest `json:"last_block"`
	Pending     int                `json:"pending"`
	Peers       []string           `json:"peers"`
	Difficulty  int                `json:"difficulty"`
	Connections uint64             `json:"connections"`
}

// Chain - fetch the full chain
func (client *Client) Chain() (*blockrecord.Chain, error) {
	var reply blockrecord.Chain
	err := client.call(http.MethodGet, "/chain", nil, http.StatusOK, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// Mine - forge the next block
func (client *Client) Mine() (*MineReply, error) {
	var reply MineReply
	err := client.call(http.MethodGet, "/mine", nil, http.StatusOK, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// NewTransaction - submit a transaction to the pending pool
func (client *Client) NewTransaction(args *TransactionArguments) (*TransactionReply, error) {
	var reply TransactionReply
	err := client.call(http.MethodPost, "/transactions/new", args, http.StatusCreated, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// Register - add peer addresses to the node
func (client *Client) Register(nodes []string) (*RegisterReply, error) {
	var reply RegisterReply
	err := client.call(http.MethodPost, "/nodes/register", &registerArguments{Nodes: nodes}, http.StatusCreated, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// Resolve - run consensus on the node
func (client *Client) Resolve() (*ResolveReply, error) {
	var reply ResolveReply
	err := client.call(http.MethodGet, "/nodes/resolve", nil, http.StatusOK, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// Details - node information
func (client *Client) Details() (*DetailsReply, error) {
	var reply DetailsReply
	err := client.call(http.MethodGet, "/details", nil, http.StatusOK, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}
