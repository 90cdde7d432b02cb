// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/command/ledger-cli/nodecalls"
	"github.com/bitmark-inc/ledgerd/fault"
)

func runTransaction(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	sender := strings.TrimSpace(c.String("sender"))
	if "" == sender {
		return fmt.Errorf("missing sender")
	}
	recipient := strings.TrimSpace(c.String("recipient"))
	if "" == recipient {
		return fmt.Errorf("missing recipient")
	}
	if !c.IsSet("amount") {
		return fmt.Errorf("missing amount")
	}
	amount, err := blockrecord.ParseAmount(c.String("amount"))
	if nil != err {
		return err
	}

	response, err := m.client.NewTransaction(&nodecalls.TransactionArguments{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	})
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

func runMine(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	response, err := m.client.Mine()
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

func runChain(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	response, err := m.client.Chain()
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

func runRegister(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	nodes := []string(c.Args())
	if 0 == len(nodes) {
		return fault.WrongNumberOfArguments
	}

	response, err := m.client.Register(nodes)
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

func runResolve(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	response, err := m.client.Resolve()
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

func runDetails(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	response, err := m.client.Details()
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}
