// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerd/command/ledger-cli/nodecalls"
)

type metadata struct {
	client  *nodecalls.Client
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	app := newApp()

	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("terminated with error: %s", err)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "ledger-cli"
	app.Usage = "client for a ledgerd node"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:5000",
			Usage:  " ledgerd node `HOST:PORT`",
			EnvVar: "LEDGER_CONNECT",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "transaction",
			Usage:     "submit a transaction to the pending pool",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "sender, s",
					Value: "",
					Usage: "*sending account `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "recipient, r",
					Value: "",
					Usage: "*receiving account `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "amount, a",
					Value: "",
					Usage: "*amount to transfer `NUMBER`",
				},
			},
			Action: runTransaction,
		},
		{
			Name:   "mine",
			Usage:  "forge a new block from the pending pool",
			Action: runMine,
		},
		{
			Name:   "chain",
			Usage:  "display the full chain",
			Action: runChain,
		},
		{
			Name:      "register",
			Usage:     "add peers to the node",
			ArgsUsage: "HOST:PORT…",
			Action:    runRegister,
		},
		{
			Name:   "resolve",
			Usage:  "run consensus with the registered peers",
			Action: runResolve,
		},
		{
			Name:   "details",
			Usage:  "display node information",
			Action: runDetails,
		},
		{
			Name:  "version",
			Usage: "display ledger-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		connect := c.GlobalString("connect")
		if verbose {
			fmt.Fprintf(e, "connect: %q\n", connect)
		}

		client, err := nodecalls.NewClient(connect, verbose, e)
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			client:  client,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	return app
}
