// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerd/background"
	"github.com/bitmark-inc/ledgerd/consensus"
	"github.com/bitmark-inc/ledgerd/discovery"
	"github.com/bitmark-inc/ledgerd/ledger"
	"github.com/bitmark-inc/ledgerd/peer"
	"github.com/bitmark-inc/ledgerd/rpc"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	verbose := len(options["verbose"]) > 0
	quiet := len(options["quiet"]) > 0

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("chain: %s", theConfiguration.Chain)
	log.Infof("identity: %s", theConfiguration.Identity)
	log.Infof("difficulty: %d", theConfiguration.difficulty)

	// the ledger starts from the genesis block on every run
	theLedger := ledger.New(logger.New("ledger"), theConfiguration.Identity, theConfiguration.difficulty)

	registry := peer.NewRegistry()

	if "" != theConfiguration.PeersBackupFile {
		n, err := discovery.RestorePeers(theConfiguration.PeersBackupFile, registry)
		if nil != err {
			log.Errorf("restore peers from: %q  error: %s", theConfiguration.PeersBackupFile, err)
		} else {
			log.Infof("restored: %d peers from: %q", n, theConfiguration.PeersBackupFile)
		}
	}

	var peersFile background.Process
	if "" != theConfiguration.PeersFile {
		peersFile, err = discovery.NewPeersFile(logger.New("peers-file"), theConfiguration.PeersFile, registry)
		if nil != err {
			log.Criticalf("peers file: %q  error: %s", theConfiguration.PeersFile, err)
			exitwithstatus.Message("peers file: %q  error: %s", theConfiguration.PeersFile, err)
		}
	}

	var nodes background.Process
	switch theConfiguration.Nodes {
	case "", "none":
		log.Info("DNS peer discovery disabled")
	default:
		// domain names are complex to validate so just rely on
		// trying to fetch the TXT records for validation
		nodes, err = discovery.NewDomain(logger.New("nodes"), theConfiguration.Nodes, registry, net.LookupTXT)
		if nil != err {
			log.Criticalf("nodes domain: %q  error: %s", theConfiguration.Nodes, err)
			exitwithstatus.Message("nodes domain: %q  error: %s", theConfiguration.Nodes, err)
		}
	}

	timeout := time.Duration(theConfiguration.Consensus.Timeout) * time.Second
	client := peer.NewClient(logger.New("peer"), &http.Client{
		Timeout: timeout,
	})

	resolver := consensus.New(logger.New("consensus"), theLedger, registry, client, theConfiguration.difficulty, timeout)
	resolver.SetInterval(time.Duration(theConfiguration.Consensus.Interval) * time.Second)

	handler := rpc.NewHandler(logger.New("rpc"), theLedger, registry, resolver, version, theConfiguration.RPC.MaximumConnections)
	server, err := rpc.NewServer(logger.New("server"), &theConfiguration.RPC, handler)
	if nil != err {
		log.Criticalf("rpc server error: %s", err)
		exitwithstatus.Message("rpc server error: %s", err)
	}
	if verbose {
		for _, a := range server.Addresses() {
			fmt.Printf("listening on: %s\n", a)
		}
	}

	var stats background.Process
	if len(options["memory-stats"]) > 0 {
		stats = &memoryStats{
			log:    logger.New("memory"),
			height: theLedger.Height,
			peers:  registry.Count,
		}
	}

	processes := background.Processes{
		server,
		resolver,
		peersFile,
		nodes,
		stats,
	}
	running := background.Start(processes, nil)

	// wait for CTRL-C before shutting down to allow manual testing
	if !quiet {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if !quiet {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	running.Stop()

	if "" != theConfiguration.PeersBackupFile {
		err := discovery.BackupPeers(theConfiguration.PeersBackupFile, registry.Addresses())
		if nil != err {
			log.Errorf("backup peers to: %q  error: %s", theConfiguration.PeersBackupFile, err)
		}
	}
}
