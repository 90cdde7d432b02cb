// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/util"
)

// setup command handler
//
// commands that do not need the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "version", "v":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")
		fmt.Printf("  dns-txt [HOST:PORT…]       (txt)    - display the TXT record announcing this node\n")
		fmt.Printf("                                        defaults to the rpc listen addresses\n\n")
		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n\n")
		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convenience when passing script arguments\n\n")
		fmt.Printf("example: %s --config-file=ledgerd.conf start\n", program)

	default:
		// unknown commands fall through to configuration commands
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "dns-txt", "txt":
		if 0 == len(arguments) {
			arguments = options.RPC.Listen
		}
		record, err := dnsTXT(arguments)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		fmt.Printf("TXT %q\n", record)

	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	case "start", "run":
		return false // continue processing

	default:
		exitwithstatus.Message("error: no such command: %s", command)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// the TXT record that discovery parses
//
//   ledger-peer=v1 a=<host:port>[;<host:port>…]
//
// wildcard listeners cannot be announced and are skipped
func dnsTXT(addresses []string) (string, error) {
	a := make([]string, 0, len(addresses))
loop:
	for _, address := range addresses {
		if strings.HasPrefix(address, "*:") {
			continue loop
		}
		c, err := util.CanonicalHostAndPort(address)
		if nil != err {
			return "", err
		}
		a = append(a, c)
	}
	if 0 == len(a) {
		return "", fault.MissingParameters
	}
	return "ledger-peer=v1 a=" + strings.Join(a, ";"), nil
}
