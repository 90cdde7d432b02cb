// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/pborman/uuid"

	"github.com/bitmark-inc/ledgerd/chain"
	"github.com/bitmark-inc/ledgerd/configuration"
	"github.com/bitmark-inc/ledgerd/consensus"
	"github.com/bitmark-inc/ledgerd/difficulty"
	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/rpc"
	"github.com/bitmark-inc/ledgerd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultPeersBackupFile = "peers.json"

	defaultLogDirectory = "log"
	defaultLogFile      = "ledgerd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 100
)

// path expanded or calculated defaults
var (
	defaultListen = []string{"127.0.0.1:5000"}
)

// ConsensusType - background resolution settings, both in seconds
type ConsensusType struct {
	Interval int `gluamapper:"interval" json:"interval"`
	Timeout  int `gluamapper:"timeout" json:"timeout"`
}

// Configuration - the daemon configuration file
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" json:"pidfile"`
	Chain         string `gluamapper:"chain" json:"chain"`
	Identity      string `gluamapper:"identity" json:"identity"`
	Difficulty    int    `gluamapper:"difficulty" json:"difficulty"`
	Nodes         string `gluamapper:"nodes" json:"nodes"`

	PeersFile       string `gluamapper:"peers_file" json:"peers_file"`
	PeersBackupFile string `gluamapper:"peers_backup_file" json:"peers_backup_file"`

	Consensus ConsensusType        `gluamapper:"consensus" json:"consensus"`
	RPC       rpc.Configuration    `gluamapper:"rpc" json:"rpc"`
	Logging   logger.Configuration `gluamapper:"logging" json:"logging"`

	// computed from Difficulty and Chain
	difficulty difficulty.Difficulty
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory:   defaultDataDirectory,
		PidFile:         "", // no PidFile by default
		Chain:           chain.Ledger,
		PeersFile:       "", // no peers file by default
		PeersBackupFile: defaultPeersBackupFile,

		Consensus: ConsensusType{
			Interval: 0, // disabled
			Timeout:  int(consensus.DefaultTimeout.Seconds()),
		},

		RPC: rpc.Configuration{
			MaximumConnections: defaultRPCClients,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{ // decoding writes into this map
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if nil == options.RPC.Listen {
		options.RPC.Listen = append([]string(nil), defaultListen...)
	}

	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fault.InvalidChainName
	}

	// zero selects the chain default
	if 0 == options.Difficulty {
		options.difficulty = chain.DefaultDifficulty(options.Chain)
	} else {
		options.difficulty, err = difficulty.New(options.Difficulty)
		if nil != err {
			return nil, err
		}
	}

	if options.Consensus.Interval < 0 || options.Consensus.Timeout <= 0 {
		return nil, fault.MissingParameters
	}

	options.Identity = strings.TrimSpace(options.Identity)
	if "" == options.Identity {
		options.Identity = strings.Replace(uuid.New(), "-", "", -1)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fault.InvalidDataDirectory
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fault.InvalidDataDirectory
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.PeersFile,
		&options.PeersBackupFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// log file must be a plain name inside the log directory
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fault.InvalidLogFileName
	}

	options.Logging.Directory, err = util.EnsureDirectory(options.DataDirectory, options.Logging.Directory)
	if nil != err {
		return nil, err
	}

	return options, nil
}
