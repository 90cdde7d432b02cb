// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/ledgerd/background"
	"github.com/bitmark-inc/ledgerd/fault"
)

type peersFile struct {
	log      *logger.L
	filePath string
	registry Registrar
}

// NewPeersFile - register the peers listed in a text file
//
// one address per line, text after '#' is ignored; the returned
// process re-reads the file each time it is written or re-created
func NewPeersFile(log *logger.L, path string, registry Registrar) (background.Process, error) {
	log.Info("initialising…")

	filePath, err := filepath.Abs(filepath.Clean(path))
	if nil != err {
		log.Errorf("peers file: %q  error: %s", path, err)
		return nil, err
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fault.PeerFileNotFound
	}

	p := &peersFile{
		log:      log,
		filePath: filePath,
		registry: registry,
	}

	err = p.load()
	if nil != err {
		return nil, err
	}

	return p, nil
}

// Run - background processing interface
func (p *peersFile) Run(_ interface{}, shutdown <-chan struct{}) {
	log := p.log

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher error: %s", err)
		<-shutdown
		return
	}
	defer watcher.Close()

	// watch the directory so a replaced file is still seen
	err = watcher.Add(filepath.Dir(p.filePath))
	if nil != err {
		log.Errorf("watcher add error: %s", err)
		<-shutdown
		return
	}

	log.Infof("watching: %s", p.filePath)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != p.filePath {
				continue loop
			}
			if !fileChanged(event) {
				continue loop
			}
			log.Debugf("file event: %v", event)
			_ = p.load()

		case err, ok := <-watcher.Errors:
			if !ok {
				break loop
			}
			log.Warnf("watcher error: %s", err)
		}
	}

	log.Info("stopped")
}

func fileChanged(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create
}

// register every address in the file
func (p *peersFile) load() error {
	log := p.log

	addresses, err := readPeersFile(p.filePath)
	if nil != err {
		log.Errorf("read: %s  error: %s", p.filePath, err)
		return err
	}

	for _, address := range addresses {
		location, err := p.registry.Register(address)
		if nil != err {
			log.Warnf("peers file: address: %q  error: %s", address, err)
			continue
		}
		log.Debugf("peers file: registered: %s", location)
	}
	return nil
}

func readPeersFile(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if nil != err {
		if os.IsNotExist(err) {
			return nil, fault.PeerFileNotFound
		}
		return nil, err
	}
	defer f.Close()

	addresses := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if n := strings.IndexByte(line, '#'); n >= 0 {
			line = line[:n]
		}
		line = strings.TrimSpace(line)
		if "" != line {
			addresses = append(addresses, line)
		}
	}
	return addresses, scanner.Err()
}
