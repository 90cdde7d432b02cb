// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerd/fault"
)

const (
	shutdownTimeout = 5 * time.Second
	keepAlivePeriod = 3 * time.Minute
)

// Configuration - configuration file data for the HTTP server
type Configuration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
}

// Server - HTTP listeners serving one handler
type Server struct {
	log       *logger.L
	servers   []*http.Server
	listeners []net.Listener
}

// NewServer - open every configured listen address
//
// an address of the form "*:PORT" listens on all interfaces; no
// listen addresses disables the server
func NewServer(log *logger.L, configuration *Configuration, handler http.Handler) (*Server, error) {

	s := &Server{
		log: log,
	}

	if 0 == len(configuration.Listen) {
		log.Info("disabled")
		return s, nil
	}

	if configuration.MaximumConnections < 1 {
		log.Errorf("invalid maximum connection limit: %d", configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}

	for _, listen := range configuration.Listen {
		if strings.HasPrefix(listen, "*:") {
			// on the assumption that this will listen on tcp4 and tcp6
			listen = "[::]:" + strings.TrimPrefix(listen, "*:")
		}

		ln, err := net.Listen("tcp", listen)
		if nil != err {
			log.Errorf("listen on: %q  error: %s", listen, err)
			s.close()
			return nil, err
		}

		log.Infof("listening on: %s", ln.Addr())

		s.listeners = append(s.listeners, tcpKeepAliveListener{ln.(*net.TCPListener)})
		s.servers = append(s.servers, &http.Server{
			Handler:        handler,
			ReadTimeout:    10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		})
	}

	return s, nil
}

// Addresses - the actual addresses being listened on
func (s *Server) Addresses() []string {
	addresses := make([]string, len(s.listeners))
	for i, ln := range s.listeners {
		addresses[i] = ln.Addr().String()
	}
	return addresses
}

// Run - background process serving until shutdown
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	for i, server := range s.servers {
		go func(server *http.Server, ln net.Listener) {
			err := server.Serve(ln)
			if nil != err && http.ErrServerClosed != err {
				log.Errorf("serve on: %s  error: %s", ln.Addr(), err)
			}
		}(server, s.listeners[i])
	}

	<-shutdown

	log.Info("shutting down…")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, server := range s.servers {
		err := server.Shutdown(ctx)
		if nil != err {
			log.Warnf("shutdown error: %s", err)
		}
	}

	log.Info("stopped")
}

// release listeners that were never served
func (s *Server) close() {
	for _, ln := range s.listeners {
		_ = ln.Close()
	}
	s.listeners = nil
	s.servers = nil
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if nil != err {
		return nil, err
	}
	_ = tc.SetKeepAlive(true)
	_ = tc.SetKeepAlivePeriod(keepAlivePeriod)
	return tc, nil
}
