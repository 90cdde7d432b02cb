// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/ledgerd/fault"
)

// CanonicalIPandPort - make the IP:Port canonical
//
// examples:
//   IPv4:  127.0.0.1:1234
//   IPv6:  [::1]:1234
func CanonicalIPandPort(hostPort string) (string, error) {

	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return "", fault.InvalidIPAddress
	}

	IP := net.ParseIP(strings.TrimSpace(host))
	if nil == IP {
		return "", fault.InvalidIPAddress
	}

	numericPort, err := canonicalPort(port)
	if nil != err {
		return "", err
	}

	return net.JoinHostPort(IP.String(), numericPort), nil
}

// CanonicalHostAndPort - make a HOST[:PORT] network location canonical
//
// IP literals are normalised as CanonicalIPandPort does, host names
// are lower cased and a port, when present, must be in range
func CanonicalHostAndPort(location string) (string, error) {

	location = strings.TrimSpace(location)
	if "" == location {
		return "", fault.InvalidPeerAddress
	}

	host := location
	port := ""
	if h, p, err := net.SplitHostPort(location); nil == err {
		host = h
		p, err := canonicalPort(p)
		if nil != err {
			return "", err
		}
		port = p
	} else if strings.Contains(strings.Trim(location, "[]"), ":") && nil == net.ParseIP(strings.Trim(location, "[]")) {
		return "", fault.InvalidPeerAddress
	}

	host = strings.ToLower(strings.Trim(host, "[]"))
	if "" == host {
		return "", fault.InvalidPeerAddress
	}
	if IP := net.ParseIP(host); nil != IP {
		host = IP.String()
	} else if strings.ContainsAny(host, " /?#@") {
		return "", fault.InvalidPeerAddress
	}

	if "" == port {
		if strings.Contains(host, ":") {
			return "[" + host + "]", nil
		}
		return host, nil
	}
	return net.JoinHostPort(host, port), nil
}

// validate a port string and remove any leading zeros
func canonicalPort(port string) (string, error) {
	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err {
		return "", fault.InvalidPortNumber
	}
	if numericPort < 1 || numericPort > 65535 {
		return "", fault.InvalidPortNumber
	}
	return strconv.Itoa(numericPort), nil
}
