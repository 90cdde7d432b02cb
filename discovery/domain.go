// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"net"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/miekg/dns"

	"github.com/bitmark-inc/ledgerd/background"
	"github.com/bitmark-inc/ledgerd/fault"
)

const (
	maximumInterval = 1 * time.Hour // upper limit between re-fetching TXT records
	resolverConfig  = "/etc/resolv.conf"
)

type domain struct {
	log        *logger.L
	domainName string
	registry   Registrar
	lookup     func(string) ([]string, error)
	interval   func(string, *logger.L) time.Duration
}

// NewDomain - register the peers published as TXT records of a domain
//
// the records are read once immediately; the returned process re-reads
// them after each refresh interval
func NewDomain(log *logger.L, domainName string, registry Registrar, lookup func(string) ([]string, error)) (background.Process, error) {
	log.Info("initialising…")

	domainName = strings.TrimSuffix(strings.TrimSpace(domainName), ".")
	if "" == domainName {
		return nil, fault.InvalidNodeDomain
	}

	d := &domain{
		log:        log,
		domainName: domainName,
		registry:   registry,
		lookup:     lookup,
		interval:   interval,
	}

	err := d.refresh()
	if nil != err {
		return nil, err
	}

	return d, nil
}

// Run - background processing interface
func (d *domain) Run(_ interface{}, shutdown <-chan struct{}) {
	log := d.log

	log.Info("starting…")
	timer := time.After(d.interval(d.domainName, log))

loop:
	for {
		select {
		case <-timer:
			timer = time.After(d.interval(d.domainName, log))
			_ = d.refresh()

		case <-shutdown:
			break loop
		}
	}

	log.Info("stopped")
}

func (d *domain) refresh() error {
	log := d.log

	txts, err := d.lookup(d.domainName)
	if nil != err {
		log.Errorf("lookup TXT record error: %s", err)
		return err
	}

	for i, t := range txts {
		t = strings.TrimSpace(t)
		addresses, err := parseTxt(t)
		if nil != err {
			log.Debugf("ignore TXT[%d]: %q  error: %s", i, t, err)
			continue
		}

		log.Infof("process TXT[%d]: %q", i, t)
		for _, address := range addresses {
			location, err := d.registry.Register(address)
			if nil != err {
				log.Warnf("result[%d]: address: %q  error: %s", i, address, err)
				continue
			}
			log.Debugf("result[%d]: registered: %s", i, location)
		}
	}
	return nil
}

// time until the TXT records of a domain should be fetched again
//
// the TTL of the domain's SOA record as reported by the first
// responsive name server, never more than maximumInterval
func interval(domain string, log *logger.L) time.Duration {
	t := maximumInterval

	conf, err := dns.ClientConfigFromFile(resolverConfig)
	if nil != err {
		log.Warnf("reading %s error: %s", resolverConfig, err)
		return t
	}

	servers := conf.Servers
	if 0 == len(servers) {
		log.Warn("cannot get dns name server")
		return t
	}

	// resolv.conf uses at most three name servers
	if len(servers) > 3 {
		servers = servers[:3]
	}

loop:
	for _, server := range servers {

		s := net.JoinHostPort(server, conf.Port)
		c := dns.Client{}
		msg := dns.Msg{}
		msg.SetQuestion(dns.Fqdn(domain), dns.TypeSOA)

		r, _, err := c.Exchange(&msg, s)
		if nil != err {
			log.Debugf("exchange with dns server %q error: %s", s, err)
			continue loop
		}

		for _, section := range [][]dns.RR{r.Answer, r.Ns, r.Extra} {
			ttl := ttl(section)
			if 0 == ttl {
				continue
			}
			log.Debugf("got TTL record from server %q value %d", s, ttl)
			if ttlSec := time.Duration(ttl) * time.Second; ttlSec < maximumInterval {
				t = ttlSec
			}
			break loop
		}
	}

	log.Infof("time to re-fetch node domain: %v", t)
	return t
}

// TTL of the first SOA record in a section, or of its first record
func ttl(rrs []dns.RR) uint32 {
	for _, rr := range rrs {
		if soa, ok := rr.(*dns.SOA); ok {
			return soa.Hdr.Ttl
		}
	}
	if 0 == len(rrs) {
		return 0
	}
	return rrs[0].Header().Ttl
}
