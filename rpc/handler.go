// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerd/blockdigest"
	"github.com/bitmark-inc/ledgerd/blockrecord"
	"github.com/bitmark-inc/ledgerd/fault"
	"github.com/bitmark-inc/ledgerd/rpc/ratelimit"
)

const (
	// mining is CPU bound: a few immediately then one per second
	mineRate         = rate.Limit(1)
	mineBurst        = 5
	mineMaximumDelay = 2 * time.Second

	// each resolve fetches from every peer
	resolveRate         = rate.Limit(0.2)
	resolveBurst        = 2
	resolveMaximumDelay = 2 * time.Second

	chainCacheExpiry  = 5 * time.Minute
	chainCacheCleanup = 10 * time.Minute

	maximumBodySize = 1 << 20
)

// the argument passed to the handlers
type httpHandler struct {
	log      *logger.L
	ledger   Ledger
	registry Registry
	resolver Resolver

	version string
	start   time.Time

	// encoded chain replies keyed by last block
	chainCache *cache.Cache

	mineLimiter    *rate.Limiter
	resolveLimiter *rate.Limiter

	connections        uint64
	maximumConnections uint64
}

// NewHandler - create the HTTP handler for all node routes
//
// a zero maximumConnections leaves concurrent requests unlimited
func NewHandler(log *logger.L, ledger Ledger, registry Registry, resolver Resolver, version string, maximumConnections uint64) http.Handler {
	return newHandler(log, ledger, registry, resolver, version, maximumConnections).routes()
}

func newHandler(log *logger.L, ledger Ledger, registry Registry, resolver Resolver, version string, maximumConnections uint64) *httpHandler {
	return &httpHandler{
		log:                log,
		ledger:             ledger,
		registry:           registry,
		resolver:           resolver,
		version:            version,
		start:              time.Now(),
		chainCache:         cache.New(chainCacheExpiry, chainCacheCleanup),
		mineLimiter:        rate.NewLimiter(mineRate, mineBurst),
		resolveLimiter:     rate.NewLimiter(resolveRate, resolveBurst),
		maximumConnections: maximumConnections,
	}
}

func (h *httpHandler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chain", h.chain)
	mux.HandleFunc("/mine", h.mine)
	mux.HandleFunc("/transactions/new", h.newTransaction)
	mux.HandleFunc("/nodes/register", h.registerNodes)
	mux.HandleFunc("/nodes/resolve", h.resolve)
	mux.HandleFunc("/details", h.details)
	mux.HandleFunc("/", h.root)

	return h.limitConnections(mux)
}

// refuse requests beyond the connection limit
func (h *httpHandler) limitConnections(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddUint64(&h.connections, 1)
		defer atomic.AddUint64(&h.connections, ^uint64(0))

		if 0 != h.maximumConnections && n > h.maximumConnections {
			h.log.Warnf("connection limit: %d reached, refusing: %s %s", h.maximumConnections, r.Method, r.URL.Path)
			sendError(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		h.log.Debugf("%s %s from: %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

// this matches anything not matched and returns error
func (h *httpHandler) root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// GET the whole chain as {"length","chain"}
func (h *httpHandler) chain(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if text, ok := h.chainCache.Get(chainCacheKey(h.ledger.LastBlock())); ok {
		sendJSON(w, http.StatusOK, text.([]byte))
		return
	}

	c := h.ledger.Chain()
	text, err := json.Marshal(c)
	if nil != err {
		h.log.Errorf("chain: encode error: %s", err)
		sendInternalServerError(w)
		return
	}

	// key from the snapshot, the chain may have moved on since the lookup
	if last, ok := c.LastBlock(); ok {
		h.chainCache.Set(chainCacheKey(last), text, cache.DefaultExpiration)
	}

	sendJSON(w, http.StatusOK, text)
}

func chainCacheKey(last blockrecord.Block) string {
	return fmt.Sprintf("%d:%s", last.Index, last.Digest())
}

type mineReply struct {
	Message      string                    `json:"message"`
	Index        uint64                    `json:"index"`
	Transactions []blockrecord.Transaction `json:"transactions"`
	Proof        uint64                    `json:"proof"`
	PreviousHash blockdigest.Digest        `json:"previous_hash"`
	Timestamp    int64                     `json:"timestamp"`
}

// GET or POST to mine the next block
func (h *httpHandler) mine(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method && http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	err := ratelimit.Limit(h.mineLimiter, mineMaximumDelay)
	if nil != err {
		sendError(w, err.Error(), http.StatusTooManyRequests)
		return
	}

	b, err := h.ledger.Mine(r.Context())
	switch {
	case nil == err:
	case fault.StaleProof == err:
		sendError(w, err.Error(), http.StatusConflict)
		return
	case context.Canceled == err || context.DeadlineExceeded == err:
		h.log.Infof("mine: abandoned: %s", err)
		sendError(w, "mining cancelled", http.StatusServiceUnavailable)
		return
	default:
		h.log.Errorf("mine: error: %s", err)
		sendInternalServerError(w)
		return
	}

	sendReply(w, http.StatusOK, mineReply{
		Message:      "New Block Forged",
		Index:        b.Index,
		Transactions: b.Transactions,
		Proof:        b.Proof,
		PreviousHash: b.PreviousHash,
		Timestamp:    b.Timestamp,
	})
}

type transactionArguments struct {
	Sender    *string             `json:"sender"`
	Recipient *string             `json:"recipient"`
	Amount    *blockrecord.Amount `json:"amount"`
}

type transactionReply struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

// POST a transaction as JSON or form fields: sender, recipient, amount
func (h *httpHandler) newTransaction(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maximumBodySize)

	var args transactionArguments
	if isJSON(r) {
		err := json.NewDecoder(r.Body).Decode(&args)
		if fault.InvalidAmount == err {
			sendError(w, "invalid amount", http.StatusBadRequest)
			return
		} else if nil != err {
			h.log.Debugf("transaction: decode error: %s", err)
			sendError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		err := r.ParseForm()
		if nil != err {
			sendError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if s, ok := r.PostForm["sender"]; ok {
			args.Sender = &s[0]
		}
		if s, ok := r.PostForm["recipient"]; ok {
			args.Recipient = &s[0]
		}
		if s, ok := r.PostForm["amount"]; ok {
			amount, err := blockrecord.ParseAmount(s[0])
			if nil != err {
				sendError(w, "invalid amount", http.StatusBadRequest)
				return
			}
			args.Amount = &amount
		}
	}

	if nil == args.Sender || nil == args.Recipient || nil == args.Amount {
		sendError(w, "Missing values", http.StatusBadRequest)
		return
	}

	index := h.ledger.SubmitTransaction(*args.Sender, *args.Recipient, *args.Amount)

	sendReply(w, http.StatusCreated, transactionReply{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
		Index:   index,
	})
}

type registerArguments struct {
	Nodes []string `json:"nodes"`
}

type registerReply struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

// POST peer addresses as JSON {"nodes":[...]} or form field n
func (h *httpHandler) registerNodes(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maximumBodySize)

	var args registerArguments
	if isJSON(r) {
		err := json.NewDecoder(r.Body).Decode(&args)
		if nil != err {
			h.log.Debugf("register: decode error: %s", err)
			sendError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		err := r.ParseForm()
		if nil != err {
			sendError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		args.Nodes = r.PostForm["n"]
	}

	if 0 == len(args.Nodes) {
		sendError(w, "Please supply a valid list of nodes", http.StatusBadRequest)
		return
	}

	registered := 0
	for _, address := range args.Nodes {
		location, err := h.registry.Register(address)
		if nil != err {
			h.log.Warnf("register: address: %q  error: %s", address, err)
			continue
		}
		h.log.Infof("register: node: %s", location)
		registered += 1
	}

	if 0 == registered {
		sendError(w, fault.InvalidPeerAddress.Error(), http.StatusBadRequest)
		return
	}

	sendReply(w, http.StatusCreated, registerReply{
		Message:    "New nodes have been added",
		TotalNodes: h.registry.Addresses(),
	})
}

type resolveReply struct {
	Message  string              `json:"message"`
	Replaced bool                `json:"replaced"`
	Chain    []blockrecord.Block `json:"chain"`
}

// GET to run consensus with all registered peers
func (h *httpHandler) resolve(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	err := ratelimit.Limit(h.resolveLimiter, resolveMaximumDelay)
	if nil != err {
		sendError(w, err.Error(), http.StatusTooManyRequests)
		return
	}

	replaced := h.resolver.Resolve(r.Context())

	reply := resolveReply{
		Message:  "Our chain is authoritative",
		Replaced: replaced,
		Chain:    h.ledger.Chain().Blocks,
	}
	if replaced {
		reply.Message = "Our chain was replaced"
	}

	sendReply(w, http.StatusOK, reply)
}

type detailsReply struct {
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

// GET node information
func (h *httpHandler) details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	last := h.ledger.LastBlock()

	sendReply(w, http.StatusOK, detailsReply{
		Version:     h.version,
		Identity:    h.ledger.Identity(),
		Uptime:      time.Since(h.start).Round(time.Second).String(),
		Height:      h.ledger.Height(),
		LastBlock:   last.Digest(),
		Pending:     len(h.ledger.Pending()),
		Peers:       h.registry.Addresses(),
		Difficulty:  int(h.ledger.Difficulty()),
		Connections: atomic.LoadUint64(&h.connections),
	})
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return nil == err && "application/json" == mediaType
}
