// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nodecalls

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/ledgerd/fault"
)

const (
	defaultTimeout      = 30 * time.Second
	maximumResponseSize = 64 << 20
)

// Client - HTTP connection to one node
type Client struct {
	base    string
	client  *http.Client
	verbose bool
	handle  io.Writer
}

// ReplyError - an error reply sent by the node
type ReplyError struct {
	StatusCode int
	Message    string
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("status: %d  error: %s", e.StatusCode, e.Message)
}

// the body of an error reply
type errorReply struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// NewClient - create a client for the node at HOST:PORT or a full URL
//
// verbose output of requests and replies is written to handle
func NewClient(connect string, verbose bool, handle io.Writer) (*Client, error) {

	connect = strings.TrimSpace(connect)
	if "" == connect {
		return nil, fault.MissingParameters
	}
	if !strings.Contains(connect, "://") {
		connect = "http://" + connect
	}

	return &Client{
		base: strings.TrimSuffix(connect, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		verbose: verbose,
		handle:  handle,
	}, nil
}

// issue a request and decode a reply with the expected status
func (client *Client) call(method string, path string, args interface{}, expected int, reply interface{}) error {

	var body io.Reader
	if nil != args {
		client.printJson("Request", args)
		b, err := json.Marshal(args)
		if nil != err {
			return err
		}
		body = bytes.NewReader(b)
	}

	url := client.base + path
	if client.verbose {
		fmt.Fprintf(client.handle, "%s %s\n", method, url)
	}

	request, err := http.NewRequest(method, url, body)
	if nil != err {
		return err
	}
	if nil != args {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.client.Do(request)
	if nil != err {
		return err
	}
	defer response.Body.Close()

	data, err := ioutil.ReadAll(io.LimitReader(response.Body, maximumResponseSize+1))
	if nil != err {
		return err
	}
	if len(data) > maximumResponseSize {
		return fault.ResponseBodyTooLarge
	}

	if expected != response.StatusCode {
		var e errorReply
		if err := json.Unmarshal(data, &e); nil != err || "" == e.Error {
			return fault.UnexpectedStatusCode
		}
		return &ReplyError{
			StatusCode: response.StatusCode,
			Message:    e.Error,
		}
	}

	err = json.Unmarshal(data, reply)
	if nil != err {
		return err
	}
	client.printJson("Reply", reply)
	return nil
}

func (client *Client) printJson(title string, message interface{}) {

	if !client.verbose {
		return
	}

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(client.handle, "%s: JSON error: %s\n", title, err)
		return
	}
	fmt.Fprintf(client.handle, "%s:\n%s\n", title, b)
}
