// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ratelimit - delay or refuse requests that exceed a rate
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerd/fault"
)

// Limit - wait for a single request to be allowed
//
// a request that would have to wait longer than maximumDelay is
// refused immediately and does not consume a token
func Limit(limiter *rate.Limiter, maximumDelay time.Duration) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.RateLimiting
	}

	delay := r.Delay()
	if delay > maximumDelay {
		r.Cancel()
		return fault.RateLimiting
	}

	time.Sleep(delay)
	return nil
}
