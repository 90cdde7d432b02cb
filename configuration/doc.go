// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// the file is executed as a Lua chunk that must return a table; most
// of base Lua is available, such as os.getenv to pick up environment
// supplied items.  The global arg[0] holds the configuration file name
// so that paths can be derived from it.
package configuration
