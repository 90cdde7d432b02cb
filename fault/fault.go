// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised     = ExistsError("already initialised")
	ChainIsEmpty           = LengthError("chain is empty")
	ChainLengthMismatch    = LengthError("reported chain length does not match blocks")
	ConfigurationNotTable  = InvalidError("configuration did not return a table")
	InvalidAmount          = InvalidError("invalid amount")
	InvalidChain           = InvalidError("invalid chain")
	InvalidChainName       = InvalidError("invalid chain name")
	InvalidCount           = InvalidError("invalid count")
	InvalidDataDirectory   = InvalidError("invalid data directory")
	InvalidDifficulty      = InvalidError("invalid difficulty")
	InvalidDigest          = InvalidError("invalid digest")
	InvalidDnsTxtRecord    = InvalidError("invalid DNS TXT record")
	InvalidIPAddress       = InvalidError("invalid IP address")
	InvalidLogFileName     = InvalidError("invalid log file name")
	InvalidNodeDomain      = InvalidError("invalid node domain")
	InvalidPeerAddress     = InvalidError("invalid peer address")
	InvalidPortNumber      = InvalidError("invalid port number")
	InvalidStructPointer   = InvalidError("invalid struct pointer")
	MalformedPeerResponse  = ProcessError("malformed peer response")
	MissingParameters      = InvalidError("missing parameters")
	NotInitialised         = NotFoundError("not initialised")
	PeerFileNotFound       = NotFoundError("peer file not found")
	PeerUnreachable        = ProcessError("peer unreachable")
	PreviousHashMismatch   = InvalidError("previous hash mismatch")
	ProofMismatch          = InvalidError("proof of work mismatch")
	RateLimiting           = ProcessError("rate limiting")
	ResponseBodyTooLarge   = LengthError("response body too large")
	StaleProof             = ProcessError("proof solved against a replaced chain")
	UnexpectedStatusCode   = ProcessError("unexpected status code")
	WrongNumberOfArguments = InvalidError("wrong number of arguments")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// IsErrExists - determine the class of an error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - determine the class of an error
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrLength - determine the class of an error
func IsErrLength(e error) bool { _, ok := e.(LengthError); return ok }

// IsErrNotFound - determine the class of an error
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - determine the class of an error
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }
