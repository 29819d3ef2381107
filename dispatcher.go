// dispatcher.go: request routing (spec §4.6)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import "encoding/binary"

// Dispatch reads the two-byte little-endian opcode prefix from req, bumps
// the request counter, and routes to exactly one handler. An unknown opcode,
// or a request shorter than the opcode header, returns a non-nil error and
// enqueues nothing onto sink; the host treats this as a fatal protocol
// violation and drops the connection (spec §4.6, §7). Every other path
// enqueues exactly one reply and returns nil.
func (s *Server) Dispatch(req []byte, sink ReplySink) error {
	if len(req) < opcodeHeaderSize {
		return NewErrMalformedRequest("dispatch", "request shorter than opcode header")
	}
	op := Opcode(binary.LittleEndian.Uint16(req[:opcodeHeaderSize]))
	payload := req[opcodeHeaderSize:]
	s.requests++

	switch op {
	case OpGet:
		s.handleGet(payload, sink)
	case OpSet:
		s.handleSet(payload, sink)
	case OpDel:
		s.handleDel(payload, sink)
	case OpTTL:
		s.handleTTL(payload, sink)
	case OpInc:
		s.handleIncDec(payload, sink, 1)
	case OpDec:
		s.handleIncDec(payload, sink, -1)
	case OpLock:
		s.handleLock(payload, sink)
	case OpUnlock:
		s.handleUnlock(payload, sink)
	case OpMeta:
		s.handleMeta(payload, sink)
	case OpKeys:
		s.handleKeys(payload, sink)
	case OpCount:
		s.handleCount(payload, sink)
	case OpStats:
		s.handleStats(sink)
	case OpPing:
		sink.EnqueueCode(ReplyOK)
	case OpEnd:
		sink.EnqueueCode(ReplyOK)
		sink.CloseAfterFlush()
	case OpMGet:
		s.handleMGet(payload, sink)
	case OpMSet:
		s.handleMSet(payload, sink)
	case OpMDel:
		s.handleMDel(payload, sink)
	case OpMTTL:
		s.handleMTTL(payload, sink)
	case OpMInc:
		s.handleMIncDec(payload, sink, 1)
	case OpMDec:
		s.handleMIncDec(payload, sink, -1)
	case OpMLock:
		s.handleMLock(payload, sink)
	case OpMUnlock:
		s.handleMUnlock(payload, sink)
	default:
		s.logger.Error("unknown opcode", "opcode", uint16(op))
		return NewErrUnknownOpcode(uint16(op))
	}
	return nil
}
