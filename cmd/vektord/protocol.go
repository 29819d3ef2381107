// protocol.go: wire framing and reply encoding for the TCP accept loop.
//
// Framing and reply encoding are explicitly out of core scope (spec §1);
// this is the external collaborator's concrete choice, grounded on the
// length-prefixed binary framing style of the armandParser-gofast-server
// reference (4-byte length prefix, read via bufio+encoding/binary) adapted
// to vektor's 2-byte little-endian opcode (spec §6.1).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/agilira/vektor"
)

const maxFrameLen = 32 << 20 // 32 MiB, generous over MaxValueSize+headers

// readFrame reads one length-prefixed request frame: a 4-byte big-endian
// length followed by that many bytes (the opcode-prefixed payload).
func readFrame(r *bufio.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n == 0 || n > maxFrameLen {
		return nil, fmt.Errorf("vektord: invalid frame length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// reply tags distinguish the four reply shapes of spec §6.2.
const (
	tagCode byte = iota + 1
	tagItem
	tagData
	tagKV
)

// connSink implements vektor.ReplySink for one client connection. Exactly
// one reply is buffered per Dispatch call (spec §8 invariant 5); flush
// writes the framed reply and is called by the accept loop after Dispatch
// returns, matching the spec's "handler returns immediately after enqueue"
// suspension-point rule (§5).
type connSink struct {
	w         *bufio.Writer
	buf       []byte
	closeConn bool
}

func newConnSink(w *bufio.Writer) *connSink {
	return &connSink{w: w}
}

func (s *connSink) reset() {
	s.buf = s.buf[:0]
	s.closeConn = false
}

func (s *connSink) EnqueueCode(code vektor.ReplyCode) {
	s.buf = append(s.buf, tagCode, byte(code))
}

func (s *connSink) EnqueueItem(item *vektor.Item) {
	s.buf = append(s.buf, tagItem, byte(item.EncodingTag()))
	s.appendBytes(item.Bytes())
}

func (s *connSink) EnqueueData(encoding vektor.Encoding, data []byte) {
	s.buf = append(s.buf, tagData, byte(encoding))
	s.appendBytes(data)
}

func (s *connSink) EnqueueKVSet(keys [][]byte, values []*vektor.Item) {
	s.buf = append(s.buf, tagKV)
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(keys)))
	s.buf = append(s.buf, countBuf[:]...)
	for i, k := range keys {
		s.appendBytes(k)
		v := values[i]
		if v == nil {
			s.buf = append(s.buf, 0xFF) // sentinel: key present, value missing/expired
			continue
		}
		s.buf = append(s.buf, byte(v.EncodingTag()))
		s.appendBytes(v.Bytes())
	}
}

func (s *connSink) CloseAfterFlush() {
	s.closeConn = true
}

func (s *connSink) appendBytes(b []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	s.buf = append(s.buf, lenBuf[:]...)
	s.buf = append(s.buf, b...)
}

// flush writes the buffered reply as one length-prefixed frame and reports
// whether the host should close the connection.
func (s *connSink) flush() (shouldClose bool, err error) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s.buf)))
	if _, err := s.w.Write(lenBuf[:]); err != nil {
		return false, err
	}
	if _, err := s.w.Write(s.buf); err != nil {
		return false, err
	}
	if err := s.w.Flush(); err != nil {
		return false, err
	}
	return s.closeConn, nil
}
