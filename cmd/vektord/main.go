// Command vektord is the TCP accept-loop entrypoint for the vektor engine.
// It owns everything spec.md §1 places out of core scope: socket I/O, wire
// framing, configuration loading, logging setup, and process lifecycle.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"bufio"
	"errors"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agilira/vektor"
)

func main() {
	addr := flag.String("addr", ":11311", "TCP address to listen on")
	configPath := flag.String("config", "", "path to a hot-reloadable engine limits file (optional)")
	flag.Parse()

	srv := vektor.NewServer(vektor.DefaultConfig())

	if *configPath != "" {
		hl, err := vektor.NewHotLimits(srv, vektor.HotLimitsOptions{ConfigPath: *configPath})
		if err != nil {
			log.Fatalf("vektord: failed to start config watcher: %v", err)
		}
		if err := hl.Start(); err != nil {
			log.Fatalf("vektord: failed to start config watcher: %v", err)
		}
		defer hl.Stop()
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("vektord: listen %s: %v", *addr, err)
	}
	log.Printf("vektord: listening on %s", *addr)

	// tasks is the single-threaded event loop spec §5 requires: a Server has
	// no internal mutex, so every touch of its shared state (the index,
	// counters, item pool, LZF scratch, m_keys/m_values) is funneled through
	// engineLoop, the only goroutine that ever calls into srv. Per-connection
	// goroutines and the cron ticker only ever hand engineLoop a closure.
	tasks := make(chan func(), 256)
	go engineLoop(tasks)

	go cronLoop(srv, tasks)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Print("vektord: shutting down")
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("vektord: accept: %v", err)
			continue
		}
		runSync(tasks, func() { srv.OnConnect() })
		go serveConn(srv, conn, tasks)
	}
}

// engineLoop is the only goroutine that ever touches srv. It runs each
// queued closure to completion before taking the next, giving handlers the
// "interleaving whole invocations, not preemption" semantics spec §5
// requires without needing a lock inside Server itself.
func engineLoop(tasks <-chan func()) {
	for fn := range tasks {
		fn()
	}
}

// runSync hands fn to engineLoop and blocks until it has run, for call sites
// that need a result (or simply need to know srv's state reflects fn before
// proceeding) rather than firing and forgetting.
func runSync(tasks chan<- func(), fn func()) {
	done := make(chan struct{})
	tasks <- func() {
		fn()
		close(done)
	}
	<-done
}

// serveConn reads length-prefixed request frames from conn and submits each
// one to engineLoop in turn; the connection's own goroutine only ever owns
// I/O and the per-connection sink, never srv's shared state directly.
func serveConn(srv *vektor.Server, conn net.Conn, tasks chan<- func()) {
	defer conn.Close()
	defer runSync(tasks, func() { srv.OnDisconnect() })

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	sink := newConnSink(w)

	for {
		req, err := readFrame(r)
		if err != nil {
			if err != io.EOF {
				log.Printf("vektord: read frame: %v", err)
			}
			return
		}

		sink.reset()
		var dispatchErr error
		runSync(tasks, func() { dispatchErr = srv.Dispatch(req, sink) })
		if dispatchErr != nil {
			log.Printf("vektord: dispatch: %v", dispatchErr)
			return
		}
		shouldClose, err := sink.flush()
		if err != nil {
			log.Printf("vektord: flush: %v", err)
			return
		}
		if shouldClose {
			return
		}
	}
}

// cronLoop is the external periodic task spec §3.3 calls "cron": it exists
// only so completed-sweep accounting advances independent of request
// traffic; server.time comes from the Server's TimeProvider, not from Cron.
// The engine performs no TTL sweeping itself (spec §4.3).
// Cron() is submitted through tasks like everything else touching srv, since
// this ticker runs on its own goroutine.
func cronLoop(srv *vektor.Server, tasks chan<- func()) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for range t.C {
		tasks <- func() { srv.Cron() }
	}
}
