// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openfronthaul/ofh-go/pkg/capture"
	"github.com/openfronthaul/ofh-go/pkg/ofh/uplane"
)

// monitor decodes U-Plane messages dropped into a spool directory and stores
// them in a capture.Store.
type monitor struct {
	directory  string
	knownFiles sync.Map
	watcher    *fsnotify.Watcher

	decoder *uplane.Decoder
	results uplane.DecoderResults

	store   *capture.Store
	metrics *capture.Metrics
	server  *capture.Server

	retention time.Duration
	closeChan chan os.Signal
}

// startMonitor for the "monitor" CLI option.
func startMonitor(args []string) {
	if len(args) != 1 {
		printUsage()
	}

	conf, err := parseConfig(args[0])
	if err != nil {
		printFatal(err, "Parsing configuration errored")
	}

	mon := &monitor{
		directory: conf.Monitor.Spool,
		closeChan: make(chan os.Signal, 1),
	}
	mon.retention, _ = conf.retention()

	if mon.decoder, err = uplane.NewDecoder(conf.decoderConfig()); err != nil {
		printFatal(err, "Creating decoder errored")
	}

	if mon.store, err = capture.NewStore(conf.Monitor.Store); err != nil {
		printFatal(err, "Opening capture store errored")
	}

	reg := prometheus.NewRegistry()
	mon.metrics = capture.NewMetrics(reg)
	mon.server = capture.NewServer(mon.store, reg)

	if conf.Monitor.Listen != "" {
		go func() {
			log.WithField("listen", conf.Monitor.Listen).Info("Serving captures")
			if err := http.ListenAndServe(conf.Monitor.Listen, mon.server); err != nil {
				log.WithError(err).Error("HTTP server errored")
			}
		}()
	}

	signal.Notify(mon.closeChan, os.Interrupt)

	if mon.watcher, err = fsnotify.NewWatcher(); err != nil {
		printFatal(err, "Starting file watcher errored")
	}
	if err = mon.watcher.Add(mon.directory); err != nil {
		printFatal(err, "Adding directory to file watcher errored")
	}

	mon.handler()
}

// cleanFilepath creates a relative path from the spool directory to a file.
func (mon *monitor) cleanFilepath(f string) string {
	if rel, err := filepath.Rel(mon.directory, f); err != nil {
		log.WithField("path", f).WithError(err).Warn("Failed to clean file path")
		return f
	} else {
		return rel
	}
}

func (mon *monitor) handler() {
	defer func() {
		_ = mon.watcher.Close()
		if err := mon.store.Close(); err != nil {
			log.WithError(err).Warn("Closing capture store errored")
		}
	}()

	var cleanup <-chan time.Time
	if mon.retention > 0 {
		ticker := time.NewTicker(mon.retention / 10)
		defer ticker.Stop()
		cleanup = ticker.C
	}

	for {
		select {
		case <-mon.closeChan:
			log.Info("Received interrupt signal")
			return

		case e, ok := <-mon.watcher.Events:
			if !ok {
				log.Error("fsnotify's Event channel was closed")
				return
			}

			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				log.WithFields(log.Fields{
					"file":      e.Name,
					"operation": e.Op.String(),
				}).Debug("Ignoring fsnotify event")
				continue
			}

			if _, ok := mon.knownFiles.Load(mon.cleanFilepath(e.Name)); ok {
				log.WithField("file", e.Name).Debug("Skipping file; already known")
				continue
			}

			mon.readNewFile(e.Name)

		case err, ok := <-mon.watcher.Errors:
			if !ok {
				log.Error("fsnotify's Errors channel was closed")
				return
			}

			log.WithError(err).Error("fsnotify errored")
			return

		case <-cleanup:
			mon.store.DeleteBefore(time.Now().Add(-mon.retention))
		}
	}
}

// readNewFile decodes and stores a spooled message, retrying while the file
// might still be written.
func (mon *monitor) readNewFile(name string) {
	logger := log.WithField("file", name)

	for i := 0; i < 5; i++ {
		data, err := os.ReadFile(name)
		if err != nil || len(data) == 0 {
			logger.WithError(err).Debug("Reading file errored, retrying..")
			time.Sleep(time.Duration(math.Pow(2, float64(i))) * 100 * time.Millisecond)
			continue
		}

		mon.knownFiles.Store(mon.cleanFilepath(name), struct{}{})
		mon.process(data, logger)
		return
	}

	logger.Error("Failed to process file, giving up.")
}

// process decodes data, stores the capture and broadcasts it.
func (mon *monitor) process(data []byte, logger *log.Entry) {
	accepted := mon.decoder.Decode(&mon.results, data)
	mon.metrics.Observe(accepted, mon.results.NofSections())

	rec := capture.NewRecord(data, accepted, &mon.results, time.Now())
	logger = logger.WithField("record", rec)

	if mon.store.KnowsCapture(capture.RecordId(rec)) {
		logger.Info("Skipping duplicate capture")
		return
	}

	if _, err := mon.store.Push(rec); err != nil {
		logger.WithError(err).Error("Storing capture errored")
		return
	}
	mon.metrics.ObserveStored()
	mon.server.Broadcast(rec)

	logger.Info("Stored capture")
}
