// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openfronthaul/ofh-go/pkg/capture"
	"github.com/openfronthaul/ofh-go/pkg/ofh"
	"github.com/openfronthaul/ofh-go/pkg/ofh/uplane"
)

func setupMonitor(t *testing.T) *monitor {
	t.Helper()

	conf, err := parseConfig(writeTestFile(t, "config.toml", testDynamicConfig))
	if err != nil {
		t.Fatal(err)
	}

	dir, err := os.MkdirTemp("", "ofh-monitor")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	mon := &monitor{directory: dir}
	if mon.decoder, err = uplane.NewDecoder(conf.decoderConfig()); err != nil {
		t.Fatal(err)
	}
	if mon.store, err = capture.NewStore(filepath.Join(dir, "store")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = mon.store.Close() })

	reg := prometheus.NewRegistry()
	mon.metrics = capture.NewMetrics(reg)
	mon.server = capture.NewServer(mon.store, reg)
	return mon
}

func TestMonitorReadNewFile(t *testing.T) {
	mon := setupMonitor(t)

	conf, err := parseConfig(writeTestFile(t, "config.toml", testDynamicConfig))
	if err != nil {
		t.Fatal(err)
	}

	data, err := buildUplaneMessage(conf, messageConf{
		Direction:   ofh.DirectionUplink,
		SFN:         1,
		Slot:        2,
		Symbol:      3,
		Fields:      sectionConf{NofPRB: 4},
		Compression: ofh.CompressionParams{Type: ofh.CompressionBFP, DataWidth: 9},
		Tone:        toneConf{Amplitude: 0.25},
	})
	if err != nil {
		t.Fatal(err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{"valid.bin", data},
		{"duplicate.bin", data},
		{"truncated.bin", data[:6]},
	}
	for _, f := range files {
		filename := filepath.Join(mon.directory, f.name)
		if err := os.WriteFile(filename, f.data, 0644); err != nil {
			t.Fatal(err)
		}
		mon.readNewFile(filename)

		if _, ok := mon.knownFiles.Load(f.name); !ok {
			t.Fatalf("File %s is unknown", f.name)
		}
	}

	accepted, err := mon.store.QueryAccepted(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(accepted) != 1 {
		t.Fatalf("Stored %d accepted captures, expected 1", len(accepted))
	}

	rejected, err := mon.store.QueryAccepted(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rejected) != 1 {
		t.Fatalf("Stored %d rejected captures, expected 1", len(rejected))
	}

	rec, err := accepted[0].Load()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Slot.SFN() != 1 || rec.Slot.SlotIndex() != 2 || rec.Symbol != 3 {
		t.Fatalf("Unexpected capture %v", rec)
	}
}
