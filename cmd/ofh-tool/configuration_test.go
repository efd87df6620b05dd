// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

const testConfig = `
[logging]
level = "error"
format = "text"

[ru]
scs = "30kHz"
cyclic-prefix = "normal"
nof-prbs = 273

[compression]
dynamic = false
type = "bfp"
width = 9

[monitor]
spool = "/tmp/ofh-spool"
store = "/tmp/ofh-store"
listen = "localhost:8080"
retention = "10m"
`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "ofh-tool")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestParseConfig(t *testing.T) {
	conf, err := parseConfig(writeTestFile(t, "config.toml", testConfig))
	if err != nil {
		t.Fatal(err)
	}

	if conf.RU.SCS != ofh.SCS30kHz || conf.RU.CyclicPrefix != ofh.CyclicPrefixNormal || conf.RU.NofPRBs != 273 {
		t.Fatalf("Unexpected RU configuration %+v", conf.RU)
	}

	bfp9 := ofh.CompressionParams{Type: ofh.CompressionBFP, DataWidth: 9}
	if conf.Compression.header() != ofh.StaticCompressionHeader(bfp9) {
		t.Fatalf("Unexpected compression header %v", conf.Compression.header())
	}

	if r, _ := conf.retention(); r != 10*time.Minute {
		t.Fatalf("Retention is %v, expected 10m", r)
	}

	if conf.Monitor.Listen != "localhost:8080" {
		t.Fatalf("Listen address is %q", conf.Monitor.Listen)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown scs", "[ru]\nscs = \"17kHz\"\nnof-prbs = 10\n"},
		{"no numerology", "[ru]\nscs = \"5kHz\"\nnof-prbs = 10\n[compression]\ndynamic = true\n"},
		{"too many prbs", "[ru]\nscs = \"30kHz\"\nnof-prbs = 274\n[compression]\ndynamic = true\n"},
		{"zero prbs", "[ru]\nscs = \"30kHz\"\n[compression]\ndynamic = true\n"},
		{"invalid width", "[ru]\nscs = \"30kHz\"\nnof-prbs = 10\n[compression]\ntype = \"bfp\"\nwidth = 17\n"},
		{"short retention", "[ru]\nscs = \"30kHz\"\nnof-prbs = 10\n[compression]\ndynamic = true\n[monitor]\nretention = \"9ns\"\n"},
		{"negative retention", "[ru]\nscs = \"30kHz\"\nnof-prbs = 10\n[compression]\ndynamic = true\n[monitor]\nretention = \"-1m\"\n"},
		{"invalid retention", "[ru]\nscs = \"30kHz\"\nnof-prbs = 10\n[compression]\ndynamic = true\n[monitor]\nretention = \"soon\"\n"},
	}

	for _, test := range tests {
		if _, err := parseConfig(writeTestFile(t, "config.toml", test.content)); err == nil {
			t.Fatalf("%s: parsing succeeded", test.name)
		}
	}
}
