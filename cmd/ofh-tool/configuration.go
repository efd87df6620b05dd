// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
	"github.com/openfronthaul/ofh-go/pkg/ofh/iqcomp"
	"github.com/openfronthaul/ofh-go/pkg/ofh/uplane"
)

// tomlConfig describes the TOML-configuration.
type tomlConfig struct {
	Logging     logConf
	RU          ruConf `toml:"ru"`
	Compression compressionConf
	Monitor     monitorConf
}

// logConf describes the Logging-configuration block.
type logConf struct {
	Level        string
	ReportCaller bool `toml:"report-caller"`
	Format       string
}

// ruConf describes the radio unit's carrier.
type ruConf struct {
	SCS          ofh.SubcarrierSpacing `toml:"scs"`
	CyclicPrefix ofh.CyclicPrefix      `toml:"cyclic-prefix"`
	NofPRBs      uint16                `toml:"nof-prbs"`
}

// compressionConf selects the compression header strategy. A static header
// uses Type and Width for all messages.
type compressionConf struct {
	Dynamic bool
	Type    ofh.CompressionType
	Width   uint8
}

// monitorConf describes the monitor command.
type monitorConf struct {
	Spool     string
	Store     string
	Listen    string
	Retention string
}

func (c compressionConf) params() ofh.CompressionParams {
	return ofh.CompressionParams{Type: c.Type, DataWidth: c.Width}
}

func (c compressionConf) header() ofh.CompressionHeader {
	if c.Dynamic {
		return ofh.DynamicCompressionHeader()
	}
	return ofh.StaticCompressionHeader(c.params())
}

// decoderConfig for a U-Plane decoder of this configuration.
func (conf tomlConfig) decoderConfig() uplane.DecoderConfig {
	return uplane.DecoderConfig{
		SCS:               conf.RU.SCS,
		CyclicPrefix:      conf.RU.CyclicPrefix,
		RUNofPRBs:         conf.RU.NofPRBs,
		CompressionHeader: conf.Compression.header(),
		Decompressor:      iqcomp.NewSelector(),
	}
}

// minRetention is the shortest retention; the cleanup runs every tenth of it.
const minRetention = time.Second

// retention of stored captures; zero disables the cleanup.
func (conf tomlConfig) retention() (time.Duration, error) {
	if conf.Monitor.Retention == "" {
		return 0, nil
	}
	return time.ParseDuration(conf.Monitor.Retention)
}

// CheckValid returns an error for inconsistent configuration blocks.
func (conf tomlConfig) CheckValid() (errs error) {
	if !conf.RU.SCS.HasNumerology() {
		errs = multierror.Append(errs, fmt.Errorf("ru.scs: %v has no numerology", conf.RU.SCS))
	}
	if conf.RU.NofPRBs == 0 || conf.RU.NofPRBs > ofh.MaxNofPRBs {
		errs = multierror.Append(errs, fmt.Errorf("ru.nof-prbs: %d is outside [1, %d]", conf.RU.NofPRBs, ofh.MaxNofPRBs))
	}
	if !conf.Compression.Dynamic {
		if err := conf.Compression.params().CheckValid(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if r, err := conf.retention(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("monitor.retention: %v", err))
	} else if r != 0 && r < minRetention {
		errs = multierror.Append(errs, fmt.Errorf("monitor.retention: %v is below %v", r, minRetention))
	}
	return
}

// configureLogging applies the Logging-configuration block.
func configureLogging(conf logConf) {
	if conf.Level != "" {
		if lvl, err := log.ParseLevel(conf.Level); err != nil {
			log.WithFields(log.Fields{
				"level":    conf.Level,
				"error":    err,
				"provided": "panic,fatal,error,warn,info,debug,trace",
			}).Warn("Failed to set log level. Please select one of the provided ones")
		} else {
			log.SetLevel(lvl)
		}
	}

	log.SetReportCaller(conf.ReportCaller)

	switch conf.Format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})

	case "json":
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})

	default:
		log.Warn("Unknown logging format")
	}
}

// parseConfig reads and validates the TOML configuration and configures the
// logger accordingly.
func parseConfig(filename string) (conf tomlConfig, err error) {
	if _, err = toml.DecodeFile(filename, &conf); err != nil {
		return
	}

	configureLogging(conf.Logging)

	err = conf.CheckValid()
	return
}
