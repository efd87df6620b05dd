// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package capture stores received U-Plane messages together with their
// decoding outcome for later inspection.
//
// Each Record is serialized as CBOR into its own xz compressed file, while a
// badgerhold database indexes the Items by receive time and acceptance. A
// Record's key is derived from its slot, symbol and a CRC-16 of its raw
// bytes, such that retransmitted or duplicated packets are only stored once.
//
// The Server exposes a Store over HTTP: a REST interface to query captures, a
// WebSocket feed of new Records and the Prometheus Metrics of the decoder.
package capture
