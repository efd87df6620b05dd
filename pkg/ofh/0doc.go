// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ofh provides the types shared by the Open Fronthaul (O-RAN WG4 CUS)
// Control-Plane and User-Plane codecs. This includes the radio application
// header fields, slot points, compression parameters, the compression header
// strategy and big-endian serialization helpers.
//
// The actual message codecs live in the sub-packages cplane and uplane. Both
// are configured with a CompressionHeader, which is either static, meaning the
// compression parameters are fixed by the management plane and absent from the
// wire, or dynamic, meaning they are carried in each message.
//
//	header := ofh.StaticCompressionHeader(ofh.CompressionParams{
//	  Type:      ofh.CompressionNone,
//	  DataWidth: 16,
//	})
//	builder := uplane.NewBuilder(header, iqcomp.NewSelector())
//	n := builder.BuildMessage(buf, iq, params)
//
// Builders and decoders are immutable after their construction and can be
// shared between goroutines.
package ofh
