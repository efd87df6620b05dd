// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ofh

import "fmt"

// uplaneDynamicHeaderSize is the size of udCompHdr plus its reserved byte.
const uplaneDynamicHeaderSize = 2

// CompressionHeader selects how the compression parameters are exchanged.
//
// A static CompressionHeader carries parameters fixed at construction, e.g.,
// by the management plane. U-Plane messages contain no compression header and
// C-Plane messages a reserved zero byte.
//
// A dynamic CompressionHeader takes the parameters of each message and writes
// them as udCompHdr, bit width in the high and compression type in the low
// nibble.
//
// The zero value is a static header with zero parameters, which is invalid.
// Use StaticCompressionHeader or DynamicCompressionHeader.
type CompressionHeader struct {
	dynamic bool
	static  CompressionParams
}

// StaticCompressionHeader creates a static CompressionHeader for params.
func StaticCompressionHeader(params CompressionParams) CompressionHeader {
	return CompressionHeader{static: params}
}

// DynamicCompressionHeader creates a dynamic CompressionHeader.
func DynamicCompressionHeader() CompressionHeader {
	return CompressionHeader{dynamic: true}
}

// IsDynamic reports whether compression parameters are carried per message.
func (ch CompressionHeader) IsDynamic() bool {
	return ch.dynamic
}

// StaticParams returns the fixed parameters of a static header.
func (ch CompressionHeader) StaticParams() CompressionParams {
	return ch.static
}

// Resolve returns the parameters in effect for a message requesting params.
// A static header always returns its fixed parameters.
func (ch CompressionHeader) Resolve(params CompressionParams) CompressionParams {
	if ch.dynamic {
		return params
	}
	return ch.static
}

// UplaneSize is the number of U-Plane compression header bytes, 0 or 2.
func (ch CompressionHeader) UplaneSize() int {
	if ch.dynamic {
		return uplaneDynamicHeaderSize
	}
	return 0
}

// encodeByte packs bit width and compression type into one byte.
func encodeByte(params CompressionParams) uint8 {
	return EncodeDataWidth(params.DataWidth)<<4 | uint8(params.Type)&0x0f
}

// EncodeUplane writes the U-Plane compression header for params.
func (ch CompressionHeader) EncodeUplane(s *Serializer, params CompressionParams) {
	if !ch.dynamic {
		return
	}

	s.WriteUint8(encodeByte(params))
	// Reserved.
	s.WriteUint8(0)
}

// DecodeUplane reads the U-Plane compression header. It returns ErrIncomplete
// for a short buffer or an error wrapping ErrMalformed for a reserved
// compression type.
func (ch CompressionHeader) DecodeUplane(d *Deserializer) (CompressionParams, error) {
	if !ch.dynamic {
		return ch.static, nil
	}

	if d.Remaining() < uplaneDynamicHeaderSize {
		return CompressionParams{}, ErrIncomplete
	}

	octet := d.ReadUint8()
	// Reserved.
	d.Skip(1)

	params := CompressionParams{
		Type:      CompressionType(octet & 0x0f),
		DataWidth: DecodeDataWidth(octet >> 4),
	}
	if params.Type.IsReserved() {
		return params, fmt.Errorf("%w: reserved compression type %d", ErrMalformed, uint8(params.Type))
	}

	return params, nil
}

// EncodeCplane writes the single C-Plane udCompHdr byte. Only dynamic headers
// in uplink messages carry parameters; all others are a zero byte.
func (ch CompressionHeader) EncodeCplane(s *Serializer, params CompressionParams, direction DataDirection) {
	if !ch.dynamic || direction == DirectionDownlink {
		s.WriteUint8(0)
		return
	}

	s.WriteUint8(encodeByte(params))
}

// CheckValid returns an error for a static header with invalid parameters.
func (ch CompressionHeader) CheckValid() error {
	if ch.dynamic {
		return nil
	}
	return ch.static.CheckValid()
}

func (ch CompressionHeader) String() string {
	if ch.dynamic {
		return "dynamic"
	}
	return "static(" + ch.static.String() + ")"
}
