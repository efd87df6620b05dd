// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ofh

import "encoding/binary"

// Serializer writes big-endian values into a caller owned buffer and advances
// its offset. Writing beyond the buffer panics; sizing the buffer is up to
// the caller.
type Serializer struct {
	buf []byte
	off int
}

// NewSerializer creates a Serializer starting at the beginning of buf.
func NewSerializer(buf []byte) Serializer {
	return Serializer{buf: buf}
}

// WriteUint8 writes a single byte.
func (s *Serializer) WriteUint8(v uint8) {
	s.buf[s.off] = v
	s.off++
}

// WriteUint16 writes two bytes.
func (s *Serializer) WriteUint16(v uint16) {
	binary.BigEndian.PutUint16(s.buf[s.off:s.off+2], v)
	s.off += 2
}

// WriteUint24 writes the lower three bytes of v.
func (s *Serializer) WriteUint24(v uint32) {
	_ = s.buf[s.off+2]
	s.buf[s.off] = uint8(v >> 16)
	s.buf[s.off+1] = uint8(v >> 8)
	s.buf[s.off+2] = uint8(v)
	s.off += 3
}

// WriteBytes copies data into the buffer.
func (s *Serializer) WriteBytes(data []byte) {
	s.off += copy(s.buf[s.off:s.off+len(data)], data)
}

// Advance returns a view of the next n bytes and skips them.
func (s *Serializer) Advance(n int) []byte {
	view := s.buf[s.off : s.off+n]
	s.off += n
	return view
}

// Offset is the number of bytes written so far.
func (s *Serializer) Offset() int {
	return s.off
}

// Deserializer reads big-endian values from a buffer and advances its offset.
// Callers check Remaining before reading; reading beyond the buffer panics.
type Deserializer struct {
	buf []byte
	off int
}

// NewDeserializer creates a Deserializer starting at the beginning of buf.
func NewDeserializer(buf []byte) Deserializer {
	return Deserializer{buf: buf}
}

// ReadUint8 reads a single byte.
func (d *Deserializer) ReadUint8() uint8 {
	v := d.buf[d.off]
	d.off++
	return v
}

// ReadUint16 reads two bytes.
func (d *Deserializer) ReadUint16() uint16 {
	v := binary.BigEndian.Uint16(d.buf[d.off : d.off+2])
	d.off += 2
	return v
}

// ReadUint24 reads three bytes into the lower bits of an uint32.
func (d *Deserializer) ReadUint24() uint32 {
	_ = d.buf[d.off+2]
	v := uint32(d.buf[d.off])<<16 | uint32(d.buf[d.off+1])<<8 | uint32(d.buf[d.off+2])
	d.off += 3
	return v
}

// Take returns a view of the next n bytes and skips them.
func (d *Deserializer) Take(n int) []byte {
	view := d.buf[d.off : d.off+n]
	d.off += n
	return view
}

// Skip advances the offset by n bytes.
func (d *Deserializer) Skip(n int) {
	if n > d.Remaining() {
		panic("ofh: skipping beyond the end of the buffer")
	}
	d.off += n
}

// Offset is the number of bytes read so far.
func (d *Deserializer) Offset() int {
	return d.off
}

// Remaining is the number of bytes left to read.
func (d *Deserializer) Remaining() int {
	return len(d.buf) - d.off
}

// Empty reports whether all bytes were read.
func (d *Deserializer) Empty() bool {
	return d.Remaining() == 0
}
