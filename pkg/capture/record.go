// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"fmt"
	"io"
	"time"

	"github.com/dtn7/cboring"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
	"github.com/openfronthaul/ofh-go/pkg/ofh/uplane"
)

// SectionSummary describes a decoded section without its IQ samples.
type SectionSummary struct {
	SectionID   uint16                `json:"sectionId"`
	StartPRB    uint16                `json:"startPrb"`
	NofPRB      uint16                `json:"nofPrb"`
	Compression ofh.CompressionParams `json:"compression"`

	// MeanPower is the mean squared magnitude of the section's IQ samples.
	MeanPower float64 `json:"meanPower"`
}

func newSectionSummary(section *uplane.SectionParams) SectionSummary {
	var power float64
	iq := section.IQ()
	for _, v := range iq {
		power += float64(real(v))*float64(real(v)) + float64(imag(v))*float64(imag(v))
	}
	if len(iq) > 0 {
		power /= float64(len(iq))
	}

	return SectionSummary{
		SectionID:   section.SectionID,
		StartPRB:    section.StartPRB,
		NofPRB:      section.NofPRB,
		Compression: section.Compression,
		MeanPower:   power,
	}
}

// MarshalCbor writes a CBOR array of five elements.
func (ss *SectionSummary) MarshalCbor(w io.Writer) error {
	if err := cboring.WriteArrayLength(5, w); err != nil {
		return err
	}

	fields := []uint64{
		uint64(ss.SectionID),
		uint64(ss.StartPRB),
		uint64(ss.NofPRB),
		uint64(ss.Compression.Type)<<8 | uint64(ss.Compression.DataWidth),
	}
	for _, f := range fields {
		if err := cboring.WriteUInt(f, w); err != nil {
			return err
		}
	}

	return cboring.WriteFloat64(ss.MeanPower, w)
}

// UnmarshalCbor reads the array written by MarshalCbor.
func (ss *SectionSummary) UnmarshalCbor(r io.Reader) error {
	if n, err := cboring.ReadArrayLength(r); err != nil {
		return err
	} else if n != 5 {
		return fmt.Errorf("SectionSummary: expected array of 5 elements, got %d", n)
	}

	var fields [4]uint64
	for i := range fields {
		if f, err := cboring.ReadUInt(r); err != nil {
			return err
		} else {
			fields[i] = f
		}
	}

	ss.SectionID = uint16(fields[0])
	ss.StartPRB = uint16(fields[1])
	ss.NofPRB = uint16(fields[2])
	ss.Compression = ofh.CompressionParams{
		Type:      ofh.CompressionType(fields[3] >> 8),
		DataWidth: uint8(fields[3]),
	}

	power, err := cboring.ReadFloat64(r)
	ss.MeanPower = power
	return err
}

// Record is a received U-Plane message and its decoding outcome. The slot
// fields are only set for accepted messages.
type Record struct {
	Received time.Time `json:"received"`
	Accepted bool      `json:"accepted"`

	Slot        ofh.SlotPoint   `json:"slot"`
	Symbol      uint8           `json:"symbol"`
	FilterIndex ofh.FilterIndex `json:"filterIndex"`

	Sections []SectionSummary `json:"sections"`
	Raw      []byte           `json:"raw"`
}

// NewRecord creates a Record for a message raw, which was decoded into
// results with the outcome accepted.
func NewRecord(raw []byte, accepted bool, results *uplane.DecoderResults, received time.Time) Record {
	rec := Record{
		Received: received,
		Accepted: accepted,
		Sections: []SectionSummary{},
		Raw:      append([]byte(nil), raw...),
	}

	if accepted {
		rec.Slot = results.Params.Slot
		rec.Symbol = results.Params.SymbolID
		rec.FilterIndex = results.Params.FilterIndex

		sections := results.Sections()
		for i := range sections {
			rec.Sections = append(rec.Sections, newSectionSummary(&sections[i]))
		}
	}

	return rec
}

func (rec Record) String() string {
	if !rec.Accepted {
		return fmt.Sprintf("Record(rejected, %d bytes)", len(rec.Raw))
	}
	return fmt.Sprintf("Record(%v.%d, %d sections)", rec.Slot, rec.Symbol, len(rec.Sections))
}

// MarshalCbor writes a CBOR array of nine elements.
func (rec *Record) MarshalCbor(w io.Writer) error {
	if err := cboring.WriteArrayLength(9, w); err != nil {
		return err
	}

	if err := cboring.WriteUInt(uint64(rec.Received.UnixNano()), w); err != nil {
		return err
	}
	if err := cboring.WriteBoolean(rec.Accepted, w); err != nil {
		return err
	}

	slotFields := []uint64{
		uint64(rec.Slot.Numerology()),
		uint64(rec.Slot.SFN()),
		uint64(rec.Slot.SlotIndex()),
		uint64(rec.Symbol),
		uint64(rec.FilterIndex),
	}
	for _, f := range slotFields {
		if err := cboring.WriteUInt(f, w); err != nil {
			return err
		}
	}

	if err := cboring.WriteArrayLength(uint64(len(rec.Sections)), w); err != nil {
		return err
	}
	for i := range rec.Sections {
		if err := cboring.Marshal(&rec.Sections[i], w); err != nil {
			return err
		}
	}

	return cboring.WriteByteString(rec.Raw, w)
}

// UnmarshalCbor reads the array written by MarshalCbor.
func (rec *Record) UnmarshalCbor(r io.Reader) error {
	if n, err := cboring.ReadArrayLength(r); err != nil {
		return err
	} else if n != 9 {
		return fmt.Errorf("Record: expected array of 9 elements, got %d", n)
	}

	if received, err := cboring.ReadUInt(r); err != nil {
		return err
	} else {
		rec.Received = time.Unix(0, int64(received))
	}

	if accepted, err := cboring.ReadBoolean(r); err != nil {
		return err
	} else {
		rec.Accepted = accepted
	}

	var slotFields [5]uint64
	for i := range slotFields {
		if f, err := cboring.ReadUInt(r); err != nil {
			return err
		} else {
			slotFields[i] = f
		}
	}
	if slotFields[0] > ofh.MaxNumerology {
		return fmt.Errorf("Record: numerology %d exceeds %d", slotFields[0], ofh.MaxNumerology)
	}
	rec.Slot = ofh.NewSlotPoint(uint8(slotFields[0]), uint16(slotFields[1]), uint16(slotFields[2]))
	rec.Symbol = uint8(slotFields[3])
	rec.FilterIndex = ofh.FilterIndex(slotFields[4])

	n, err := cboring.ReadArrayLength(r)
	if err != nil {
		return err
	} else if n > uplane.MaxNofSections {
		return fmt.Errorf("Record: %d sections exceed %d", n, uplane.MaxNofSections)
	}

	rec.Sections = make([]SectionSummary, n)
	for i := range rec.Sections {
		if err := cboring.Unmarshal(&rec.Sections[i], r); err != nil {
			return err
		}
	}

	rec.Raw, err = cboring.ReadByteString(r)
	return err
}
