// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uplane

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
)

// DecoderConfig configures a Decoder.
type DecoderConfig struct {
	// SCS of the U-Plane carrier, defining the numerology of decoded slots.
	SCS ofh.SubcarrierSpacing

	// CyclicPrefix defines the number of symbols per slot.
	CyclicPrefix ofh.CyclicPrefix

	// RUNofPRBs replaces a PRB count of 0.
	RUNofPRBs uint16

	CompressionHeader ofh.CompressionHeader
	Decompressor      ofh.IQDecompressor

	// Logger defaults to logrus' standard logger.
	Logger log.FieldLogger
}

// CheckValid returns an error for an unusable configuration.
func (c DecoderConfig) CheckValid() (errs error) {
	if !c.SCS.HasNumerology() {
		errs = multierror.Append(errs, fmt.Errorf("DecoderConfig: %v has no numerology", c.SCS))
	}
	if c.CyclicPrefix > ofh.CyclicPrefixExtended {
		errs = multierror.Append(errs, fmt.Errorf("DecoderConfig: unknown cyclic prefix %d", c.CyclicPrefix))
	}
	if c.RUNofPRBs == 0 || c.RUNofPRBs > ofh.MaxNofPRBs {
		errs = multierror.Append(errs,
			fmt.Errorf("DecoderConfig: RU PRB count %d is outside [1, %d]", c.RUNofPRBs, ofh.MaxNofPRBs))
	}
	if err := c.CompressionHeader.CheckValid(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.Decompressor == nil {
		errs = multierror.Append(errs, errors.New("DecoderConfig: no decompressor"))
	}
	return
}

// sectionOutcome is the result of decoding a single section.
type sectionOutcome int

const (
	sectionOK sectionOutcome = iota
	sectionIncomplete
	sectionMalformed
)

func (o sectionOutcome) String() string {
	switch o {
	case sectionOK:
		return "ok"
	case sectionIncomplete:
		return "incomplete"
	default:
		return "malformed"
	}
}

// Decoder decodes received U-Plane messages.
//
// A Decoder is immutable and may be used concurrently if its IQDecompressor
// can. It never panics on received data. Rejected messages are logged as
// warnings, incomplete ones as information.
type Decoder struct {
	numerology   uint8
	nofSymbols   uint8
	ruNofPRBs    uint16
	compression  ofh.CompressionHeader
	decompressor ofh.IQDecompressor
	logger       log.FieldLogger
}

// NewDecoder creates a Decoder after validating its configuration.
func NewDecoder(conf DecoderConfig) (*Decoder, error) {
	if err := conf.CheckValid(); err != nil {
		return nil, err
	}

	logger := conf.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Decoder{
		numerology:   conf.SCS.Numerology(),
		nofSymbols:   conf.CyclicPrefix.NofSymbolsPerSlot(),
		ruNofPRBs:    conf.RUNofPRBs,
		compression:  conf.CompressionHeader,
		decompressor: conf.Decompressor,
		logger:       logger,
	}, nil
}

// radioHeader are the raw fields of the radio application header.
type radioHeader struct {
	direction ofh.DataDirection
	version   uint8
	filter    ofh.FilterIndex
	frame     uint8
	subframe  uint8
	slot      uint8
	symbol    uint8
}

// readRadioHeader reads the first four bytes of msg, which must be present.
func readRadioHeader(msg []byte) radioHeader {
	return radioHeader{
		direction: ofh.DataDirection(msg[0] >> 7),
		version:   (msg[0] >> 4) & 0x07,
		filter:    ofh.FilterIndex(msg[0] & 0x0f),
		frame:     msg[1],
		subframe:  msg[2] >> 4,
		slot:      (msg[2]&0x0f)<<2 | msg[3]>>6,
		symbol:    msg[3] & 0x3f,
	}
}

// checkTiming returns an error for a subframe, slot or symbol out of range.
func (dec *Decoder) checkTiming(h radioHeader) error {
	switch {
	case h.subframe >= ofh.NofSubframesPerFrame:
		return fmt.Errorf("subframe %d out of range", h.subframe)
	case h.slot >= ofh.NofSlotsPerSubframe(dec.numerology):
		return fmt.Errorf("slot %d out of range for numerology %d", h.slot, dec.numerology)
	case h.symbol >= dec.nofSymbols:
		return fmt.Errorf("symbol %d out of range", h.symbol)
	default:
		return nil
	}
}

func (dec *Decoder) slotSymbolPoint(h radioHeader) ofh.SlotSymbolPoint {
	return ofh.SlotSymbolPoint{
		Slot:              ofh.NewSlotPointFromSubframe(dec.numerology, uint16(h.frame), h.subframe, h.slot),
		Symbol:            h.symbol,
		NofSymbolsPerSlot: dec.nofSymbols,
	}
}

// PeekSlotSymbolPoint returns the slot and symbol of msg without decoding it.
// It returns false for a short or invalid header.
func (dec *Decoder) PeekSlotSymbolPoint(msg []byte) (ofh.SlotSymbolPoint, bool) {
	if len(msg) < ofh.RadioHeaderSize {
		return ofh.SlotSymbolPoint{}, false
	}

	h := readRadioHeader(msg)
	if dec.checkTiming(h) != nil {
		return ofh.SlotSymbolPoint{}, false
	}
	return dec.slotSymbolPoint(h), true
}

// PeekFilterIndex returns the filter index of msg without decoding it, see
// the package function PeekFilterIndex.
func (dec *Decoder) PeekFilterIndex(msg []byte) ofh.FilterIndex {
	return PeekFilterIndex(msg)
}

// PeekFilterIndex returns the filter index of a U-Plane message or
// FilterIndexReserved for an empty message.
func PeekFilterIndex(msg []byte) ofh.FilterIndex {
	if len(msg) == 0 {
		return ofh.FilterIndexReserved
	}
	return ofh.FilterIndex(msg[0] & 0x0f)
}

// Decode msg into results. It returns true if at least one section was
// decoded and no section was malformed. On false, results hold no sections.
func (dec *Decoder) Decode(results *DecoderResults, msg []byte) bool {
	results.reset()

	if !dec.decodeHeader(results, msg) {
		return false
	}

	d := ofh.NewDeserializer(msg)
	d.Skip(ofh.RadioHeaderSize)

	for !d.Empty() {
		if results.nofSections == MaxNofSections {
			dec.logger.WithFields(log.Fields{
				"slot":     results.Params.Slot,
				"sections": results.nofSections,
				"trailing": d.Remaining(),
			}).Warn("Dropped U-Plane message exceeding the section capacity")
			results.nofSections = 0
			return false
		}

		outcome := dec.decodeSection(&results.sections[results.nofSections], &d, results.Params.Slot)
		if outcome == sectionMalformed {
			results.nofSections = 0
			return false
		} else if outcome == sectionIncomplete {
			break
		}

		results.nofSections++
	}

	return results.nofSections > 0
}

// decodeHeader checks and stores the radio application header.
func (dec *Decoder) decodeHeader(results *DecoderResults, msg []byte) bool {
	if len(msg) < ofh.RadioHeaderSize {
		dec.logger.WithField("size", len(msg)).Info("Received incomplete U-Plane message header")
		return false
	}

	h := readRadioHeader(msg)

	var err error
	switch {
	case h.direction != ofh.DirectionUplink:
		err = fmt.Errorf("unexpected %v direction", h.direction)
	case h.version != ofh.PayloadVersion:
		err = fmt.Errorf("unsupported payload version %d", h.version)
	case h.filter.IsReserved():
		err = fmt.Errorf("reserved filter index %d", uint8(h.filter))
	default:
		err = dec.checkTiming(h)
	}
	if err != nil {
		dec.logger.WithError(err).Warn("Dropped U-Plane message with invalid header")
		return false
	}

	ssp := dec.slotSymbolPoint(h)
	results.Params = MessageParams{
		Direction:   h.direction,
		Slot:        ssp.Slot,
		FilterIndex: h.filter,
		SymbolID:    h.symbol,
		SectionType: ofh.SectionType1,
	}
	return true
}

// decodeSection decodes the next section into section.
func (dec *Decoder) decodeSection(section *SectionParams, d *ofh.Deserializer, slot ofh.SlotPoint) sectionOutcome {
	logger := dec.logger.WithField("slot", slot)

	if d.Remaining() < SectionHeaderSize {
		logger.WithField("remaining", d.Remaining()).Info("Received incomplete U-Plane section header")
		return sectionIncomplete
	}

	dec.decodeSectionHeader(section, d)

	compression, err := dec.compression.DecodeUplane(d)
	if errors.Is(err, ofh.ErrIncomplete) {
		logger.Info("Received incomplete U-Plane compression header")
		return sectionIncomplete
	} else if err != nil {
		logger.WithError(err).WithField("section", section.SectionID).Warn("Dropped U-Plane message")
		return sectionMalformed
	}
	section.Compression = compression

	section.HasCompressionLength = compression.Type.IsSelectiveRE()
	section.CompressionLength = 0
	if section.HasCompressionLength {
		if d.Remaining() < compressionLengthSize {
			logger.Info("Received incomplete U-Plane compression length")
			return sectionIncomplete
		}
		section.CompressionLength = d.ReadUint16()
	}

	needed := compression.PRBSize() * int(section.NofPRB)
	if d.Remaining() < needed {
		logger.WithFields(log.Fields{
			"section":   section.SectionID,
			"needed":    needed,
			"remaining": d.Remaining(),
		}).Info("Received incomplete U-Plane IQ data")
		return sectionIncomplete
	}

	dec.decodeIQ(section, d, compression)
	return sectionOK
}

// decodeSectionHeader reads the section header and replaces a PRB count of 0
// by the RU's PRB count.
func (dec *Decoder) decodeSectionHeader(section *SectionParams, d *ofh.Deserializer) {
	hi := d.ReadUint8()
	lo := d.ReadUint8()

	section.SectionID = uint16(hi)<<4 | uint16(lo>>4)
	section.IsEveryRBUsed = lo&0x08 == 0
	section.UseCurrentSymbolNumber = lo&0x04 == 0
	section.StartPRB = uint16(lo&0x03)<<8 | uint16(d.ReadUint8())
	section.NofPRB = uint16(d.ReadUint8())

	if section.NofPRB == prbCountSentinel {
		section.NofPRB = dec.ruNofPRBs
		section.StartPRB = 0
	}
}

// decodeIQ reads all PRBs, which must be available, and decompresses them.
func (dec *Decoder) decodeIQ(section *SectionParams, d *ofh.Deserializer, compression ofh.CompressionParams) {
	arr, prbs := getPRBs(int(section.NofPRB))
	defer putPRBs(arr, prbs)

	hasParam := compression.Type.HasPRBParam()
	packedSize := ofh.PackedPRBSize(compression.DataWidth)
	for i := range prbs {
		if hasParam {
			prbs[i].Param = d.ReadUint8()
		}
		prbs[i].Packed = d.Take(packedSize)
	}

	section.HasUdCompParam = hasParam && len(prbs) > 0
	section.UdCompParam = 0
	if section.HasUdCompParam {
		section.UdCompParam = prbs[0].Param
	}

	section.nofIQ = len(prbs) * ofh.NofSubcarriersPerRB
	dec.decompressor.Decompress(section.iq[:section.nofIQ], prbs, compression)
}
