// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ofh

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// NofSubframesPerFrame is the number of 1 ms subframes within a radio frame.
	NofSubframesPerFrame = 10

	// NofSFNs is the number of system frame numbers before they wrap around.
	NofSFNs = 1024

	// MaxNumerology is the largest supported numerology.
	MaxNumerology = 4
)

// SubcarrierSpacing is the subcarrier spacing code as carried by the
// frameStructure field of C-Plane section types 0 and 3. The codes 0 to 4 are
// equal to the numerology.
type SubcarrierSpacing uint8

const (
	SCS15kHz   SubcarrierSpacing = 0
	SCS30kHz   SubcarrierSpacing = 1
	SCS60kHz   SubcarrierSpacing = 2
	SCS120kHz  SubcarrierSpacing = 3
	SCS240kHz  SubcarrierSpacing = 4
	SCS1p25kHz SubcarrierSpacing = 12
	SCS3p75kHz SubcarrierSpacing = 13
	SCS5kHz    SubcarrierSpacing = 14
	SCS7p5kHz  SubcarrierSpacing = 15
	scsInvalid SubcarrierSpacing = 0xff
)

var scsNames = map[SubcarrierSpacing]string{
	SCS15kHz:   "15kHz",
	SCS30kHz:   "30kHz",
	SCS60kHz:   "60kHz",
	SCS120kHz:  "120kHz",
	SCS240kHz:  "240kHz",
	SCS1p25kHz: "1.25kHz",
	SCS3p75kHz: "3.75kHz",
	SCS5kHz:    "5kHz",
	SCS7p5kHz:  "7.5kHz",
}

// HasNumerology reports whether the spacing belongs to a regular numerology,
// in contrast to a PRACH-only spacing.
func (scs SubcarrierSpacing) HasNumerology() bool {
	return scs <= SCS240kHz
}

// Numerology of this spacing. Only valid if HasNumerology is true.
func (scs SubcarrierSpacing) Numerology() uint8 {
	return uint8(scs)
}

// IsValid checks if this SubcarrierSpacing is a known code.
func (scs SubcarrierSpacing) IsValid() bool {
	_, ok := scsNames[scs]
	return ok
}

func (scs SubcarrierSpacing) String() string {
	if name, ok := scsNames[scs]; ok {
		return name
	}
	return fmt.Sprintf("scs(%d)", uint8(scs))
}

// MarshalText renders the spacing, e.g., "30kHz".
func (scs SubcarrierSpacing) MarshalText() ([]byte, error) {
	return []byte(scs.String()), nil
}

// UnmarshalText parses a spacing like "30kHz" or "30".
func (scs *SubcarrierSpacing) UnmarshalText(text []byte) error {
	s := strings.TrimSuffix(strings.TrimSpace(string(text)), "kHz")
	for code, name := range scsNames {
		if strings.TrimSuffix(name, "kHz") == s {
			*scs = code
			return nil
		}
	}
	*scs = scsInvalid
	return fmt.Errorf("unknown subcarrier spacing %q", string(text))
}

// CyclicPrefix selects between normal and extended cyclic prefix.
type CyclicPrefix uint8

const (
	CyclicPrefixNormal   CyclicPrefix = 0
	CyclicPrefixExtended CyclicPrefix = 1
)

// NofSymbolsPerSlot returns 14 for a normal and 12 for an extended cyclic prefix.
func (cp CyclicPrefix) NofSymbolsPerSlot() uint8 {
	if cp == CyclicPrefixExtended {
		return 12
	}
	return 14
}

func (cp CyclicPrefix) String() string {
	if cp == CyclicPrefixExtended {
		return "extended"
	}
	return "normal"
}

// MarshalText renders "normal" or "extended".
func (cp CyclicPrefix) MarshalText() ([]byte, error) {
	return []byte(cp.String()), nil
}

// UnmarshalText parses "normal" or "extended".
func (cp *CyclicPrefix) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal", "":
		*cp = CyclicPrefixNormal
	case "extended":
		*cp = CyclicPrefixExtended
	default:
		return fmt.Errorf("unknown cyclic prefix %q", string(text))
	}
	return nil
}

// NofSlotsPerSubframe for a numerology.
func NofSlotsPerSubframe(numerology uint8) uint8 {
	return 1 << numerology
}

// SlotPoint identifies a slot by its numerology, system frame number and the
// slot index within the frame.
type SlotPoint struct {
	numerology uint8
	count      uint32
}

// NewSlotPoint creates a SlotPoint from a numerology, a SFN and the slot index
// within the frame. The SFN wraps around at NofSFNs.
func NewSlotPoint(numerology uint8, sfn uint16, slot uint16) SlotPoint {
	slotsPerFrame := uint32(NofSlotsPerSubframe(numerology)) * NofSubframesPerFrame
	return SlotPoint{
		numerology: numerology,
		count:      (uint32(sfn)%NofSFNs)*slotsPerFrame + uint32(slot)%slotsPerFrame,
	}
}

// NewSlotPointFromSubframe creates a SlotPoint from a numerology, a SFN, the
// subframe index and the slot index within this subframe.
func NewSlotPointFromSubframe(numerology uint8, sfn uint16, subframe uint8, slot uint8) SlotPoint {
	slotInFrame := uint16(subframe)*uint16(NofSlotsPerSubframe(numerology)) + uint16(slot)
	return NewSlotPoint(numerology, sfn, slotInFrame)
}

// Numerology of this slot.
func (sp SlotPoint) Numerology() uint8 {
	return sp.numerology
}

// NofSlotsPerFrame for this slot's numerology.
func (sp SlotPoint) NofSlotsPerFrame() uint32 {
	return uint32(NofSlotsPerSubframe(sp.numerology)) * NofSubframesPerFrame
}

// SFN is the system frame number.
func (sp SlotPoint) SFN() uint16 {
	return uint16(sp.count / sp.NofSlotsPerFrame())
}

// SlotIndex is the slot index within the frame.
func (sp SlotPoint) SlotIndex() uint16 {
	return uint16(sp.count % sp.NofSlotsPerFrame())
}

// SubframeIndex is the index of the subframe containing this slot.
func (sp SlotPoint) SubframeIndex() uint8 {
	return uint8(sp.SlotIndex() / uint16(NofSlotsPerSubframe(sp.numerology)))
}

// SubframeSlotIndex is the slot index within its subframe.
func (sp SlotPoint) SubframeSlotIndex() uint8 {
	return uint8(sp.SlotIndex() % uint16(NofSlotsPerSubframe(sp.numerology)))
}

func (sp SlotPoint) String() string {
	return fmt.Sprintf("%d.%d", sp.SFN(), sp.SlotIndex())
}

// MarshalJSON writes a JSON object describing this SlotPoint.
func (sp SlotPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Numerology uint8  `json:"numerology"`
		SFN        uint16 `json:"sfn"`
		Subframe   uint8  `json:"subframe"`
		Slot       uint8  `json:"slot"`
	}{
		Numerology: sp.numerology,
		SFN:        sp.SFN(),
		Subframe:   sp.SubframeIndex(),
		Slot:       sp.SubframeSlotIndex(),
	})
}

// UnmarshalJSON reads the object written by MarshalJSON.
func (sp *SlotPoint) UnmarshalJSON(data []byte) error {
	var obj struct {
		Numerology uint8  `json:"numerology"`
		SFN        uint16 `json:"sfn"`
		Subframe   uint8  `json:"subframe"`
		Slot       uint8  `json:"slot"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*sp = NewSlotPointFromSubframe(obj.Numerology, obj.SFN, obj.Subframe, obj.Slot)
	return nil
}

// CheckValid returns an error for a numerology beyond MaxNumerology.
func (sp SlotPoint) CheckValid() error {
	if sp.numerology > MaxNumerology {
		return fmt.Errorf("SlotPoint: numerology %d exceeds %d", sp.numerology, MaxNumerology)
	}
	return nil
}

// SlotSymbolPoint identifies an OFDM symbol within a slot.
type SlotSymbolPoint struct {
	Slot              SlotPoint `json:"slot"`
	Symbol            uint8     `json:"symbol"`
	NofSymbolsPerSlot uint8     `json:"nofSymbols"`
}

func (ssp SlotSymbolPoint) String() string {
	return ssp.Slot.String() + "." + strconv.Itoa(int(ssp.Symbol))
}
