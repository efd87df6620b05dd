// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ofh

import "fmt"

// PayloadVersion is the only supported value of the payloadVersion field of
// the radio application header.
const PayloadVersion uint8 = 1

// NofSubcarriersPerRB is the number of subcarriers within a PRB.
const NofSubcarriersPerRB = 12

// MaxNofPRBs is the largest number of PRBs of a carrier.
const MaxNofPRBs = 273

// DataDirection is the dataDirection bit of the radio application header.
type DataDirection uint8

const (
	// DirectionUplink marks data received by the radio unit.
	DirectionUplink DataDirection = 0

	// DirectionDownlink marks data transmitted by the radio unit.
	DirectionDownlink DataDirection = 1
)

func (dd DataDirection) String() string {
	switch dd {
	case DirectionUplink:
		return "uplink"
	case DirectionDownlink:
		return "downlink"
	default:
		return fmt.Sprintf("direction(%d)", uint8(dd))
	}
}

// MarshalText renders the direction for JSON and TOML.
func (dd DataDirection) MarshalText() ([]byte, error) {
	return []byte(dd.String()), nil
}

// UnmarshalText parses "uplink" or "downlink".
func (dd *DataDirection) UnmarshalText(text []byte) error {
	switch string(text) {
	case "uplink", "ul":
		*dd = DirectionUplink
	case "downlink", "dl":
		*dd = DirectionDownlink
	default:
		return fmt.Errorf("unknown data direction %q", string(text))
	}
	return nil
}

// FilterIndex is the four bit filterIndex field of the radio application header.
type FilterIndex uint8

const (
	// FilterStandardChannel is the standard channel filter, used for all
	// channels except PRACH.
	FilterStandardChannel FilterIndex = 0

	// FilterPRACHPreamble1p25kHz for long PRACH preamble formats 0, 1 and 2.
	FilterPRACHPreamble1p25kHz FilterIndex = 1

	// FilterPRACHPreamble5kHz for long PRACH preamble format 3.
	FilterPRACHPreamble5kHz FilterIndex = 2

	// FilterPRACHPreambleShort for short PRACH preamble formats.
	FilterPRACHPreambleShort FilterIndex = 3

	// FilterNPRACHFormat01 for NPRACH formats 0 and 1.
	FilterNPRACHFormat01 FilterIndex = 4

	// FilterNPRACHFormat2 for NPRACH format 2.
	FilterNPRACHFormat2 FilterIndex = 5

	// FilterLTEPRACHFormat03 for LTE PRACH formats 0 to 3.
	FilterLTEPRACHFormat03 FilterIndex = 6

	// FilterLTEPRACHFormat4 for LTE PRACH format 4.
	FilterLTEPRACHFormat4 FilterIndex = 7

	// FilterIndexReserved is returned when no filter index can be read. All
	// values from 8 to 15 are reserved.
	FilterIndexReserved FilterIndex = 0x0f
)

// IsReserved reports whether the filter index is a reserved value.
func (fi FilterIndex) IsReserved() bool {
	return fi > FilterLTEPRACHFormat4
}

func (fi FilterIndex) String() string {
	switch fi {
	case FilterStandardChannel:
		return "standard"
	case FilterPRACHPreamble1p25kHz:
		return "prach-1.25kHz"
	case FilterPRACHPreamble5kHz:
		return "prach-5kHz"
	case FilterPRACHPreambleShort:
		return "prach-short"
	case FilterNPRACHFormat01:
		return "nprach-0-1"
	case FilterNPRACHFormat2:
		return "nprach-2"
	case FilterLTEPRACHFormat03:
		return "lte-prach-0-3"
	case FilterLTEPRACHFormat4:
		return "lte-prach-4"
	default:
		return fmt.Sprintf("reserved(%d)", uint8(fi))
	}
}

// SectionType is the sectionType field of a C-Plane message. U-Plane messages
// reuse the section layout of the C-Plane section type they refer to.
type SectionType uint8

const (
	// SectionType0 indicates idle or guard periods.
	SectionType0 SectionType = 0

	// SectionType1 is used for most downlink and uplink radio channels.
	SectionType1 SectionType = 1

	// SectionType3 is used for PRACH and mixed-numerology channels.
	SectionType3 SectionType = 3
)

func (st SectionType) String() string {
	return fmt.Sprintf("type%d", uint8(st))
}

// RadioHeaderSize is the size of the radio application header shared by
// C-Plane and U-Plane messages.
const RadioHeaderSize = 4

// EncodeRadioHeader writes the four byte radio application header. symbol is
// the start symbol for C-Plane or the symbol id for U-Plane messages. The
// frame number is truncated to its lower 8 bits.
func EncodeRadioHeader(s *Serializer, direction DataDirection, filter FilterIndex, slot SlotPoint, symbol uint8) {
	s.WriteUint8(uint8(direction)<<7 | (PayloadVersion&0x07)<<4 | uint8(filter)&0x0f)
	s.WriteUint8(uint8(slot.SFN()))

	slotIdx := slot.SubframeSlotIndex()
	s.WriteUint8(slot.SubframeIndex()<<4 | (slotIdx>>2)&0x0f)
	s.WriteUint8((slotIdx&0x03)<<6 | symbol&0x3f)
}
