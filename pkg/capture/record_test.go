// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"bytes"
	"io"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/dtn7/cboring"
	log "github.com/sirupsen/logrus"

	"github.com/openfronthaul/ofh-go/pkg/ofh"
	"github.com/openfronthaul/ofh-go/pkg/ofh/iqcomp"
	"github.com/openfronthaul/ofh-go/pkg/ofh/uplane"
)

var testCompression = ofh.CompressionParams{Type: ofh.CompressionBFP, DataWidth: 9}

// sampleMessage builds an uplink message of four PRBs at half amplitude for
// the given symbol and decodes it.
func sampleMessage(t *testing.T, symbol uint8) ([]byte, *uplane.DecoderResults) {
	header := ofh.DynamicCompressionHeader()

	params := uplane.MessageParams{
		Direction:   ofh.DirectionUplink,
		Slot:        ofh.NewSlotPointFromSubframe(1, 17, 3, 1),
		StartPRB:    12,
		NofPRB:      4,
		SymbolID:    symbol,
		SectionType: ofh.SectionType1,
		Compression: testCompression,
	}

	iq := make([]complex64, 4*ofh.NofSubcarriersPerRB)
	for i := range iq {
		iq[i] = complex(0.5, 0)
	}

	b := uplane.NewBuilder(header, iqcomp.NewSelector())
	raw := make([]byte, b.MessageSize(params))
	b.BuildMessage(raw, iq, params)

	logger := log.New()
	logger.SetOutput(io.Discard)

	dec, err := uplane.NewDecoder(uplane.DecoderConfig{
		SCS:               ofh.SCS30kHz,
		RUNofPRBs:         273,
		CompressionHeader: header,
		Decompressor:      iqcomp.NewSelector(),
		Logger:            logger,
	})
	if err != nil {
		t.Fatal(err)
	}

	results := new(uplane.DecoderResults)
	if !dec.Decode(results, raw) {
		t.Fatal("Decoding the sample message failed")
	}
	return raw, results
}

func TestNewRecord(t *testing.T) {
	raw, results := sampleMessage(t, 5)
	now := time.Now()

	rec := NewRecord(raw, true, results, now)
	if !rec.Accepted || rec.Slot != results.Params.Slot || rec.Symbol != 5 {
		t.Fatalf("Unexpected record %v", rec)
	}
	if len(rec.Sections) != 1 {
		t.Fatalf("Record has %d sections", len(rec.Sections))
	}

	s := rec.Sections[0]
	if s.StartPRB != 12 || s.NofPRB != 4 || s.Compression != testCompression {
		t.Fatalf("Unexpected section summary %+v", s)
	}
	if math.Abs(s.MeanPower-0.25) > 0.01 {
		t.Fatalf("Mean power is %v", s.MeanPower)
	}

	raw[0] = 0xff
	if rec.Raw[0] == 0xff {
		t.Fatal("Record shares the raw buffer")
	}

	rejected := NewRecord(raw[:3], false, results, now)
	if rejected.Accepted || len(rejected.Sections) != 0 || rejected.Slot != (ofh.SlotPoint{}) {
		t.Fatalf("Unexpected rejected record %v", rejected)
	}
}

func TestRecordCbor(t *testing.T) {
	raw, results := sampleMessage(t, 3)

	for _, rec := range []Record{
		NewRecord(raw, true, results, time.Now()),
		NewRecord(raw[:7], false, results, time.Now()),
	} {
		buf := new(bytes.Buffer)
		if err := cboring.Marshal(&rec, buf); err != nil {
			t.Fatal(err)
		}

		var rec2 Record
		if err := cboring.Unmarshal(&rec2, buf); err != nil {
			t.Fatal(err)
		}

		if !rec.Received.Equal(rec2.Received) {
			t.Fatalf("Receive time changed from %v to %v", rec.Received, rec2.Received)
		}
		rec2.Received = rec.Received

		if !reflect.DeepEqual(rec, rec2) {
			t.Fatalf("Record changed after CBOR round trip:\n%#v\n%#v", rec, rec2)
		}
	}
}

func TestRecordId(t *testing.T) {
	raw, results := sampleMessage(t, 3)
	rec := NewRecord(raw, true, results, time.Now())

	if RecordId(rec) != RecordId(NewRecord(raw, true, results, time.Now())) {
		t.Fatal("Equal records have different ids")
	}

	raw2, results2 := sampleMessage(t, 4)
	if RecordId(rec) == RecordId(NewRecord(raw2, true, results2, time.Now())) {
		t.Fatal("Records of different symbols share an id")
	}
}
