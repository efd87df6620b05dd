// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/dtn7/cboring"
	"github.com/howeyc/crc16"
	"github.com/ulikunitz/xz"
)

var crcTable = crc16.MakeTable(crc16.CCITT)

// Item is the meta data of a stored Record. The Store operates on Items
// instead of Records.
type Item struct {
	Id string `badgerhold:"key" json:"id"`

	Received time.Time `badgerholdIndex:"Received" json:"received"`
	Accepted bool      `badgerholdIndex:"Accepted" json:"accepted"`

	Checksum uint16 `json:"checksum"`
	Size     int    `json:"size"`

	Filename string `json:"-"`
}

// Load the Record of this Item from the disk.
func (item Item) Load() (rec Record, err error) {
	f, fErr := os.Open(item.Filename)
	if fErr != nil {
		err = fErr
		return
	}
	defer f.Close()

	xr, xzErr := xz.NewReader(f)
	if xzErr != nil {
		err = xzErr
		return
	}

	err = cboring.Unmarshal(&rec, xr)
	return
}

// storeRecord writes rec xz compressed to the Item's file.
func (item Item) storeRecord(rec Record) error {
	f, err := os.OpenFile(item.Filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	xw, err := xz.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return err
	}

	if err := cboring.Marshal(&rec, xw); err != nil {
		_ = xw.Close()
		_ = f.Close()
		return err
	}

	if err := xw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// deleteRecord removes the Record's file.
func (item Item) deleteRecord() error {
	return os.Remove(item.Filename)
}

// RecordId identifies a Record by its slot and symbol, if accepted, and a
// checksum of its raw bytes.
func RecordId(rec Record) string {
	checksum := crc16.Checksum(rec.Raw, crcTable)

	if !rec.Accepted {
		return fmt.Sprintf("rejected-%d-%04x", len(rec.Raw), checksum)
	}
	return fmt.Sprintf("%d.%d.%d-%04x", rec.Slot.SFN(), rec.Slot.SlotIndex(), rec.Symbol, checksum)
}

// newItem creates an Item for rec, stored within dir.
func newItem(rec Record, dir string) Item {
	id := RecordId(rec)

	return Item{
		Id: id,

		Received: rec.Received,
		Accepted: rec.Accepted,

		Checksum: crc16.Checksum(rec.Raw, crcTable),
		Size:     len(rec.Raw),

		Filename: path.Join(dir, id+".cbor.xz"),
	}
}
