// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func setupStoreDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "capture")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestStore(t *testing.T) {
	dir := setupStoreDir(t)
	defer os.RemoveAll(dir)

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	raw, results := sampleMessage(t, 2)
	past := time.Now().Add(-time.Hour)

	accepted := NewRecord(raw, true, results, past)
	rejected := NewRecord(raw[:5], false, results, time.Now())

	item, err := store.Push(accepted)
	if err != nil {
		t.Fatal(err)
	}
	if item.Id != RecordId(accepted) || !item.Accepted || item.Size != len(raw) {
		t.Fatalf("Unexpected item %+v", item)
	}
	if _, err := store.Push(rejected); err != nil {
		t.Fatal(err)
	}

	if !store.KnowsCapture(item.Id) {
		t.Fatal("Pushed capture is unknown")
	}

	// A duplicate is not stored again.
	if dup, err := store.Push(NewRecord(raw, true, results, time.Now())); err != nil {
		t.Fatal(err)
	} else if !dup.Received.Equal(item.Received) {
		t.Fatalf("Duplicate push replaced the item: %v", dup.Received)
	}

	if bi, err := store.QueryId(item.Id); err != nil {
		t.Fatal(err)
	} else if rec, err := bi.Load(); err != nil {
		t.Fatal(err)
	} else {
		rec.Received = accepted.Received
		if !reflect.DeepEqual(rec, accepted) {
			t.Fatalf("Record changed after loading")
		}
	}

	if items, err := store.QueryAccepted(true); err != nil {
		t.Fatal(err)
	} else if l := len(items); l != 1 {
		t.Fatalf("Found %d accepted items, instead of 1", l)
	}
	if items, err := store.QueryAccepted(false); err != nil {
		t.Fatal(err)
	} else if l := len(items); l != 1 {
		t.Fatalf("Found %d rejected items, instead of 1", l)
	}

	if items, err := store.QuerySince(time.Time{}); err != nil {
		t.Fatal(err)
	} else if l := len(items); l != 2 {
		t.Fatalf("Found %d items, instead of 2", l)
	} else if items[0].Id != item.Id {
		t.Fatalf("Items are not sorted by receive time: %v", items)
	}

	if n := store.DeleteBefore(time.Now().Add(-time.Minute)); n != 1 {
		t.Fatalf("Deleted %d items, instead of 1", n)
	}
	if store.KnowsCapture(item.Id) {
		t.Fatal("Deleted capture is known")
	}
	if _, err := os.Stat(item.Filename); !os.IsNotExist(err) {
		t.Fatalf("Record file still exists: %v", err)
	}

	rejectedId := RecordId(rejected)
	if err := store.Delete(rejectedId); err != nil {
		t.Fatal(err)
	}
	if store.KnowsCapture(rejectedId) {
		t.Fatal("Deleted capture is known")
	}
	if err := store.Delete(rejectedId); err != nil {
		t.Fatalf("Deleting an unknown capture errored: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
}
