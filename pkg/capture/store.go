// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"os"
	"path"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/timshannon/badgerhold"
)

const (
	dirBadger string = "db"
	dirRecord string = "rec"
)

// Store implements a storage for Records together with meta data.
type Store struct {
	bh *badgerhold.Store

	badgerDir string
	recordDir string
}

// NewStore creates a new Store or opens an existing Store from the given path.
func NewStore(dir string) (s *Store, err error) {
	badgerDir := path.Join(dir, dirBadger)
	recordDir := path.Join(dir, dirRecord)

	opts := badgerhold.DefaultOptions
	opts.Dir = badgerDir
	opts.ValueDir = badgerDir
	opts.Logger = log.StandardLogger()
	opts.Options.ValueLogFileSize = 1<<28 - 1

	for _, d := range []string{badgerDir, recordDir} {
		if dirErr := os.MkdirAll(d, 0700); dirErr != nil {
			err = dirErr
			return
		}
	}

	if bh, bhErr := badgerhold.Open(opts); bhErr != nil {
		err = bhErr
	} else {
		s = &Store{
			bh: bh,

			badgerDir: badgerDir,
			recordDir: recordDir,
		}
	}
	return
}

// Close the Store. It must not be used afterwards.
func (s *Store) Close() error {
	return s.bh.Close()
}

// Push a Record to the Store. A Record already known by its id is not stored
// again; the existing Item is returned.
func (s *Store) Push(rec Record) (Item, error) {
	item := newItem(rec, s.recordDir)
	logger := log.WithField("capture", item.Id)

	if known, err := s.QueryId(item.Id); err == nil {
		logger.Debug("Capture is known, ignoring push")
		return known, nil
	} else if err != badgerhold.ErrNotFound {
		return Item{}, err
	}

	if err := item.storeRecord(rec); err != nil {
		return Item{}, err
	}

	if err := s.bh.Insert(item.Id, item); err != nil {
		if rmErr := item.deleteRecord(); rmErr != nil {
			logger.WithError(rmErr).Warn("Failed to delete record file of a failed insert")
		}
		return Item{}, err
	}

	logger.WithField("accepted", item.Accepted).Debug("Stored capture")
	return item, nil
}

// Delete an Item and its Record file.
func (s *Store) Delete(id string) error {
	item, err := s.QueryId(id)
	if err == badgerhold.ErrNotFound {
		return nil
	} else if err != nil {
		return err
	}

	logger := log.WithField("capture", id)
	logger.Debug("Store deletes capture")

	if err := item.deleteRecord(); err != nil {
		logger.WithError(err).WithField("file", item.Filename).Warn("Failed to delete record file")
	}

	return s.bh.Delete(item.Id, Item{})
}

// DeleteBefore removes all captures received before t and returns their
// number.
func (s *Store) DeleteBefore(t time.Time) (deleted int) {
	var items []Item
	if err := s.bh.Find(&items, badgerhold.Where("Received").Lt(t)); err != nil {
		log.WithError(err).Warn("Failed to get outdated captures")
		return
	}

	for _, item := range items {
		if err := s.Delete(item.Id); err != nil {
			log.WithError(err).WithField("capture", item.Id).Warn("Failed to delete outdated capture")
		} else {
			deleted++
		}
	}

	if deleted > 0 {
		log.WithFields(log.Fields{
			"deleted": deleted,
			"before":  t,
		}).Info("Deleted outdated captures")
	}
	return
}

// QueryId fetches the Item for the requested id.
func (s *Store) QueryId(id string) (item Item, err error) {
	err = s.bh.Get(id, &item)
	return
}

// QueryAccepted fetches all Items of accepted or rejected messages.
func (s *Store) QueryAccepted(accepted bool) (items []Item, err error) {
	err = s.bh.Find(&items, badgerhold.Where("Accepted").Eq(accepted))
	return
}

// QuerySince fetches all Items received at or after t, oldest first.
func (s *Store) QuerySince(t time.Time) (items []Item, err error) {
	err = s.bh.Find(&items, badgerhold.Where("Received").Ge(t).SortBy("Received"))
	return
}

// KnowsCapture checks if a capture of this id is stored.
func (s *Store) KnowsCapture(id string) bool {
	_, err := s.QueryId(id)
	return err != badgerhold.ErrNotFound
}
