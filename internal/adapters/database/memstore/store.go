// Package memstore implements the persistence layer as a single in-memory
// image made durable through whole-image checkpoints to one backing file.
// There is no write-ahead log: every repository mutation runs under the
// store's write lock, and the checkpointer serializes the image under the
// read lock, so a checkpoint always observes a consistent snapshot.
package memstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
)

const schemaVersion = 1

// image is the full serializable database. Mutating it is only legal while
// holding the owning store's write lock.
type image struct {
	SchemaVersion int                            `json:"schemaVersion"`
	Currencies    map[string]domain.Currency     `json:"currencies"`  // by currency code
	GLAccounts    map[string]domain.GLAccount    `json:"glAccounts"`  // by account ID
	SubAccounts   map[string]domain.SubAccount   `json:"subAccounts"` // by account ID
	Entries       map[string]domain.JournalEntry `json:"entries"`     // by entry ID
	Attachments   map[string]domain.Attachment   `json:"attachments"` // by attachment ID
}

// newImage installs the empty schema.
func newImage() image {
	return image{
		SchemaVersion: schemaVersion,
		Currencies:    make(map[string]domain.Currency),
		GLAccounts:    make(map[string]domain.GLAccount),
		SubAccounts:   make(map[string]domain.SubAccount),
		Entries:       make(map[string]domain.JournalEntry),
		Attachments:   make(map[string]domain.Attachment),
	}
}

// Store owns the in-memory database image and the lock that orders reads,
// writes, and checkpoint snapshots.
type Store struct {
	mu   sync.RWMutex
	img  image
	path string
}

// Open loads the backing file into a new store, or installs an empty schema
// when the file does not exist yet. A backing file that fails to decode or
// fails the referential integrity check is unrecoverable startup corruption.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.img = newImage()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backing file %s: %w", path, err)
	}

	img := newImage()
	if err := json.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("backing file %s is corrupt: %w", path, err)
	}
	if err := checkIntegrity(&img); err != nil {
		return nil, fmt.Errorf("backing file %s failed integrity check: %w", path, err)
	}

	s.img = img
	return s, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// view runs fn with shared access to the image. fn must not retain
// references to map values past the call.
func (s *Store) view(fn func(img *image)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.img)
}

// update runs fn with exclusive access to the image. A returned error means
// fn left the image untouched; multi-step logical operations (such as
// clearing the previous default currency) complete inside one update call.
func (s *Store) update(fn func(img *image) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.img)
}

// serialize marshals the image under the read lock, excluding writers for
// the duration so the snapshot is never torn.
func (s *Store) serialize() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(&s.img)
}

// checkIntegrity verifies the referential and structural rules a loaded
// image must satisfy before it is accepted as initial state.
func checkIntegrity(img *image) error {
	defaults := 0
	for code, c := range img.Currencies {
		if c.CurrencyCode != code {
			return fmt.Errorf("currency keyed %s holds code %s", code, c.CurrencyCode)
		}
		if c.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%d currencies are flagged default, at most one allowed", defaults)
	}

	for id, gl := range img.GLAccounts {
		if gl.AccountID != id {
			return fmt.Errorf("GL account keyed %s holds ID %s", id, gl.AccountID)
		}
		if !gl.AccountType.IsValid() {
			return fmt.Errorf("GL account %s has unknown type %s", gl.AccountNumber, gl.AccountType)
		}
	}

	for id, sub := range img.SubAccounts {
		if sub.AccountID != id {
			return fmt.Errorf("sub-account keyed %s holds ID %s", id, sub.AccountID)
		}
		if _, ok := img.GLAccounts[sub.GLAccountID]; !ok {
			return fmt.Errorf("sub-account %s references missing GL account %s", sub.AccountNumber, sub.GLAccountID)
		}
		if _, ok := img.Currencies[sub.CurrencyCode]; !ok {
			return fmt.Errorf("sub-account %s references missing currency %s", sub.AccountNumber, sub.CurrencyCode)
		}
	}

	for id, entry := range img.Entries {
		if entry.EntryID != id {
			return fmt.Errorf("entry keyed %s holds ID %s", id, entry.EntryID)
		}
		if !entry.Amount.IsPositive() {
			return fmt.Errorf("entry %s has non-positive amount %s", id, entry.Amount)
		}
		if entry.DebitAccountID == entry.CreditAccountID {
			return fmt.Errorf("entry %s debits and credits the same account %s", id, entry.DebitAccountID)
		}
		if _, ok := img.SubAccounts[entry.DebitAccountID]; !ok {
			return fmt.Errorf("entry %s references missing debit account %s", id, entry.DebitAccountID)
		}
		if _, ok := img.SubAccounts[entry.CreditAccountID]; !ok {
			return fmt.Errorf("entry %s references missing credit account %s", id, entry.CreditAccountID)
		}
		if _, ok := img.Currencies[entry.CurrencyCode]; !ok {
			return fmt.Errorf("entry %s references missing currency %s", id, entry.CurrencyCode)
		}
	}

	for id, att := range img.Attachments {
		if att.AttachmentID != id {
			return fmt.Errorf("attachment keyed %s holds ID %s", id, att.AttachmentID)
		}
		if _, ok := img.Entries[att.EntryID]; !ok {
			return fmt.Errorf("attachment %s references missing entry %s", id, att.EntryID)
		}
	}

	return nil
}
