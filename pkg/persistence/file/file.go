// Package file provides file-based persistence for the pipeline records.
// Each record lives in its own JSON document under the root directory, so the
// draft, outbox entry and placeholder survive restarts independently.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/liftbook/liftbook/pkg/persistence"
)

const (
	draftRecord       = "draft"
	outboxRecord      = "outbox"
	placeholderRecord = "placeholder"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root            string
	draftRepo       *DraftRepository
	outboxRepo      *OutboxRepository
	placeholderRepo *PlaceholderRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	p := &Persistence{root: cleanRoot}
	p.draftRepo = &DraftRepository{store: p}
	p.outboxRepo = &OutboxRepository{store: p}
	p.placeholderRepo = &PlaceholderRepository{store: p}

	return p
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return persistence.ErrStoreUnavailable
	}

	return nil
}

// DraftRepository returns the draft repository implementation for file persistence.
func (p *Persistence) DraftRepository() persistence.DraftRepository {
	return p.draftRepo
}

// OutboxRepository returns the outbox repository implementation for file persistence.
func (p *Persistence) OutboxRepository() persistence.OutboxRepository {
	return p.outboxRepo
}

// PlaceholderRepository returns the placeholder repository implementation for file persistence.
func (p *Persistence) PlaceholderRepository() persistence.PlaceholderRepository {
	return p.placeholderRepo
}

func (p *Persistence) recordPath(name string) string {
	return filepath.Clean(path.Join(p.root, name+".json"))
}

// readRecord loads and decodes a record. A missing file reads as absent; a
// file that no longer decodes is wiped and also reads as absent.
func (p *Persistence) readRecord(name string, v any) (bool, error) {
	body, err := os.ReadFile(p.recordPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, persistence.NewStoreError("Load", name, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		if wipeErr := p.deleteRecord(name); wipeErr != nil {
			return false, persistence.NewStoreError("Load", name, fmt.Errorf("%w: %w", persistence.ErrCorruptRecord, wipeErr))
		}

		return false, nil
	}

	return true, nil
}

// writeRecord stores a record atomically: written to a temp file in the same
// directory, then renamed over the destination.
func (p *Persistence) writeRecord(name string, v any) error {
	if err := os.MkdirAll(p.root, 0750); err != nil {
		return persistence.NewStoreError("Put", name, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return persistence.NewStoreError("Put", name, err)
	}

	tmp, err := os.CreateTemp(p.root, name+"-*.tmp")
	if err != nil {
		return persistence.NewStoreError("Put", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return persistence.NewStoreError("Put", name, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return persistence.NewStoreError("Put", name, err)
	}

	if err := os.Rename(tmp.Name(), p.recordPath(name)); err != nil {
		_ = os.Remove(tmp.Name())

		return persistence.NewStoreError("Put", name, err)
	}

	return nil
}

func (p *Persistence) deleteRecord(name string) error {
	err := os.Remove(p.recordPath(name))
	if err != nil && !os.IsNotExist(err) {
		return persistence.NewStoreError("Clear", name, err)
	}

	return nil
}
