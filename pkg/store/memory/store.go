// Package memory keeps the console data in process memory, optionally
// mirrored to a JSON snapshot file so it survives restarts.
package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store"
)

// snapshot is the whole data set, also the layout of the snapshot file
type snapshot struct {
	Clients       []models.Client          `json:"clients"`
	Plans         []models.Plan            `json:"plans"`
	Servers       []models.Server          `json:"servers"`
	Templates     []models.MessageTemplate `json:"templates"`
	Notifications []models.NotificationLog `json:"notifications"`
}

func (s snapshot) clone() snapshot {
	return snapshot{
		Clients:       append([]models.Client(nil), s.Clients...),
		Plans:         append([]models.Plan(nil), s.Plans...),
		Servers:       append([]models.Server(nil), s.Servers...),
		Templates:     append([]models.MessageTemplate(nil), s.Templates...),
		Notifications: append([]models.NotificationLog(nil), s.Notifications...),
	}
}

// Options configures a Store
type Options struct {
	// Path of the snapshot file. Empty keeps everything in memory only.
	Path string
	// Seed fills an empty store with demo data
	Seed bool
	// Clock is used for seed dates and notification timestamps
	Clock calendar.Clock
}

// Store holds every collection behind one lock. Writes replace the whole
// snapshot and are rolled back when the file cannot be written.
type Store struct {
	mu       sync.RWMutex
	data     snapshot
	path     string
	recorder *lifecycle.Recorder
	lastErr  error
}

// New builds a Store, loading the snapshot file when one exists
func New(opts Options) (*Store, error) {
	if opts.Clock == nil {
		opts.Clock = calendar.NewSystemClock(nil)
	}

	s := &Store{
		path:     opts.Path,
		recorder: lifecycle.NewRecorder(opts.Clock.Now, lifecycle.WithIDGenerator(store.NotificationID)),
	}

	loaded, err := s.load()
	if err != nil {
		return nil, err
	}

	if !loaded && opts.Seed {
		s.data = demoData(opts.Clock)
		if err := s.save(s.data); err != nil {
			return nil, err
		}
		logger.System("Loaded demo data into the memory store", "Store")
	}

	return s, nil
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *store.Repositories {
	return &store.Repositories{
		Clients: &Collection[models.Client]{
			store: s, entity: "client", prefix: "client",
			slice: func(d *snapshot) *[]models.Client { return &d.Clients },
		},
		Plans: &Collection[models.Plan]{
			store: s, entity: "plan", prefix: "plan",
			slice: func(d *snapshot) *[]models.Plan { return &d.Plans },
		},
		Servers: &Collection[models.Server]{
			store: s, entity: "server", prefix: "server",
			slice: func(d *snapshot) *[]models.Server { return &d.Servers },
		},
		Templates: &Collection[models.MessageTemplate]{
			store: s, entity: "template", prefix: "template",
			slice: func(d *snapshot) *[]models.MessageTemplate { return &d.Templates },
		},
		Notifications: &Notifications{store: s},
		Backend:       s,
	}
}

func (s *Store) load() (bool, error) {
	if s.path == "" {
		return false, nil
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.StorageUnavailable(err, "read snapshot")
	}

	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return false, errors.StorageUnavailable(err, "decode snapshot")
	}
	lifecycle.SortNewestFirst(data.Notifications)
	s.data = data

	logger.Info(fmt.Sprintf("Loaded snapshot %s (%d clients)", s.path, len(data.Clients)), "Store")
	return true, nil
}

// save writes the snapshot file through a temp file and rename
func (s *Store) save(data snapshot) error {
	if s.path == "" {
		return nil
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.StorageUnavailable(err, "encode snapshot")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.lastErr = errors.StorageUnavailable(err, "write snapshot")
		return s.lastErr
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		s.lastErr = errors.StorageUnavailable(err, "replace snapshot")
		return s.lastErr
	}
	s.lastErr = nil
	return nil
}

// read runs fn under the read lock
func (s *Store) read(fn func(d *snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// write applies fn to a copy of the data and commits it only when fn succeeds
// and the snapshot file was written.
func (s *Store) write(fn func(d *snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		logger.Error(fmt.Sprintf("Snapshot write failed: %v", err), "Store")
		return err
	}
	s.data = next
	return nil
}

func (s *Store) Name() string {
	if s.path == "" {
		return "memory"
	}
	return "memory+" + filepath.Base(s.path)
}

// Ping reports the last snapshot write failure, if any
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) Close(_ context.Context) error { return nil }
