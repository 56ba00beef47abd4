// Package store declares the repositories the console reads and writes
// through. Implementations live in store/memory (JSON snapshot) and
// database (MongoDB).
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

// Record is a stored entity that knows its id
type Record[T any] interface {
	GetID() string
	WithID(id string) T
}

// Repository is the per-entity CRUD contract. Update and Delete fail with a
// NotFound error when the id does not exist; a broken backend fails with
// StorageUnavailable.
type Repository[T Record[T]] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	// Add assigns a fresh id and ignores any id already set
	Add(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

// NotificationRepository is the append-only send history
type NotificationRepository interface {
	// List returns the history newest first
	List(ctx context.Context) ([]models.NotificationLog, error)
	// Append stamps drafts with ids and the current time and stores them
	Append(ctx context.Context, drafts []models.NotificationDraft) ([]models.NotificationLog, error)
}

// Backend reports on the storage behind the repositories
type Backend interface {
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Repositories bundles one repository per entity
type Repositories struct {
	Clients       Repository[models.Client]
	Plans         Repository[models.Plan]
	Servers       Repository[models.Server]
	Templates     Repository[models.MessageTemplate]
	Notifications NotificationRepository
	Backend       Backend
}

// NewID returns a fresh id such as "client-3f1c..."
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NotificationID ids history entries
func NotificationID() string { return NewID("notification") }
