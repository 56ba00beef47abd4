package memory

import (
	"context"

	"github.com/samber/lo"

	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store"
)

// Collection is one entity list inside a Store
type Collection[T store.Record[T]] struct {
	store  *Store
	entity string
	prefix string
	slice  func(d *snapshot) *[]T
}

func (c *Collection[T]) List(_ context.Context) ([]T, error) {
	var out []T
	c.store.read(func(d *snapshot) {
		out = append(make([]T, 0, len(*c.slice(d))), *c.slice(d)...)
	})
	return out, nil
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	var (
		found T
		ok    bool
	)
	c.store.read(func(d *snapshot) {
		found, ok = lo.Find(*c.slice(d), func(item T) bool { return item.GetID() == id })
	})
	if !ok {
		var zero T
		return zero, errors.NotFound(c.entity, id)
	}
	return found, nil
}

func (c *Collection[T]) Add(_ context.Context, record T) (T, error) {
	created := record.WithID(store.NewID(c.prefix))
	err := c.store.write(func(d *snapshot) error {
		items := c.slice(d)
		*items = append(*items, created)
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

func (c *Collection[T]) Update(_ context.Context, record T) (T, error) {
	err := c.store.write(func(d *snapshot) error {
		items := c.slice(d)
		_, idx, ok := lo.FindIndexOf(*items, func(item T) bool { return item.GetID() == record.GetID() })
		if !ok {
			return errors.NotFound(c.entity, record.GetID())
		}
		(*items)[idx] = record
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

func (c *Collection[T]) Delete(_ context.Context, id string) error {
	return c.store.write(func(d *snapshot) error {
		items := c.slice(d)
		kept := lo.Reject(*items, func(item T, _ int) bool { return item.GetID() == id })
		if len(kept) == len(*items) {
			return errors.NotFound(c.entity, id)
		}
		*items = kept
		return nil
	})
}

// Notifications is the history collection of a Store
type Notifications struct {
	store *Store
}

func (n *Notifications) List(_ context.Context) ([]models.NotificationLog, error) {
	var out []models.NotificationLog
	n.store.read(func(d *snapshot) {
		out = append(make([]models.NotificationLog, 0, len(d.Notifications)), d.Notifications...)
	})
	return out, nil
}

func (n *Notifications) Append(_ context.Context, drafts []models.NotificationDraft) ([]models.NotificationLog, error) {
	var created []models.NotificationLog
	err := n.store.write(func(d *snapshot) error {
		d.Notifications, created = n.store.recorder.Record(d.Notifications, drafts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
