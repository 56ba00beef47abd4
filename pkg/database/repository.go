package database

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/lifecycle"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store"
)

// Collection names
const (
	ClientsCollection       = "clients"
	PlansCollection         = "plans"
	ServersCollection       = "servers"
	TemplatesCollection     = "templates"
	NotificationsCollection = "notifications"
)

// Repository stores one entity type in a collection
type Repository[T store.Record[T]] struct {
	dm     *DataManager[T]
	entity string
	prefix string
}

// NewRepository builds a repository over a DataManager
func NewRepository[T store.Record[T]](dm *DataManager[T], entity string) *Repository[T] {
	return &Repository[T]{dm: dm, entity: entity, prefix: entity}
}

func byID(id string) bson.M { return bson.M{"_id": id} }

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	return r.dm.GetAll(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := r.dm.Get(ctx, byID(id))
	if err != nil {
		return zero, err
	}
	if doc == nil {
		return zero, errors.NotFound(r.entity, id)
	}
	return *doc, nil
}

func (r *Repository[T]) Add(ctx context.Context, record T) (T, error) {
	created := record.WithID(store.NewID(r.prefix))
	if err := r.dm.Insert(ctx, created); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

func (r *Repository[T]) Update(ctx context.Context, record T) (T, error) {
	var zero T
	matched, err := r.dm.Replace(ctx, byID(record.GetID()), record)
	if err != nil {
		return zero, err
	}
	if !matched {
		return zero, errors.NotFound(r.entity, record.GetID())
	}
	return record, nil
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	deleted, err := r.dm.Delete(ctx, byID(id))
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound(r.entity, id)
	}
	return nil
}

// NotificationRepository keeps the send history in its own collection
type NotificationRepository struct {
	dm       *DataManager[models.NotificationLog]
	recorder *lifecycle.Recorder
}

// historyOrder is newest batch first, then batch order
var historyOrder = bson.D{{Key: "sentAt", Value: -1}, {Key: "seq", Value: 1}}

func (n *NotificationRepository) List(ctx context.Context) ([]models.NotificationLog, error) {
	logs, err := n.dm.GetAll(ctx, bson.M{}, options.Find().SetSort(historyOrder))
	if err != nil {
		return nil, err
	}
	sortHistory(logs)
	return logs, nil
}

// sortHistory applies historyOrder in memory. BSON keeps milliseconds, so
// every entry of a batch comes back with the same sentAt.
func sortHistory(logs []models.NotificationLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].SentAt.Equal(logs[j].SentAt) {
			return logs[i].SentAt.After(logs[j].SentAt)
		}
		return logs[i].Seq < logs[j].Seq
	})
}

// Append only inserts; existing history documents are never touched
func (n *NotificationRepository) Append(ctx context.Context, drafts []models.NotificationDraft) ([]models.NotificationLog, error) {
	created := n.recorder.Stamp(drafts)
	if err := n.dm.Insert(ctx, created...); err != nil {
		return nil, err
	}
	return created, nil
}

// Repositories wires every collection of db into the store interfaces
func Repositories(db *Database, clock calendar.Clock) *store.Repositories {
	return &store.Repositories{
		Clients:   NewRepository(NewDataManager[models.Client](ClientsCollection, db), "client"),
		Plans:     NewRepository(NewDataManager[models.Plan](PlansCollection, db), "plan"),
		Servers:   NewRepository(NewDataManager[models.Server](ServersCollection, db), "server"),
		Templates: NewRepository(NewDataManager[models.MessageTemplate](TemplatesCollection, db), "template"),
		Notifications: &NotificationRepository{
			dm:       NewDataManager[models.NotificationLog](NotificationsCollection, db),
			recorder: lifecycle.NewRecorder(clock.Now, lifecycle.WithIDGenerator(store.NotificationID)),
		},
		Backend: db,
	}
}
