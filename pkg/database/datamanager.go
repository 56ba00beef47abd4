package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	CacheTTL        time.Duration
	CleanupInterval time.Duration
	Timeout         time.Duration
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		CacheTTL:        5 * time.Minute,
		CleanupInterval: 10 * time.Minute,
		Timeout:         5 * time.Second,
	}
}

// DataManager provides cached access to one MongoDB collection. Single
// document reads go through the cache; writes invalidate it.
type DataManager[T any] struct {
	name    string
	db      *Database
	cache   *cache.Cache
	options DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	dm := &DataManager[T]{
		name:    collectionName,
		db:      db,
		cache:   cache.New(dmOptions.CacheTTL, dmOptions.CleanupInterval),
		options: dmOptions,
	}
	// documents cached before an outage may have changed while it lasted
	if db != nil {
		db.OnReconnect(dm.ClearCache)
	}
	return dm
}

// generateCacheKey creates a deterministic key from a query regardless of map
// iteration order.
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

// collection returns the live collection or a StorageUnavailable error
func (dm *DataManager[T]) collection(op string) (*mongo.Collection, error) {
	if dm.db == nil || !dm.db.Connected() {
		return nil, errors.StorageUnavailable(nil, fmt.Sprintf("%s %s", op, dm.name))
	}
	col := dm.db.GetCollection(dm.name)
	if col == nil {
		return nil, errors.StorageUnavailable(nil, fmt.Sprintf("%s %s", op, dm.name))
	}
	return col, nil
}

// fail turns a driver error into StorageUnavailable and drops the connection
// flag on network trouble.
func (dm *DataManager[T]) fail(err error, op string) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		dm.db.MarkDisconnected()
	}
	logger.Error(fmt.Sprintf("%s on '%s' failed: %v", op, dm.name, err), "DataManager")
	return errors.StorageUnavailable(err, fmt.Sprintf("%s %s", op, dm.name))
}

// Get retrieves one document from cache or database. A missing document
// returns nil without error.
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)
	if cached, ok := dm.cache.Get(cacheKey); ok {
		doc := cached.(T)
		return &doc, nil
	}

	col, err := dm.collection("get")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, dm.options.Timeout)
	defer cancel()

	var result T
	if err := col.FindOne(ctx, query).Decode(&result); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, dm.fail(err, "get")
	}

	dm.cache.Set(cacheKey, result, cache.DefaultExpiration)
	return &result, nil
}

// GetAll retrieves every document matching query
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]T, error) {
	col, err := dm.collection("list")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*dm.options.Timeout)
	defer cancel()

	cursor, err := col.Find(ctx, query, opts...)
	if err != nil {
		return nil, dm.fail(err, "list")
	}
	defer func() { _ = cursor.Close(ctx) }()

	results := make([]T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, dm.fail(err, "decode")
	}
	return results, nil
}

// Insert adds documents
func (dm *DataManager[T]) Insert(ctx context.Context, docs ...T) error {
	if len(docs) == 0 {
		return nil
	}
	col, err := dm.collection("insert")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, dm.options.Timeout)
	defer cancel()

	payload := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		payload = append(payload, d)
	}
	if _, err := col.InsertMany(ctx, payload); err != nil {
		return dm.fail(err, "insert")
	}
	return nil
}

// Replace overwrites the document matching query. It reports false when
// nothing matched.
func (dm *DataManager[T]) Replace(ctx context.Context, query bson.M, doc T) (bool, error) {
	col, err := dm.collection("replace")
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, dm.options.Timeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, query, doc)
	if err != nil {
		return false, dm.fail(err, "replace")
	}
	dm.cache.Delete(dm.generateCacheKey(query))
	return res.MatchedCount > 0, nil
}

// Delete removes the document matching query. It reports false when nothing
// was deleted.
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) (bool, error) {
	dm.cache.Delete(dm.generateCacheKey(query))

	col, err := dm.collection("delete")
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, dm.options.Timeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, query)
	if err != nil {
		return false, dm.fail(err, "delete")
	}
	return res.DeletedCount > 0, nil
}

// ClearCache drops every cached document of this collection
func (dm *DataManager[T]) ClearCache() {
	dm.cache.Flush()
}
