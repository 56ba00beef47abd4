// Package database is the MongoDB backend of the console. It owns the
// connection (with background reconnection), a cached DataManager per
// collection and the repositories built on top of them.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

const reconnectInterval = 15 * time.Second

// Database manages the MongoDB connection
type Database struct {
	client        *mongo.Client
	db            *mongo.Database
	mongoURL      string
	dbName        string
	connected     bool
	reconnecting  bool
	stopReconnect chan struct{}
	stopOnce      sync.Once
	mu            sync.RWMutex
	collections   map[string]*mongo.Collection
	onReconnect   []func()
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance. A failed first connection
// still returns the instance; it keeps retrying in the background.
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase(mongoURL, dbName)
		err = database.Connect()
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a new, unconnected Database
func NewDatabase(mongoURL, dbName string) *Database {
	return &Database{
		mongoURL:      mongoURL,
		dbName:        dbName,
		stopReconnect: make(chan struct{}),
		collections:   make(map[string]*mongo.Collection),
	}
}

// Connect establishes a connection to MongoDB
func (d *Database) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}

	logger.System("Connecting to MongoDB...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(d.mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Could not connect to MongoDB", "DB")
		d.startReconnectLocked()
		return errors.StorageUnavailable(err, "connect")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("MongoDB did not answer the ping", "DB")
		_ = client.Disconnect(ctx)
		d.startReconnectLocked()
		return errors.StorageUnavailable(err, "ping")
	}

	d.client = client
	d.db = client.Database(d.dbName)
	d.collections = make(map[string]*mongo.Collection)
	d.connected = true

	logger.Success(fmt.Sprintf("Connected to MongoDB database %s", d.dbName), "DB")
	return nil
}

// startReconnectLocked launches the retry loop once; d.mu must be held
func (d *Database) startReconnectLocked() {
	if d.reconnecting {
		return
	}
	d.reconnecting = true

	go func() {
		ticker := time.NewTicker(reconnectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logger.Info("Retrying MongoDB connection...", "DB")
				if err := d.Connect(); err == nil {
					d.mu.Lock()
					d.reconnecting = false
					d.mu.Unlock()
					d.reconnected()
					return
				}
			case <-d.stopReconnect:
				return
			}
		}
	}()
}

// OnReconnect registers fn to run each time the retry loop gets the
// connection back
func (d *Database) OnReconnect(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onReconnect = append(d.onReconnect, fn)
}

func (d *Database) reconnected() {
	d.mu.RLock()
	hooks := append([]func(){}, d.onReconnect...)
	d.mu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}

// MarkDisconnected is called when an operation fails with a network error
func (d *Database) MarkDisconnected() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return
	}
	d.connected = false
	logger.Warn("Lost the MongoDB connection, console is read-only until it comes back", "DB")
	d.startReconnectLocked()
}

// Connected reports whether the last connection attempt succeeded
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Disconnect closes the database connection
func (d *Database) Disconnect() error {
	d.stopOnce.Do(func() { close(d.stopReconnect) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.connected = false
	logger.Warn("MongoDB connection closed", "DB")
	return nil
}

// Latency measures the database response time
func (d *Database) Latency(ctx context.Context) (time.Duration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected || d.client == nil {
		return 0, errors.StorageUnavailable(nil, "ping")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return 0, errors.StorageUnavailable(err, "ping")
	}
	return time.Since(start), nil
}

// GetStatus returns a display string and whether the database answers
func (d *Database) GetStatus() (string, bool) {
	if _, err := d.Latency(context.Background()); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | Online", true
}

// GetCollection returns a MongoDB collection, or nil before the first connection
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// Name, Ping and Close make Database a store.Backend

func (d *Database) Name() string { return "mongo" }

func (d *Database) Ping(ctx context.Context) error {
	_, err := d.Latency(ctx)
	return err
}

func (d *Database) Close(_ context.Context) error {
	return d.Disconnect()
}
