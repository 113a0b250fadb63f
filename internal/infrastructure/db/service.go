package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/ports"
	badgerdb "github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/badger"
	pgdb "github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/postgres"
	sqlitedb "github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/sqlite"
	watermilldb "github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/watermill"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

//go:embed sqlite/migration/*
var migrations embed.FS

//go:embed postgres/migration/*
var pgMigration embed.FS

var (
	eventStoreTypes = map[string]func(...interface{}) (domain.EventRepository, error){
		"inmemory": watermilldb.NewEventRepository,
		"postgres": watermilldb.NewEventRepository,
	}
	coinStoreTypes = map[string]func(...interface{}) (domain.CoinRepository, error){
		"badger":   badgerdb.NewCoinRepository,
		"sqlite":   sqlitedb.NewCoinRepository,
		"postgres": pgdb.NewCoinRepository,
	}
	accountStoreTypes = map[string]func(...interface{}) (domain.AccountRepository, error){
		"badger":   badgerdb.NewAccountRepository,
		"sqlite":   sqlitedb.NewAccountRepository,
		"postgres": pgdb.NewAccountRepository,
	}
	allocatorTypes = map[string]func(...interface{}) (domain.IndexAllocator, error){
		"badger":   badgerdb.NewIndexAllocator,
		"sqlite":   sqlitedb.NewIndexAllocator,
		"postgres": pgdb.NewIndexAllocator,
	}
)

const (
	sqliteDbFile = "sqlite.db"
)

type ServiceConfig struct {
	EventStoreType string
	DataStoreType  string

	EventStoreConfig []interface{}
	DataStoreConfig  []interface{}

	// Allocator, if set, replaces the one backed by the data store.
	Allocator domain.IndexAllocator
}

// txRunner is implemented by every coin repository: all the repositories of a data store share
// the transaction it opens.
type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type service struct {
	eventStore   domain.EventRepository
	coinStore    domain.CoinRepository
	accountStore domain.AccountRepository
	allocator    domain.IndexAllocator
	txRunner     txRunner
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	eventStoreFactory, ok := eventStoreTypes[config.EventStoreType]
	if !ok {
		return nil, fmt.Errorf("event store type not supported")
	}
	coinStoreFactory, ok := coinStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("coin store type not supported")
	}
	accountStoreFactory, ok := accountStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}
	allocatorFactory, ok := allocatorTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}

	var eventStore domain.EventRepository
	var coinStore domain.CoinRepository
	var accountStore domain.AccountRepository
	var allocator domain.IndexAllocator
	var err error

	switch config.EventStoreType {
	case "inmemory":
		eventStore, err = eventStoreFactory()
		if err != nil {
			return nil, fmt.Errorf("failed to open event store: %s", err)
		}
	case "postgres":
		db, err := openPostgres(config.EventStoreConfig)
		if err != nil {
			return nil, err
		}

		eventStore, err = eventStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to open event store: %s", err)
		}
	}

	switch config.DataStoreType {
	case "badger":
		coinStore, err = coinStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to open coin store: %s", err)
		}
		// Accounts and allocator live in the same store of the coins so that a single badger
		// transaction spans all of them.
		ledger, ok := coinStore.(interface{ GetStore() *badgerhold.Store })
		if !ok {
			return nil, fmt.Errorf("failed to get badger ledger store")
		}
		sharedConfig := append(config.DataStoreConfig, ledger.GetStore())
		accountStore, err = accountStoreFactory(sharedConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to open account store: %s", err)
		}
		allocator, err = allocatorFactory(sharedConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to open index allocator: %s", err)
		}

	case "postgres":
		db, err := openPostgres(config.DataStoreConfig)
		if err != nil {
			return nil, err
		}

		pgDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres migration driver: %s", err)
		}

		source, err := iofs.New(pgMigration, "postgres/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed postgres migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "postgres", pgDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run postgres migrations: %s", err)
		}

		if coinStore, accountStore, allocator, err = openSqlStores(
			db, coinStoreFactory, accountStoreFactory, allocatorFactory,
		); err != nil {
			return nil, err
		}

	case "sqlite":
		if len(config.DataStoreConfig) != 1 {
			return nil, fmt.Errorf("invalid data store config")
		}

		baseDir, ok := config.DataStoreConfig[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid base directory")
		}

		dbFile := filepath.Join(baseDir, sqliteDbFile)
		db, err := sqlitedb.OpenDb(dbFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %s", err)
		}

		driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init driver: %s", err)
		}

		source, err := iofs.New(migrations, "sqlite/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "fvmbridgedb", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run migrations: %s", err)
		}

		if coinStore, accountStore, allocator, err = openSqlStores(
			db, coinStoreFactory, accountStoreFactory, allocatorFactory,
		); err != nil {
			return nil, err
		}
	}

	runner, ok := coinStore.(txRunner)
	if !ok {
		return nil, fmt.Errorf("coin store of type %s does not support transactions", config.DataStoreType)
	}

	if config.Allocator != nil {
		// The dropped db allocator shares the store of the coins and is released with it, the
		// external one is owned by the service and closed in Close.
		log.Debug("using external index allocator")
		allocator = config.Allocator
	}

	return &service{
		eventStore:   eventStore,
		coinStore:    coinStore,
		accountStore: accountStore,
		allocator:    allocator,
		txRunner:     runner,
	}, nil
}

func (s *service) Events() domain.EventRepository {
	return s.eventStore
}

func (s *service) Coins() domain.CoinRepository {
	return s.coinStore
}

func (s *service) Accounts() domain.AccountRepository {
	return s.accountStore
}

func (s *service) Allocator() domain.IndexAllocator {
	return s.allocator
}

func (s *service) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.txRunner.RunInTx(ctx, fn)
}

func (s *service) Close() {
	s.eventStore.Close()
	s.allocator.Close()
	s.accountStore.Close()
	s.coinStore.Close()
}

func openPostgres(config []interface{}) (*sql.DB, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid store config for postgres")
	}

	dsn, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid DSN for postgres")
	}

	autoCreate, ok := config[1].(bool)
	if !ok {
		return nil, fmt.Errorf("invalid autocreate flag for postgres")
	}

	db, err := pgdb.OpenDb(dsn, autoCreate)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %s", err)
	}
	return db, nil
}

func openSqlStores(
	db *sql.DB,
	coinStoreFactory func(...interface{}) (domain.CoinRepository, error),
	accountStoreFactory func(...interface{}) (domain.AccountRepository, error),
	allocatorFactory func(...interface{}) (domain.IndexAllocator, error),
) (domain.CoinRepository, domain.AccountRepository, domain.IndexAllocator, error) {
	coinStore, err := coinStoreFactory(db)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open coin store: %s", err)
	}
	accountStore, err := accountStoreFactory(db)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open account store: %s", err)
	}
	allocator, err := allocatorFactory(db)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open index allocator: %s", err)
	}
	return coinStore, accountStore, allocator, nil
}
