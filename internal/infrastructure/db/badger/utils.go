package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/timshannon/badgerhold/v4"
)

const maxRetries = 5

func createDB(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// storeFromConfig returns the store passed at the given position of the config, if any, or opens
// a new one at baseDir/storeDir.
func storeFromConfig(storeDir string, config ...interface{}) (*badgerhold.Store, error) {
	if len(config) < 2 {
		return nil, fmt.Errorf("invalid config")
	}
	if len(config) > 2 && config[2] != nil {
		store, ok := config[2].(*badgerhold.Store)
		if !ok {
			return nil, fmt.Errorf("invalid store")
		}
		return store, nil
	}

	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, storeDir)
	}
	return createDB(dir, logger)
}

func txFromContext(ctx context.Context) *badger.Txn {
	if ctx.Value("tx") == nil {
		return nil
	}
	tx, _ := ctx.Value("tx").(*badger.Txn)
	return tx
}

// runInTx runs fn within the read-write transaction carried by the context if any, otherwise
// in a new one that is retried in case of conflicts.
func runInTx(
	ctx context.Context, store *badgerhold.Store, fn func(ctx context.Context, tx *badger.Txn) error,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(ctx, tx)
	}

	var err error
	for attempts := 0; attempts <= maxRetries; attempts++ {
		err = store.Badger().Update(func(tx *badger.Txn) error {
			//nolint:staticcheck
			return fn(context.WithValue(ctx, "tx", tx), tx)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		time.Sleep(100 * time.Millisecond)
	}
	return err
}
