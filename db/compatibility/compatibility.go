// Package compatibility guards a database against being reused with runtime
// settings that would make its content misleading.
//
// There are 3 cases:
//   - No data on DB: store the runtime data
//   - Same data on DB: nothing to do
//   - Different data on DB: error, or a warning when compatibility is not required
package compatibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xinsproject/servicecall/db"
	"github.com/xinsproject/servicecall/log"
)

const (
	// compatibilityContentKey is the key used to store the compatibility data in storage key/value table
	compatibilityContentKey = "compatibility_content"
)

var ErrIncompatibleData = errors.New("incompatible data")

type Logger interface {
	Warnf(template string, args ...interface{})
}

// CompatibilityComparer is implemented by the data that is checked
type CompatibilityComparer[T any] interface {
	fmt.Stringer
	// IsCompatible returns an error if the data in storage is not compatible
	IsCompatible(storage T) error
}

// CompatibilityDataStorager is the interface that defines the methods to interact with the storage
type CompatibilityDataStorager[T any] interface {
	// GetCompatibilityData returns whether data is stored, and the data
	GetCompatibilityData(ctx context.Context, tx db.Querier) (bool, T, error)
	// SetCompatibilityData stores the compatibility data in the storage
	SetCompatibilityData(ctx context.Context, tx db.Querier, data T) error
}

type CompatibilityDataGetter[T CompatibilityComparer[T]] func(ctx context.Context) (T, error)

type CompatibilityCheck[T CompatibilityComparer[T]] struct {
	RequireStorageContentCompatibility bool
	RuntimeDataGetter                  CompatibilityDataGetter[T]
	Storage                            CompatibilityDataStorager[T]
	Logger                             Logger
}

func NewCompatibilityCheck[T CompatibilityComparer[T]](
	requireStorageContentCompatibility bool,
	runtimeDataGetter CompatibilityDataGetter[T],
	storage CompatibilityDataStorager[T]) *CompatibilityCheck[T] {
	return &CompatibilityCheck[T]{
		RequireStorageContentCompatibility: requireStorageContentCompatibility,
		RuntimeDataGetter:                  runtimeDataGetter,
		Storage:                            storage,
	}
}

func (s *CompatibilityCheck[T]) Check(ctx context.Context, tx db.Querier) error {
	if err := s.initialize(); err != nil {
		return fmt.Errorf("compatibilityCheck: fails to initialize. Err: %w", err)
	}
	runtimeData, err := s.RuntimeDataGetter(ctx)
	if err != nil {
		return err
	}
	exists, storageData, err := s.Storage.GetCompatibilityData(ctx, tx)
	if err != nil {
		return fmt.Errorf("compatibilityCheck: error reading value from storage. Err: %w", err)
	}
	if !exists {
		return s.Storage.SetCompatibilityData(ctx, tx, runtimeData)
	}
	if err := runtimeData.IsCompatible(storageData); err != nil {
		if s.RequireStorageContentCompatibility {
			return fmt.Errorf("compatibilityCheck: data on DB is [%s] != runtime [%s]. Err: %w",
				storageData.String(), runtimeData.String(), err)
		}
		s.Logger.Warnf("compatibilityCheck: data on DB is [%s] != runtime [%s]. Err: %v",
			storageData.String(), runtimeData.String(), err)
	}
	return nil
}

func (s *CompatibilityCheck[T]) initialize() error {
	if s.Logger == nil {
		s.Logger = log.WithFields("module", "compatibilityCheck")
	}
	if s.RuntimeDataGetter == nil {
		return errors.New("compatibilityCheck: runtime data getter is nil, please set it")
	}
	if s.Storage == nil {
		return errors.New("compatibilityCheck: storage is nil, please set it")
	}
	return nil
}

type KeyValueStorager interface {
	InsertValue(tx db.Querier, owner, key, value string) error
	GetValue(tx db.Querier, owner, key string) (string, error)
}

// KeyValueToCompatibilityStorage keeps the compatibility data as JSON in a key/value storage
type KeyValueToCompatibilityStorage[T any] struct {
	KVStorage KeyValueStorager
	OwnerName string
}

func NewKeyValueToCompatibilityStorage[T any](kvStorage KeyValueStorager,
	ownerName string) *KeyValueToCompatibilityStorage[T] {
	return &KeyValueToCompatibilityStorage[T]{
		KVStorage: kvStorage,
		OwnerName: ownerName}
}

func (s *KeyValueToCompatibilityStorage[T]) GetCompatibilityData(_ context.Context,
	tx db.Querier) (bool, T, error) {
	var runtimeDataUnmarshaled T
	runtimeDataRaw, err := s.KVStorage.GetValue(tx, s.OwnerName, compatibilityContentKey)
	if errors.Is(err, db.ErrNotFound) {
		return false, runtimeDataUnmarshaled, nil
	}
	if err != nil {
		return false, runtimeDataUnmarshaled, err
	}
	if err := json.Unmarshal([]byte(runtimeDataRaw), &runtimeDataUnmarshaled); err != nil {
		return false, runtimeDataUnmarshaled,
			fmt.Errorf("compatibilityCheck: fails to unmarshal runtime data from storage. Err: %w", err)
	}
	return true, runtimeDataUnmarshaled, nil
}

func (s *KeyValueToCompatibilityStorage[T]) SetCompatibilityData(_ context.Context, tx db.Querier, data T) error {
	dataStr, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("compatibilityCheck: fails to marshal runtime data. Err: %w", err)
	}
	return s.KVStorage.InsertValue(tx, s.OwnerName, compatibilityContentKey, string(dataStr))
}
