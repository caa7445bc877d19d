// Package db holds the sqlite helpers shared by the stores: connection,
// migrations, transactions and a small key/value table.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/russross/meddler"
)

const tableKVName = "key_value"

var (
	ErrNotFound = errors.New("not found")
	funcTimeNow = time.Now
)

// NewSQLiteDB opens dbPath with foreign keys on, WAL journaling and exclusive write transactions
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?_txlock=exclusive&_foreign_keys=on&_journal_mode=WAL", dbPath))
}

// ReturnErrNotFound maps sql.ErrNoRows to ErrNotFound
func ReturnErrNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// KeyValueStorage stores small values per owner in the base key_value table.
// A nil Querier argument uses the database itself.
type KeyValueStorage struct {
	*sql.DB
}

func NewKeyValueStorage(db *sql.DB) *KeyValueStorage {
	return &KeyValueStorage{db}
}

type kvRow struct {
	Owner     string `meddler:"owner"`
	Key       string `meddler:"key"`
	Value     string `meddler:"value"`
	UpdatedAt int64  `meddler:"updated_at"`
}

func (kv *KeyValueStorage) querier(tx Querier) Querier {
	if tx == nil {
		return kv.DB
	}
	return tx
}

func (kv *KeyValueStorage) InsertValue(tx Querier, owner, key, value string) error {
	row := &kvRow{Owner: owner, Key: key, Value: value, UpdatedAt: funcTimeNow().Unix()}
	return meddler.Insert(kv.querier(tx), tableKVName, row)
}

// UpdateValue returns ErrNotFound when the key does not exist
func (kv *KeyValueStorage) UpdateValue(tx Querier, owner, key, value string) error {
	res, err := kv.querier(tx).Exec(
		fmt.Sprintf("UPDATE %s SET value = $1, updated_at = $2 WHERE owner = $3 AND key = $4;", tableKVName),
		value, funcTimeNow().Unix(), owner, key)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (kv *KeyValueStorage) GetValue(tx Querier, owner, key string) (string, error) {
	var row kvRow
	err := meddler.QueryRow(kv.querier(tx), &row,
		fmt.Sprintf("SELECT * FROM %s WHERE owner = $1 AND key = $2 LIMIT 1;", tableKVName), owner, key)
	return row.Value, ReturnErrNotFound(err)
}

func (kv *KeyValueStorage) ExistsKey(tx Querier, owner, key string) (bool, error) {
	var count int
	err := kv.querier(tx).QueryRow(
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE owner = $1 AND key = $2;", tableKVName), owner, key).Scan(&count)
	return count > 0, err
}
