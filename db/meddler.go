package db

import (
	"fmt"
	"time"

	"github.com/russross/meddler"
)

func init() {
	meddler.Default = meddler.SQLite
	meddler.Register("durationms", DurationMillisMeddler{})
}

// DurationMillisMeddler stores a time.Duration as an integer number of milliseconds
type DurationMillisMeddler struct{}

// PreRead is called before a Scan operation for fields that have the DurationMillisMeddler
func (d DurationMillisMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	// give a pointer to a int64 to grab the raw data
	return new(int64), nil
}

// PostRead is called after a Scan operation for fields that have the DurationMillisMeddler
func (d DurationMillisMeddler) PostRead(fieldPtr, scanTarget interface{}) error {
	ptr, ok := scanTarget.(*int64)
	if !ok {
		return fmt.Errorf("expected *int64 scan target, got %T", scanTarget)
	}
	field, ok := fieldPtr.(*time.Duration)
	if !ok {
		return fmt.Errorf("expected *time.Duration field, got %T", fieldPtr)
	}
	*field = time.Duration(*ptr) * time.Millisecond
	return nil
}

// PreWrite is called before an Insert or Update operation for fields that have the DurationMillisMeddler
func (d DurationMillisMeddler) PreWrite(fieldPtr interface{}) (saveValue interface{}, err error) {
	switch field := fieldPtr.(type) {
	case time.Duration:
		return field.Milliseconds(), nil
	case *time.Duration:
		if field == nil {
			return nil, nil
		}
		return field.Milliseconds(), nil
	default:
		return nil, fmt.Errorf("expected time.Duration, got %T", fieldPtr)
	}
}
