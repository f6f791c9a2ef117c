package db

import (
	"strings"

	"github.com/teranos/standoff/errors"
)

// ErrDatabaseClosed is returned when a lookup runs after the store was closed,
// typically a watch-triggered conversion racing CLI shutdown.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err is ErrDatabaseClosed or the raw
// database/sql message for a closed handle, which the driver does not let us wrap.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
