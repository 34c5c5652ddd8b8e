package util

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewULID generates a new ULID string.
// ULIDs are time-sortable unique identifiers.
func NewULID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ExportFileName returns a unique, time-sortable file name such as
// "sales-01hx3k2m4n5p6q7r8s9t0v1w2x.html".
func ExportFileName(base, ext string) string {
	base = strings.TrimSuffix(base, ext)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "-" {
		base = "dfview"
	}
	return base + "-" + strings.ToLower(NewULID()) + ext
}
