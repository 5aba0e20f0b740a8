package uploads

import (
	"crypto/rand"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const defaultExt = "jpg"

var allowedExts = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// Extension returns the lower-cased extension of fileName when it is an
// allowed image extension, and "jpg" otherwise.
func Extension(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if _, ok := allowedExts[ext]; !ok {
		return defaultExt
	}
	return ext
}

// NewKey returns the storage key "<userID>/<ulid>.<ext>" for an upload.
func NewKey(userID, fileName string) string {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyLock.Unlock()

	return userID + "/" + id.String() + "." + Extension(fileName)
}
