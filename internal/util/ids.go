// internal/util/ids.go
// ID untuk request (X-Request-ID) dan run batch worker

package util

import (
	"regexp"

	"github.com/google/uuid"
)

func NewID() string {
	return uuid.NewString()
}

// NewRunID id satu run batch, mis. "batch-1b4e...".
func NewRunID(kind string) string {
	return kind + "-" + uuid.NewString()
}

var reCleanID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// CleanID mengembalikan id kalau aman untuk log/header, selain itu "".
func CleanID(id string) string {
	if reCleanID.MatchString(id) {
		return id
	}
	return ""
}
