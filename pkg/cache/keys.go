package cache

import "fmt"

// Key prefixes shared by the domains that read and invalidate each entry.
const (
	AuthorKeyPrefix = "author:"
	AuthorPattern   = AuthorKeyPrefix + "*"
)

// AuthorKey is the detail entry of one author, books included.
func AuthorKey(id int64) string {
	return fmt.Sprintf("%s%d", AuthorKeyPrefix, id)
}
