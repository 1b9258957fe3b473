package badger

import (
	"fmt"

	"github.com/poiesic/searchlight/core"
)

// Key prefixes for different data types
const (
	articleRecordPrefix = "artrec"
)

// makeArticleKey generates a key for an article by ID.
func makeArticleKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", articleRecordPrefix, id))
}
