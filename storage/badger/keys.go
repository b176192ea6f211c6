package badger

import (
	"fmt"

	"github.com/poiesic/qaembed/core"
)

// Key prefixes for different data types
const (
	resultRecordPrefix = "qares"
)

// makeResultKey generates a key for a result record by ID.
func makeResultKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", resultRecordPrefix, id))
}
