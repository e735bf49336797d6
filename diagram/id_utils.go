package diagram

import "github.com/google/uuid"

// IDGenerator produces identifiers for new nodes and relationships.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

// nextFreeID calls gen until it yields a non-empty id that is not taken.
func nextFreeID(gen IDGenerator, taken func(string) bool) string {
	for {
		id := gen()
		if id != "" && !taken(id) {
			return id
		}
	}
}
