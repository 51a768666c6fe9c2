package batch

import (
	"fmt"
	"time"
)

// NewBatchID builds a readable batch identifier: the batch name, the creation
// time in epoch milliseconds and a random suffix in [0, 1000).
func NewBatchID(nombre string, createdAt time.Time, suffix int) string {
	return fmt.Sprintf("%s-%d-%d", nombre, createdAt.UnixMilli(), suffix)
}
