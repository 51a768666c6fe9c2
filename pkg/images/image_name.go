package images

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewImageName builds the stored name img-{epochMillis}-{4 base36 chars}{ext},
// keeping the extension of the uploaded file.
func NewImageName(originalName string, now time.Time) string {
	return fmt.Sprintf("img-%d-%s%s", now.UnixMilli(), randomBase36(4), filepath.Ext(originalName))
}

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
