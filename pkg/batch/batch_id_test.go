package batch

import (
	"Lote-Tracker/entities"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

var varcharSize = regexp.MustCompile(`^varchar\((\d+)\)$`)

func columnWidth(t *testing.T, model interface{}, field string) int {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	f := s.LookUpField(field)
	require.NotNil(t, f, field)
	m := varcharSize.FindStringSubmatch(string(f.DataType))
	require.Len(t, m, 2, "unexpected type %q", f.DataType)

	n, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	return n
}

func TestNewBatchIDFormat(t *testing.T) {
	id := NewBatchID("uvas", time.UnixMilli(1752667444299), 599)
	assert.Equal(t, "uvas-1752667444299-599", id)
}

func TestLongestBatchIDFitsColumns(t *testing.T) {
	nombreWidth := columnWidth(t, &entities.Batch{}, "nombre")
	id := NewBatchID(strings.Repeat("n", nombreWidth), time.UnixMilli(9999999999999), 999)

	assert.LessOrEqual(t, len(id), columnWidth(t, &entities.Batch{}, "id"))
	assert.LessOrEqual(t, len(id), columnWidth(t, &entities.Image{}, "lote_id"))
}
