package m_outbox

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDDL(t *testing.T) {
	stmts := DDL()
	require.Len(t, stmts, 2)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE analytics_outbox"))
	assert.True(t, strings.HasPrefix(stmts[1], "CREATE INDEX analytics_outbox_by_status"))
	for _, col := range Columns() {
		assert.Contains(t, stmts[0], col)
	}
}

func TestModel_Mutations(t *testing.T) {
	m := NewModel()

	assert.NotNil(t, m.InsertMut(&Data{EventID: "e1", EventType: "cart_viewed", Status: StatusPending}))
	assert.NotNil(t, m.MarkPublishedMut("e1", time.Now()))
	assert.NotNil(t, m.MarkAttemptMut("e1", 1, 5, "broker down"))
}
