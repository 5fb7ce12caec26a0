package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Select(t *testing.T) {
	t.Run("all columns", func(t *testing.T) {
		stmt := From("analytics_outbox").Build()
		assert.Equal(t, "SELECT * FROM analytics_outbox", stmt.SQL)
		assert.Empty(t, stmt.Params)
	})

	t.Run("filters, order and pagination", func(t *testing.T) {
		stmt := From("analytics_outbox").
			Select("event_id", "event_type").
			Where(Eq("status", "pending")).
			Where(Eq("cart_id", "c1")).
			OrderBy("created_at", Asc).
			Limit(50).
			Offset(100).
			Build()

		assert.Equal(t, "SELECT event_id, event_type FROM analytics_outbox WHERE status = @p0 AND cart_id = @p1 ORDER BY created_at ASC LIMIT @limit OFFSET @offset", stmt.SQL)
		assert.Equal(t, map[string]interface{}{
			"p0":     "pending",
			"p1":     "c1",
			"limit":  int64(50),
			"offset": int64(100),
		}, stmt.Params)
	})

	t.Run("descending order", func(t *testing.T) {
		stmt := From("analytics_outbox").Select("event_id").OrderBy("created_at", Desc).Build()
		assert.Equal(t, "SELECT event_id FROM analytics_outbox ORDER BY created_at DESC", stmt.SQL)
	})
}

func TestBuilder_Count(t *testing.T) {
	base := From("analytics_outbox").
		Select("event_id").
		Where(Eq("status", "failed")).
		OrderBy("created_at", Desc).
		Limit(10)

	count := base.Count().Build()
	assert.Equal(t, "SELECT COUNT(*) FROM analytics_outbox WHERE status = @p0", count.SQL)
	assert.Equal(t, map[string]interface{}{"p0": "failed"}, count.Params)

	assert.Contains(t, base.Build().SQL, "LIMIT @limit", "base builder is unchanged")
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("analytics_outbox").Select("event_id")

	pending := base.Where(Eq("status", "pending")).Build()
	byCart := base.Where(Eq("cart_id", "c1")).Build()

	assert.Contains(t, pending.SQL, "status = @p0")
	assert.NotContains(t, pending.SQL, "cart_id")
	assert.Contains(t, byCart.SQL, "cart_id = @p0")
	assert.NotContains(t, byCart.SQL, "status")
}

func TestBuilder_GroupedConditions(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	stmt := From("analytics_outbox").
		Select("COUNT(*)").
		Where(Or(
			And(Eq("status", "published"), Lt("published_at", cutoff)),
			And(Eq("status", "failed"), Lt("created_at", cutoff)),
		)).
		Build()

	assert.Equal(t, "SELECT COUNT(*) FROM analytics_outbox WHERE ((status = @p0 AND published_at < @p1) OR (status = @p2 AND created_at < @p3))", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "published",
		"p1": cutoff,
		"p2": "failed",
		"p3": cutoff,
	}, stmt.Params)
}

func TestBuilder_NullConditions(t *testing.T) {
	stmt := From("analytics_outbox").
		Select("event_id").
		Where(IsNull("published_at")).
		Where(IsNotNull("last_error")).
		Where(Eq("status", "pending")).
		Build()

	assert.Equal(t, "SELECT event_id FROM analytics_outbox WHERE published_at IS NULL AND last_error IS NOT NULL AND status = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": "pending"}, stmt.Params)
}

func TestBuilder_BuildDelete(t *testing.T) {
	stmt := From("analytics_outbox").
		Where(Eq("status", "published")).
		Where(Lt("published_at", "2026-01-01T00:00:00Z")).
		BuildDelete()

	assert.Equal(t, "DELETE FROM analytics_outbox WHERE status = @p0 AND published_at < @p1", stmt.SQL)
	assert.Len(t, stmt.Params, 2)

	all := From("analytics_outbox").BuildDelete()
	assert.Equal(t, "DELETE FROM analytics_outbox WHERE true", all.SQL)
}
