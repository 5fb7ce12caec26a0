package committer

import (
	"errors"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCommitPlan(t *testing.T) {
	plan := NewPlan()
	assert.True(t, plan.IsEmpty())

	plan.Add(nil)
	assert.True(t, plan.IsEmpty())

	plan.Add(spanner.Delete("analytics_outbox", spanner.Key{"e1"}))
	plan.AddMultiple([]*spanner.Mutation{
		spanner.Delete("analytics_outbox", spanner.Key{"e2"}),
		nil,
	})
	assert.Equal(t, 2, plan.Count())
	assert.Len(t, plan.Mutations(), 2)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(status.Error(codes.Aborted, "txn aborted")))
	assert.True(t, IsRetryable(status.Error(codes.Unavailable, "down")))
	assert.False(t, IsRetryable(status.Error(codes.NotFound, "no table")))
	assert.False(t, IsRetryable(errors.New("plain")))
}
