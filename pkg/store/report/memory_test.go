package report

import (
	"context"
	"testing"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestMemory_PutAndGet(t *testing.T) {
	store := NewMemory(func(r *domain.OverviewReport) string { return r.Hash })
	entity := &domain.OverviewReport{}
	entity.Hash = "hash-1"
	entity.TextAnalysis = "analysis"

	assert.NoError(t, store.Put(context.Background(), entity))

	got, err := store.Get(context.Background(), "hash-1")
	assert.NoError(t, err)
	assert.Equal(t, "analysis", got.TextAnalysis)
}

func TestMemory_MissingKeyReturnsNil(t *testing.T) {
	store := NewMemory(func(r *domain.OverviewReport) string { return r.Hash })

	got, err := store.Get(context.Background(), "absent")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_DuplicatePutFails(t *testing.T) {
	store := NewMemory(func(r *domain.OverviewReport) string { return r.Hash })
	entity := &domain.OverviewReport{}
	entity.Hash = "hash-1"

	assert.NoError(t, store.Put(context.Background(), entity))
	assert.Error(t, store.Put(context.Background(), entity))
}
