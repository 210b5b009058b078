package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/store/memory"
	"github.com/sethtw/saga-sub000/internal/store/model"
)

func usageRow(id string) *model.UsageRow {
	return &model.UsageRow{
		ID:        id,
		Provider:  "alpha",
		Model:     "m-a",
		Tokens:    10,
		Success:   true,
		CreatedAt: time.Now(),
	}
}

func persistedCount(repo *memory.Repository) int {
	rows, err := repo.Usage().Recent(context.Background(), 0)
	if err != nil {
		return -1
	}
	return len(rows)
}

func TestIngestor_FlushesFullBatch(t *testing.T) {
	repo := memory.New()
	ing := &ingestor{
		logger:    zap.NewNop(),
		repo:      repo,
		logChan:   make(chan *model.UsageRow, 10),
		batchSize: 2,
		flushTime: time.Hour, // only the batch size can trigger the flush
	}
	ing.Start(context.Background())
	defer ing.Stop()

	ing.Log(usageRow("a"))
	ing.Log(usageRow("b"))

	assert.Eventually(t, func() bool {
		return persistedCount(repo) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestIngestor_TickerFlushesPartialBatch(t *testing.T) {
	repo := memory.New()
	ing := &ingestor{
		logger:    zap.NewNop(),
		repo:      repo,
		logChan:   make(chan *model.UsageRow, 10),
		batchSize: 100,
		flushTime: 10 * time.Millisecond,
	}
	ing.Start(context.Background())
	defer ing.Stop()

	ing.Log(usageRow("a"))

	assert.Eventually(t, func() bool {
		return persistedCount(repo) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestIngestor_DrainsOnStop(t *testing.T) {
	repo := memory.New()
	ing := &ingestor{
		logger:    zap.NewNop(),
		repo:      repo,
		logChan:   make(chan *model.UsageRow, 10),
		batchSize: 100,
		flushTime: time.Hour,
	}
	ing.Start(context.Background())

	ing.Log(usageRow("a"))
	ing.Log(usageRow("b"))
	ing.Log(usageRow("c"))
	ing.Stop()

	assert.Eventually(t, func() bool {
		return persistedCount(repo) == 3
	}, time.Second, 5*time.Millisecond)
}

func TestIngestor_DropsWhenBufferFull(t *testing.T) {
	// no worker draining the channel; the second row must be dropped
	// without blocking the caller
	ing := &ingestor{
		logger:    zap.NewNop(),
		repo:      memory.New(),
		logChan:   make(chan *model.UsageRow, 1),
		batchSize: 100,
		flushTime: time.Hour,
	}

	ing.Log(usageRow("kept"))
	ing.Log(usageRow("dropped"))

	assert.Len(t, ing.logChan, 1)
	assert.Equal(t, "kept", (<-ing.logChan).ID)
}
