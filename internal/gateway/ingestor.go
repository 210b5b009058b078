package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/store"
	"github.com/sethtw/saga-sub000/internal/store/model"
)

// Ingestor handles the asynchronous persistence of usage rows.
type Ingestor interface {
	Log(row *model.UsageRow)
	Start(ctx context.Context)
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	logChan   chan *model.UsageRow
	batchSize int
	flushTime time.Duration
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	return &ingestor{
		logger:    logger,
		repo:      repo,
		logChan:   make(chan *model.UsageRow, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
	}
}

func (i *ingestor) Log(row *model.UsageRow) {
	select {
	case i.logChan <- row:
	default:
		i.logger.Warn("usage buffer full, dropping row", zap.String("id", row.ID))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

func (i *ingestor) Stop() {
	close(i.logChan)
}

func (i *ingestor) worker(ctx context.Context) {
	batch := make([]*model.UsageRow, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		for _, row := range batch {
			if err := i.repo.Usage().Log(context.Background(), row); err != nil {
				i.logger.Error("failed to persist usage row", zap.String("id", row.ID), zap.Error(err))
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case row, ok := <-i.logChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, row)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}
