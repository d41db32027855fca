package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type memoryCollection struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (c *memoryCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		c.docs = append(c.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	col := &memoryCollection{}
	h := newMongoHandler(col)

	log := slog.New(h).With("request_id", "abc123")
	log.Info("order created", "order_id", 7)
	log.WithGroup("cart").Warn("line skipped", "product_id", 99)
	h.Close()
	h.Close()

	require.Len(t, col.docs, 2)
	assert.Equal(t, "order created", col.docs[0].Msg)
	assert.Equal(t, "abc123", col.docs[0].RequestID)
	assert.EqualValues(t, 7, col.docs[0].Attrs["order_id"])
	assert.Equal(t, "WARN", col.docs[1].Level)
	assert.Contains(t, col.docs[1].Attrs, "cart.product_id")
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	var buf bytes.Buffer
	reqLog := slog.New(newHandler(&buf, true)).With("request_id", "r-1")
	ctx := InjectLogger(context.Background(), reqLog)

	WithCtx(ctx).Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"r-1"`)
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(NewMultiHandler(newHandler(&a, true), newHandler(&b, false)))
	log.Info("ping")

	assert.Contains(t, a.String(), `"msg":"ping"`)
	assert.Contains(t, b.String(), "msg=ping")
}
