package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kasir/pkg/event"
)

func TestFireRunsListenersInOrder(t *testing.T) {
	d := event.New()
	var got []string
	d.Listen(event.OrderCreated, func(_ context.Context, p interface{}) { got = append(got, "a:"+p.(string)) })
	d.Listen(event.OrderCreated, func(context.Context, interface{}) { panic("listener bug") })
	d.Listen(event.OrderCreated, func(_ context.Context, p interface{}) { got = append(got, "b:"+p.(string)) })
	d.Listen(event.LoginFailed, func(context.Context, interface{}) { got = append(got, "wrong") })

	d.Fire(context.Background(), event.OrderCreated, "42")

	assert.Equal(t, []string{"a:42", "b:42"}, got)
}

func TestFireAsyncSurvivesCancellation(t *testing.T) {
	d := event.New()
	var wg sync.WaitGroup
	wg.Add(1)

	var ctxErr error
	d.Listen(event.LoginSucceeded, func(ctx context.Context, _ interface{}) {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		ctxErr = ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.FireAsync(ctx, event.LoginSucceeded, nil)
	cancel()
	wg.Wait()

	assert.NoError(t, ctxErr)
}
