package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatch_CancelledContext(t *testing.T) {
	e := New(nil)
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Watch(ctx, t.TempDir(), time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatch_MissingRoot(t *testing.T) {
	e := New(nil)
	defer e.Close()

	err := e.Watch(context.Background(), "/does/not/exist", time.Millisecond)
	assert.Error(t, err)
}
