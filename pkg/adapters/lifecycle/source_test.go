package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vlifecycle "github.com/aretw0/voxnote/pkg/adapters/lifecycle"
	"github.com/aretw0/voxnote/pkg/core"
)

func TestSourceRelaysEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	upstream := make(chan core.Event, 2)
	src := vlifecycle.NewSource(upstream)
	require.NoError(t, src.Start(ctx))

	upstream <- core.Event{Type: core.EventCreate, Key: "10/17/2026, 3:04:05 PM"}
	close(upstream)

	select {
	case e := <-src.Events():
		assert.Equal(t, "CREATE 10/17/2026, 3:04:05 PM", e.String())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "events should close with upstream")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for close")
	}
}
