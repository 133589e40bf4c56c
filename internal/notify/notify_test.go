package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticesExpire(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	feed := NewFeed(WithTTL(5*time.Second), WithClock(func() time.Time { return *clock }))

	feed.Success("user created")
	feed.Error("failed to delete order")

	active := feed.Active()
	require.Len(t, active, 2)
	assert.Equal(t, LevelSuccess, active[0].Level)
	assert.Equal(t, "user created", active[0].Message)

	now = now.Add(6 * time.Second)
	assert.Empty(t, feed.Active(), "notices auto-dismiss after the TTL")
}

func TestActiveReturnsCopy(t *testing.T) {
	feed := NewFeed()
	feed.Success("one")

	active := feed.Active()
	active[0].Message = "mutated"

	assert.Equal(t, "one", feed.Active()[0].Message)
}
