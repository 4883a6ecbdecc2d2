package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Appcraft/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTracker(clock *fakeClock) *Tracker {
	return NewTracker(time.Hour, nil, WithClock(clock.Now))
}

func TestResolveCreatesSessionWithFreshProject(t *testing.T) {
	tr := newTracker(&fakeClock{t: time.Unix(0, 0)})

	s, created := tr.Resolve("", "", "")

	assert.True(t, created)
	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, s.ProjectID)
	assert.Equal(t, AnonymousUser, s.UserID)
	assert.Empty(t, s.History)
}

func TestResolveAdoptsSuppliedIDs(t *testing.T) {
	tr := newTracker(&fakeClock{})

	s, created := tr.Resolve("s1", "p1", "u1")

	assert.True(t, created)
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "p1", s.ProjectID)
	assert.Equal(t, "u1", s.UserID)
}

func TestResolveReusesProjectForExistingSession(t *testing.T) {
	tr := newTracker(&fakeClock{})
	first, _ := tr.Resolve("s1", "", "")

	again, created := tr.Resolve("s1", "other-project", "")

	assert.False(t, created)
	assert.Equal(t, first.ProjectID, again.ProjectID)
}

func TestResolveKeepsSignedInSessionsPrivate(t *testing.T) {
	tr := newTracker(&fakeClock{})
	owned, _ := tr.Resolve("s1", "p1", "u1")
	tr.Append(owned.ID, models.Turn{Role: models.RoleUser, Content: "secret plan"})

	for _, caller := range []string{"u2", ""} {
		s, created := tr.Resolve("s1", "", caller)
		assert.True(t, created, caller)
		assert.NotEqual(t, "s1", s.ID, caller)
		assert.NotEqual(t, "p1", s.ProjectID, caller)
		assert.Empty(t, s.History, caller)
	}

	mine, created := tr.Resolve("s1", "", "u1")
	assert.False(t, created)
	require.Len(t, mine.History, 1)
	assert.Equal(t, "secret plan", mine.History[0].Content)
}

func TestResolveSharesAnonymousSessions(t *testing.T) {
	tr := newTracker(&fakeClock{})
	tr.Resolve("s1", "p1", "")

	s, created := tr.Resolve("s1", "", "u1")
	assert.False(t, created)
	assert.Equal(t, "p1", s.ProjectID)
}

func TestAppendKeepsOrderAndReturnsCopies(t *testing.T) {
	tr := newTracker(&fakeClock{})
	tr.Resolve("s1", "", "")

	require.True(t, tr.Append("s1",
		models.Turn{Role: models.RoleUser, Content: "hi"},
		models.Turn{Role: models.RoleAssistant, Content: "hello"},
	))
	s, ok := tr.Get("s1")
	require.True(t, ok)
	require.Len(t, s.History, 2)
	assert.Equal(t, "hi", s.History[0].Content)
	assert.Equal(t, "hello", s.History[1].Content)

	s.History[0].Content = "mutated"
	again, _ := tr.Get("s1")
	assert.Equal(t, "hi", again.History[0].Content)

	assert.False(t, tr.Append("missing", models.Turn{}))
}

func TestSweepExpiresIdleSessionsOnly(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := newTracker(clock)
	tr.Resolve("old", "", "")
	clock.Advance(40 * time.Minute)
	tr.Resolve("fresh", "", "")
	clock.Advance(30 * time.Minute)

	removed := tr.Sweep()

	assert.Equal(t, 1, removed)
	_, oldOK := tr.Get("old")
	_, freshOK := tr.Get("fresh")
	assert.False(t, oldOK)
	assert.True(t, freshOK)
}

func TestActivityRefreshPreventsExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := newTracker(clock)
	tr.Resolve("s1", "", "")
	clock.Advance(50 * time.Minute)
	tr.Append("s1", models.Turn{Role: models.RoleUser, Content: "still here"})
	clock.Advance(50 * time.Minute)

	assert.Equal(t, 0, tr.Sweep())
	assert.Equal(t, 1, tr.Len())
}

func TestRunStopsWithContext(t *testing.T) {
	tr := NewTracker(time.Nanosecond, nil)
	tr.Resolve("s1", "", "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return tr.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
