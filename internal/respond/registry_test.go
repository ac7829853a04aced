package respond

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeinnovator/InsightFlow/internal/models"
	"go.uber.org/zap"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	def := &Definition{
		SurveyID:  1,
		ProjectID: 1,
		Questions: []models.Question{{ID: "q", Type: models.QuestionLikert, Scale: 5}},
	}
	s, err := Start(context.Background(), &stubSource{def: def}, "tok")
	require.NoError(t, err)
	return s
}

func TestRegistryPutGetRemove(t *testing.T) {
	r := NewRegistry(zap.NewNop(), time.Hour)
	s := newTestSession(t)

	r.Put(s)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = r.Get("unknown")
	assert.False(t, ok)

	r.Remove(s.ID())
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweepEvictsIdleSessions(t *testing.T) {
	r := NewRegistry(zap.NewNop(), 20*time.Millisecond)
	stale := newTestSession(t)
	r.Put(stale)

	time.Sleep(100 * time.Millisecond)
	fresh := newTestSession(t)
	r.Put(fresh)
	fresh.Touch()

	r.sweep()

	_, ok := r.Get(stale.ID())
	assert.False(t, ok, "stale session should be evicted")
	_, ok = r.Get(fresh.ID())
	assert.True(t, ok, "fresh session should survive the sweep")
}

// Doubled-up requests and the sweeper hit the same session from different
// goroutines; run with -race.
func TestRegistryConcurrentRequestsAndSweep(t *testing.T) {
	r := NewRegistry(zap.NewNop(), time.Hour)
	s := newTestSession(t)
	r.Put(s)

	var wg sync.WaitGroup
	start := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < 500; i++ {
			if got, ok := r.Get(s.ID()); ok {
				_ = got.RecordAnswer(LikertAnswer(3))
				got.CanAdvance()
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < 500; i++ {
			if got, ok := r.Get(s.ID()); ok {
				_ = got.RecordAnswer(LikertAnswer(5))
				got.State()
				got.CurrentIndex()
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < 500; i++ {
			r.sweep()
		}
	}()

	close(start)
	wg.Wait()

	got, ok := r.Get(s.ID())
	require.True(t, ok, "active session must survive the sweeps")
	a, ok := got.AnswerAt(0)
	require.True(t, ok)
	assert.Contains(t, []Answer{LikertAnswer(3), LikertAnswer(5)}, a)
}
