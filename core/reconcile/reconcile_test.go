package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter is a simple test adapter
type mockAdapter struct {
	name       string
	cached     map[string]Entry
	live       map[string]Entry
	cachedErr  error
	liveErr    error
	loads      atomic.Int32
	repaired   []string
	repairErr  error
	queryCalls int
}

func (m *mockAdapter) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockAdapter) Field() string { return "num_spells" }

func (m *mockAdapter) LoadCachedIndex(ctx context.Context) (map[string]Entry, error) {
	m.loads.Add(1)
	return m.cached, m.cachedErr
}

func (m *mockAdapter) LoadLiveIndex(ctx context.Context) (map[string]Entry, error) {
	return m.live, m.liveErr
}

func (m *mockAdapter) QueryOne(ctx context.Context, query Query) (string, *Entry, *Entry, error) {
	m.queryCalls++
	for key, e := range m.cached {
		if key == query.Key || e.Name == query.Name {
			c := e
			var l *Entry
			if le, ok := m.live[key]; ok {
				l = &le
			}
			return key, &c, l, nil
		}
	}
	return "", nil, nil, nil
}

func (m *mockAdapter) Repair(ctx context.Context, key string) error {
	if m.repairErr != nil {
		return m.repairErr
	}
	m.repaired = append(m.repaired, key)
	return nil
}

// batchAdapter adds BatchRepairer on top of mockAdapter.
type batchAdapter struct {
	*mockAdapter
	batches [][]string
}

func (b *batchAdapter) RepairBatch(ctx context.Context, keys []string) (int, error) {
	b.batches = append(b.batches, keys)
	return len(keys), nil
}

func fixtureAdapter() *mockAdapter {
	return &mockAdapter{
		cached: map[string]Entry{
			"1":  {Name: "Harry Potter", Value: 3},
			"2":  {Name: "Draco Malfoy", Value: 0},
			"10": {Name: "Luna Lovegood", Value: 1},
		},
		live: map[string]Entry{
			"1":  {Name: "Harry Potter", Value: 3},
			"2":  {Name: "Draco Malfoy", Value: 2},
			"99": {Name: "", Value: 1},
		},
	}
}

func TestReconcileAll(t *testing.T) {
	results, err := ReconcileAll(context.Background(), &Spec{Adapter: fixtureAdapter()})
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Numeric keys sort numerically.
	assert.Equal(t, []string{"1", "2", "10", "99"}, []string{results[0].Key, results[1].Key, results[2].Key, results[3].Key})

	assert.Empty(t, results[0].Mismatch)
	assert.Equal(t, []string{"num_spells: cached=0 live=2"}, results[1].Mismatch)

	// Stored value without live rows is compared against zero.
	assert.True(t, results[2].CachedPresent)
	assert.False(t, results[2].LivePresent)
	assert.Equal(t, []string{"num_spells: cached=1 live=0"}, results[2].Mismatch)

	// Orphan: live rows without a stored entity.
	assert.False(t, results[3].CachedPresent)
	assert.True(t, results[3].LivePresent)
	assert.Empty(t, results[3].Mismatch)
}

func TestBuildCache_ErrorHandling(t *testing.T) {
	tests := []struct {
		name      string
		cachedErr error
		liveErr   error
		expectErr string
	}{
		{name: "Cached load error", cachedErr: errors.New("cached error"), expectErr: "cached error"},
		{name: "Live load error", liveErr: errors.New("live error"), expectErr: "live error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &mockAdapter{cachedErr: tt.cachedErr, liveErr: tt.liveErr}
			cache, err := BuildCache(context.Background(), &Spec{Adapter: adapter})
			assert.ErrorContains(t, err, tt.expectErr)
			assert.Nil(t, cache)
		})
	}
}

func TestReconcileOne(t *testing.T) {
	t.Run("Targeted query without cache", func(t *testing.T) {
		adapter := fixtureAdapter()
		result, err := ReconcileOne(context.Background(), &Spec{Adapter: adapter}, Query{Name: "Draco Malfoy"})
		require.NoError(t, err)
		assert.Equal(t, "2", result.Key)
		assert.True(t, result.Drifted())
		assert.Equal(t, 1, adapter.queryCalls)
	})

	t.Run("Not found", func(t *testing.T) {
		result, err := ReconcileOne(context.Background(), &Spec{Adapter: fixtureAdapter()}, Query{Name: "Voldemort"})
		require.NoError(t, err)
		assert.False(t, result.CachedPresent)
		assert.False(t, result.LivePresent)
		assert.Equal(t, "Voldemort", result.Name)
	})

	t.Run("Cached indices", func(t *testing.T) {
		adapter := fixtureAdapter()
		adapter.name = "cached-one"
		spec := &Spec{Adapter: adapter, CacheTTL: time.Minute}
		defer InvalidateCache(spec)

		for i := 0; i < 3; i++ {
			result, err := ReconcileOne(context.Background(), spec, Query{Key: "10"})
			require.NoError(t, err)
			assert.Equal(t, "Luna Lovegood", result.Name)
		}
		assert.Equal(t, int32(1), adapter.loads.Load())
		assert.Zero(t, adapter.queryCalls)
	})
}

func TestCache_Expiry(t *testing.T) {
	assert.True(t, (&ReconcileCache{TTL: 0}).IsExpired())
	assert.False(t, (&ReconcileCache{TTL: time.Minute, Built: time.Now()}).IsExpired())
	assert.True(t, (&ReconcileCache{TTL: time.Millisecond, Built: time.Now().Add(-time.Second)}).IsExpired())
}

func TestReconcileWithPlan(t *testing.T) {
	t.Run("Report only", func(t *testing.T) {
		plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: fixtureAdapter()}, ReconcileOptions{})
		require.NoError(t, err)
		assert.Equal(t, PlanSummary{TotalItems: 4, Drifted: 2, Orphans: 1}, plan.Summary)
		assert.Empty(t, plan.Actions)
	})

	t.Run("Repair", func(t *testing.T) {
		plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: fixtureAdapter()}, ReconcileOptions{DoRepair: true})
		require.NoError(t, err)
		assert.Equal(t, 2, plan.Summary.RepairActions)
		require.Len(t, plan.Actions, 2)
		assert.Equal(t, Action{Type: ActionRepair, Key: "2", Name: "Draco Malfoy", Reason: "mismatch: [num_spells: cached=0 live=2]"}, plan.Actions[0])
		assert.Equal(t, "10", plan.Actions[1].Key)
	})
}

func TestApplyPlan(t *testing.T) {
	ctx := context.Background()
	opts := ReconcileOptions{DoRepair: true}

	t.Run("Not confirmed", func(t *testing.T) {
		adapter := fixtureAdapter()
		spec := &Spec{Adapter: adapter}
		plan, executed, err := ReconcileAndApply(ctx, spec, opts)
		require.NoError(t, err)
		assert.Zero(t, executed)
		assert.Len(t, plan.Actions, 2)
		assert.Empty(t, adapter.repaired)
	})

	t.Run("Dry run", func(t *testing.T) {
		adapter := fixtureAdapter()
		_, executed, err := ReconcileAndApply(ctx, &Spec{Adapter: adapter}, ReconcileOptions{DoRepair: true, Confirmed: true, DryRun: true})
		require.NoError(t, err)
		assert.Zero(t, executed)
		assert.Empty(t, adapter.repaired)
	})

	t.Run("One at a time", func(t *testing.T) {
		adapter := fixtureAdapter()
		_, executed, err := ReconcileAndApply(ctx, &Spec{Adapter: adapter}, ReconcileOptions{DoRepair: true, Confirmed: true})
		require.NoError(t, err)
		assert.Equal(t, 2, executed)
		assert.Equal(t, []string{"2", "10"}, adapter.repaired)
	})

	t.Run("Batch", func(t *testing.T) {
		adapter := &batchAdapter{mockAdapter: fixtureAdapter()}
		_, executed, err := ReconcileAndApply(ctx, &Spec{Adapter: adapter}, ReconcileOptions{DoRepair: true, Confirmed: true})
		require.NoError(t, err)
		assert.Equal(t, 2, executed)
		assert.Equal(t, [][]string{{"2", "10"}}, adapter.batches)
		assert.Empty(t, adapter.repaired)
	})

	t.Run("Repair error", func(t *testing.T) {
		adapter := fixtureAdapter()
		adapter.repairErr = errors.New("locked")
		_, executed, err := ReconcileAndApply(ctx, &Spec{Adapter: adapter}, ReconcileOptions{DoRepair: true, Confirmed: true})
		assert.ErrorContains(t, err, "failed to repair key 2")
		assert.Zero(t, executed)
	})
}

func TestLessKey(t *testing.T) {
	assert.True(t, lessKey("2", "10"))
	assert.False(t, lessKey("10", "2"))
	assert.True(t, lessKey("a", "b"))
	assert.True(t, lessKey("10", "a"))
}
