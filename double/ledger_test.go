package double

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLedger_IndexStrictlyIncreasing(t *testing.T) {
	l := NewLedger()
	spyID := uuid.New()

	for i := 0; i < 5; i++ {
		l.Append(spyID, uuid.New(), "op", nil)
	}

	snap := l.Snapshot()
	require.Len(t, snap, 5)
	for i, r := range snap {
		assert.Equal(t, int64(i+1), r.Index)
	}
}

func TestLedger_SnapshotIsACopy(t *testing.T) {
	l := NewLedger()
	l.Append(uuid.New(), uuid.New(), "op", []any{"a"})

	snap := l.Snapshot()
	snap[0].Method = "mutated"

	assert.Equal(t, "op", l.Snapshot()[0].Method)
}

func TestLedger_Clear_ResetsIndexAssignment(t *testing.T) {
	l := NewLedger()
	l.Append(uuid.New(), uuid.New(), "op", nil)
	l.Clear()

	assert.Equal(t, 0, l.Len())
	idx := l.Append(uuid.New(), uuid.New(), "op", nil)
	assert.Equal(t, int64(1), idx)
}

func TestLedger_ConcurrentAppends_UniqueIndices(t *testing.T) {
	l := NewLedger()
	spyID := uuid.New()

	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			l.Append(spyID, uuid.New(), "op", nil)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	snap := l.Snapshot()
	require.Len(t, snap, 100)
	seen := make(map[int64]bool, 100)
	for _, r := range snap {
		assert.False(t, seen[r.Index], "index %d assigned twice", r.Index)
		seen[r.Index] = true
	}
}
