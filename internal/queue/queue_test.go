package queue

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadQueue_PopOrder(t *testing.T) {
	q := NewMin(4)
	q.PushItem(Head{Key: 7, List: 0})
	q.PushItem(Head{Key: 3, List: 2})
	q.PushItem(Head{Key: 9, List: 1})
	q.PushItem(Head{Key: 3, List: 1})

	var got []Head
	for q.Len() > 0 {
		h, ok := q.PopItem()
		require.True(t, ok)
		got = append(got, h)
	}

	assert.Equal(t, []Head{
		{Key: 3, List: 1},
		{Key: 3, List: 2},
		{Key: 7, List: 0},
		{Key: 9, List: 1},
	}, got)

	_, ok := q.PopItem()
	assert.False(t, ok)
	_, ok = q.TopItem()
	assert.False(t, ok)
}

func TestHeadQueue_ReplaceTop(t *testing.T) {
	q := NewMin(3)
	q.PushItem(Head{Key: 1, List: 0})
	q.PushItem(Head{Key: 5, List: 1})
	q.PushItem(Head{Key: 4, List: 2})

	q.ReplaceTop(Head{Key: 6, List: 0, Pos: 1})

	top, ok := q.TopItem()
	require.True(t, ok)
	assert.Equal(t, uint32(4), top.Key)
	assert.Equal(t, 3, q.Len())
}

func TestHeadQueue_RandomOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	q := NewMin(0)
	want := make([]uint32, 0, 100)
	for i := range 100 {
		k := rng.Uint32N(1000)
		want = append(want, k)
		q.PushItem(Head{Key: k, List: i})
	}
	slices.Sort(want)

	got := make([]uint32, 0, 100)
	for q.Len() > 0 {
		h, ok := q.PopItem()
		require.True(t, ok)
		got = append(got, h.Key)
	}
	assert.Equal(t, want, got)
}
