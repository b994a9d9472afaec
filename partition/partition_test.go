package partition

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Even(t *testing.T) {
	plan, err := Split(12, 4)
	require.NoError(t, err)
	assert.Equal(t, Plan{{0, 3}, {3, 6}, {6, 9}, {9, 12}}, plan)
}

func TestSplit_RemainderGoesToLast(t *testing.T) {
	plan, err := Split(10, 3)
	require.NoError(t, err)
	assert.Equal(t, Plan{{0, 3}, {3, 6}, {6, 10}}, plan)
	assert.Equal(t, []int{3, 3, 4}, plan.Counts())
	assert.Equal(t, []int{0, 3, 6}, plan.Displs())
}

func TestSplit_MoreWorkersThanElements(t *testing.T) {
	plan, err := Split(3, 5)
	require.NoError(t, err)
	require.Len(t, plan, 5)
	for _, r := range plan[:4] {
		assert.Equal(t, 0, r.Len())
	}
	assert.Equal(t, Range{0, 3}, plan[4])
	assert.True(t, plan.Covers(3))
}

func TestSplit_Coverage(t *testing.T) {
	for total := 1; total <= 200; total += 7 {
		for n := 1; n <= 17; n++ {
			plan, err := Split(total, n)
			require.NoError(t, err)
			require.Len(t, plan, n)
			require.True(t, plan.Covers(total), "total=%d n=%d plan=%v", total, n, plan)
			assert.Equal(t, total, plan.Total())

			sum := 0
			for _, c := range plan.Counts() {
				sum += c
			}
			assert.Equal(t, total, sum)
		}
	}
}

func TestSplit_InvalidInput(t *testing.T) {
	_, err := Split(10, 0)
	assert.ErrorIs(t, err, ErrInvalidWorkers)

	_, err = Split(10, -3)
	assert.ErrorIs(t, err, ErrInvalidWorkers)

	_, err = Split(-1, 2)
	assert.ErrorIs(t, err, ErrInvalidTotal)
}

func TestPlan_Covers(t *testing.T) {
	assert.True(t, Plan{}.Covers(0))
	assert.False(t, Plan{{0, 2}, {3, 5}}.Covers(5), "gap")
	assert.False(t, Plan{{0, 3}, {2, 5}}.Covers(5), "overlap")
	assert.False(t, Plan{{0, 3}, {3, 4}}.Covers(5), "short")
}

func TestPlan_CheckWidth(t *testing.T) {
	plan, err := Split(1024*1024*314, 4)
	require.NoError(t, err)
	assert.NoError(t, plan.CheckWidth(math.MaxInt32))

	plan, err = Split(10, 2)
	require.NoError(t, err)
	err = plan.CheckWidth(4)

	var oe *OverflowError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, 0, oe.Worker)
	assert.Equal(t, "count", oe.Field)
	assert.Equal(t, int64(5), oe.Value)

	err = Plan{{0, 3}, {6, 9}}.CheckWidth(5)
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, 1, oe.Worker)
	assert.Equal(t, "offset", oe.Field)
}

func TestRange(t *testing.T) {
	r := Range{Start: 4, End: 8}
	assert.Equal(t, 4, r.Len())
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(8))
	assert.Equal(t, "[4, 8)", r.String())
}
