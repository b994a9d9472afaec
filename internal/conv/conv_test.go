//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	tests := []struct {
		in      int
		want    uint32
		wantErr bool
	}{
		{0, 0, false},
		{123, 123, false},
		{math.MaxUint32, math.MaxUint32, false},
		{-1, 0, true},
		{math.MaxUint32 + 1, 0, true},
	}
	for _, tt := range tests {
		got, err := IntToUint32(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrOverflow, "%d", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestIntToInt32(t *testing.T) {
	got, err := IntToInt32(math.MaxInt32)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), got)

	got, err = IntToInt32(math.MinInt32)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), got)

	_, err = IntToInt32(math.MaxInt32 + 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = IntToInt32(math.MinInt32 - 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestUint32ToInt(t *testing.T) {
	got, err := Uint32ToInt(math.MaxUint32)
	require.NoError(t, err)
	assert.Equal(t, math.MaxUint32, got)
}
