package codec

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Strategy string        `json:"strategy"`
	Workers  int           `json:"workers"`
	Active   int           `json:"active"`
	First    []uint32      `json:"first"`
	Sorted   bool          `json:"sorted"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

func TestCodecs_Interoperate(t *testing.T) {
	in := summary{Strategy: "dist", Workers: 4, Active: 3, First: []uint32{1, 2, 3}, Sorted: true, Elapsed: time.Second}

	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			var out summary
			require.NoError(t, dec.Unmarshal(MustMarshal(enc, in), &out), "%s -> %s", enc.Name(), dec.Name())
			assert.Equal(t, in, out)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil, map[string]int{"active": 7}))
	assert.Equal(t, "{\"active\":7}\n", buf.String())

	err := Encode(&buf, JSON{}, func() {})
	assert.Error(t, err)
}

func TestGoJSON_Append(t *testing.T) {
	out, err := GoJSON{}.Append([]byte("x="), []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "x=[1,2]", string(out))
}

func BenchmarkCodecMarshal(b *testing.B) {
	v := summary{Strategy: "threads", Workers: 8, Active: 1 << 20, First: []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = MustMarshal(c, v)
			}
		})
	}
}
