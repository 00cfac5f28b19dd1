package fastint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{9, "9"},
		{10, "A"},
		{16, "01"},
		{26, "A1"},
		{255, "FF"},
		{256, "001"},
		{0x12345, "54321"},
		{math.MaxUint64, "FFFFFFFFFFFFFFFF"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Encode(tt.in), "Encode(%d)", tt.in)
	}
}

func TestDecode(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		values := []uint64{0, 1, 15, 16, 17, 4095, 4096, 1 << 31, 1<<63 + 12345, math.MaxUint64}
		for v := uint64(1); v < 1<<20; v = v*3 + 1 {
			values = append(values, v)
		}

		for _, v := range values {
			got, err := Decode(Encode(v))
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})

	t.Run("leading zero nibbles are accepted", func(t *testing.T) {
		got, err := Decode("A100")
		require.NoError(t, err)
		assert.Equal(t, uint64(26), got)
	})

	t.Run("rejects foreign tokens", func(t *testing.T) {
		for _, token := range []string{"", "a1", "G", "-1", "1 ", "0x1", "11111111111111111"} {
			_, err := Decode(token)
			assert.ErrorIs(t, err, ErrInvalid, "Decode(%q)", token)
		}
	})
}

func TestAppend(t *testing.T) {
	buf := Append([]byte("id "), 26)
	buf = append(buf, ' ')
	buf = Append(buf, 0)

	assert.Equal(t, "id A1 0", string(buf))
}
