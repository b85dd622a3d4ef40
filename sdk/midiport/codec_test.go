package midiport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBytesKnownVector(t *testing.T) {
	word, err := EncodeBytes([]byte{0x90, 0x40, 0x7F})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x007F4090), word)
}

func TestDecodeEventAscendingSignificance(t *testing.T) {
	assert.Equal(t, [4]byte{0x90, 0x40, 0x7F, 0x00}, DecodeEvent(0x007F4090))
	assert.Equal(t, [4]byte{0xFF, 0x00, 0x00, 0x00}, DecodeEvent(0x000000FF))
	assert.Equal(t, [4]byte{0x00, 0x00, 0x00, 0xFF}, DecodeEvent(0xFF000000))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// Length 1: exhaustive.
	for v := 0; v < 256; v++ {
		seq := []byte{byte(v)}
		word, err := EncodeBytes(seq)
		require.NoError(t, err)
		decoded := DecodeEvent(word)
		assert.Equal(t, seq[0], decoded[0])
	}

	// Lengths 2..4: boundary byte values in every position.
	values := []byte{0x00, 0x01, 0x7F, 0x80, 0xFF}
	for length := 2; length <= 4; length++ {
		seq := make([]byte, length)
		var walk func(pos int)
		walk = func(pos int) {
			if pos == length {
				word, err := EncodeBytes(seq)
				require.NoError(t, err)
				decoded := DecodeEvent(word)
				assert.Equal(t, seq, append([]byte(nil), decoded[:length]...))
				return
			}
			for _, v := range values {
				seq[pos] = v
				walk(pos + 1)
			}
		}
		walk(0)
	}
}

func TestEncodeBytesRejectsBadLengths(t *testing.T) {
	_, err := EncodeBytes(nil)
	assert.Error(t, err)

	_, err = EncodeBytes([]byte{1, 2, 3, 4, 5})
	assert.Error(t, err)
}

func TestDecodeEventPadsShortMessages(t *testing.T) {
	word, err := EncodeBytes([]byte{0xC0, 0x05})
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0xC0, 0x05, 0x00, 0x00}, DecodeEvent(word))
}
