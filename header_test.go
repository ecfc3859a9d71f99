package tarball

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOctal(t *testing.T) {
	tests := []struct {
		name     string
		field    []byte
		expected int64
		wantErr  bool
	}{
		{
			name:     "NUL-padded",
			field:    []byte("00000000026\x00"),
			expected: 22,
		},
		{
			name:     "space-padded",
			field:    []byte("  6104\x00 "),
			expected: 0o6104,
		},
		{
			name:     "leading spaces",
			field:    []byte("   144 \x00"),
			expected: 100,
		},
		{
			name:    "empty",
			field:   []byte("\x00\x00\x00\x00\x00\x00\x00\x00"),
			wantErr: true,
		},
		{
			name:    "not octal",
			field:   []byte("0000zzz\x00"),
			wantErr: true,
		},
		{
			name:    "digit eight",
			field:   []byte("0000008\x00"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := parseOctal(tt.field)
			if tt.wantErr {
				assert.Errorf(t, err, "parseOctal(%q) expected an error, got %d", tt.field, n)
				return
			}

			assert.NoErrorf(t, err, "parseOctal(%q) error = %v", tt.field, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestChecksum(t *testing.T) {
	// An all-zero block sums to just the 8 checksum bytes counted as spaces.
	block := make([]byte, blockSize)
	assert.Equal(t, int64(' '*cksumLen), checksum(block))

	// Bytes inside the checksum field must not contribute to the sum.
	copy(block[cksumOff:], "1234567\x00")
	assert.Equal(t, int64(' '*cksumLen), checksum(block))

	block[0] = 'a'
	block[blockSize-1] = 1
	assert.Equal(t, int64(' '*cksumLen)+'a'+1, checksum(block))
}

func TestVerifyChecksum(t *testing.T) {
	block := rawHeader(t, []byte("a.txt"), 22)
	assert.NoError(t, verifyChecksum(block))

	block[0] ^= 0xff
	err := verifyChecksum(block)
	assert.ErrorIs(t, err, ErrInvalidArchive)
}

func TestDecodeHeader(t *testing.T) {
	block := rawHeader(t, []byte("path/to/a.txt"), 600)

	hdr, err := decodeHeader(block)
	assert.NoError(t, err)
	assert.Equal(t, []byte("path/to/a.txt"), hdr.name)
	assert.Equal(t, int64(600), hdr.size)
	assert.Equal(t, int64(0o644), hdr.mode)
	assert.Equal(t, byte('0'), hdr.typeflag)

	// An unparsable size field poisons the whole header.
	copy(block[sizeOff:], "zzzzzzzzzzz\x00")
	_, err = decodeHeader(block)
	assert.ErrorIs(t, err, ErrInvalidArchive)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, []byte("abc"), truncate([]byte("abc\x00\x00def")))
	assert.Equal(t, []byte("abc"), truncate([]byte("abc")))
	assert.Empty(t, truncate([]byte("\x00abc")))
}

func TestIsZeroBlock(t *testing.T) {
	block := make([]byte, blockSize)
	assert.True(t, isZeroBlock(block))

	block[blockSize-1] = 1
	assert.False(t, isZeroBlock(block))
}
