package tarball

import (
	"archive/tar"
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testFile struct {
	name, body string
}

// buildArchive writes the given files into an in-memory tar archive using the standard
// library's writer, so fixtures for corruption tests never depend on external tools.
func buildArchive(t *testing.T, files []testFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := tar.NewWriter(&buf)

	for _, tf := range files {
		err := w.WriteHeader(&tar.Header{
			Name:    tf.name,
			Mode:    0644,
			Size:    int64(len(tf.body)),
			ModTime: time.Unix(1234567890, 0),
		})
		require.NoErrorf(t, err, "WriteHeader(%s) error = %v", tf.name, err)

		_, err = w.Write([]byte(tf.body))
		require.NoErrorf(t, err, "Write(%s) error = %v", tf.name, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

// rawHeader builds a single header block by hand for names the standard library's writer
// would refuse or rewrite.
func rawHeader(t *testing.T, name []byte, size int64) []byte {
	t.Helper()
	require.LessOrEqual(t, len(name), nameLen)

	block := make([]byte, blockSize)
	copy(block[nameOff:], name)
	copy(block[modeOff:], "0000644\x00")
	copy(block[uidOff:], "0000000\x00")
	copy(block[gidOff:], "0000000\x00")
	copy(block[sizeOff:], fmt.Sprintf("%011o\x00", size))
	copy(block[mtimeOff:], "00000000000\x00")
	block[typeflagOff] = '0'
	copy(block[cksumOff:], fmt.Sprintf("%06o\x00 ", checksum(block)))
	return block
}

// rawArchive builds a complete single-file archive around a hand-built header.
func rawArchive(t *testing.T, name []byte, body []byte) []byte {
	t.Helper()

	arch := rawHeader(t, name, int64(len(body)))
	arch = append(arch, body...)
	if pad := len(body) % blockSize; pad != 0 {
		arch = append(arch, make([]byte, blockSize-pad)...)
	}
	return append(arch, make([]byte, 2*blockSize)...)
}
