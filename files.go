package tarball

import (
	"fmt"
	"io"
	"iter"

	"github.com/valyala/bytebufferpool"
)

// Files is an iterator over the files of an archive.
//
// The first I/O error or malformed-archive condition stops the iterator for good: the
// error is reported once (by the Next call or All yield where it occurred, and by Err
// afterwards), and every subsequent Next reports no more files rather than the original
// failure.
//
// Files is not safe for use across multiple goroutines. Don't mix Next and All as they
// share the same offset cursor.
type Files struct {
	archive *Archive
	offset  int64
	done    bool
	err     error
}

// Err returns the error that stopped iteration, or nil if iteration has not been stopped
// or ended cleanly at the end-of-archive marker.
func (f *Files) Err() error {
	return f.err
}

// Next returns the next file in the archive.
//
// The boolean return value is false if there are no more files to go over, or if there
// was an error; use Err to tell the two apart.
func (f *Files) Next() (*File, bool) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	file, err := f.next(bb)
	if err != nil {
		f.err = err
		return nil, false
	}

	return file, file != nil
}

// All returns the remaining files as an iterator. Each yield is fallible: exactly one
// `nil, err` pair is yielded if iteration stops on an error.
func (f *Files) All() iter.Seq2[*File, error] {
	return func(yield func(*File, error) bool) {
		bb := bytebufferpool.Get()
		defer bytebufferpool.Put(bb)

		for {
			file, err := f.next(bb)
			if err != nil {
				f.err = err
				yield(nil, err)
				return
			}

			if file == nil || !yield(file, nil) {
				return
			}

			bb.Reset()
		}
	}
}

// next advances to the next header block and returns the file it describes. A nil file
// with a nil error means the end-of-archive marker was reached. Any non-nil error leaves
// the iterator permanently done.
func (f *Files) next(bb *bytebufferpool.ByteBuffer) (*File, error) {
	if f.done {
		return nil, nil
	}

	// Scan forward one block at a time until a header block is found. A lone zero
	// block is skipped; a second consecutive one is the end-of-archive marker.
	zeros := 0
	for {
		bb.Reset()
		n, err := bb.ReadFrom(io.LimitReader(&reader{archive: f.archive, off: f.offset}, blockSize))
		if err != nil {
			f.done = true
			return nil, fmt.Errorf("read header block at offset %d error: %w", f.offset, err)
		}
		if n != blockSize {
			f.done = true
			return nil, fmt.Errorf("truncated header block at offset %d: %w", f.offset, ErrInvalidArchive)
		}

		f.offset += blockSize

		if !isZeroBlock(bb.B) {
			break
		}

		if zeros++; zeros > 1 {
			f.done = true
			return nil, nil
		}
	}

	if err := verifyChecksum(bb.B); err != nil {
		f.done = true
		return nil, fmt.Errorf("header at offset %d: %w", f.offset-blockSize, err)
	}

	hdr, err := decodeHeader(bb.B)
	if err != nil {
		f.done = true
		return nil, fmt.Errorf("header at offset %d: %w", f.offset-blockSize, err)
	}

	file := &File{
		archive: f.archive,
		header:  hdr,
		off:     f.offset,
		size:    hdr.size,
	}

	// The next header sits past the file's data rounded up to a block boundary.
	f.offset += (hdr.size + blockSize - 1) &^ (blockSize - 1)

	return file, nil
}
