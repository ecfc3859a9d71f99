// Package tarball provides streaming, read-only access to the files of a TAR archive.
//
// The archive can be backed by any io.ReadSeeker (an os.File, a bytes.Reader, a ranged
// reader against remote storage such as github.com/nguyengg/go-s3readseeker, etc.); at no
// point does the archive need to be fully resident in memory. Files are surfaced as
// bounded read-seekers over the shared source, so several files can be open at once even
// though all physical reads go through a single cursor.
//
// See https://en.wikipedia.org/wiki/Tar_(computing) for the on-disk format.
package tarball

import (
	"fmt"
	"io"
	"sync"
)

// Archive is a top-level representation of an archive file.
//
// Archive owns the underlying source exclusively; don't read from or seek the source
// directly while the Archive or any File obtained from it is still in use. All physical
// access is serialised through the Archive, so Files obtained from it may be read from
// different goroutines, though doing so defeats the redundant-seek elision that makes
// sequential access cheap.
type Archive struct {
	mu  sync.Mutex
	src io.ReadSeeker
	pos int64
}

// New creates a new archive with the given source.
func New(src io.ReadSeeker) *Archive {
	return &Archive{src: src}
}

// Files returns an iterator over the files of this archive.
//
// Files fails only if the initial seek to the start of the source fails. The returned
// iterator always yields files in the order they appear in the archive.
func (a *Archive) Files() (*Files, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.seekLocked(0); err != nil {
		return nil, fmt.Errorf("seek to start of archive error: %w", err)
	}

	return &Files{archive: a}, nil
}

// readAt repositions the source to the absolute offset off and reads up to len(p) bytes
// with a single Read call, advancing the tracked position by the number of bytes actually
// read. The physical seek is elided when the source is already at off.
func (a *Archive) readAt(p []byte, off int64) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.seekLocked(off); err != nil {
		return 0, err
	}

	n, err := a.src.Read(p)
	a.pos += int64(n)
	return n, err
}

func (a *Archive) seekLocked(off int64) error {
	if a.pos == off {
		return nil
	}

	if _, err := a.src.Seek(off, io.SeekStart); err != nil {
		return err
	}

	a.pos = off
	return nil
}

// reader adapts the archive's cursor to an io.Reader anchored at an absolute offset.
type reader struct {
	archive *Archive
	off     int64
}

func (r *reader) Read(p []byte) (int, error) {
	n, err := r.archive.readAt(p, r.off)
	r.off += int64(n)
	return n, err
}
