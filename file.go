package tarball

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"
	"unicode/utf8"
)

// File is a read-only view into one file of an archive.
//
// A File acts as a file handle by implementing io.Reader, io.Seeker and io.ReaderAt; it
// delegates all physical access to the Archive it came from, so it remains usable for as
// long as the Archive's source is open. Files are created by iterating an Archive, never
// directly.
//
// Read and Seek share the file's logical position and are not safe for concurrent use;
// ReadAt is position-independent and safe to call concurrently with itself.
type File struct {
	archive *Archive
	header  header
	off     int64 // absolute offset of the file's data in the source
	pos     int64
	size    int64
}

// FilenameBytes returns the raw filename as a byte slice, truncated at the first NUL.
func (f *File) FilenameBytes() []byte {
	return f.header.name
}

// Filename returns the filename as a UTF-8 string.
//
// If the name field does not hold valid UTF-8, Filename returns ErrInvalidFilename; the
// raw bytes remain available via FilenameBytes.
func (f *File) Filename() (string, error) {
	if !utf8.Valid(f.header.name) {
		return "", ErrInvalidFilename
	}
	return string(f.header.name), nil
}

// Size returns the size in bytes of the file in the archive.
func (f *File) Size() int64 {
	return f.size
}

// Mode returns the file's permission bits from the header's mode field.
func (f *File) Mode() os.FileMode {
	return os.FileMode(f.header.mode)
}

// ModTime returns the file's modification time from the header's mtime field.
func (f *File) ModTime() time.Time {
	return time.Unix(f.header.mtime, 0)
}

// Uid returns the numeric user id of the file's owner.
func (f *File) Uid() int {
	return int(f.header.uid)
}

// Gid returns the numeric group id of the file's owner.
func (f *File) Gid() int {
	return int(f.header.gid)
}

// Linkname returns the link target if the file is a hard or symbolic link, "" otherwise.
func (f *File) Linkname() string {
	return string(f.header.linkname)
}

// IsDir reports whether the header describes a directory.
func (f *File) IsDir() bool {
	if f.header.typeflag == '5' {
		return true
	}
	n := f.header.name
	return len(n) > 0 && n[len(n)-1] == '/'
}

// FileInfo returns an fs.FileInfo describing the file's header metadata. Its Name is the
// base name of the file's path within the archive.
func (f *File) FileInfo() fs.FileInfo {
	return fileInfo{f}
}

// Read reads from the file's data region, up to the declared size of the file.
//
// Read never touches bytes outside the file's own data region; once the logical position
// reaches the file's size, Read returns io.EOF. A source that runs out inside the data
// region surfaces io.ErrUnexpectedEOF instead.
func (f *File) Read(p []byte) (int, error) {
	if f.pos == f.size {
		return 0, io.EOF
	}

	if m := f.size - f.pos; int64(len(p)) > m {
		p = p[:m]
	}

	n, err := f.archive.readAt(p, f.off+f.pos)
	f.pos += int64(n)
	if err == io.EOF {
		if n > 0 {
			err = nil
		} else {
			err = io.ErrUnexpectedEOF
		}
	}
	return n, err
}

// Seek sets the logical position for the next Read. Positions from 0 up to and including
// the file's size are valid; anything outside that range fails with
// ErrSeekBeforeFirstByte or ErrSeekPastLastByte and leaves the position unchanged.
//
// Seek never repositions the underlying source; that happens lazily on the next Read.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = f.pos + offset
	case io.SeekEnd:
		next = f.size + offset
	default:
		return f.pos, fmt.Errorf("unknown whence value %d", whence)
	}

	if next < 0 {
		return f.pos, ErrSeekBeforeFirstByte
	}
	if next > f.size {
		return f.pos, ErrSeekPastLastByte
	}

	f.pos = next
	return next, nil
}

// ReadAt reads len(p) bytes from the file's data region starting at offset off. It does
// not use or modify the position maintained by Read and Seek.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrSeekBeforeFirstByte
	}
	if off >= f.size {
		return 0, io.EOF
	}

	var short bool
	if m := f.size - off; int64(len(p)) > m {
		p, short = p[:m], true
	}

	n := 0
	for n < len(p) {
		m, err := f.archive.readAt(p[n:], off+int64(n))
		n += m
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return n, err
		}
	}

	if short {
		return n, io.EOF
	}
	return n, nil
}

// fileInfo adapts a File's header metadata to fs.FileInfo.
type fileInfo struct {
	f *File
}

func (fi fileInfo) Name() string {
	return path.Base(strings.TrimSuffix(string(fi.f.header.name), "/"))
}

func (fi fileInfo) Size() int64 {
	return fi.f.size
}

func (fi fileInfo) Mode() fs.FileMode {
	mode := fs.FileMode(fi.f.header.mode)
	if fi.f.IsDir() {
		mode |= fs.ModeDir
	}
	return mode
}

func (fi fileInfo) ModTime() time.Time {
	return fi.f.ModTime()
}

func (fi fileInfo) IsDir() bool {
	return fi.f.IsDir()
}

func (fi fileInfo) Sys() any {
	return fi.f
}
