package tarball

import "errors"

// ErrInvalidArchive is wrapped by every error arising from a malformed archive: a header
// checksum mismatch, an unparsable octal field, or a header block cut short. Errors of
// this kind are terminal for the iterator that produced them.
var ErrInvalidArchive = errors.New("invalid tar archive")

// ErrSeekBeforeFirstByte is returned by File.Seek if the target position ends up before
// the first byte of the file.
var ErrSeekBeforeFirstByte = errors.New("seek ends up before first byte")

// ErrSeekPastLastByte is returned by File.Seek if the target position ends up past the
// last byte of the file.
var ErrSeekPastLastByte = errors.New("seek ends up past last byte")

// ErrInvalidFilename is returned by File.Filename if the name field is not valid UTF-8.
// The raw bytes remain available via File.FilenameBytes.
var ErrInvalidFilename = errors.New("filename is not valid UTF-8")
