package tarball

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// blockSize is the size of every physical block in a tar archive. Headers occupy exactly
// one block; file data is zero-padded to the next block boundary.
const blockSize = 512

// Field offsets within a header block.
//
// https://en.wikipedia.org/wiki/Tar_(computing)#Header
const (
	nameOff, nameLen         = 0, 100
	modeOff, modeLen         = 100, 8
	uidOff, uidLen           = 108, 8
	gidOff, gidLen           = 116, 8
	sizeOff, sizeLen         = 124, 12
	mtimeOff, mtimeLen       = 136, 12
	cksumOff, cksumLen       = 148, 8
	typeflagOff              = 156
	linknameOff, linknameLen = 157, 100
)

// header holds the fields decoded from one header block. The name and linkname keep
// their raw bytes (already NUL-truncated) since tar does not mandate any encoding.
type header struct {
	name     []byte
	mode     int64
	uid      int64
	gid      int64
	size     int64
	mtime    int64
	typeflag byte
	linkname []byte
}

// decodeHeader decodes a header from a full block whose checksum has already been
// verified. Only the size field is required to parse; the remaining numeric fields are
// informational and degrade to zero when malformed.
func decodeHeader(block []byte) (hdr header, err error) {
	if hdr.size, err = parseOctal(block[sizeOff : sizeOff+sizeLen]); err != nil {
		return hdr, fmt.Errorf("parse size field error (%v): %w", err, ErrInvalidArchive)
	}

	hdr.name = bytes.Clone(truncate(block[nameOff : nameOff+nameLen]))
	hdr.mode, _ = parseOctal(block[modeOff : modeOff+modeLen])
	hdr.uid, _ = parseOctal(block[uidOff : uidOff+uidLen])
	hdr.gid, _ = parseOctal(block[gidOff : gidOff+gidLen])
	hdr.mtime, _ = parseOctal(block[mtimeOff : mtimeOff+mtimeLen])
	hdr.typeflag = block[typeflagOff]
	hdr.linkname = bytes.Clone(truncate(block[linknameOff : linknameOff+linknameLen]))
	return hdr, nil
}

// checksum computes the checksum of a header block: the sum of all bytes as unsigned
// values, with the 8 bytes of the checksum field counted as ASCII spaces regardless of
// their stored content.
func checksum(block []byte) int64 {
	var sum int64
	for _, b := range block[:cksumOff] {
		sum += int64(b)
	}
	for _, b := range block[cksumOff+cksumLen:] {
		sum += int64(b)
	}
	return sum + ' '*cksumLen
}

// verifyChecksum compares the computed checksum of a full header block against the value
// recorded in the block's own checksum field.
func verifyChecksum(block []byte) error {
	want, err := parseOctal(block[cksumOff : cksumOff+cksumLen])
	if err != nil {
		return fmt.Errorf("parse checksum field error (%v): %w", err, ErrInvalidArchive)
	}

	if sum := checksum(block); sum != want {
		return fmt.Errorf("header checksum mismatch (computed %#o, recorded %#o): %w", sum, want, ErrInvalidArchive)
	}

	return nil
}

// parseOctal parses a NUL- or space-padded octal ASCII field as a non-negative integer.
func parseOctal(field []byte) (int64, error) {
	s := strings.Trim(string(truncate(field)), " ")
	n, err := strconv.ParseInt(s, 8, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("octal field %q is negative", s)
	}
	return n, nil
}

// truncate returns the slice up to but excluding the first NUL byte.
func truncate(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i != -1 {
		return b[:i]
	}
	return b
}

// isZeroBlock reports whether every byte of the block is zero. Two consecutive all-zero
// blocks mark the end of the archive.
func isZeroBlock(block []byte) bool {
	for _, b := range block {
		if b != 0 {
			return false
		}
	}
	return true
}
