package tarball

import (
	"io/fs"
	"path"
	"strings"
)

// FS returns a read-only fs.FS view of the archive.
//
// Open scans the archive in physical order for the first file whose path matches the
// given name, so it is best suited for small archives or one-off lookups; iterate with
// Files for sequential access. The returned fs.File shares the Archive's cursor like any
// other File.
func (a *Archive) FS() fs.FS {
	return archiveFS{archive: a}
}

type archiveFS struct {
	archive *Archive
}

func (f archiveFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	files, err := f.archive.Files()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	for file, err := range files.All() {
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}

		if entryPath(file) == name {
			return fsFile{file}, nil
		}
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// entryPath normalises a file's archived name ("./a", "a/", "a") to the fs.ValidPath
// form used for lookups.
func entryPath(f *File) string {
	return path.Clean(strings.TrimSuffix(string(f.FilenameBytes()), "/"))
}

type fsFile struct {
	*File
}

func (f fsFile) Stat() (fs.FileInfo, error) {
	return f.FileInfo(), nil
}

func (f fsFile) Close() error {
	return nil
}
