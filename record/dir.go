package record

import (
	"io/fs"
	"os"
	"path/filepath"
)

type dirFS string

// DirFS resolves OPEN/CLOSE file names against dir. Unlike os.DirFS it
// accepts names that climb out of dir and absolute paths, both common in
// model decks that share arrays.
func DirFS(dir string) fs.FS { return dirFS(dir) }

func (d dirFS) Open(name string) (fs.File, error) {
	path := filepath.FromSlash(name)
	if !filepath.IsAbs(path) {
		path = filepath.Join(string(d), path)
	}
	return os.Open(path)
}
