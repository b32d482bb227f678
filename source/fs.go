package source

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/arloliu/tdms/errs"
)

// OpenFs opens path on an afero filesystem.
//
// afero files do not promise concurrent ReadAt (the in-memory filesystem
// seeks internally), so the result is wrapped with Locked.
func OpenFs(fs afero.Fs, path string) (Source, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errs.IO("open", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errs.IO("stat", err)
	}

	if info.IsDir() {
		_ = f.Close()
		return nil, errs.IO("open", fmt.Errorf("%s is a directory", path))
	}

	return Locked(&readerAt{r: f, size: info.Size(), closer: f}), nil
}
