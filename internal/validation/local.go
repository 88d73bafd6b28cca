package validation

import (
	"os"
	"path/filepath"

	"github.com/jonathan/framecraft/internal/types"
)

// ListLocal lists a local directory in the same shape as a remote listing so
// it can be passed to Validate. Entries carry no download URL.
func ListLocal(dir string) ([]types.RemoteFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FileReadError{Path: dir, Message: "failed to read directory", Cause: err}
	}

	files := make([]types.RemoteFile, 0, len(entries))
	for _, entry := range entries {
		file := types.RemoteFile{
			Name: entry.Name(),
			Path: filepath.ToSlash(filepath.Join(dir, entry.Name())),
			Kind: types.FileKindFile,
		}
		if entry.IsDir() {
			file.Kind = types.FileKindDir
		} else if info, err := entry.Info(); err == nil {
			file.Size = info.Size()
		}
		files = append(files, file)
	}
	return files, nil
}
