package driver

import (
	"io"
	"os"

	"upvalcheck/internal/source"
)

// ReadError reports a source that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return "failed reading file: " + e.Path
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Stdin is read when the path is source.StdinName.
var Stdin io.Reader = os.Stdin

// load adds path to fs, reading Stdin for "-".
func load(fs *source.FileSet, path string) (source.FileID, error) {
	if path == source.StdinName {
		id, err := fs.LoadReader(source.StdinName, Stdin)
		if err != nil {
			return 0, &ReadError{Path: path, Err: err}
		}
		return id, nil
	}
	id, err := fs.Load(path)
	if err != nil {
		return 0, &ReadError{Path: path, Err: err}
	}
	return id, nil
}
