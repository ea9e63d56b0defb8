package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rook-computer/dyncover/internal/cover"
)

// RenderToFile draws one cover and writes it to path. The PNG is written
// to a temporary file next to path and renamed into place, so readers
// never see a partial image. A path of "-" writes to stdout.
func RenderToFile(gen *cover.Generator, item cover.Item, path string, stdout io.Writer) (*cover.Result, error) {
	res, err := gen.Render(item)
	if err != nil {
		return nil, err
	}
	if path == "-" {
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := stdout.Write(res.PNG); err != nil {
			return nil, fmt.Errorf("write png: %w", err)
		}
		return res, nil
	}
	if err := writeFileAtomic(path, res.PNG); err != nil {
		return nil, err
	}
	return res, nil
}

func writeFileAtomic(targetPath string, data []byte) error {
	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(targetPath)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, targetPath)
}
