package device

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/migueltorresd/gallery/internal/filex"
)

// Directory names a logical storage area. Implementations map each value
// to a concrete location.
type Directory string

// DirData is the application data area, where photo files live.
const DirData Directory = "data"

// WriteOptions carries a base64-encoded payload to be stored verbatim
// (decoded) at Path inside Directory.
type WriteOptions struct {
	Path      string
	Data      string
	Directory Directory
}

type ReadOptions struct {
	Path      string
	Directory Directory
}

type DeleteOptions struct {
	Path      string
	Directory Directory
}

// ReadResult returns file contents base64-encoded, matching the wire
// format the stores exchange with the filesystem capability.
type ReadResult struct {
	Data string
}

// Filesystem is the device filesystem capability. Every call may fail
// independently.
type Filesystem interface {
	WriteFile(ctx context.Context, opts WriteOptions) error
	ReadFile(ctx context.Context, opts ReadOptions) (*ReadResult, error)
	DeleteFile(ctx context.Context, opts DeleteOptions) error
}

// OSFilesystem implements Filesystem on the host OS, rooting each
// Directory under a base data dir.
type OSFilesystem struct {
	root string
}

func NewOSFilesystem(root string) *OSFilesystem {
	return &OSFilesystem{root: root}
}

func (f *OSFilesystem) resolve(dir Directory, path string) (string, error) {
	base, err := filex.EnsureSubDir(f.root, string(dir))
	if err != nil {
		return "", err
	}
	return filepath.Join(base, path), nil
}

func (f *OSFilesystem) WriteFile(ctx context.Context, opts WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(opts.Data)
	if err != nil {
		return fmt.Errorf("decode payload for %s: %w", opts.Path, err)
	}

	full, err := f.resolve(opts.Directory, opts.Path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(full, raw, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", full, err)
	}
	return nil
}

func (f *OSFilesystem) ReadFile(ctx context.Context, opts ReadOptions) (*ReadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := f.resolve(opts.Directory, opts.Path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", full, err)
	}
	return &ReadResult{Data: base64.StdEncoding.EncodeToString(raw)}, nil
}

func (f *OSFilesystem) DeleteFile(ctx context.Context, opts DeleteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, err := f.resolve(opts.Directory, opts.Path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("delete %s: %w", full, err)
	}
	return nil
}
