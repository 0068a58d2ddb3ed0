// Package device declares the native capabilities the stores depend on:
// camera capture and filesystem access. Real mobile builds bind these to
// platform plugins; this package ships local implementations good enough
// for development and tests.
package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// CameraSource selects where a capture comes from.
type CameraSource string

const (
	SourceCamera CameraSource = "camera"
	SourcePhotos CameraSource = "photos"
)

// ResultFormat selects the representation of a captured image.
type ResultFormat string

const (
	ResultURI    ResultFormat = "uri"
	ResultBase64 ResultFormat = "base64"
)

// CaptureOptions mirrors the camera plugin's option surface.
type CaptureOptions struct {
	Quality      int
	Source       CameraSource
	ResultFormat ResultFormat
}

// Image is a captured picture: raw JPEG bytes plus the transient path the
// capture came from, when one exists.
type Image struct {
	Data    []byte
	WebPath string
}

// ErrCaptureCancelled is returned when no image could be obtained, e.g.
// the user dismissed the camera.
var ErrCaptureCancelled = errors.New("capture cancelled")

// Camera obtains an image from the device. Capture may fail independently
// per call.
type Camera interface {
	Capture(ctx context.Context, opts CaptureOptions) (*Image, error)
}

// DirectoryCamera is a development Camera that "captures" by cycling
// through the JPEG files of a source directory. An empty or missing
// directory behaves like a cancelled capture.
type DirectoryCamera struct {
	dir string

	mu   sync.Mutex
	next int
}

func NewDirectoryCamera(dir string) *DirectoryCamera {
	return &DirectoryCamera{dir: dir}
}

func (c *DirectoryCamera) Capture(ctx context.Context, opts CaptureOptions) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, ErrCaptureCancelled
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".jpeg") || strings.HasSuffix(name, ".jpg") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, ErrCaptureCancelled
	}
	sort.Strings(names)

	c.mu.Lock()
	name := names[c.next%len(names)]
	c.next++
	c.mu.Unlock()

	path := filepath.Join(c.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capture source %s: %w", path, err)
	}

	return &Image{Data: data, WebPath: path}, nil
}
