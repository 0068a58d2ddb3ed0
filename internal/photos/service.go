// Package photos implements the Photo Store: an ordered, newest-first
// gallery of photo records scoped to the currently authenticated user.
// Records live in memory and are mirrored to the key-value store under a
// per-user key after every mutation; image bytes live on the device
// filesystem.
package photos

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/migueltorresd/gallery/internal/common"
	"github.com/migueltorresd/gallery/internal/device"
	"github.com/migueltorresd/gallery/internal/logging"
	"github.com/migueltorresd/gallery/internal/models"
	"github.com/migueltorresd/gallery/internal/storage"
)

// Identity supplies the current user. The session store satisfies it.
type Identity interface {
	CurrentUser() *models.User
}

// Store owns the in-memory gallery of the current user. A single mutex
// serializes every mutation, so overlapping captures and deletes cannot
// race on the photo list.
type Store struct {
	identity Identity
	repo     storage.Repository
	fs       device.Filesystem
	camera   device.Camera
	log      logging.Logger

	mu     sync.Mutex
	photos []models.Photo

	now func() time.Time
}

func NewStore(identity Identity, repo storage.Repository, fs device.Filesystem, camera device.Camera, log logging.Logger) *Store {
	return &Store{
		identity: identity,
		repo:     repo,
		fs:       fs,
		camera:   camera,
		log:      log,
		now:      time.Now,
	}
}

// Photos returns a snapshot of the gallery, newest first.
func (s *Store) Photos() []models.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Photo, len(s.photos))
	copy(out, s.photos)
	return out
}

// AddNewPhoto captures an image, writes it under a filename derived from
// the user's namespace and the capture timestamp, prepends the record to
// the gallery, and rewrites the persisted list. Camera and filesystem
// failures propagate to the caller.
func (s *Store) AddNewPhoto(ctx context.Context) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, err := s.resolveNamespace()
	if err != nil {
		return nil, err
	}

	img, err := s.camera.Capture(ctx, device.CaptureOptions{
		Quality:      100,
		Source:       device.SourceCamera,
		ResultFormat: device.ResultURI,
	})
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	fileName := fmt.Sprintf("%s%d.jpeg", ns.filePrefix, s.now().UnixMilli())

	if err := s.fs.WriteFile(ctx, device.WriteOptions{
		Path:      fileName,
		Data:      base64.StdEncoding.EncodeToString(img.Data),
		Directory: device.DirData,
	}); err != nil {
		return nil, fmt.Errorf("save picture: %w", err)
	}

	photo := models.Photo{Filepath: fileName, WebviewPath: img.WebPath}
	s.photos = append([]models.Photo{photo}, s.photos...)

	if err := s.persistLocked(ctx, ns); err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "photo added", "filepath", fileName)
	return &photo, nil
}

// LoadSavedPhotos replaces the in-memory gallery with the persisted list
// of the current user, reading each backing file to populate the display
// representation. Records whose file cannot be read are dropped from both
// the memory and persisted lists. With no authenticated user the gallery
// is cleared and the call is a no-op.
func (s *Store) LoadSavedPhotos(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.identity.CurrentUser()
	if user == nil {
		s.photos = nil
		return nil
	}
	ns := namespaceFor(user)

	raw, err := s.repo.Get(ctx, ns.storageKey)
	if err != nil {
		return fmt.Errorf("load photo list: %w", err)
	}

	var saved []models.Photo
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &saved); err != nil {
			return fmt.Errorf("decode photo list: %w", err)
		}
	}

	loaded := make([]models.Photo, 0, len(saved))
	pruned := false
	for _, p := range saved {
		res, err := s.fs.ReadFile(ctx, device.ReadOptions{Path: p.Filepath, Directory: device.DirData})
		if err != nil {
			s.log.Warn(ctx, "dropping unreadable photo", "filepath", p.Filepath, "error", err)
			pruned = true
			continue
		}
		p.WebviewPath = "data:image/jpeg;base64," + res.Data
		loaded = append(loaded, p)
	}
	s.photos = loaded

	if pruned {
		return s.persistLocked(ctx, ns)
	}
	return nil
}

// DeletePhoto removes the record at position. The record there must match
// the supplied one; the double check guards against stale indices when
// the gallery mutated between the caller's read and the delete. The
// physical file deletion is best-effort: a filesystem failure is logged
// and the metadata removal still proceeds.
func (s *Store) DeletePhoto(ctx context.Context, photo models.Photo, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, err := s.resolveNamespace()
	if err != nil {
		return err
	}

	if position < 0 || position >= len(s.photos) || s.photos[position].Filepath != photo.Filepath {
		return common.ErrInvalidPosition
	}

	if err := s.fs.DeleteFile(ctx, device.DeleteOptions{Path: photo.Filepath, Directory: device.DirData}); err != nil {
		s.log.Warn(ctx, "deleting photo file failed", "filepath", photo.Filepath, "error", err)
	}

	s.photos = append(s.photos[:position], s.photos[position+1:]...)
	return s.persistLocked(ctx, ns)
}

// ClearUserPhotos drops the in-memory gallery only, for logout or user
// switch. Persisted lists are keyed per user, so nothing there needs
// clearing.
func (s *Store) ClearUserPhotos() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = nil
}

// persistLocked rewrites the per-user list. Callers must hold s.mu.
// WebviewPath is excluded from serialization, so only filepaths land in
// storage.
func (s *Store) persistLocked(ctx context.Context, ns namespace) error {
	data, err := json.Marshal(s.photos)
	if err != nil {
		return fmt.Errorf("encode photo list: %w", err)
	}
	if err := s.repo.Set(ctx, ns.storageKey, data); err != nil {
		return fmt.Errorf("persist photo list: %w", err)
	}
	return nil
}
