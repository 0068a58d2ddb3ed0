package photos

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/migueltorresd/gallery/internal/common"
	"github.com/migueltorresd/gallery/internal/device"
	"github.com/migueltorresd/gallery/internal/logging"
	"github.com/migueltorresd/gallery/internal/models"
	"github.com/migueltorresd/gallery/internal/storage"
)

// ---- fakes ----

type fakeIdentity struct {
	user *models.User
}

func (f *fakeIdentity) CurrentUser() *models.User { return f.user }

type fakeCamera struct {
	img      *device.Image
	err      error
	captures int
}

func (f *fakeCamera) Capture(ctx context.Context, opts device.CaptureOptions) (*device.Image, error) {
	f.captures++
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

// fakeFilesystem keeps base64 payloads in a map keyed by path.
type fakeFilesystem struct {
	files     map[string]string
	deleteErr error
	deleted   []string
}

func newFakeFilesystem() *fakeFilesystem {
	return &fakeFilesystem{files: make(map[string]string)}
}

func (f *fakeFilesystem) WriteFile(ctx context.Context, opts device.WriteOptions) error {
	f.files[opts.Path] = opts.Data
	return nil
}

func (f *fakeFilesystem) ReadFile(ctx context.Context, opts device.ReadOptions) (*device.ReadResult, error) {
	data, ok := f.files[opts.Path]
	if !ok {
		return nil, fmt.Errorf("read %s: no such file", opts.Path)
	}
	return &device.ReadResult{Data: data}, nil
}

func (f *fakeFilesystem) DeleteFile(ctx context.Context, opts device.DeleteOptions) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, opts.Path)
	delete(f.files, opts.Path)
	return nil
}

type fixture struct {
	store    *Store
	identity *fakeIdentity
	camera   *fakeCamera
	fs       *fakeFilesystem
	repo     *storage.MemoryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	identity := &fakeIdentity{user: &models.User{ID: 7, Username: "neo", Email: "neo@x.com"}}
	camera := &fakeCamera{img: &device.Image{Data: []byte("jpeg-bytes"), WebPath: "cap://1"}}
	fs := newFakeFilesystem()
	repo := storage.NewMemoryRepository()

	store := NewStore(identity, repo, fs, camera, logging.NopLogger{})

	// deterministic capture timestamps
	var tick int64
	store.now = func() time.Time {
		tick++
		return time.UnixMilli(1700000000000 + tick)
	}

	return &fixture{store: store, identity: identity, camera: camera, fs: fs, repo: repo}
}

func persistedList(t *testing.T, repo *storage.MemoryRepository, userID int) []models.Photo {
	t.Helper()
	raw, err := repo.Get(context.Background(), fmt.Sprintf("photos_user_%d", userID))
	require.NoError(t, err)
	if raw == nil {
		return nil
	}
	var list []models.Photo
	require.NoError(t, json.Unmarshal(raw, &list))
	return list
}

// ---- tests ----

func TestAddNewPhoto_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)
	f.identity.user = nil

	_, err := f.store.AddNewPhoto(context.Background())
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	require.Zero(t, f.camera.captures, "camera must not fire without a user")
}

func TestAddNewPhoto_PrependsAndPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)
	second, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)

	gallery := f.store.Photos()
	require.Len(t, gallery, 2)
	require.Equal(t, second.Filepath, gallery[0].Filepath, "newest first")
	require.Equal(t, first.Filepath, gallery[1].Filepath)

	saved := persistedList(t, f.repo, 7)
	require.Len(t, saved, 2)
	require.Equal(t, second.Filepath, saved[0].Filepath)
	require.Empty(t, saved[0].WebviewPath, "display representation is not persisted")

	stored, ok := f.fs.files[first.Filepath]
	require.True(t, ok)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")), stored)
}

func TestAddNewPhoto_FilenameCarriesUserNamespace(t *testing.T) {
	f := newFixture(t)

	photo, err := f.store.AddNewPhoto(context.Background())
	require.NoError(t, err)
	require.Regexp(t, `^user_7_\d+\.jpeg$`, photo.Filepath)
}

func TestAddNewPhoto_CameraFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.camera.err = device.ErrCaptureCancelled

	_, err := f.store.AddNewPhoto(context.Background())
	require.ErrorIs(t, err, device.ErrCaptureCancelled)
	require.Empty(t, f.store.Photos())
	require.Nil(t, persistedList(t, f.repo, 7))
}

func TestLoadSavedPhotos_NoUser_ClearsGalleryWithoutError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)
	require.Len(t, f.store.Photos(), 1)

	f.identity.user = nil
	require.NoError(t, f.store.LoadSavedPhotos(ctx))
	require.Empty(t, f.store.Photos())
}

func TestLoadSavedPhotos_PopulatesWebviewPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)

	require.NoError(t, f.store.LoadSavedPhotos(ctx))

	gallery := f.store.Photos()
	require.Len(t, gallery, 1)
	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	require.Equal(t, want, gallery[0].WebviewPath)
}

func TestLoadSavedPhotos_PrunesUnreadableEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var photos []*models.Photo
	for i := 0; i < 3; i++ {
		p, err := f.store.AddNewPhoto(ctx)
		require.NoError(t, err)
		photos = append(photos, p)
	}

	// orphan the middle record
	delete(f.fs.files, photos[1].Filepath)

	require.NoError(t, f.store.LoadSavedPhotos(ctx))

	gallery := f.store.Photos()
	require.Len(t, gallery, 2)
	for _, p := range gallery {
		require.NotEqual(t, photos[1].Filepath, p.Filepath)
	}

	saved := persistedList(t, f.repo, 7)
	require.Len(t, saved, 2, "persisted list is reconciled")
}

func TestDeletePhoto_InvalidPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)

	tests := []struct {
		name     string
		photo    models.Photo
		position int
	}{
		{"negative index", *p, -1},
		{"out of range", *p, 1},
		{"stale record", models.Photo{Filepath: "user_7_999.jpeg"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.store.DeletePhoto(ctx, tt.photo, tt.position)
			require.ErrorIs(t, err, common.ErrInvalidPosition)
			require.Len(t, f.store.Photos(), 1, "gallery must be untouched")
		})
	}
}

func TestDeletePhoto_RemovesRecordAndFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keep, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)
	doomed, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)

	require.NoError(t, f.store.DeletePhoto(ctx, *doomed, 0))

	gallery := f.store.Photos()
	require.Len(t, gallery, 1)
	require.Equal(t, keep.Filepath, gallery[0].Filepath)

	require.Contains(t, f.fs.deleted, doomed.Filepath)
	require.Len(t, persistedList(t, f.repo, 7), 1)
}

func TestDeletePhoto_FileFailureStillRemovesMetadata(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)

	f.fs.deleteErr = errors.New("device busy")

	require.NoError(t, f.store.DeletePhoto(ctx, *p, 0))
	require.Empty(t, f.store.Photos())
	require.Empty(t, persistedList(t, f.repo, 7))
}

func TestDeletePhoto_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	f.identity.user = nil
	err := f.store.DeletePhoto(context.Background(), models.Photo{Filepath: "x"}, 0)
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestClearUserPhotos_MemoryOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)

	f.store.ClearUserPhotos()
	require.Empty(t, f.store.Photos())
	require.Len(t, persistedList(t, f.repo, 7), 1, "persisted list survives")
}

func TestUserSwitch_GalleriesAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.AddNewPhoto(ctx)
	require.NoError(t, err)

	// switch users the way the presentation layer does: clear, then load
	f.identity.user = &models.User{ID: 8, Username: "trinity"}
	f.store.ClearUserPhotos()
	require.Empty(t, f.store.Photos())

	require.NoError(t, f.store.LoadSavedPhotos(ctx))
	require.Empty(t, f.store.Photos(), "new user never sees the previous gallery")

	// and back
	f.identity.user = &models.User{ID: 7, Username: "neo"}
	f.store.ClearUserPhotos()
	require.NoError(t, f.store.LoadSavedPhotos(ctx))
	require.Len(t, f.store.Photos(), 1)
}
