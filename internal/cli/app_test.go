package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/migueltorresd/gallery/internal/device"
	"github.com/migueltorresd/gallery/internal/logging"
	"github.com/migueltorresd/gallery/internal/models"
	"github.com/migueltorresd/gallery/internal/photos"
	"github.com/migueltorresd/gallery/internal/session"
	"github.com/migueltorresd/gallery/internal/storage"
)

type promptStub struct {
	texts     []string
	passwords []string
}

func stubInputs(t *testing.T, stub *promptStub) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		next := stub.texts[0]
		stub.texts = stub.texts[1:]
		return next, nil
	}
	getPassword = func(_ string, _ io.Writer) (string, error) {
		next := stub.passwords[0]
		stub.passwords = stub.passwords[1:]
		return next, nil
	}
}

type stubCamera struct{}

func (stubCamera) Capture(ctx context.Context, opts device.CaptureOptions) (*device.Image, error) {
	return &device.Image{Data: []byte("img")}, nil
}

type nopFilesystem struct{}

func (nopFilesystem) WriteFile(ctx context.Context, opts device.WriteOptions) error { return nil }
func (nopFilesystem) ReadFile(ctx context.Context, opts device.ReadOptions) (*device.ReadResult, error) {
	return &device.ReadResult{}, nil
}
func (nopFilesystem) DeleteFile(ctx context.Context, opts device.DeleteOptions) error { return nil }

func newTestApp(t *testing.T) *App {
	t.Helper()
	repo := storage.NewMemoryRepository()
	log := logging.NopLogger{}

	sessions := session.NewStore(context.Background(), repo, session.Options{
		TokenSecret: []byte("cli-test-secret"),
		TokenTTL:    time.Hour,
	}, log)

	return &App{
		sessions: sessions,
		gallery:  photos.NewStore(sessions, repo, nopFilesystem{}, stubCamera{}, log),
		log:      log,
		reader:   bufio.NewReader(strings.NewReader("")),
	}
}

func TestLoginCommand_Success(t *testing.T) {
	a := newTestApp(t)
	stubInputs(t, &promptStub{texts: []string{"admin"}, passwords: []string{"admin123"}})

	a.login(context.Background())

	require.True(t, a.sessions.IsAuthenticated())
	require.Equal(t, "admin", a.sessions.CurrentUser().Username)
}

func TestLoginCommand_BadPasswordLeavesAnonymous(t *testing.T) {
	a := newTestApp(t)
	stubInputs(t, &promptStub{texts: []string{"admin"}, passwords: []string{"wrong"}})

	a.login(context.Background())

	require.False(t, a.sessions.IsAuthenticated())
}

func TestRegisterCommand_Success(t *testing.T) {
	a := newTestApp(t)
	stubInputs(t, &promptStub{
		texts:     []string{"trinity", "trinity@x.com", "Trinity"},
		passwords: []string{"pw", "pw"},
	})

	a.register(context.Background())

	require.True(t, a.sessions.IsAuthenticated())
	require.Equal(t, "trinity", a.sessions.CurrentUser().Username)
}

func TestWatchSession_ClearsGalleryOnLogout(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	_, err := a.sessions.Login(ctx, models.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	_, err = a.gallery.AddNewPhoto(ctx)
	require.NoError(t, err)
	require.Len(t, a.gallery.Photos(), 1)

	updates, cancel := a.sessions.Subscribe()
	defer cancel()
	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	go a.watchSession(watchCtx, updates)

	require.NoError(t, a.sessions.Logout(ctx))

	require.Eventually(t, func() bool {
		return len(a.gallery.Photos()) == 0
	}, time.Second, 10*time.Millisecond)
}
