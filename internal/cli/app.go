// Package cli is the interactive REPL wrapping the session and photo
// stores for development use: register, login, capture, list, delete.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/migueltorresd/gallery/internal/common"
	"github.com/migueltorresd/gallery/internal/config"
	"github.com/migueltorresd/gallery/internal/device"
	"github.com/migueltorresd/gallery/internal/logging"
	"github.com/migueltorresd/gallery/internal/models"
	"github.com/migueltorresd/gallery/internal/photos"
	"github.com/migueltorresd/gallery/internal/session"
	"github.com/migueltorresd/gallery/internal/storage"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	sessions *session.Store
	gallery  *photos.Store
	log      logging.Logger
	reader   *bufio.Reader
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewDefault()

	secret := cfg.TokenSecret
	if secret == "" {
		// ephemeral secret: persisted sessions will not survive a restart
		s, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, err
		}
		secret = s
	}

	db, err := storage.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("init local store: %w", err)
	}
	repo := storage.NewSQLiteRepository(db)

	sessions := session.NewStore(ctx, repo, session.Options{
		TokenSecret: []byte(secret),
		TokenTTL:    cfg.TokenTTL,
		Latency:     cfg.SimulatedLatency,
	}, log)

	gallery := photos.NewStore(
		sessions,
		repo,
		device.NewOSFilesystem(cfg.DataDir),
		device.NewDirectoryCamera(cfg.CameraSourceDir),
		log,
	)

	return &App{
		config:   cfg,
		sessions: sessions,
		gallery:  gallery,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the session watcher and the command loop.
func (a *App) Run(ctx context.Context) {
	updates, cancel := a.sessions.Subscribe()
	defer cancel()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go a.watchSession(watchCtx, updates)

	a.Root(ctx)
}

// watchSession keeps the gallery in step with the session stream: logout
// or user switch drops the in-memory photos so the next user never sees
// the previous user's gallery.
func (a *App) watchSession(ctx context.Context, updates <-chan models.Session) {
	userID := func(s models.Session) int {
		if s.CurrentUser != nil {
			return s.CurrentUser.ID
		}
		return 0
	}

	// the first update is the replayed current snapshot; it seeds the
	// baseline instead of triggering a clear
	var last int
	select {
	case state := <-updates:
		last = userID(state)
	case <-ctx.Done():
		return
	}

	for {
		select {
		case state := <-updates:
			if id := userID(state); id != last {
				a.gallery.ClearUserPhotos()
				last = id
			}
		case <-ctx.Done():
			return
		}
	}
}
