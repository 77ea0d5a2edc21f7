package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/electr1fy0/smartnotes/chat"
	"github.com/electr1fy0/smartnotes/config"
	"github.com/electr1fy0/smartnotes/logging"
	"github.com/electr1fy0/smartnotes/share"
	"github.com/electr1fy0/smartnotes/storage"
)

// app is everything a command needs, opened once per invocation.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	logFile  io.Closer
	store    *storage.Persister
	exporter *share.Exporter
	asker    chat.Asker
}

func openKV(cfg *config.Config) (storage.KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return storage.NewSQLiteKV(filepath.Join(cfg.DataDir, "smartnotes.db"))
	default:
		return storage.NewFileKV(cfg.DataDir, cfg.Passphrase)
	}
}

func openApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	kv, err := openKV(cfg)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	log.Info().Str("backend", cfg.Backend).Str("dir", cfg.DataDir).Bool("sealed", cfg.Passphrase != "").Msg("store opened")

	return &app{
		cfg:     cfg,
		log:     log,
		logFile: closer,
		store:   storage.NewPersister(kv, log),
		exporter: &share.Exporter{
			Clipboard: share.SystemClipboard{},
			Sharer:    share.CommandSharer{Command: cfg.ShareCommand},
			Dir:       cfg.ExportDir,
			Location:  time.Local,
			Log:       log,
		},
		asker: chat.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Endpoint, log),
	}, nil
}

func (a *app) Close() error {
	err := a.store.Close()
	if cerr := a.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}
