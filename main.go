package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/soundfx/internal/audio"
	"github.com/llehouerou/soundfx/internal/config"
	"github.com/llehouerou/soundfx/internal/errmsg"
	"github.com/llehouerou/soundfx/internal/mpris"
	"github.com/llehouerou/soundfx/internal/notify"
	"github.com/llehouerou/soundfx/internal/resource"
	"github.com/llehouerou/soundfx/internal/sfx"
	"github.com/llehouerou/soundfx/internal/stderr"
	"github.com/llehouerou/soundfx/internal/ui/soundboard"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logger, closeLog, err := openLog(cfg.GetLogConfig())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer closeLog()

	// C decoders and ALSA write straight to fd 2.
	if err := stderr.Start(func(line string) {
		logger.Warn("stderr", "line", line)
	}); err != nil {
		logger.Warn("stderr capture unavailable", "error", err)
	}
	defer stderr.Stop()

	dirs := cfg.GetSoundsDirs()
	var packPath string
	if cfg.HasPack() {
		packPath = cfg.Pack
	}
	if len(args) > 0 {
		if strings.EqualFold(filepath.Ext(args[0]), ".db") {
			packPath = args[0]
			dirs = nil
		} else {
			dirs = []string{args[0]}
		}
	}
	if packPath == "" {
		if packPath, err = resource.DefaultPackPath(); err != nil {
			return errors.New(errmsg.Format(errmsg.OpPackOpen, err))
		}
	}

	pack, err := resource.OpenPack(packPath)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpPackOpen, packPath, err))
	}
	defer pack.Close()

	dirBundles := make([]resource.Bundle, 0, len(dirs))
	for _, dir := range existingDirs(dirs) {
		dirBundles = append(dirBundles, resource.Dir(dir))
	}
	sounds := resource.Search(dirBundles...)
	bundle := resource.Search(append(dirBundles, pack)...)

	audioCfg := cfg.GetAudioConfig()
	engine, err := audio.NewSpeaker(audio.Config{
		SampleRate: audioCfg.SampleRate,
		Buffer:     audioCfg.Buffer,
	})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpAudioInit, err))
	}

	reg := sfx.New(engine, sfx.WithLogger(logger), sfx.WithDefaultBundle(bundle))
	defer reg.Close()

	var imp soundboard.ImportFunc
	if len(dirBundles) > 0 {
		imp = func(ctx context.Context) (int, error) {
			n, err := pack.Import(ctx, sounds)
			if err != nil {
				logger.Error(errmsg.Format(errmsg.OpPackImport, err), "pack", pack.Path())
				return n, err
			}
			logger.Info("imported sounds", "pack", pack.Path(), "count", n)
			return n, nil
		}
	}

	notifier, err := notify.New()
	if err != nil {
		logger.Warn("desktop notifications unavailable", "error", err)
		notifier = notify.Discard
	}

	remote, err := mpris.New()
	if err != nil {
		logger.Warn("media controls unavailable", "error", err)
		remote = mpris.Discard
	}
	defer remote.Close()

	board := soundboard.New(soundboard.Config{
		Registry: reg,
		Bundle:   bundle,
		Volume:   audioCfg.DefaultVolume,
		Fade:     audioCfg.Fade,
		Import:   imp,
		Notifier: notifier,
		Remote:   remote,
		Logger:   logger,
	})
	defer board.Close()

	logger.Info("starting", "bundle", bundle.String(), "sample_rate", engine.SampleRate())
	p := tea.NewProgram(board, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openLog opens the log file, creating its directory.
func openLog(cfg config.LogSettings) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level}))
	return logger, func() { _ = f.Close() }, nil
}

func existingDirs(dirs []string) []string {
	var out []string
	for _, dir := range dirs {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			out = append(out, dir)
		}
	}
	return out
}
