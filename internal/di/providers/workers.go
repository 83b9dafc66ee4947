package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/labdeskapp/labdesk-server/internal/config"
	"github.com/labdeskapp/labdesk-server/internal/logger"
	"github.com/labdeskapp/labdesk-server/internal/service"
	"github.com/labdeskapp/labdesk-server/internal/watcher"
)

// RosterWatcherHandle wraps the roster CSV watcher with shutdown capability.
// The watcher is nil when roster watching is disabled or no roster is
// configured.
type RosterWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *RosterWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	h.Stop()
	return nil
}

// ProvideRosterWatcher provides the file watcher that re-runs roster
// reconciliation after the CSV export changes on disk.
func ProvideRosterWatcher(i do.Injector) (*RosterWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	members := do.MustInvoke[*service.MemberService](i)

	if !cfg.Sync.WatchRoster || cfg.Data.RosterCSVPath == "" {
		log.Info("Roster watching disabled")
		return &RosterWatcherHandle{}, nil
	}

	syncFn := func(ctx context.Context) {
		result, err := members.SynchronizeFields(ctx, nil)
		if err != nil {
			log.Error("Roster sync failed", "error", err)
			return
		}
		log.Info("Roster sync complete",
			"total", result.Total,
			"updated", len(result.Updated),
			"failed", len(result.Failed),
			"csv_used", result.CSVUsed,
		)
	}

	w, err := watcher.New(cfg.Data.RosterCSVPath, cfg.Sync.WatchDebounce, syncFn, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	log.Info("Roster watcher started",
		"path", cfg.Data.RosterCSVPath,
		"debounce", cfg.Sync.WatchDebounce,
	)

	return &RosterWatcherHandle{Watcher: w, cancel: cancel}, nil
}
