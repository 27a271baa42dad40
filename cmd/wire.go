package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/bt-attendance-cli/internal/adapters/discovery/ble"
	"github.com/bnema/bt-attendance-cli/internal/adapters/discovery/sim"
	tomlrepo "github.com/bnema/bt-attendance-cli/internal/adapters/repo/toml"
	"github.com/bnema/bt-attendance-cli/internal/application"
	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/bnema/bt-attendance-cli/internal/ports"
	"github.com/spf13/viper"
)

const (
	keyThreshold   = "scan.threshold"
	keyInterval    = "scan.interval"
	keyWindow      = "scan.window"
	keySimulate    = "scan.simulate"
	keySimPresence = "scan.sim_presence"
	keyReportDir   = "report.dir"
)

type app struct {
	repo          ports.RosterRepository
	rosterService *application.RosterService
	config        *viper.Viper
	clock         ports.Clock
	now           func() time.Time
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetDefault(keyThreshold, 0.8)
	cfg.SetDefault(keyInterval, "5s")
	cfg.SetDefault(keyWindow, "5s")
	cfg.SetDefault(keySimulate, false)
	cfg.SetDefault(keySimPresence, 0.85)
	cfg.SetDefault(keyReportDir, filepath.Join(homeDir, ".bta", "reports"))

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire roster repository: %w", err)
	}

	clock := ports.SystemClock{}

	return &app{
		repo:          repo,
		rosterService: application.NewRosterService(repo, clock),
		config:        cfg,
		clock:         clock,
		now:           time.Now,
	}, nil
}

// discoverySource picks the configured scan variant once, up front; the
// session itself never knows which one it got.
func (a *app) discoverySource(ctx context.Context, simulate bool, window time.Duration) (ports.DiscoverySource, error) {
	if !simulate {
		return ble.NewSource(window), nil
	}

	identities, err := a.rosterService.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster for simulation: %w", err)
	}

	ids := make([]domain.DeviceID, 0, len(identities))
	for _, identity := range identities {
		ids = append(ids, identity.ID)
	}

	return sim.NewSource(ids, a.config.GetFloat64(keySimPresence), uint64(a.now().UnixNano())), nil
}
