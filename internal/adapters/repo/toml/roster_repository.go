package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/bnema/bt-attendance-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName      = "config"
	configType      = "toml"
	rosterPathKey   = "roster.path"
	rosterFileMode  = 0o600
	rosterDirMode   = 0o700
	rosterConfigDir = ".bta"
	rosterFile      = "roster.toml"
	tempFilePattern = ".roster-*.toml.tmp"
)

// Repository stores the identity registry as a TOML file. Entries keep
// file order, which is registration order.
type Repository struct {
	rosterPath string
	mu         *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.RosterRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, rosterConfigDir, rosterFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, rosterConfigDir))
	cfg.SetDefault(rosterPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	rosterPath := cfg.GetString(rosterPathKey)
	if rosterPath == "" {
		return nil, errors.New("roster path is empty")
	}
	rosterPath, err = normalizeRosterPath(rosterPath)
	if err != nil {
		return nil, err
	}

	return &Repository{rosterPath: rosterPath, mu: lockForPath(rosterPath)}, nil
}

func (r *Repository) Save(ctx context.Context, identity domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := identity.Validate(); err != nil {
		return fmt.Errorf("validate identity: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(identity)
	updated := false
	for i := range file.Identities {
		if file.Identities[i].DeviceID == encoded.DeviceID {
			file.Identities[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Identities = append(file.Identities, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByDeviceID(ctx context.Context, id domain.DeviceID) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Identity{}, err
	}
	file.applyDefaults()

	for _, entry := range file.Identities {
		if entry.DeviceID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.Identity{}, domain.ErrIdentityNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}
	file.applyDefaults()

	identities := make([]domain.Identity, 0, len(file.Identities))
	for _, entry := range file.Identities {
		identities = append(identities, fromSchema(entry))
	}

	return identities, nil
}

func (r *Repository) Remove(ctx context.Context, id domain.DeviceID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	for i := range file.Identities {
		if file.Identities[i].DeviceID == string(id) {
			file.Identities = append(file.Identities[:i], file.Identities[i+1:]...)
			return r.writeSchema(file)
		}
	}

	return domain.ErrIdentityNotFound
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.rosterPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read roster file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode roster file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeRosterPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve roster path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.rosterPath), rosterDirMode); err != nil {
		return fmt.Errorf("create roster directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode roster file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.rosterPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp roster file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp roster file: %w", err)
	}

	if err := tempFile.Chmod(rosterFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp roster file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp roster file: %w", err)
	}

	if err := os.Rename(tempName, r.rosterPath); err != nil {
		return fmt.Errorf("replace roster file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.rosterPath, rosterFileMode); err != nil {
		return fmt.Errorf("chmod roster file: %w", err)
	}

	return nil
}
