package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aryankumar/chunkrun/internal/util"
)

const (
	defaultConfigName = ".chunkrun"
	envPrefix         = "CHUNKRUN"

	defaultBatchSize       = 10
	defaultHandler         = "echo"
	defaultNodeID          = "node"
	defaultTempDir         = "./content/temp"
	defaultRepositoriesDir = "./content/repositories"
	defaultOutputFormat    = "table"
)

// Handlers lists the built-in handler names
var Handlers = []string{"echo", "exec", "file", "kube"}

// OutputFormats lists the supported output formats
var OutputFormats = []string{"table", "json", "yaml"}

// Manager handles chunkrun configuration
type Manager struct {
	configPath string
	config     *JobConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager. An empty configPath
// searches $HOME and the working directory for .chunkrun.yaml.
func NewManager(configPath string) *Manager {
	m := &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &JobConfig{},
	}
	m.setViperDefaults()
	return m
}

// Viper exposes the underlying instance so the CLI can bind its flags
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// setViperDefaults registers every key so env variables reach Unmarshal
func (m *Manager) setViperDefaults() {
	v := m.viper
	v.SetDefault("batch.batchSize", defaultBatchSize)
	v.SetDefault("batch.stopOnFailure", false)
	v.SetDefault("batch.allowEmpty", false)
	v.SetDefault("batch.startingIndex", 0)
	v.SetDefault("batch.endingIndex", 0)
	v.SetDefault("batch.maxIterations", 0)
	v.SetDefault("handler.name", defaultHandler)
	v.SetDefault("handler.command", "")
	v.SetDefault("handler.failOn", []string{})
	v.SetDefault("handler.jobId", "")
	v.SetDefault("handler.nodeId", defaultNodeID)
	v.SetDefault("handler.context", "")
	v.SetDefault("storage.tempDir", defaultTempDir)
	v.SetDefault("storage.repositoriesDir", defaultRepositoriesDir)
	v.SetDefault("defaults.timeout", time.Duration(0))
	v.SetDefault("defaults.outputFormat", defaultOutputFormat)
	v.SetDefault("defaults.noColor", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The storage folders also answer to their historical variable names.
	_ = v.BindEnv("storage.tempDir", envPrefix+"_STORAGE_TEMPDIR", envPrefix+"_TEMP_FILE_PATH")
	_ = v.BindEnv("storage.repositoriesDir", envPrefix+"_STORAGE_REPOSITORIESDIR", envPrefix+"_REPOSITORIES_FILE_PATH")
}

// Load loads the configuration from file, environment and bound flags
func (m *Manager) Load() (*JobConfig, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			m.viper.AddConfigPath(home)
		}
		m.viper.AddConfigPath(".")
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	if err := m.viper.ReadInConfig(); err != nil {
		// A missing file is fine; defaults, env and flags still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &JobConfig{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	m.config = cfg
	m.applyDefaults()

	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	return m.config, nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *JobConfig {
	return m.config
}

// ConfigFileUsed returns the file the configuration was read from, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// applyDefaults fills zero values that a config file may have blanked out
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Handler.Name == "" {
		m.config.Handler.Name = defaultHandler
	}
	if m.config.Handler.NodeID == "" {
		m.config.Handler.NodeID = defaultNodeID
	}
	if m.config.Storage.TempDir == "" {
		m.config.Storage.TempDir = defaultTempDir
	}
	if m.config.Storage.RepositoriesDir == "" {
		m.config.Storage.RepositoriesDir = defaultRepositoriesDir
	}
	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = defaultOutputFormat
	}
}

// Validate checks the fields the engine does not validate itself. Batch
// geometry is left to the engine so its configuration reasons reach the user.
func (c *JobConfig) Validate() error {
	errs := &util.MultiError{}

	if !slices.Contains(Handlers, c.Handler.Name) {
		errs.Add(fmt.Errorf("%w: %q", util.ErrUnknownHandler, c.Handler.Name))
	}
	if c.Handler.Name == "exec" && strings.TrimSpace(c.Handler.Command) == "" {
		errs.Add(util.NewValidationError("handler.command", nil, "required by the exec handler"))
	}
	if !slices.Contains(OutputFormats, c.Defaults.OutputFormat) {
		errs.Add(util.NewValidationError("defaults.outputFormat", c.Defaults.OutputFormat, "must be table, json or yaml"))
	}
	if c.Defaults.Timeout < 0 {
		errs.Add(util.NewValidationError("defaults.timeout", c.Defaults.Timeout, "must not be negative"))
	}
	if c.Batch.MaxIterations < 0 {
		errs.Add(util.NewValidationError("batch.maxIterations", c.Batch.MaxIterations, "must not be negative"))
	}

	return errs.ErrorOrNil()
}
