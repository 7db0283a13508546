package config

import "time"

// JobConfig represents the chunkrun configuration file structure
type JobConfig struct {
	// Batch holds the engine options for a run
	Batch BatchConfig `yaml:"batch" json:"batch" mapstructure:"batch"`

	// Handler selects and configures the per-item handler
	Handler HandlerConfig `yaml:"handler" json:"handler" mapstructure:"handler"`

	// Storage holds the file handler's root folders
	Storage StorageConfig `yaml:"storage" json:"storage" mapstructure:"storage"`

	// Defaults contains default settings for the CLI
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty" mapstructure:"defaults"`
}

// BatchConfig mirrors the engine constructor options
type BatchConfig struct {
	BatchSize     int  `yaml:"batchSize" json:"batchSize" mapstructure:"batchSize"`
	StopOnFailure bool `yaml:"stopOnFailure" json:"stopOnFailure" mapstructure:"stopOnFailure"`
	AllowEmpty    bool `yaml:"allowEmpty" json:"allowEmpty" mapstructure:"allowEmpty"`
	StartingIndex int  `yaml:"startingIndex" json:"startingIndex" mapstructure:"startingIndex"`

	// EndingIndex bounds chunk starts when positive
	EndingIndex int `yaml:"endingIndex,omitempty" json:"endingIndex,omitempty" mapstructure:"endingIndex"`

	// MaxIterations caps the number of chunk iterations when positive
	MaxIterations int `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// HandlerConfig configures the built-in handlers
type HandlerConfig struct {
	// Name is one of echo, exec, file, kube
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Command is run through sh -c by the exec handler
	Command string `yaml:"command,omitempty" json:"command,omitempty" mapstructure:"command"`

	// FailOn lists item values the echo handler rejects
	FailOn []string `yaml:"failOn,omitempty" json:"failOn,omitempty" mapstructure:"failOn"`

	// JobID and NodeID place the file handler's output under the temp folder
	JobID  string `yaml:"jobId,omitempty" json:"jobId,omitempty" mapstructure:"jobId"`
	NodeID string `yaml:"nodeId,omitempty" json:"nodeId,omitempty" mapstructure:"nodeId"`

	// Context is the kubeconfig context used by the kube handler
	Context string `yaml:"context,omitempty" json:"context,omitempty" mapstructure:"context"`
}

// StorageConfig holds the temp and repository root folders
type StorageConfig struct {
	TempDir         string `yaml:"tempDir" json:"tempDir" mapstructure:"tempDir"`
	RepositoriesDir string `yaml:"repositoriesDir" json:"repositoriesDir" mapstructure:"repositoriesDir"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Timeout bounds a whole run; 0 means no deadline
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" mapstructure:"timeout"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty" mapstructure:"outputFormat"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty" mapstructure:"noColor"`
}
