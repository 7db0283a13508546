package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

// KubeconfigLoader handles loading and merging kubeconfig files for the kube handler
type KubeconfigLoader struct {
	paths        []string
	loadedConfig *api.Config
}

// NewKubeconfigLoader creates a new kubeconfig loader
// It checks sources in the following order:
// 1. Explicit path (--kubeconfig flag)
// 2. KUBECONFIG environment variable (a path list)
// 3. Default ~/.kube/config
func NewKubeconfigLoader(explicitPath string) *KubeconfigLoader {
	loader := &KubeconfigLoader{}

	if explicitPath != "" {
		if expanded, err := expandPath(explicitPath); err == nil {
			loader.paths = append(loader.paths, expanded)
		}
		return loader
	}

	if env := os.Getenv("KUBECONFIG"); env != "" {
		for _, p := range filepath.SplitList(env) {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if expanded, err := expandPath(p); err == nil {
				loader.paths = append(loader.paths, expanded)
			}
		}
	}

	if len(loader.paths) == 0 {
		if home, err := os.UserHomeDir(); err == nil {
			loader.paths = append(loader.paths, filepath.Join(home, ".kube", "config"))
		}
	}

	return loader
}

func (l *KubeconfigLoader) rules() (*clientcmd.ClientConfigLoadingRules, error) {
	if len(l.paths) == 0 {
		return nil, fmt.Errorf("no kubeconfig paths available")
	}
	return &clientcmd.ClientConfigLoadingRules{Precedence: l.paths}, nil
}

// Load returns the merged kubeconfig from all sources
func (l *KubeconfigLoader) Load() (*api.Config, error) {
	if l.loadedConfig != nil {
		return l.loadedConfig, nil
	}

	rules, err := l.rules()
	if err != nil {
		return nil, err
	}

	cfg, err := rules.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("kubeconfig is empty")
	}

	l.loadedConfig = cfg
	return cfg, nil
}

// Contexts returns all available context names, sorted
func (l *KubeconfigLoader) Contexts() ([]string, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	contexts := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		contexts = append(contexts, name)
	}
	slices.Sort(contexts)
	return contexts, nil
}

// ResolveContext returns contextName, or the current context when it is empty
func (l *KubeconfigLoader) ResolveContext(contextName string) (string, error) {
	cfg, err := l.Load()
	if err != nil {
		return "", err
	}

	if contextName == "" {
		contextName = cfg.CurrentContext
	}
	if contextName == "" {
		return "", fmt.Errorf("no context given and kubeconfig has no current context")
	}
	if _, ok := cfg.Contexts[contextName]; !ok {
		return "", fmt.Errorf("context %q not found in kubeconfig", contextName)
	}
	return contextName, nil
}

// RESTConfig creates a rest.Config for a specific context
func (l *KubeconfigLoader) RESTConfig(contextName string) (*rest.Config, error) {
	rules, err := l.rules()
	if err != nil {
		return nil, err
	}

	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create client config for context %q: %w", contextName, err)
	}

	return restConfig, nil
}

// Paths returns the kubeconfig paths being used
func (l *KubeconfigLoader) Paths() []string {
	return l.paths
}

// expandPath expands ~ and environment variables
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Clean(path), nil
}
