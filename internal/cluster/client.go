package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// ErrNamespaceNotFound is returned when a probed namespace does not exist
var ErrNamespaceNotFound = errors.New("namespace not found")

// healthTimeout bounds a single discovery call
const healthTimeout = 10 * time.Second

// Client is a connection to the Kubernetes cluster selected by a kubeconfig context
type Client struct {
	// Context is the kubeconfig context name
	Context string

	// Clientset is the Kubernetes client interface
	Clientset kubernetes.Interface

	// RestConfig is the underlying REST configuration, nil for injected clientsets
	RestConfig *rest.Config

	// Healthy indicates if the last health check passed
	Healthy bool
}

// NewClient creates a new cluster client from a REST config
func NewClient(ctx context.Context, contextName string, restConfig *rest.Config, logger *slog.Logger) (*Client, error) {
	if restConfig == nil {
		return nil, fmt.Errorf("rest config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	logger.Debug("created cluster client",
		"context", contextName,
		"server", restConfig.Host)

	return &Client{
		Context:    contextName,
		Clientset:  clientset,
		RestConfig: restConfig,
	}, nil
}

// NewClientFromClientset wraps an existing clientset, e.g. a fake one in tests
func NewClientFromClientset(contextName string, clientset kubernetes.Interface) *Client {
	return &Client{
		Context:   contextName,
		Clientset: clientset,
	}
}

// HealthCheck pings the API server through the Discovery API
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.ServerVersion(ctx); err != nil {
		c.Healthy = false
		return fmt.Errorf("health check failed: %w", err)
	}
	c.Healthy = true
	return nil
}

// ServerVersion returns the Kubernetes server version
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	versionCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	type result struct {
		version string
		err     error
	}
	resultCh := make(chan result, 1)

	// Discovery takes no context, so race it against ours.
	go func() {
		info, err := c.Clientset.Discovery().ServerVersion()
		if err != nil {
			resultCh <- result{err: err}
			return
		}
		resultCh <- result{version: info.String()}
	}()

	select {
	case <-versionCtx.Done():
		return "", fmt.Errorf("get server version: %w", versionCtx.Err())
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to get server version: %w", res.err)
		}
		return res.version, nil
	}
}

// NamespacePhase returns the phase of the named namespace
func (c *Client) NamespacePhase(ctx context.Context, name string) (string, error) {
	ns, err := c.Clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", fmt.Errorf("%w: %s", ErrNamespaceNotFound, name)
		}
		return "", fmt.Errorf("failed to get namespace %s: %w", name, err)
	}
	return string(ns.Status.Phase), nil
}

// String returns a string representation of the client
func (c *Client) String() string {
	return fmt.Sprintf("Client{Context: %s, Healthy: %v}", c.Context, c.Healthy)
}
