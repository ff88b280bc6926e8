package ambient

import (
	"context"

	"github.com/Philipp01105/logstream/core"
)

const (
	envHostname      = "HOSTNAME"
	envPodNamespace  = "POD_NAMESPACE"
	envContainerName = "CONTAINER_NAME"

	defaultNamespace = "default"
)

// Provider turns ambient metadata into record fields.
type Provider struct {
	env Environment
}

// NewProvider returns a Provider reading from env; nil means the OS.
func NewProvider(env Environment) *Provider {
	if env == nil {
		env = OSEnvironment{}
	}
	return &Provider{env: env}
}

// RequestContext describes where the record was logged from. Without a
// request in ctx the process is treated as a command-line run.
func (p *Provider) RequestContext(ctx context.Context) core.Fields {
	req, ok := RequestFrom(ctx)
	if !ok {
		return core.Fields{
			core.String("type", "cli"),
			core.String("script", p.env.Script()),
		}
	}

	var fs core.Fields
	add := func(key, val string) {
		if val != "" {
			fs = append(fs, core.String(key, val))
		}
	}
	add("method", req.Method)
	if req.URI != "" {
		add("uri", req.URI)
		add("path", req.Path())
	}
	add("host", req.Host)
	add("client_ip", req.ClientIP())
	add("user_agent", req.UserAgent)
	return fs
}

// TraceID returns the distributed trace id of the current request: the
// X-Trace-Id header, else X-Request-Id. Empty when neither is present.
func (p *Provider) TraceID(ctx context.Context) string {
	req, ok := RequestFrom(ctx)
	if !ok {
		return ""
	}
	if req.TraceID != "" {
		return req.TraceID
	}
	return req.RequestID
}

// Kubernetes returns pod metadata when HOSTNAME is set, nil otherwise.
// The container name defaults to service.
func (p *Provider) Kubernetes(service string) core.Fields {
	pod, ok := p.env.LookupEnv(envHostname)
	if !ok {
		return nil
	}
	namespace, ok := p.env.LookupEnv(envPodNamespace)
	if !ok {
		namespace = defaultNamespace
	}
	container, ok := p.env.LookupEnv(envContainerName)
	if !ok {
		container = service
	}
	return core.Fields{
		core.String("pod_name", pod),
		core.String("namespace", namespace),
		core.String("container_name", container),
	}
}
