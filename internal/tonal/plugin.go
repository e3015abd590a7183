package tonal

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/mdyou/internal/tonal/protocol"
)

// connectFunc opens a connection to a tonal service and returns the RPC
// client plus a function that tears the connection down.
type connectFunc func() (*protocol.TonalRPCClient, func(), error)

// PluginLibrary is a Library served by an external process over go-plugin
// net/rpc. The process is launched in the background by Start; the library
// reports ready once the service has been dispensed and its protocol
// version accepted. A failed launch leaves it permanently not ready.
type PluginLibrary struct {
	path    string
	logger  hclog.Logger
	connect connectFunc

	startOnce sync.Once
	ready     atomic.Bool
	done      chan struct{}

	mu     sync.Mutex
	client *protocol.TonalRPCClient
	info   protocol.ServiceInfo
	closer func()
	closed bool
	err    error
}

// NewPluginLibrary creates a library for the service binary at path,
// invoked with args.
func NewPluginLibrary(path string, args []string, logger hclog.Logger) *PluginLibrary {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	p := &PluginLibrary{
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}
	p.connect = func() (*protocol.TonalRPCClient, func(), error) {
		return dialProcess(path, args, logger)
	}
	return p
}

// newPluginLibraryWithConnect is used by tests to bypass process launch.
func newPluginLibraryWithConnect(connect connectFunc, logger hclog.Logger) *PluginLibrary {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginLibrary{
		path:    "in-memory",
		logger:  logger,
		connect: connect,
		done:    make(chan struct{}),
	}
}

// Name returns the library name.
func (p *PluginLibrary) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.info.Name != "" {
		return "plugin:" + p.info.Name
	}
	return "plugin:" + p.path
}

// Start launches the service in the background. It is safe to call more
// than once; only the first call has an effect.
func (p *PluginLibrary) Start() {
	p.startOnce.Do(func() {
		go p.launch()
	})
}

func (p *PluginLibrary) launch() {
	defer close(p.done)

	started := time.Now()
	client, closer, err := p.connect()
	if err != nil {
		p.fail(fmt.Errorf("failed to start tonal service: %w", err))
		return
	}

	info, err := client.Info()
	if err != nil {
		closer()
		p.fail(fmt.Errorf("failed to query tonal service info: %w", err))
		return
	}
	if _, err := protocol.IsCompatible(info.ProtocolVersion); err != nil {
		closer()
		p.fail(fmt.Errorf("tonal service %s rejected: %w", info.Name, err))
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		closer()
		return
	}
	p.client = client
	p.closer = closer
	p.info = info
	p.ready.Store(true)
	p.mu.Unlock()

	p.logger.Debug("tonal service ready", "name", info.Name, "version", info.Version, "elapsed", time.Since(started))
}

func (p *PluginLibrary) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	p.logger.Warn("tonal service unavailable", "path", p.path, "error", err)
}

// Ready reports whether the service is connected.
func (p *PluginLibrary) Ready() bool {
	return p.ready.Load()
}

// Done is closed once the launch attempt has finished, successfully or not.
func (p *PluginLibrary) Done() <-chan struct{} {
	return p.done
}

// Err returns the launch error, if any.
func (p *PluginLibrary) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Theme requests the palettes for argb from the service.
func (p *PluginLibrary) Theme(ctx context.Context, argb uint32, dark bool) (*Theme, error) {
	if !p.Ready() {
		return nil, ErrNotReady
	}

	p.mu.Lock()
	client := p.client
	p.mu.Unlock()
	if client == nil {
		return nil, ErrNotReady
	}

	resp, err := client.Theme(ctx, protocol.ThemeRequest{ARGB: argb, Dark: dark})
	if err != nil {
		return nil, fmt.Errorf("tonal service theme request failed: %w", err)
	}

	return themeFromResponse(resp), nil
}

// Close kills the service process. A launch still in progress is torn
// down as soon as it connects.
func (p *PluginLibrary) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.ready.Store(false)
	if p.closer != nil {
		p.closer()
		p.closer = nil
	}
	p.client = nil
}

func dialProcess(path string, args []string, logger hclog.Logger) (*protocol.TonalRPCClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: protocol.Handshake,
		Plugins: map[string]plugin.Plugin{
			protocol.PluginName: &protocol.TonalRPC{},
		},
		Cmd:              exec.Command(path, args...), // #nosec G204 - service path comes from user configuration
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           logger.Named("plugin"),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(protocol.PluginName)
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	tc, ok := raw.(*protocol.TonalRPCClient)
	if !ok {
		client.Kill()
		return nil, nil, fmt.Errorf("unexpected plugin client type %T", raw)
	}

	return tc, client.Kill, nil
}

func tableFrom(tones []uint32) *Table {
	var t Table
	copy(t[:], tones)
	return &t
}

func themeFromResponse(resp protocol.ThemeResponse) *Theme {
	return &Theme{
		Primary:        tableFrom(resp.Primary),
		Secondary:      tableFrom(resp.Secondary),
		Tertiary:       tableFrom(resp.Tertiary),
		Neutral:        tableFrom(resp.Neutral),
		NeutralVariant: tableFrom(resp.NeutralVariant),
		Error:          tableFrom(resp.Error),
	}
}
