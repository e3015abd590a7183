package protocol

import (
	"context"
	"fmt"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// ThemeRequest asks a service for the palettes of a source colour.
type ThemeRequest struct {
	ARGB uint32
	Dark bool
}

// ThemeResponse carries every tone (0-100) of the six palettes.
type ThemeResponse struct {
	Primary        []uint32
	Secondary      []uint32
	Tertiary       []uint32
	Neutral        []uint32
	NeutralVariant []uint32
	Error          []uint32
}

// Validate checks that every palette carries tones 0 through 100.
func (r *ThemeResponse) Validate() error {
	named := map[string][]uint32{
		"primary":        r.Primary,
		"secondary":      r.Secondary,
		"tertiary":       r.Tertiary,
		"neutral":        r.Neutral,
		"neutralVariant": r.NeutralVariant,
		"error":          r.Error,
	}
	for name, tones := range named {
		if len(tones) != 101 {
			return fmt.Errorf("palette %s has %d tones, want 101", name, len(tones))
		}
	}
	return nil
}

// ServiceInfo describes a tonal service.
type ServiceInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
}

// Service is implemented by tonal palette services.
type Service interface {
	Theme(ctx context.Context, req ThemeRequest) (ThemeResponse, error)
	Info() ServiceInfo
}

// TonalRPC implements plugin.Plugin for tonal services over net/rpc.
type TonalRPC struct {
	plugin.Plugin
	Impl Service
}

// Server returns an RPC server for this plugin.
func (p *TonalRPC) Server(*plugin.MuxBroker) (interface{}, error) {
	return &TonalRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *TonalRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &TonalRPCClient{client: c}, nil
}

// TonalRPCServer is the RPC server implementation.
type TonalRPCServer struct {
	Impl Service
}

// Theme implements the RPC method for palette generation.
func (s *TonalRPCServer) Theme(req ThemeRequest, resp *ThemeResponse) error {
	result, err := s.Impl.Theme(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

// Info implements the RPC method for fetching service metadata.
func (s *TonalRPCServer) Info(_ interface{}, resp *ServiceInfo) error {
	*resp = s.Impl.Info()
	return nil
}

// TonalRPCClient is the RPC client implementation.
type TonalRPCClient struct {
	client *rpc.Client
}

// Theme calls the remote Theme method. The call is abandoned, not
// interrupted, when ctx is done.
func (c *TonalRPCClient) Theme(ctx context.Context, req ThemeRequest) (ThemeResponse, error) {
	var resp ThemeResponse
	call := c.client.Go("Plugin.Theme", req, &resp, make(chan *rpc.Call, 1))

	select {
	case <-ctx.Done():
		return ThemeResponse{}, ctx.Err()
	case <-call.Done:
	}
	if call.Error != nil {
		return ThemeResponse{}, call.Error
	}
	if err := resp.Validate(); err != nil {
		return ThemeResponse{}, err
	}
	return resp, nil
}

// Info calls the remote Info method.
func (c *TonalRPCClient) Info() (ServiceInfo, error) {
	var info ServiceInfo
	err := c.client.Call("Plugin.Info", new(interface{}), &info)
	return info, err
}
