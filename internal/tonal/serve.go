package tonal

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/mdyou/internal/tonal/protocol"
	"github.com/jmylchreest/mdyou/internal/version"
)

// service exposes a Library as a protocol.Service.
type service struct {
	lib Library
}

// NewService wraps lib for serving as an out-of-process tonal service.
func NewService(lib Library) protocol.Service {
	return &service{lib: lib}
}

func (s *service) Theme(ctx context.Context, req protocol.ThemeRequest) (protocol.ThemeResponse, error) {
	if !s.lib.Ready() {
		return protocol.ThemeResponse{}, ErrNotReady
	}

	theme, err := s.lib.Theme(ctx, req.ARGB, req.Dark)
	if err != nil {
		return protocol.ThemeResponse{}, err
	}
	if err := theme.Validate(); err != nil {
		return protocol.ThemeResponse{}, fmt.Errorf("library %s returned an invalid theme: %w", s.lib.Name(), err)
	}

	tones := func(p Palette) []uint32 {
		t := Materialise(p)
		return t[:]
	}

	return protocol.ThemeResponse{
		Primary:        tones(theme.Primary),
		Secondary:      tones(theme.Secondary),
		Tertiary:       tones(theme.Tertiary),
		Neutral:        tones(theme.Neutral),
		NeutralVariant: tones(theme.NeutralVariant),
		Error:          tones(theme.Error),
	}, nil
}

func (s *service) Info() protocol.ServiceInfo {
	return protocol.ServiceInfo{
		Name:            s.lib.Name(),
		Version:         version.Short(),
		ProtocolVersion: protocol.ProtocolVersion,
	}
}

// Serve runs lib as a go-plugin tonal service on stdio. It blocks until
// the host disconnects.
func Serve(lib Library, logger hclog.Logger) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: protocol.Handshake,
		Plugins: map[string]plugin.Plugin{
			protocol.PluginName: &protocol.TonalRPC{Impl: NewService(lib)},
		},
		Logger: logger,
	})
}
