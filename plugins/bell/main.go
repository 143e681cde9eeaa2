// Command bell is the reference cue plugin. It rings the terminal bell on
// stderr, which the host discards, so it doubles as a protocol smoke test.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-plugin"

	cuerpc "moodooro/internal/modules/cue/adapter/out/rpc"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *cuerpc.Empty) (*cuerpc.Metadata, error) {
	return &cuerpc.Metadata{
		Name:    "bell",
		Version: "1.0.0",
		Events:  []string{"focus_complete", "break_complete"},
	}, nil
}

func (s *server) Notify(_ context.Context, in *cuerpc.NotifyRequest) (*cuerpc.NotifyResponse, error) {
	switch in.Kind {
	case "focus_complete", "break_complete":
	default:
		return nil, fmt.Errorf("unknown event: %s", in.Kind)
	}
	took := time.Duration(in.DurationMS) * time.Millisecond
	fmt.Fprintf(os.Stderr, "\a%s finished after %s\n", in.Kind, took)
	return &cuerpc.NotifyResponse{Message: "rang"}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: cuerpc.HandshakeConfig,
		Plugins:         cuerpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
