package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-plugin"

	presencerpc "studylog/internal/modules/presence/adapter/out/rpc"
)

type server struct {
	mu       sync.Mutex
	clientID string
	ipc      *ipcClient
	dial     func(ctx context.Context, clientID string) (*ipcClient, error)
}

func newServer() *server {
	return &server{dial: dialIPC}
}

func (s *server) GetMetadata(context.Context, *presencerpc.Empty) (*presencerpc.Metadata, error) {
	return &presencerpc.Metadata{Name: "discord", Version: "1.0.0"}, nil
}

func (s *server) Connect(ctx context.Context, in *presencerpc.ConnectRequest) (*presencerpc.Empty, error) {
	if in.ClientID == "" {
		return nil, fmt.Errorf("discord client id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ipc != nil && s.clientID == in.ClientID {
		return &presencerpc.Empty{}, nil
	}
	s.dropLocked()
	s.clientID = in.ClientID
	if err := s.ensureLocked(ctx); err != nil {
		return nil, err
	}
	return &presencerpc.Empty{}, nil
}

func (s *server) Update(ctx context.Context, in *presencerpc.Activity) (*presencerpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLocked(ctx); err != nil {
		return nil, err
	}
	err := s.ipc.SetActivity(ctx, &activity{
		Details:    in.Details,
		State:      in.State,
		Timestamps: timestamps{Start: in.StartEpoch},
		Assets:     assets{LargeImage: in.LargeImage, LargeText: in.LargeText},
	})
	if err != nil {
		s.dropLocked()
		return nil, err
	}
	return &presencerpc.Empty{}, nil
}

func (s *server) Clear(ctx context.Context, _ *presencerpc.Empty) (*presencerpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Without a connection Discord is already showing nothing for us.
	if s.ipc == nil {
		return &presencerpc.Empty{}, nil
	}
	if err := s.ipc.SetActivity(ctx, nil); err != nil {
		s.dropLocked()
		return nil, err
	}
	return &presencerpc.Empty{}, nil
}

func (s *server) ensureLocked(ctx context.Context) error {
	if s.ipc != nil {
		return nil
	}
	if s.clientID == "" {
		return fmt.Errorf("discord presence not connected")
	}
	client, err := s.dial(ctx, s.clientID)
	if err != nil {
		return err
	}
	s.ipc = client
	return nil
}

func (s *server) dropLocked() {
	if s.ipc != nil {
		_ = s.ipc.Close()
		s.ipc = nil
	}
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: presencerpc.HandshakeConfig,
		Plugins:         presencerpc.PluginMap(newServer()),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
