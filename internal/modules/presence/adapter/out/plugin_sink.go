package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	presencerpc "studylog/internal/modules/presence/adapter/out/rpc"
	"studylog/internal/modules/presence/domain"
	presenceout "studylog/internal/modules/presence/port/out"
)

const defaultStartTimeout = 3 * time.Second

// PluginSink drives an out-of-process presence plugin over go-plugin gRPC.
// The plugin process lives until Close; a crashed process is restarted on
// the next Connect.
type PluginSink struct {
	binary   string
	clientID string
	logOut   io.Writer

	mu     sync.Mutex
	client *plugin.Client
	rpc    presencerpc.PresenceClient
}

func NewPluginSink(binary, clientID string, logOut io.Writer) *PluginSink {
	if logOut == nil {
		logOut = io.Discard
	}
	return &PluginSink{binary: binary, clientID: clientID, logOut: logOut}
}

var _ presenceout.Sink = (*PluginSink)(nil)

func (s *PluginSink) Name() string {
	return "plugin:" + filepath.Base(s.binary)
}

func (s *PluginSink) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil && s.client.Exited() {
		s.resetLocked()
	}
	if s.rpc == nil {
		if err := s.startLocked(); err != nil {
			return err
		}
	}
	if err := s.rpc.Connect(ctx, &presencerpc.ConnectRequest{ClientID: s.clientID}); err != nil {
		return fmt.Errorf("plugin connect: %w", err)
	}
	return nil
}

func (s *PluginSink) Update(ctx context.Context, status domain.Status) error {
	client, err := s.current()
	if err != nil {
		return err
	}
	err = client.Update(ctx, &presencerpc.Activity{
		Details:    status.Details,
		State:      status.State,
		LargeImage: status.LargeImage,
		LargeText:  status.LargeText,
		StartEpoch: status.StartEpoch(),
	})
	if err != nil {
		s.dropIfExited()
		return fmt.Errorf("plugin update: %w", err)
	}
	return nil
}

func (s *PluginSink) Clear(ctx context.Context) error {
	client, err := s.current()
	if err != nil {
		return err
	}
	if err := client.Clear(ctx); err != nil {
		s.dropIfExited()
		return fmt.Errorf("plugin clear: %w", err)
	}
	return nil
}

func (s *PluginSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return nil
}

func (s *PluginSink) current() (presencerpc.PresenceClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rpc == nil || (s.client != nil && s.client.Exited()) {
		s.resetLocked()
		return nil, fmt.Errorf("presence plugin not connected")
	}
	return s.rpc, nil
}

func (s *PluginSink) dropIfExited() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil && s.client.Exited() {
		s.resetLocked()
	}
}

func (s *PluginSink) startLocked() error {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  presencerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          presencerpc.PluginMap(nil),
		Cmd:              exec.Command(s.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Name: "presence", Output: s.logOut, Level: hclog.Warn}),
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return fmt.Errorf("start presence plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(presencerpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return fmt.Errorf("dispense presence plugin: %w", err)
	}
	typed, ok := raw.(presencerpc.PresenceClient)
	if !ok {
		client.Kill()
		return fmt.Errorf("presence plugin rpc client type mismatch")
	}
	s.client = client
	s.rpc = typed
	return nil
}

func (s *PluginSink) resetLocked() {
	if s.client != nil {
		s.client.Kill()
	}
	s.client = nil
	s.rpc = nil
}
