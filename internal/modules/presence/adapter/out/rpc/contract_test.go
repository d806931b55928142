package rpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type memoryServer struct {
	mu       sync.Mutex
	clientID string
	activity *Activity
	cleared  bool
}

func (s *memoryServer) GetMetadata(context.Context, *Empty) (*Metadata, error) {
	return &Metadata{Name: "memory", Version: "test"}, nil
}

func (s *memoryServer) Connect(_ context.Context, in *ConnectRequest) (*Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientID = in.ClientID
	return &Empty{}, nil
}

func (s *memoryServer) Update(_ context.Context, in *Activity) (*Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *in
	s.activity = &copied
	s.cleared = false
	return &Empty{}, nil
}

func (s *memoryServer) Clear(context.Context, *Empty) (*Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = nil
	s.cleared = true
	return &Empty{}, nil
}

func TestJSONContractRoundTrip(t *testing.T) {
	t.Parallel()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer()
	impl := &memoryServer{}
	RegisterPresenceServer(server, impl)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	client := NewPresenceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	meta, err := client.GetMetadata(ctx)
	if err != nil || meta.Name != "memory" {
		t.Fatalf("metadata: %+v, %v", meta, err)
	}
	if err := client.Connect(ctx, &ConnectRequest{ClientID: "123"}); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := client.Update(ctx, &Activity{Details: "英単語", State: "累計:1時間0分(うち今月:0時間10分)", StartEpoch: 42}); err != nil {
		t.Fatalf("update: %v", err)
	}

	impl.mu.Lock()
	if impl.clientID != "123" || impl.activity == nil || impl.activity.Details != "英単語" || impl.activity.StartEpoch != 42 {
		impl.mu.Unlock()
		t.Fatalf("server state not updated: %+v", impl.activity)
	}
	impl.mu.Unlock()

	if err := client.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	impl.mu.Lock()
	defer impl.mu.Unlock()
	if !impl.cleared || impl.activity != nil {
		t.Fatalf("expected cleared activity")
	}
}
