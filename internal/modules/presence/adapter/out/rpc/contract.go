package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "presence"
	serviceName       = "studylog.presence.v1.Presence"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodConnect     = "/" + serviceName + "/Connect"
	methodUpdate      = "/" + serviceName + "/Update"
	methodClear       = "/" + serviceName + "/Clear"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "STUDYLOG_PRESENCE_PLUGIN",
	MagicCookieValue: "studylog",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ConnectRequest struct {
	ClientID string `json:"client_id"`
}

// Activity mirrors the presence collaborator's update call.
type Activity struct {
	Details    string `json:"details"`
	State      string `json:"state"`
	LargeImage string `json:"large_image"`
	LargeText  string `json:"large_text"`
	StartEpoch int64  `json:"start_epoch"`
}

type PresenceServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Connect(ctx context.Context, in *ConnectRequest) (*Empty, error)
	Update(ctx context.Context, in *Activity) (*Empty, error)
	Clear(ctx context.Context, in *Empty) (*Empty, error)
}

type PresenceClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Connect(ctx context.Context, in *ConnectRequest) error
	Update(ctx context.Context, in *Activity) error
	Clear(ctx context.Context) error
}

type presenceClient struct {
	conn *grpc.ClientConn
}

func NewPresenceClient(conn *grpc.ClientConn) PresenceClient {
	return &presenceClient{conn: conn}
}

func (c *presenceClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *presenceClient) Connect(ctx context.Context, in *ConnectRequest) error {
	return c.conn.Invoke(ctx, methodConnect, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *presenceClient) Update(ctx context.Context, in *Activity) error {
	return c.conn.Invoke(ctx, methodUpdate, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *presenceClient) Clear(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodClear, &Empty{}, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func unary[Req, Resp any](fullMethod string, call func(context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	invoke := func(ctx context.Context, in *Req) (any, error) {
		out, err := call(ctx, in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return invoke(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return invoke(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterPresenceServer(server grpc.ServiceRegistrar, impl PresenceServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*PresenceServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetMetadata", Handler: unary(methodGetMetadata, impl.GetMetadata)},
			{MethodName: "Connect", Handler: unary(methodConnect, impl.Connect)},
			{MethodName: "Update", Handler: unary(methodUpdate, impl.Update)},
			{MethodName: "Clear", Handler: unary(methodClear, impl.Clear)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "presence-rpc-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl PresenceServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterPresenceServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewPresenceClient(conn), nil
}

func PluginMap(impl PresenceServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
