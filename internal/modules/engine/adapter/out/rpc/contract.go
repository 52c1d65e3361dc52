package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	readerdomain "folio/internal/modules/reader/domain"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey         = "folio-engine"
	serviceName          = "folio.engine.v1.Navigator"
	jsonCodecName        = "json"
	methodGetMetadata    = "/" + serviceName + "/GetMetadata"
	methodTOC            = "/" + serviceName + "/TableOfContents"
	methodPositionCount  = "/" + serviceName + "/PositionCount"
	methodLocate         = "/" + serviceName + "/Locate"
	methodCurrentLocator = "/" + serviceName + "/CurrentLocator"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "FOLIO_ENGINE",
	MagicCookieValue: "folio",
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
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Kinds   []string `json:"kinds"`
}

type BookRequest struct {
	Path string `json:"path"`
}

type TOCResponse struct {
	Entries []readerdomain.TOCEntry `json:"entries"`
}

type PositionCountResponse struct {
	Count int      `json:"count"`
	Hrefs []string `json:"hrefs"`
}

type LocateRequest struct {
	Path string `json:"path"`
	Page int    `json:"page"`
}

type LocatorResponse struct {
	Found   bool                 `json:"found"`
	Locator readerdomain.Locator `json:"locator"`
	Text    string               `json:"text"`
}

type NavigatorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	TableOfContents(ctx context.Context, in *BookRequest) (*TOCResponse, error)
	PositionCount(ctx context.Context, in *BookRequest) (*PositionCountResponse, error)
	Locate(ctx context.Context, in *LocateRequest) (*LocatorResponse, error)
	CurrentLocator(ctx context.Context, in *BookRequest) (*LocatorResponse, error)
}

type NavigatorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	TableOfContents(ctx context.Context, in *BookRequest) (*TOCResponse, error)
	PositionCount(ctx context.Context, in *BookRequest) (*PositionCountResponse, error)
	Locate(ctx context.Context, in *LocateRequest) (*LocatorResponse, error)
	CurrentLocator(ctx context.Context, in *BookRequest) (*LocatorResponse, error)
}

type navigatorClient struct {
	conn *grpc.ClientConn
}

func NewNavigatorClient(conn *grpc.ClientConn) NavigatorClient {
	return &navigatorClient{conn: conn}
}

func invoke[Req, Resp any](ctx context.Context, conn *grpc.ClientConn, method string, in *Req) (*Resp, error) {
	out := new(Resp)
	if err := conn.Invoke(ctx, method, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *navigatorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	return invoke[Empty, Metadata](ctx, c.conn, methodGetMetadata, &Empty{})
}

func (c *navigatorClient) TableOfContents(ctx context.Context, in *BookRequest) (*TOCResponse, error) {
	return invoke[BookRequest, TOCResponse](ctx, c.conn, methodTOC, in)
}

func (c *navigatorClient) PositionCount(ctx context.Context, in *BookRequest) (*PositionCountResponse, error) {
	return invoke[BookRequest, PositionCountResponse](ctx, c.conn, methodPositionCount, in)
}

func (c *navigatorClient) Locate(ctx context.Context, in *LocateRequest) (*LocatorResponse, error) {
	return invoke[LocateRequest, LocatorResponse](ctx, c.conn, methodLocate, in)
}

func (c *navigatorClient) CurrentLocator(ctx context.Context, in *BookRequest) (*LocatorResponse, error) {
	return invoke[BookRequest, LocatorResponse](ctx, c.conn, methodCurrentLocator, in)
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any](name, fullMethod string, call func(context.Context, *Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				typed, ok := req.(*Req)
				if !ok {
					return nil, fmt.Errorf("invalid request type")
				}
				return call(ctx, typed)
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func RegisterNavigatorServer(server grpc.ServiceRegistrar, impl NavigatorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*NavigatorServer)(nil),
		Methods: []grpc.MethodDesc{
			unary("GetMetadata", methodGetMetadata, func(ctx context.Context, in *Empty) (any, error) {
				return impl.GetMetadata(ctx, in)
			}),
			unary("TableOfContents", methodTOC, func(ctx context.Context, in *BookRequest) (any, error) {
				return impl.TableOfContents(ctx, in)
			}),
			unary("PositionCount", methodPositionCount, func(ctx context.Context, in *BookRequest) (any, error) {
				return impl.PositionCount(ctx, in)
			}),
			unary("Locate", methodLocate, func(ctx context.Context, in *LocateRequest) (any, error) {
				return impl.Locate(ctx, in)
			}),
			unary("CurrentLocator", methodCurrentLocator, func(ctx context.Context, in *BookRequest) (any, error) {
				return impl.CurrentLocator(ctx, in)
			}),
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "folio/engine/v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl NavigatorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterNavigatorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewNavigatorClient(conn), nil
}

func PluginMap(impl NavigatorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
