package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	enginerpc "folio/internal/modules/engine/adapter/out/rpc"
	"folio/internal/modules/engine/domain"
	engineout "folio/internal/modules/engine/port/out"
	readerdomain "folio/internal/modules/reader/domain"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

type GRPCHost struct {
	logger hclog.Logger
}

func NewGRPCHost(logger hclog.Logger) engineout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger.Named("engine")}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	conn, err := h.dial(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer conn.Close()

	callCtx, cancel := callContext(ctx)
	defer cancel()
	meta, err := conn.client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, wrapCall(callCtx, manifest.Name, "get metadata", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Kinds: meta.Kinds}, nil
}

func (h *GRPCHost) Dial(_ context.Context, manifest domain.Manifest) (engineout.Conn, error) {
	return h.dial(manifest)
}

func (h *GRPCHost) dial(manifest domain.Manifest) (*grpcConn, error) {
	logger := h.logger.Named(manifest.Name)
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  enginerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          enginerpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           logger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start engine client: %w", err)
	}
	raw, err := rpcClient.Dispense(enginerpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense engine: %w", err)
	}
	typed, ok := raw.(enginerpc.NavigatorClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("engine rpc client type mismatch")
	}
	logger.Debug("engine started", "binary", manifest.Binary)
	return &grpcConn{name: manifest.Name, client: typed, kill: client.Kill}, nil
}

type grpcConn struct {
	name   string
	client enginerpc.NavigatorClient
	kill   func()
}

func (c *grpcConn) TableOfContents(ctx context.Context, bookPath string) ([]readerdomain.TOCEntry, error) {
	callCtx, cancel := callContext(ctx)
	defer cancel()
	resp, err := c.client.TableOfContents(callCtx, &enginerpc.BookRequest{Path: bookPath})
	if err != nil {
		return nil, wrapCall(callCtx, c.name, "table of contents", err)
	}
	return resp.Entries, nil
}

func (c *grpcConn) PositionCount(ctx context.Context, bookPath string) (readerdomain.PageInfo, error) {
	callCtx, cancel := callContext(ctx)
	defer cancel()
	resp, err := c.client.PositionCount(callCtx, &enginerpc.BookRequest{Path: bookPath})
	if err != nil {
		return readerdomain.PageInfo{}, wrapCall(callCtx, c.name, "position count", err)
	}
	return readerdomain.PageInfo{Count: resp.Count, Hrefs: resp.Hrefs}, nil
}

func (c *grpcConn) Locate(ctx context.Context, bookPath string, page int) (readerdomain.PageView, error) {
	callCtx, cancel := callContext(ctx)
	defer cancel()
	resp, err := c.client.Locate(callCtx, &enginerpc.LocateRequest{Path: bookPath, Page: page})
	if err != nil {
		return readerdomain.PageView{}, wrapCall(callCtx, c.name, "locate", err)
	}
	if !resp.Found {
		return readerdomain.PageView{}, fmt.Errorf("engine %s: page %d not found", c.name, page)
	}
	return readerdomain.PageView{Locator: resp.Locator, Text: resp.Text}, nil
}

func (c *grpcConn) CurrentLocator(ctx context.Context, bookPath string) (readerdomain.Locator, bool, error) {
	callCtx, cancel := callContext(ctx)
	defer cancel()
	resp, err := c.client.CurrentLocator(callCtx, &enginerpc.BookRequest{Path: bookPath})
	if err != nil {
		return readerdomain.Locator{}, false, wrapCall(callCtx, c.name, "current locator", err)
	}
	return resp.Locator, resp.Found, nil
}

func (c *grpcConn) Close() {
	c.kill()
}

func wrapCall(callCtx context.Context, name, op string, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s", domain.ErrEngineTimeout, name, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}
