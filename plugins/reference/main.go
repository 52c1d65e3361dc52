package main

import (
	"context"
	"fmt"
	"sync"

	enginerpc "folio/internal/modules/engine/adapter/out/rpc"
	positiondomain "folio/internal/modules/position/domain"
	readerout "folio/internal/modules/reader/adapter/out"
	"folio/internal/modules/reader/domain"
	readerport "folio/internal/modules/reader/port/out"

	"github.com/hashicorp/go-plugin"
)

// server runs the built-in navigators out of process, one per book path.
type server struct {
	mu      sync.Mutex
	factory readerport.NavigatorFactory
	open    map[string]readerport.Navigator
}

func newServer() *server {
	return &server{factory: readerout.NewLocalNavigatorFactory(), open: map[string]readerport.Navigator{}}
}

func (s *server) GetMetadata(_ context.Context, _ *enginerpc.Empty) (*enginerpc.Metadata, error) {
	return &enginerpc.Metadata{
		Name:    "reference",
		Version: "1.0.0",
		Kinds:   []string{string(positiondomain.KindEPUB), string(positiondomain.KindCBZ)},
	}, nil
}

func (s *server) navigator(ctx context.Context, path string) (readerport.Navigator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nav, ok := s.open[path]; ok {
		return nav, nil
	}
	kind, err := positiondomain.KindFromPath(path)
	if err != nil {
		return nil, err
	}
	nav, err := s.factory.Open(ctx, domain.BookRef{Kind: kind, FilePath: path})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s.open[path] = nav
	return nav, nil
}

func (s *server) TableOfContents(ctx context.Context, in *enginerpc.BookRequest) (*enginerpc.TOCResponse, error) {
	nav, err := s.navigator(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	return &enginerpc.TOCResponse{Entries: nav.TableOfContents()}, nil
}

func (s *server) PositionCount(ctx context.Context, in *enginerpc.BookRequest) (*enginerpc.PositionCountResponse, error) {
	nav, err := s.navigator(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	pages := nav.Pages()
	return &enginerpc.PositionCountResponse{Count: pages.Count, Hrefs: pages.Hrefs}, nil
}

func (s *server) Locate(ctx context.Context, in *enginerpc.LocateRequest) (*enginerpc.LocatorResponse, error) {
	nav, err := s.navigator(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	view, err := nav.Locate(ctx, in.Page)
	if err != nil {
		return nil, err
	}
	return &enginerpc.LocatorResponse{Found: true, Locator: view.Locator, Text: view.Text}, nil
}

func (s *server) CurrentLocator(ctx context.Context, in *enginerpc.BookRequest) (*enginerpc.LocatorResponse, error) {
	nav, err := s.navigator(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	loc, ok, err := nav.CurrentLocator(ctx)
	if err != nil {
		return nil, err
	}
	return &enginerpc.LocatorResponse{Found: ok, Locator: loc}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: enginerpc.HandshakeConfig,
		Plugins:         enginerpc.PluginMap(newServer()),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
