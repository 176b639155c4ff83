package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/internal/presentation/graph"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// VersionResolver maps a requested Minecraft version to one the catalog supports.
type VersionResolver interface {
	Resolve(ctx context.Context, requested domain.VersionDescriptor) (domain.VersionDescriptor, error)
}

// ResolveArgs are the arguments of the resolve_version tool.
type ResolveArgs struct {
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	ReleaseTime string `json:"release_time,omitempty"`
}

// FlowArgs are the arguments of the get_flow_graph tool.
type FlowArgs struct {
	Kind   string `json:"kind"`
	Format string `json:"format,omitempty"`
}

// LoaderArgs are the arguments of the list_loader_versions tool.
type LoaderArgs struct {
	Loader    string `json:"loader"`
	Minecraft string `json:"minecraft"`
}

// LoaderVersions is the output of the list_loader_versions tool.
type LoaderVersions struct {
	Loader    string   `json:"loader"`
	Minecraft string   `json:"minecraft"`
	Versions  []string `json:"versions"`
}

// Server exposes switchyard introspection as an MCP server.
type Server struct {
	flows     map[domain.ProjectKind]*domain.FlowGraph
	resolver  VersionResolver
	loaders   map[string]ports.LoaderCatalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithFlows registers the flow graph of each project kind.
func WithFlows(flows map[domain.ProjectKind]*domain.FlowGraph) Option {
	return func(s *Server) {
		s.flows = flows
	}
}

// WithResolver enables the resolve_version tool.
func WithResolver(r VersionResolver) Option {
	return func(s *Server) {
		s.resolver = r
	}
}

// WithLoaderCatalogs enables the list_loader_versions tool for the named catalogs.
func WithLoaderCatalogs(loaders map[string]ports.LoaderCatalog) Option {
	return func(s *Server) {
		s.loaders = loaders
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(version string, opts ...Option) *Server {
	s := &Server{
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("switchyard-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) kinds() []string {
	kinds := make([]string, 0, len(s.flows))
	for k := range s.flows {
		kinds = append(kinds, string(k))
	}
	slices.Sort(kinds)
	return kinds
}

func (s *Server) registerTools() {
	// TOOL: get_flow_graph
	s.mcpServer.AddTool(mcp.NewTool("get_flow_graph",
		mcp.WithDescription("Get the wizard step graph of a project kind, as JSON or a Mermaid flowchart."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Project kind"), mcp.Enum(s.kinds()...)),
		mcp.WithString("format", mcp.Description("Output format"), mcp.Enum("json", "mermaid"), mcp.DefaultString("json")),
	), mcp.NewTypedToolHandler(s.handleFlowGraph))

	if s.resolver != nil {
		// TOOL: resolve_version
		s.mcpServer.AddTool(mcp.NewTool("resolve_version",
			mcp.WithDescription("Map a Minecraft version (release or snapshot) to the closest version the project templates support."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Version id, e.g. 1.21.1 or 24w33a")),
			mcp.WithString("type", mcp.Description("Version type"), mcp.Enum("release", "snapshot", "old_beta", "old_alpha")),
			mcp.WithString("release_time", mcp.Description("RFC 3339 release time, used for snapshots")),
			mcp.WithOutputSchema[domain.VersionDescriptor](),
		), mcp.NewStructuredToolHandler(s.handleResolve))
	}

	if len(s.loaders) > 0 {
		// TOOL: list_loader_versions
		s.mcpServer.AddTool(mcp.NewTool("list_loader_versions",
			mcp.WithDescription("List loader, API or mapping versions available for a Minecraft version, newest first."),
			mcp.WithString("loader", mcp.Required(), mcp.Enum(slices.Sorted(maps.Keys(s.loaders))...)),
			mcp.WithString("minecraft", mcp.Required(), mcp.Description("Minecraft version id")),
			mcp.WithOutputSchema[LoaderVersions](),
		), mcp.NewStructuredToolHandler(s.handleLoaderVersions))
	}
}

func (s *Server) handleFlowGraph(ctx context.Context, request mcp.CallToolRequest, args FlowArgs) (*mcp.CallToolResult, error) {
	g, ok := s.flows[domain.ProjectKind(args.Kind)]
	if !ok {
		return mcp.NewToolResultErrorf("unknown project kind %q", args.Kind), nil
	}
	if args.Format == "mermaid" {
		return mcp.NewToolResultText(graph.GenerateMermaid(g, nil)), nil
	}
	data, err := json.Marshal(graph.Describe(domain.ProjectKind(args.Kind), g))
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args ResolveArgs) (domain.VersionDescriptor, error) {
	requested := domain.VersionDescriptor{ID: args.ID, Kind: domain.KindRelease}
	if requested.ID == "" {
		return domain.VersionDescriptor{}, errors.New("id is required")
	}
	if args.Type != "" {
		kind, ok := domain.ParseVersionKind(args.Type)
		if !ok {
			return domain.VersionDescriptor{}, fmt.Errorf("invalid type %q", args.Type)
		}
		requested.Kind = kind
	}
	if args.ReleaseTime != "" {
		t, err := time.Parse(time.RFC3339, args.ReleaseTime)
		if err != nil {
			return domain.VersionDescriptor{}, fmt.Errorf("invalid release_time: %w", err)
		}
		requested.ReleaseTime = t
	}

	resolved, err := s.resolver.Resolve(ctx, requested)
	if err != nil {
		s.logger.Warn("MCP resolve failed", "id", requested.ID, "err", err)
		return domain.VersionDescriptor{}, err
	}
	return resolved, nil
}

func (s *Server) handleLoaderVersions(ctx context.Context, request mcp.CallToolRequest, args LoaderArgs) (LoaderVersions, error) {
	catalog, ok := s.loaders[args.Loader]
	if !ok {
		return LoaderVersions{}, fmt.Errorf("unknown loader %q", args.Loader)
	}
	versions, err := catalog.VersionsFor(ctx, args.Minecraft)
	if err != nil {
		return LoaderVersions{}, err
	}
	if versions == nil {
		versions = []string{}
	}
	return LoaderVersions{Loader: args.Loader, Minecraft: args.Minecraft, Versions: versions}, nil
}

func (s *Server) registerResources() {
	for _, kind := range s.kinds() {
		uri := "switchyard://flows/" + kind
		g := s.flows[domain.ProjectKind(kind)]
		view := graph.Describe(domain.ProjectKind(kind), g)

		// EXPOSE: switchyard://flows/<kind>
		s.mcpServer.AddResource(mcp.NewResource(uri, "Wizard flow: "+kind,
			mcp.WithMIMEType("application/json"),
		), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			data, err := json.Marshal(view)
			if err != nil {
				return nil, fmt.Errorf("failed to encode flow: %w", err)
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			}, nil
		})
	}
}
