// Command mars-rover serves rover missions over REST, WebSocket and MCP.
//
//	mars-rover                         # HTTP server on localhost:8080
//	mars-rover --port 9090 --ngrok server
//	mars-rover stdio-mcp               # MCP over stdio for a local agent
//
// The HTTP server mounts the REST API and WebSocket hub at / and the MCP
// streamable HTTP transport at /mcp. stdio-mcp reuses a running API when one
// answers at --api-url and otherwise starts a private one on a loopback port.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mars-rover/api"
	"github.com/wricardo/mars-rover/mission/config"
	"github.com/wricardo/mars-rover/mission/service"
	"github.com/wricardo/mars-rover/mission/session"
	"github.com/wricardo/mars-rover/transport/mcp"
	"github.com/wricardo/mars-rover/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Mars Rover Mission Server"
)

const (
	sessionMaxAge      = 24 * time.Hour
	cleanupInterval    = time.Hour
	shutdownTimeout    = 10 * time.Second
	healthCheckTimeout = 2 * time.Second
)

func main() {
	loadDotEnv()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadDotEnv loads .env when present so its values feed the flag sources
func loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env file")
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "mars-rover",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: 8080, Sources: cli.EnvVars("PORT"), Usage: "HTTP server port"},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR"), Usage: "directory containing mission configurations"},
			&cli.StringFlag{Name: "journal-dir", Sources: cli.EnvVars("JOURNAL_DIR"), Usage: "directory for session journals (disabled when empty)"},
			&cli.BoolFlag{Name: "debug", Usage: "log source locations"},
			&cli.BoolFlag{Name: "ngrok", Sources: cli.EnvVars("NGROK_ENABLED"), Usage: "expose the server through an ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"), Usage: "ngrok auth token"},
			&cli.StringFlag{Name: "ngrok-domain", Sources: cli.EnvVars("NGROK_DOMAIN"), Usage: "reserved ngrok domain (optional)"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:   "server",
				Usage:  "serve the REST API, WebSocket updates and the /mcp endpoint (default)",
				Action: runServer,
			},
			{
				Name:  "stdio-mcp",
				Usage: "serve MCP over stdin/stdout",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "rover API to reuse when it is reachable"},
				},
				Action: runStdioMCP,
			},
		},
	}
}

// initializeServices wires the config and session managers into a rover
// service. Idle sessions are pruned until ctx is done.
func initializeServices(ctx context.Context, configDir, journalDir string) (service.RoverService, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	log.Printf("Default mission: %s (config dir %s)", configManager.DefaultID(), configDir)

	sessionManager := session.NewManager()
	var journals service.JournalReader
	if journalDir != "" {
		journal, err := session.NewFileJournal(journalDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create journal: %w", err)
		}
		sessionManager = session.NewManagerWithJournal(journal)
		journals = journal
		log.Printf("Writing session journals to %s", journalDir)
	}

	go pruneSessions(ctx, sessionManager, cleanupInterval, sessionMaxAge)

	return service.NewRoverService(sessionManager, configManager, journals), nil
}

func pruneSessions(ctx context.Context, manager *session.Manager, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// newHTTPHandler mounts the REST API and WebSocket hub at / and MCP at /mcp.
// The MCP tools call back into the REST API at apiURL.
func newHTTPHandler(roverService service.RoverService, hub *websocket.Hub, apiURL string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(roverService, hub))
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcp.NewClient(apiURL).GetMCPServer()))
	return mux
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("unknown mode %q, use server or stdio-mcp", cmd.Args().First())
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	roverService, err := initializeServices(ctx, cmd.String("config-dir"), cmd.String("journal-dir"))
	if err != nil {
		return err
	}

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	addr := net.JoinHostPort(cmd.String("host"), strconv.Itoa(cmd.Int("port")))
	handler := newHTTPHandler(roverService, hub, "http://"+addr)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting %s v%s", AppName, Version)
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	var wg sync.WaitGroup
	if tunnel := tunnelSettingsFrom(cmd); tunnel.enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveTunnel(ctx, tunnel, handler)
		}()
	}

	var runErr error
	select {
	case runErr = <-serveErr:
	case <-ctx.Done():
		log.Println("Shutting down...")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("HTTP server shutdown error: %v", shutdownErr)
	}
	wg.Wait()
	log.Println("Server stopped")

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", runErr)
	}
	return nil
}

type tunnelSettings struct {
	enabled   bool
	authToken string
	domain    string
}

func tunnelSettingsFrom(cmd *cli.Command) tunnelSettings {
	return tunnelSettings{
		enabled:   cmd.Bool("ngrok"),
		authToken: cmd.String("ngrok-auth"),
		domain:    cmd.String("ngrok-domain"),
	}
}

// serveTunnel serves handler through ngrok until ctx is done
func serveTunnel(ctx context.Context, settings tunnelSettings, handler http.Handler) {
	if settings.authToken == "" {
		log.Println("WARNING: ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	endpoint := ngrokConfig.HTTPEndpoint()
	if settings.domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.domain))
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(settings.authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	log.Printf("Ngrok tunnel established: %s (REST %[1]s/api, MCP %[1]s/mcp)", tun.URL())
	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	apiURL := cmd.String("api-url")

	if apiReachable(ctx, apiURL) {
		log.Printf("Using rover API at %s for MCP", apiURL)
	} else {
		roverService, err := initializeServices(ctx, cmd.String("config-dir"), cmd.String("journal-dir"))
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to listen on loopback: %w", err)
		}
		internal := &http.Server{Handler: api.NewServer(roverService, nil)}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer internal.Close()

		apiURL = "http://" + listener.Addr().String()
		log.Printf("No rover API answering, started an internal one on %s", apiURL)
	}

	return mcpserver.ServeStdio(mcp.NewClient(apiURL).GetMCPServer())
}

// apiReachable reports whether a rover API answers its health check at baseURL
func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
