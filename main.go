// Command spooder serves Spooder Solitaire.
//
// In "server" mode (the default) it serves the REST API, table watchers over WebSocket and
// an MCP endpoint at /mcp. In "stdio-mcp" mode it speaks MCP on stdin/stdout and drives an
// API server on localhost:8080, or an internal one on a loopback port when none answers.
//
// The dreamlo private key can be kept in the OS keyring instead of the environment:
//
//	spooder -set-dreamlo-key <key>
//	spooder -clear-dreamlo-key
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/spooder-solitaire/api"
	"github.com/wricardo/spooder-solitaire/game/config"
	"github.com/wricardo/spooder-solitaire/game/service"
	"github.com/wricardo/spooder-solitaire/game/session"
	"github.com/wricardo/spooder-solitaire/leaderboard"
	"github.com/wricardo/spooder-solitaire/transport/mcp"
	"github.com/wricardo/spooder-solitaire/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

const (
	Version = "1.0.0"
	AppName = "Spooder Solitaire Server"

	privateKeyEnv = "DREAMLO_PRIVATE_KEY"
	externalAPI   = "http://localhost:8080"
)

// options is everything the command line and environment decide
type options struct {
	mode string

	host        string
	port        int
	configDir   string
	sessionsDir string
	board       string
	dbPath      string
	retention   service.RetentionPolicy

	debug   bool
	version bool

	ngrok       bool
	ngrokAuth   string
	ngrokDomain string

	setKey   string
	clearKey bool
}

func (o *options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

// envDefault returns the environment value for key, or fallback when unset
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envEnabled(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}

// parseOptions reads flags from args (without the program name). The first positional
// argument selects the mode.
func parseOptions(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("spooder", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.host, "host", "localhost", "HTTP server host")
	fs.IntVar(&opts.port, "port", 8080, "HTTP server port")
	fs.StringVar(&opts.configDir, "config-dir", envDefault("CONFIG_DIR", "configs"), "Directory containing difficulty configurations")
	fs.StringVar(&opts.sessionsDir, "sessions-dir", envDefault("SESSIONS_DIR", "sessions"), "Directory for saved games")
	fs.StringVar(&opts.board, "leaderboard", envDefault("LEADERBOARD_BACKEND", "sqlite"), "Leaderboard backend: sqlite, dreamlo or none")
	fs.StringVar(&opts.dbPath, "db", envDefault("LEADERBOARD_DB", "leaderboard.db"), "SQLite leaderboard database path")
	fs.DurationVar(&opts.retention.Idle, "idle-expiry", service.DefaultRetention.Idle, "Delete games in progress not played for this long")
	fs.DurationVar(&opts.retention.Won, "won-expiry", service.DefaultRetention.Won, "Unload won games not looked at for this long (0 keeps them loaded)")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.version, "version", false, "Show version information")
	fs.BoolVar(&opts.ngrok, "ngrok", envEnabled("NGROK_ENABLED"), "Expose the server through an ngrok tunnel")
	fs.StringVar(&opts.ngrokAuth, "ngrok-auth", "", "Ngrok auth token (or NGROK_AUTHTOKEN)")
	fs.StringVar(&opts.ngrokDomain, "ngrok-domain", os.Getenv("NGROK_DOMAIN"), "Custom ngrok domain")
	fs.StringVar(&opts.setKey, "set-dreamlo-key", "", "Store the dreamlo private key in the OS keyring and exit")
	fs.BoolVar(&opts.clearKey, "clear-dreamlo-key", false, "Remove the dreamlo private key from the OS keyring and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: spooder [OPTIONS] [MODE]\n\n%s v%s\n\n", AppName, Version)
		fmt.Fprintf(stderr, "Modes:\n")
		fmt.Fprintf(stderr, "  server, http            REST API, WebSocket and /mcp endpoint (default)\n")
		fmt.Fprintf(stderr, "  stdio-mcp, mcp-stdio, mcp  MCP over stdin/stdout\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  spooder -port 9090\n")
		fmt.Fprintf(stderr, "  spooder -leaderboard dreamlo   # DREAMLO_PUBLIC_KEY plus a private key from %s or the keyring\n", privateKeyEnv)
		fmt.Fprintf(stderr, "  spooder -set-dreamlo-key abc123\n")
		fmt.Fprintf(stderr, "  spooder mcp\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.mode = "server"
	if fs.NArg() > 0 {
		opts.mode = fs.Arg(0)
	}
	switch opts.mode {
	case "server", "http", "stdio-mcp", "mcp-stdio", "mcp":
	default:
		return nil, fmt.Errorf("unknown mode %q (use server or stdio-mcp)", opts.mode)
	}

	if opts.ngrokAuth == "" {
		opts.ngrokAuth = envDefault("NGROK_AUTHTOKEN", os.Getenv("NGROK_AUTH_TOKEN"))
	}
	if opts.setKey != "" && opts.clearKey {
		return nil, errors.New("-set-dreamlo-key and -clear-dreamlo-key cannot be combined")
	}
	return opts, nil
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env file")
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	if opts.version {
		fmt.Printf("%s v%s\n", AppName, Version)
		return
	}
	if opts.debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	handled, err := manageDreamloKey(leaderboard.NewKeyStore(privateKeyEnv), opts)
	if err != nil {
		log.Fatal(err)
	}
	if handled {
		return
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, opts.mode)

	a, err := newApp(opts)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go a.maintain(ctx, 5*time.Second, time.Hour)

	switch opts.mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		err = serveStdio(ctx, a)
	default:
		err = serveHTTP(ctx, a, opts)
	}
	if err != nil {
		log.Printf("Error: %v", err)
	}
}

// manageDreamloKey handles -set-dreamlo-key and -clear-dreamlo-key. It reports whether one
// of them was given, in which case the command exits instead of serving.
func manageDreamloKey(store *leaderboard.KeyStore, opts *options) (bool, error) {
	switch {
	case opts.setKey != "":
		if err := store.SetPrivateKey(opts.setKey); err != nil {
			return true, err
		}
		log.Println("Stored the dreamlo private key in the OS keyring")
		return true, nil
	case opts.clearKey:
		if err := store.DeletePrivateKey(); err != nil {
			return true, err
		}
		log.Println("Removed the dreamlo private key from the OS keyring")
		return true, nil
	}
	return false, nil
}

// app holds the long-lived pieces shared by both modes
type app struct {
	opts        *options
	service     service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
	board       leaderboard.Board
}

// newApp loads configurations and saved games and opens the leaderboard
func newApp(opts *options) (*app, error) {
	configs, err := config.NewManager(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(opts.sessionsDir, configs)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessions := session.NewManagerWithPersistence(persistence)
	if err := sessions.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load saved games: %v", err)
	}

	board, err := initializeBoard(opts, leaderboard.NewKeyStore(privateKeyEnv))
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard: %w", err)
	}

	return &app{
		opts:        opts,
		service:     service.NewGameService(sessions, configs, board),
		sessions:    sessions,
		persistence: persistence,
		board:       board,
	}, nil
}

// initializeBoard selects the leaderboard backend. "none" disables score submission;
// the service then answers leaderboard calls with leaderboard.ErrUnavailable.
func initializeBoard(opts *options, keys *leaderboard.KeyStore) (leaderboard.Board, error) {
	switch opts.board {
	case "sqlite", "":
		board, err := leaderboard.NewSQLiteBoard(opts.dbPath)
		if err != nil {
			return nil, err
		}
		log.Printf("Leaderboard: sqlite (%s)", opts.dbPath)
		return board, nil

	case "dreamlo":
		publicKey := os.Getenv("DREAMLO_PUBLIC_KEY")
		privateKey, err := keys.PrivateKey()
		if err != nil {
			log.Printf("Warning: %v", err)
		}
		if publicKey == "" {
			log.Println("Warning: DREAMLO_PUBLIC_KEY not set, leaderboard reads will fail")
		}
		if privateKey == "" {
			log.Printf("Warning: no dreamlo private key in %s or the keyring (see -set-dreamlo-key), submissions will fail", privateKeyEnv)
		}
		log.Println("Leaderboard: dreamlo")
		return leaderboard.NewDreamloBoard(publicKey, privateKey, os.Getenv("DREAMLO_PROXY_URL")), nil

	case "none":
		log.Println("Leaderboard disabled")
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown leaderboard backend %q (use sqlite, dreamlo or none)", opts.board)
	}
}

// maintain drops games whose files were deleted by hand every syncEvery, and applies the
// retention policy every expireEvery, until ctx is done
func (a *app) maintain(ctx context.Context, syncEvery, expireEvery time.Duration) {
	syncTicker := time.NewTicker(syncEvery)
	defer syncTicker.Stop()
	expireTicker := time.NewTicker(expireEvery)
	defer expireTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-syncTicker.C:
			if n := a.pruneDeletedFiles(); n > 0 {
				log.Printf("Filesystem sync: unloaded %d games whose files were deleted", n)
			}
		case <-expireTicker.C:
			if n := a.service.ExpireSessions(ctx, a.opts.retention); n > 0 {
				log.Printf("Expired %d idle games", n)
			}
		}
	}
}

// pruneDeletedFiles unloads games whose session file no longer exists
func (a *app) pruneDeletedFiles() int {
	pruned := 0
	for _, sess := range a.sessions.List() {
		if a.persistence.Exists(sess.ID) {
			continue
		}
		if err := a.sessions.DeleteFromMemory(sess.ID); err == nil {
			log.Printf("Unloaded game %s (file deleted)", sess.ID)
			pruned++
		}
	}
	return pruned
}

// close writes every loaded game and releases the leaderboard. It runs after the servers
// have stopped, so no move can land meanwhile.
func (a *app) close() {
	if err := a.sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: %v", err)
	}
	if c, ok := a.board.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("Warning: Failed to close leaderboard: %v", err)
		}
	}
}

// newRouter mounts the API at the root and the MCP JSON-RPC endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		reply, err := json.Marshal(mcpClient.GetMCPServer().HandleMessage(r.Context(), body))
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(reply)
	})
	return mux
}

// serveHTTP runs the public server, and the ngrok tunnel when enabled, until ctx is done
func serveHTTP(ctx context.Context, a *app, opts *options) error {
	hub := websocket.NewHub()
	go hub.Run()

	addr := opts.addr()
	router := newRouter(api.NewServer(a.service, hub), mcp.NewClient("http://"+addr))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("Table watchers: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.ngrok {
		go runTunnel(ctx, router, opts)
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// runTunnel serves handler through an ngrok endpoint until ctx is done
func runTunnel(ctx context.Context, handler http.Handler, opts *options) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: ngrok enabled but no auth token provided (use -ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	endpoint := ngrokConfig.HTTPEndpoint()
	if opts.ngrokDomain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer tun.Close()

	log.Printf("🚀 Ngrok tunnel established: %s", tun.URL())
	log.Printf("  REST API (ngrok): %s/api", tun.URL())
	log.Printf("  MCP endpoint (ngrok): %s/mcp", tun.URL())

	go func() {
		<-ctx.Done()
		tun.Close()
	}()
	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// apiAvailable reports whether a Spooder API answers /health at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the API on a random loopback port and returns its base URL
func startInternalAPI(ctx context.Context, svc service.GameService) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()
	internal := &http.Server{Handler: api.NewServer(svc, hub)}

	go func() {
		if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		internal.Close()
	}()

	return "http://" + listener.Addr().String(), nil
}

// serveStdio speaks MCP over stdin/stdout, reusing the API on localhost:8080 when one is up
func serveStdio(ctx context.Context, a *app) error {
	baseURL := externalAPI
	if apiAvailable(externalAPI) {
		log.Printf("External API server found at %s, using it for MCP", externalAPI)
	} else {
		var err error
		if baseURL, err = startInternalAPI(ctx, a.service); err != nil {
			return err
		}
		log.Printf("No external API server found, serving internally on %s", baseURL)
	}

	log.Println("MCP stdio server ready")
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}
