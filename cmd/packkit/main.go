// ABOUTME: Entry point for the packkit pack runtime and dev platform server.
// ABOUTME: Wires together store, packs, and HTTP surfaces with CLI commands.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/2389/packkit/internal/admin"
	"github.com/2389/packkit/internal/auth"
	"github.com/2389/packkit/internal/logging"
	"github.com/2389/packkit/internal/platform"
	"github.com/2389/packkit/internal/runner"
	"github.com/2389/packkit/internal/seed"
	"github.com/2389/packkit/internal/store"
	"github.com/2389/packkit/packs/core"
	_ "github.com/2389/packkit/packs/packmeta" // Register packmeta pack
	_ "github.com/2389/packkit/packs/phone"    // Register phone pack
)

var (
	port     string
	dbPath   string
	endpoint string
	token    string

	metadataKeys []string
	filterArgs   []string
	maxPages     int

	seedPacks   int
	seedNumbers int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "packkit",
		Short: "packkit - Pack runtime with a built-in dev platform",
		Long: `packkit hosts integration Packs and a local dev platform to run them against.

Built-in Packs:
  • packmeta  Pack metadata browser (listing sync, category edits, source code)
  • phone     Phone number parsing, formatting, and directory sync

Features:
  • Paginated sync engine with resumable continuations
  • Best-effort metadata enrichment with per-page failure counts
  • SQLite-backed dev platform simulating the real API
  • AI-powered seed data generation (static fallback without a key)

Quick Start:
  packkit seed          # Generate test data
  packkit serve         # Start server on port 9000
  packkit sync packmeta Packs    # Run a full sync from the CLI`,
	}

	// Calculate default database path once (not per-command)
	defaultDBPath := getDefaultDBPath()
	defaultEndpoint := getEnv("PACKKIT_PLATFORM_URL", "http://localhost:9000")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the packkit HTTP server on the specified port.

The server provides:
  • The dev platform API under /apis/v1
  • The pack runner under /runner
  • Admin JSON surface at /admin
  • Health check at /healthz

Authentication:
  Use Bearer tokens in the format: Bearer account:NAME
  Example: curl -H "Authorization: Bearer account:me" http://localhost:9000/apis/v1/packs

Environment Variables:
  PACKKIT_PORT          Server port (default: 9000)
  PACKKIT_PLATFORM_URL  Platform base URL packs call (default: the local server)
  OPENAI_API_KEY        Enable AI-powered seed generation`,
		RunE: runServe,
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", getEnv("PACKKIT_PORT", "9000"), "Port to listen on")
	serveCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")
	serveCmd.Flags().StringVar(&endpoint, "platform", "", "Platform base URL packs call (default: this server)")
	serveCmd.Flags().StringVar(&token, "token", getEnv("PACKKIT_TOKEN", ""), "Bearer token packs send to the platform")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with test data",
		Long: `Seed the database with a realistic pack catalog and phone directory.

AI-Powered Generation:
  Set OPENAI_API_KEY to generate varied catalogs via AI.
  Falls back to static test data if no API key is provided.

Note: Seed is not idempotent. Use 'packkit reset' to clear data before reseeding.`,
		RunE: runSeed,
	}
	seedCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")
	seedCmd.Flags().IntVar(&seedPacks, "packs", 25, "Number of packs to generate")
	seedCmd.Flags().IntVar(&seedNumbers, "numbers", 15, "Number of phone numbers to generate")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database (wipe and reseed)",
		Long: `Delete the database file and create a fresh one with new test data.

Warning: This permanently deletes all data in the database!`,
		RunE: runReset,
	}
	resetCmd.Flags().StringVarP(&dbPath, "db", "d", defaultDBPath, "Database path")
	resetCmd.Flags().IntVar(&seedPacks, "packs", 25, "Number of packs to generate")
	resetCmd.Flags().IntVar(&seedNumbers, "numbers", 15, "Number of phone numbers to generate")

	syncCmd := &cobra.Command{
		Use:   "sync PACK TABLE",
		Short: "Run a full table sync against the platform",
		Long: `Run a table sync page by page, following continuations until the table
is exhausted, and print each item as a JSON line.

Examples:
  packkit sync packmeta Packs
  packkit sync packmeta Packs --filter includePublished=true --metadata versionHistory
  packkit sync phone Numbers --filter verifiedOnly=true`,
		RunE: runSync,
		Args: cobra.ExactArgs(2),
	}
	syncCmd.Flags().StringVar(&endpoint, "platform", defaultEndpoint, "Platform base URL")
	syncCmd.Flags().StringVar(&token, "token", getEnv("PACKKIT_TOKEN", ""), "Bearer token")
	syncCmd.Flags().StringSliceVar(&metadataKeys, "metadata", nil, "Metadata keys to enrich with")
	syncCmd.Flags().StringArrayVar(&filterArgs, "filter", nil, "Filter as key=value (repeatable)")
	syncCmd.Flags().IntVar(&maxPages, "max-pages", 1000, "Safety cap on pages fetched")

	execCmd := &cobra.Command{
		Use:   "exec PACK FORMULA [KEY=VALUE...]",
		Short: "Execute a pack formula",
		Long: `Execute one formula with the given arguments and print the result as JSON.

Examples:
  packkit exec phone IsValidNumber number=+16502530000
  packkit exec packmeta Pack packId=p_12ab34cd`,
		RunE: runExec,
		Args: cobra.MinimumNArgs(2),
	}
	execCmd.Flags().StringVar(&endpoint, "platform", defaultEndpoint, "Platform base URL")
	execCmd.Flags().StringVar(&token, "token", getEnv("PACKKIT_TOKEN", ""), "Bearer token")

	schemaCmd := &cobra.Command{
		Use:   "schema PACK TABLE",
		Short: "Print a sync table's schema",
		Long: `Print a table's schema as JSON, extended for the selected metadata keys.
Without --metadata the schema covers every registered key.`,
		RunE: runSchema,
		Args: cobra.ExactArgs(2),
	}
	schemaCmd.Flags().StringVar(&endpoint, "platform", defaultEndpoint, "Platform base URL")
	schemaCmd.Flags().StringVar(&token, "token", getEnv("PACKKIT_TOKEN", ""), "Bearer token")
	schemaCmd.Flags().StringSliceVar(&metadataKeys, "metadata", nil, "Metadata keys to include")

	rootCmd.AddCommand(serveCmd, seedCmd, resetCmd, syncCmd, execCmd, schemaCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// validateAndCleanDBPath validates and cleans a database path.
// Handles Unix/Linux, macOS, and Windows paths (including UNC and drive letters).
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	cleanPath = filepath.Clean(cleanPath)

	// Reject empty and root-like paths
	if cleanPath == "" || cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}

	// Reject known problematic patterns
	badPatterns := []string{
		".git",
		".svn",
		"node_modules",
		".env",
		"credentials",
		"secret",
	}
	lowerPath := strings.ToLower(cleanPath)
	for _, pattern := range badPatterns {
		if strings.Contains(lowerPath, pattern) {
			return "", fmt.Errorf("database path cannot contain '%s' directory", pattern)
		}
	}

	return cleanPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	platformURL := endpoint
	if platformURL == "" {
		platformURL = "http://localhost:" + port
	}

	srv, err := newServer(dbPath, platformURL, token)
	if err != nil {
		return err
	}

	addr := ":" + port
	log.Printf("packkit server listening on %s", addr)
	log.Printf("Database: %s", dbPath)
	log.Printf("Packs call platform at: %s", platformURL)
	return http.ListenAndServe(addr, srv)
}

func newServer(dbPath, platformURL, token string) (http.Handler, error) {
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware(s))
	r.Use(auth.Middleware)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	// Favicon
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := wirePacks(platformURL, token); err != nil {
		return nil, err
	}

	// Dev platform API
	platform.NewHandlers(s).RegisterRoutes(r)

	// Pack runner
	runner.NewHandlers().RegisterRoutes(r)

	// Admin surface
	admin.NewHandlers(s).RegisterRoutes(r)

	return r, nil
}

// wirePacks points every remote pack at the platform endpoint
func wirePacks(platformURL, token string) error {
	fetcher := core.NewHTTPFetcher(token)
	for _, p := range core.All() {
		if remote, ok := p.(core.RemotePack); ok {
			if err := remote.SetEndpoint(platformURL, fetcher); err != nil {
				return fmt.Errorf("failed to wire pack %s: %w", p.Name(), err)
			}
		}
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return seedData(cmd.Context(), s)
}

func runReset(cmd *cobra.Command, args []string) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	// Remove existing database - ignore if file doesn't exist
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing database: %w", err)
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return seedData(cmd.Context(), s)
}

func seedData(ctx context.Context, s *store.Store) error {
	log.Println("Seeding database with test data...")

	g := seed.NewGenerator()
	data, err := g.Generate(ctx, seedPacks, seedNumbers)
	if err != nil {
		return err
	}

	if err := seed.Apply(s, data); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			log.Println("Note: Database already contains seed data. Use 'packkit reset' to clear and reseed.")
		}
		return err
	}

	log.Printf("Seeding complete! Created %d packs and %d phone numbers", len(data.Packs), len(data.Numbers))
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	table, err := findTable(args[0], args[1])
	if err != nil {
		return err
	}

	filter, err := parseFilter(filterArgs)
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	var cont core.Continuation
	total := 0
	failures := 0
	for page := 1; ; page++ {
		if page > maxPages {
			return fmt.Errorf("sync exceeded %d pages, aborting", maxPages)
		}

		result, err := table.Sync(cmd.Context(), core.SyncRequest{
			Filter:       filter,
			MetadataKeys: metadataKeys,
			Continuation: cont,
		})
		if err != nil {
			return err
		}

		for _, item := range result.Items {
			if err := out.Encode(item); err != nil {
				return err
			}
		}
		total += len(result.Items)
		failures += result.EnrichmentFailures

		if result.Continuation == nil {
			break
		}
		cont = result.Continuation
	}

	log.Printf("Synced %d items from %s/%s", total, args[0], args[1])
	if failures > 0 {
		log.Printf("Warning: %d enrichment jobs failed; affected fields are absent", failures)
	}
	return nil
}

func runExec(cmd *cobra.Command, args []string) error {
	p, err := findPack(args[0])
	if err != nil {
		return err
	}

	name := args[1]
	var formula *core.Formula
	for _, f := range p.Formulas() {
		if f.Name == name {
			formula = &f
			break
		}
	}
	if formula == nil {
		return fmt.Errorf("pack %q has no formula %q", args[0], name)
	}

	formulaArgs := map[string]any{}
	for _, pair := range args[2:] {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("argument %q is not KEY=VALUE", pair)
		}
		formulaArgs[key] = parseScalar(value)
	}

	result, err := formula.Execute(cmd.Context(), formulaArgs)
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(result)
}

func runSchema(cmd *cobra.Command, args []string) error {
	table, err := findTable(args[0], args[1])
	if err != nil {
		return err
	}

	schema, err := table.DescribeSchema(metadataKeys)
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(schema)
}

func findPack(name string) (core.Pack, error) {
	p, ok := core.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown pack %q (available: %s)", name, strings.Join(core.Names(), ", "))
	}
	if remote, ok := p.(core.RemotePack); ok {
		if err := remote.SetEndpoint(endpoint, core.NewHTTPFetcher(token)); err != nil {
			return nil, fmt.Errorf("failed to wire pack %s: %w", name, err)
		}
	}
	return p, nil
}

func findTable(packName, tableName string) (*core.SyncTable, error) {
	p, err := findPack(packName)
	if err != nil {
		return nil, err
	}
	for _, table := range p.SyncTables() {
		if table.Name == tableName {
			return table, nil
		}
	}
	return nil, fmt.Errorf("pack %q has no table %q", packName, tableName)
}

// parseFilter turns repeated key=value flags into a filter map. Values
// "true" and "false" become booleans; everything else stays a string.
func parseFilter(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filter := map[string]any{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("filter %q is not KEY=VALUE", pair)
		}
		filter[key] = parseScalar(value)
	}
	return filter, nil
}

func parseScalar(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	default:
		return value
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getDefaultDBPath returns the default database path following XDG Base Directory spec
// Priority: PACKKIT_DB_PATH env var > ./packkit.db (backwards compat) > XDG_DATA_HOME/packkit/packkit.db
func getDefaultDBPath() string {
	// 1. Check environment variable first
	if envPath := os.Getenv("PACKKIT_DB_PATH"); envPath != "" {
		// Trim whitespace and clean path
		envPath = strings.TrimSpace(envPath)
		envPath = filepath.Clean(envPath)
		if envPath == "" || envPath == "." {
			log.Printf("Warning: PACKKIT_DB_PATH is invalid (empty or '.'), using default path")
		} else {
			return envPath
		}
	}

	// 2. Check for existing ./packkit.db (backwards compatibility)
	cwdPath := "./packkit.db"
	if _, err := os.Stat(cwdPath); err == nil {
		return cwdPath
	}

	// 3. Use XDG Base Directory spec (or Windows equivalent)
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil || homeDir == "" || homeDir == "/" {
			// Fallback to current directory if we can't get valid home dir
			log.Printf("Warning: Could not determine valid home directory (%q): %v, using ./packkit.db", homeDir, err)
			return cwdPath
		}

		// Use platform-appropriate data directory
		// Windows: %LOCALAPPDATA% or ~/AppData/Local
		// Unix/Linux/macOS: ~/.local/share (XDG spec)
		if runtime.GOOS == "windows" {
			dataHome = os.Getenv("LOCALAPPDATA")
			if dataHome == "" {
				dataHome = filepath.Join(homeDir, "AppData", "Local")
			}
		} else {
			// Unix/Linux/macOS - XDG Base Directory spec
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(dataHome, "packkit")
	xdgDBPath := filepath.Join(dataDir, "packkit.db")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v, using ./packkit.db", dataDir, err)
		return cwdPath
	}

	// Verify we can write to the directory
	testFile := filepath.Join(dataDir, ".write-test")
	if f, err := os.Create(testFile); err != nil {
		log.Printf("Warning: Cannot write to data directory %s: %v, using ./packkit.db", dataDir, err)
		return cwdPath
	} else {
		if err := f.Close(); err != nil {
			log.Printf("Warning: Error closing test file: %v", err)
		}
		if err := os.Remove(testFile); err != nil {
			log.Printf("Warning: Could not remove test file %s: %v", testFile, err)
		}
	}

	// Only log in debug mode to avoid polluting --help output
	if os.Getenv("PACKKIT_DEBUG") != "" {
		log.Printf("Using database location: %s", xdgDBPath)
	}

	return xdgDBPath
}
