// Package main provides graphd's CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dreamware/graphd/pkg/auth"
	"github.com/dreamware/graphd/pkg/cli"
	"github.com/dreamware/graphd/pkg/config"
	"github.com/dreamware/graphd/pkg/loadtest"
	"github.com/dreamware/graphd/pkg/logging"
	"github.com/dreamware/graphd/pkg/seed"
	"github.com/dreamware/graphd/pkg/server"
	"github.com/dreamware/graphd/pkg/service"
	"github.com/dreamware/graphd/pkg/storage"
	"github.com/dreamware/graphd/pkg/traversal"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphd",
		Short: "graphd is a property-graph database server",
		Long: `graphd stores named graphs of labeled, property-bearing nodes and
edges, keeps a fast in-memory tier backed by a durable on-disk tier, and
serves a REST API for CRUD, adjacency/relations projections, and BFS/DFS/
Dijkstra path queries.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("graphd v%s (%s)\n", version, commit)
		},
	})

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().String("config", "", "Path to a YAML config file (overridden by GRAPHD_* env vars)")
	rootCmd.AddCommand(serveCmd)

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive REPL shell against a running server",
		RunE:  runShell,
	}
	shellCmd.Flags().String("url", "http://localhost:8080", "graphd server base URL")
	shellCmd.Flags().String("username", "admin", "basic auth username")
	shellCmd.Flags().String("password", "admin", "basic auth password")
	rootCmd.AddCommand(shellCmd)

	seedCmd := &cobra.Command{
		Use:   "seed <graph>",
		Short: "Bulk-load a graph from nodes.csv and edges.csv directly into storage",
		Long: `seed opens the same disk store a running "serve" would use and loads
a graph from a pair of CSV files into it. Run it against a stopped server,
or point --storage-dir at a separate directory and import the result later.`,
		Args: cobra.ExactArgs(1),
		RunE: runSeed,
	}
	seedCmd.Flags().String("storage-dir", "", "storage directory (defaults to GRAPHD_STORAGE_DIR / config default)")
	seedCmd.Flags().String("nodes", "nodes.csv", "path to the nodes CSV file")
	seedCmd.Flags().String("edges", "edges.csv", "path to the edges CSV file")
	rootCmd.AddCommand(seedCmd)

	loadtestCmd := &cobra.Command{
		Use:   "loadtest <graph>",
		Short: "Drive a mixed read/write workload against a running server",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoadtest,
	}
	loadtestCmd.Flags().String("url", "http://localhost:8080", "graphd server base URL")
	loadtestCmd.Flags().String("username", "admin", "basic auth username")
	loadtestCmd.Flags().String("password", "admin", "basic auth password")
	loadtestCmd.Flags().Int("workers", 8, "number of concurrent worker goroutines")
	loadtestCmd.Flags().Int("requests", 1000, "total requests to issue")
	rootCmd.AddCommand(loadtestCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildService(cfg *config.Config, log *logging.Logger) (*service.Service, *storage.Manager, error) {
	mem := storage.NewMemoryStore()
	disk, err := storage.NewDiskStore(cfg.Server.StorageDir, cfg.Storage.BlockSize)
	if err != nil {
		return nil, nil, fmt.Errorf("opening disk store: %w", err)
	}
	mgr := storage.NewManager(mem, disk, cfg.Storage.QueueCapacity, log)
	svc := service.New(mgr, traversal.New(cfg.Storage.TraversalThreshold))
	return svc, mgr, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	if configPath != "" {
		if _, err := config.LoadFromFile(configPath); err != nil {
			return err
		}
		if err := os.Setenv("GRAPHD_CONFIG_FILE", configPath); err != nil {
			return err
		}
	}
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New("graphd")

	fmt.Printf("graphd v%s\n", version)
	fmt.Printf("  listening on:  %s\n", cfg.Server.HTTPAddress)
	fmt.Printf("  storage dir:   %s\n", cfg.Server.StorageDir)
	fmt.Printf("  block size:    %d bytes\n", cfg.Storage.BlockSize)
	fmt.Println()

	svc, mgr, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer mgr.Close()

	creds, err := auth.NewCredentials(cfg.Auth.Username, cfg.Auth.Password)
	if err != nil {
		return fmt.Errorf("setting up credentials: %w", err)
	}

	srv := server.New(svc, creds, log)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddress,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-sigCh:
	}

	fmt.Println("\nshutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	fmt.Println("stopped.")
	return nil
}

func runShell(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	client := cli.NewClient(url, username, password)
	cli.Shell(os.Stdin, os.Stdout, client)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	graphName := args[0]
	storageDir, _ := cmd.Flags().GetString("storage-dir")
	nodesPath, _ := cmd.Flags().GetString("nodes")
	edgesPath, _ := cmd.Flags().GetString("edges")

	log := logging.New("graphd-seed")

	cfg := config.LoadFromEnv()
	if storageDir != "" {
		cfg.Server.StorageDir = storageDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, mgr, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer mgr.Close()

	if err := svc.CreateGraph(graphName); err != nil {
		return fmt.Errorf("creating graph %q: %w", graphName, err)
	}

	nodesFile, err := os.Open(nodesPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", nodesPath, err)
	}
	defer nodesFile.Close()
	nodeCount, err := seed.LoadNodes(svc, graphName, nodesFile)
	if err != nil {
		return err
	}
	fmt.Printf("loaded %d nodes\n", nodeCount)

	edgesFile, err := os.Open(edgesPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", edgesPath, err)
	}
	defer edgesFile.Close()
	edgeCount, err := seed.LoadEdges(svc, graphName, edgesFile)
	if err != nil {
		return err
	}
	fmt.Printf("loaded %d edges\n", edgeCount)
	return nil
}

func runLoadtest(cmd *cobra.Command, args []string) error {
	graphName := args[0]
	url, _ := cmd.Flags().GetString("url")
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	workers, _ := cmd.Flags().GetInt("workers")
	requests, _ := cmd.Flags().GetInt("requests")

	report, err := loadtest.Run(context.Background(), loadtest.Options{
		BaseURL:   url,
		Username:  username,
		Password:  password,
		GraphName: graphName,
		Workers:   workers,
		Requests:  requests,
	})
	if err != nil {
		return err
	}

	fmt.Printf("issued %d requests in %s (%d ok, %d failed)\n", report.Total, report.Elapsed, report.Succeeded, report.Failed)
	for op, stats := range report.ByOperation {
		fmt.Printf("  %-12s count=%-6d failed=%-4d p50=%-10s p95=%-10s p99=%-10s max=%s\n",
			op, stats.Count, stats.Failed, stats.P50, stats.P95, stats.P99, stats.Max)
	}
	return nil
}
