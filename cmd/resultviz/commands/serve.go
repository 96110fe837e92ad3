package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/resultviz/am"
	"github.com/teranos/resultviz/cypher"
	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/server"
	"github.com/teranos/resultviz/viz"
)

// ServeCmd starts the frame streaming server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Stream layout frames to drawing surfaces over WebSocket",
	Long: `Start the WebSocket server. Clients send query responses (or Cypher
queries when neo4j.uri is configured) and receive the result table followed
by one frame per layout tick. Dragging a node pins it and reheats the layout.

Edits to the active resultviz.toml are picked up for subsequent renders.`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides server.port)")
	ServeCmd.Flags().String("host", "", "Interface to bind (default all)")
	ServeCmd.Flags().Bool("no-query", false, "Disable Cypher queries even when neo4j.uri is set")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Server logs progress by default
	v := verbosity(cmd)
	if v == 0 {
		v = 1
		if err := logger.Initialize(logger.JSONOutput, v); err != nil {
			return err
		}
	}
	log := logger.Named("resultviz")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port := cfg.GetServerPort()
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}
	host, _ := cmd.Flags().GetString("host")
	addr := fmt.Sprintf("%s:%d", host, port)

	var source *cypher.Source
	noQuery, _ := cmd.Flags().GetBool("no-query")
	if cfg.Neo4j.URI != "" && !noQuery {
		executor, err := cypher.NewExecutor(cfg.Neo4jSettings())
		if err != nil {
			return err
		}
		defer executor.Close(cmd.Context())
		source = cypher.NewSource(executor, log)
	}

	srv := server.New(server.Options{
		Renderer:       viz.NewRenderer(cfg.RendererOptions(), v, log),
		Source:         source,
		TicksPerSecond: cfg.Layout.TicksPerSecond,
		AllowedOrigins: cfg.GetServerAllowedOrigins(),
		Verbosity:      v,
	}, log)

	if path := am.ActiveConfigPath(); path != "" {
		watcher, err := am.NewConfigWatcher(path, log)
		if err != nil {
			log.Warnw("Config watching disabled", logger.FieldFile, path, logger.FieldError, err)
		} else {
			watcher.OnReload(func(next *am.Config) error {
				srv.SetRenderer(viz.NewRenderer(next.RendererOptions(), v, log), next.Layout.TicksPerSecond)
				return nil
			})
			watcher.Start()
			defer watcher.Stop()
		}
	}

	pterm.Info.Printfln("resultviz listening on ws://%s/ws (verbosity: %s)", displayAddr(host, port), logger.LevelName(v))
	if source != nil {
		pterm.Info.Printfln("Cypher queries go to %s", cfg.Neo4j.URI)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-sigChan:
		pterm.Info.Println("Shutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return errors.Wrap(err, "shutdown failed")
			}
			pterm.Success.Println("Server stopped")
			return nil
		case <-sigChan:
			pterm.Warning.Println("Forced shutdown")
			os.Exit(1)
		}
	}
	return nil
}

func displayAddr(host string, port int) string {
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, port)
}
