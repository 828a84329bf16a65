package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/sant0-9/railletter/internal/config"
	"github.com/sant0-9/railletter/internal/letter"
	"github.com/sant0-9/railletter/internal/llm"
	"github.com/sant0-9/railletter/internal/pipeline"
	"github.com/sant0-9/railletter/internal/server"
	"github.com/sant0-9/railletter/internal/tui"
	"github.com/sant0-9/railletter/internal/writer"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.config/railletter/config.yaml)")
	envFile := flag.String("env", ".env", "dotenv file to load before reading credentials")
	serve := flag.Bool("serve", false, "start the web server instead of the terminal UI")
	addr := flag.String("addr", "", "http listen address when -serve (overrides config server_addr)")
	outDir := flag.String("out", "", "directory for saved letters (overrides config output_dir)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("railletter", version)
		return
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fail(err)
	}
	if err := cfg.ApplyEnv(*envFile); err != nil {
		fail(err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	if *serve {
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		if err := runServer(cfg, listen); err != nil {
			fail(err)
		}
		return
	}

	if err := runTUI(cfg); err != nil {
		fail(err)
	}
}

func runServer(cfg *config.Config, listen string) error {
	log.SetFlags(log.LstdFlags)
	if os.Getenv("DEBUG") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// A missing credential is fatal here; there is no one to ask for it.
	if err := cfg.Validate(); err != nil {
		return err
	}
	pl, provider, err := buildPipeline(cfg, log.Default())
	if err != nil {
		return err
	}
	srv, err := server.New(pl, provider.Name())
	if err != nil {
		return err
	}

	if listen == "" {
		listen = ":8080"
	}
	httpServer := newHTTPServer(listen, srv.Routes())

	log.Printf("[server] %s (%s) listening on %s", provider.Name(), cfg.ResolvedModel(), listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHTTPServer leaves WriteTimeout unset: a request lasts as long as its
// single generation call, and the backend client owns that deadline.
func newHTTPServer(listen string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              listen,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func buildPipeline(cfg *config.Config, logger *log.Logger) (*pipeline.Pipeline, llm.Provider, error) {
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	renderer, err := letter.NewRenderer(letter.Options{
		Header:         cfg.Letter.Header,
		SignatoryName:  cfg.Letter.SignatoryName,
		SignatoryTitle: cfg.Letter.SignatoryTitle,
		SignaturePath:  cfg.Letter.SignaturePath,
	})
	if err != nil {
		return nil, nil, err
	}
	pl := pipeline.New(provider, cfg.ResolvedModel(), renderer, pipeline.WithLogger(logger))
	return pl, provider, nil
}

func runTUI(cfg *config.Config) error {
	// Anything written to stderr would corrupt the alt screen
	if os.Getenv("DEBUG") != "" {
		f, err := tea.LogToFile("railletter-debug.log", "debug")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	app := tui.NewApp(cfg, writer.NewWriter(cfg.OutputDir), log.Default())
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	app.SetProgram(p)

	_, err := p.Run()
	return err
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
