package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/layout-advisor/internal/advisor"
	"github.com/ironsheep/layout-advisor/internal/config"
	"github.com/ironsheep/layout-advisor/internal/httpapi"
	"github.com/ironsheep/layout-advisor/internal/imaging"
	"github.com/ironsheep/layout-advisor/internal/logger"
	"github.com/ironsheep/layout-advisor/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const defaultOutput = "suggested_layout.jpg"

func main() {
	cmd := "mcp"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("layout-advisor %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printHelp()
		return
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()
	lg := logger.Stderr(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adv, closer, err := advisor.FromConfig(ctx, cfg, lg)
	if err != nil {
		log.Fatalf("Failed to initialize advisor: %v", err)
	}
	defer closer.Close()

	lg.Debug("Layout Advisor v%s (built %s, commit %s), %s", Version, BuildTime, GitCommit, adv)

	switch cmd {
	case "mcp":
		err = server.New(adv, lg, Version).Run()
	case "serve":
		err = serve(ctx, cfg, adv, lg)
	case "compare":
		err = compare(ctx, adv, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printHelp()
		closer.Close()
		os.Exit(2)
	}
	if err != nil {
		closer.Close()
		log.Fatalf("%s: %v", cmd, err)
	}
}

func serve(ctx context.Context, cfg *config.Config, adv *advisor.Advisor, lg *logger.Logger) error {
	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(adv, lg, httpapi.Options{
			MaxUploadBytes: cfg.MaxUploadBytes(),
			Version:        Version,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("HTTP server listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	lg.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func compare(ctx context.Context, adv *advisor.Advisor, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: layout-advisor compare ROOM REFERENCE [OUTPUT]")
	}
	out := defaultOutput
	if len(args) == 3 {
		out = args[2]
	}

	analysis, err := adv.CompareFiles(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	for _, msg := range analysis.Messages {
		fmt.Println(msg)
	}
	if err := imaging.Save(out, analysis.Annotated); err != nil {
		return err
	}
	fmt.Printf("Annotated layout saved to %s\n", out)
	return nil
}

func printHelp() {
	fmt.Println("layout-advisor - furniture layout suggestions from a room photo and a reference photo")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  layout-advisor [mcp]                          Run the MCP server on stdin/stdout")
	fmt.Println("  layout-advisor serve                          Run the HTTP server")
	fmt.Println("  layout-advisor compare ROOM REFERENCE [OUT]   Compare two images from the command line")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  LAYOUT_DETECTOR=remote        static, dnn, rekognition or remote")
	fmt.Println("  LAYOUT_INFERENCE_URL=...      Inference service for the remote detector")
	fmt.Println("  LAYOUT_MODEL_PATH=...         ONNX model for the dnn detector (gocv builds)")
	fmt.Println("  LAYOUT_SCENE_FILE=...         Scene file for the static detector")
	fmt.Println("  LAYOUT_THRESHOLD=30           Minimum center offset in pixels")
	fmt.Println("  LAYOUT_HTTP_ADDR=:8080        Listen address for serve")
	fmt.Println("  LAYOUT_LOG_LEVEL=info         debug, info, warning or error")
}
