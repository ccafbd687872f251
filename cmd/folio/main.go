package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/pipeline"
	"github.com/tsawler/folio/render"
	"github.com/tsawler/folio/server"
)

// shutdownGrace is how long in-flight requests get before the listener is
// torn down; running jobs are drained afterwards regardless.
const shutdownGrace = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "folio",
		Short: "Convert layout documents into semantic HTML",
		Long: `folio converts JSON layout documents - positioned text runs, images, and
vector drawings extracted from a PDF - into semantically labeled HTML plus
a machine-readable JSON export.

Use "convert" for one-shot conversion of a single document, or "serve" to
run the upload/status/results HTTP service.`,
		SilenceUsage: true,
	}
	root.AddCommand(newConvertCmd(), newServeCmd())
	return root
}

// ---------------------------------------------------------------------------
// convert
// ---------------------------------------------------------------------------

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <layout.json>",
		Short: "Convert one layout document and write the deliverables to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			outDir, _ := cmd.Flags().GetString("output")
			if outDir == "" {
				outDir = defaultOutDir(input)
			}
			return runConvert(input, outDir)
		},
	}
	cmd.Flags().StringP("output", "o", "", "output directory (default: input name without extension)")
	return cmd
}

// defaultOutDir derives an output directory from the input path:
// reports/q3.json converts into reports/q3/.
func defaultOutDir(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// jobIDFor names the image namespace after the input file, so extracted
// images land under static/images/<name>/ inside the output directory.
func jobIDFor(input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "doc"
	}
	return b.String()
}

func runConvert(input, outDir string) error {
	// One-shot output is opened from disk, so the stylesheet link must be
	// relative and the stylesheet itself written alongside the markup.
	renderConfig := render.DefaultConfig()
	renderConfig.Stylesheet = "static/css/folio.css"

	result, err := folio.Open(input).
		JobID(jobIDFor(input)).
		StaticDir(filepath.Join(outDir, "static")).
		RenderConfig(renderConfig).
		Convert()
	if err != nil {
		return fmt.Errorf("converting %s: %w", input, err)
	}

	layout, err := json.MarshalIndent(result.Document.Pages, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}

	cssDir := filepath.Join(outDir, "static", "css")
	if err := os.MkdirAll(cssDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", cssDir, err)
	}

	outputs := []struct {
		path string
		data []byte
	}{
		{filepath.Join(outDir, "document.html"), []byte(result.HTML)},
		{filepath.Join(outDir, "export.json"), result.Export},
		{filepath.Join(outDir, "layout.json"), layout},
		{filepath.Join(cssDir, "folio.css"), []byte(render.Stylesheet)},
	}
	for _, out := range outputs {
		if err := os.WriteFile(out.path, out.data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out.path, err)
		}
	}

	log.Printf("converted %s: %d page(s) -> %s", input, result.Document.PageCount(), outDir)
	return nil
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload/status/results HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := serveConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(config)
		},
	}
	cmd.Flags().String("config", "", "YAML configuration file")
	cmd.Flags().String("addr", "", "listen address (overrides config)")
	cmd.Flags().String("data-dir", "", "directory for uploads, intermediates, and results (overrides config)")
	cmd.Flags().String("static-dir", "", "static files root for extracted images (overrides config)")
	return cmd
}

// serveConfig resolves the service configuration: defaults, then the YAML
// file when given, then any explicitly set flags on top.
func serveConfig(cmd *cobra.Command) (pipeline.Config, error) {
	config := pipeline.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := pipeline.LoadConfig(path)
		if err != nil {
			return config, err
		}
		config = loaded
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		config.Addr = addr
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		config.DataDir = dir
	}
	if dir, _ := cmd.Flags().GetString("static-dir"); dir != "" {
		config.StaticDir = dir
	}
	return config, nil
}

func runServe(config pipeline.Config) error {
	runner := pipeline.New(config)
	srv := server.New(config, runner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
