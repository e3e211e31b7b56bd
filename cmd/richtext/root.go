package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xcms-dev/richtext/assets"
	"github.com/xcms-dev/richtext/extensions"
	"github.com/xcms-dev/richtext/internal/config"
)

// app holds the state shared by the subcommands once the configuration is
// loaded.
type app struct {
	configPath string
	cfg        *config.Config
	resolver   *assets.Resolver
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "richtext",
		Short: "Convert and serve rich text documents",
		Long: `richtext converts the JSON documents of the CMS editor to HTML and
Markdown, imports HTML and Markdown back into documents, and serves the same
conversions over HTTP.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.load() },
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.close() },
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to the YAML configuration file")

	rootCmd.AddCommand(
		newRenderCmd(a),
		newMarkdownCmd(a),
		newImportCmd(a),
		newPasteCmd(a),
		newSniffCmd(),
		newClassnameCmd(),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.InitConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("cannot load configuration: %w", err)
	}
	a.cfg = cfg
	slog.SetLogLoggerLevel(cfg.LogLevel)

	if cfg.Assets.Catalog == "" {
		return nil
	}
	catalog, err := assets.LoadCatalog(cfg.Assets.Catalog)
	if err != nil {
		return err
	}
	a.resolver, err = assets.NewResolver(catalog, cfg.Assets.CacheSize)
	if err != nil {
		return err
	}
	slog.Debug("asset catalog loaded",
		slog.String("path", cfg.Assets.Catalog),
		slog.Int("assets", catalog.Len()))
	return nil
}

func (a *app) close() {
	if a.resolver != nil {
		a.resolver.Close()
		a.resolver = nil
	}
}

func (a *app) buildConfig() extensions.BuildConfig {
	paste := a.cfg.PasteMarkdown()
	bc := extensions.BuildConfig{PasteMarkdown: &paste}
	if a.resolver != nil {
		bc.ResolveAsset = a.resolver.Func()
	}
	return bc
}

func (a *app) exts() []*extensions.Extension {
	return extensions.Build(a.buildConfig())
}

// readInput returns the content of the file named by args, or of stdin when
// there is none or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func writeLine(cmd *cobra.Command, s string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(s, "\n"))
	return err
}
