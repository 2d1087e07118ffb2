// Package cli wires the pipeline into the pdxmill command surface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pdxmill/internal/config"
	"pdxmill/internal/diag"
	"pdxmill/internal/extract"
	"pdxmill/internal/loader"
	"pdxmill/internal/localization"
	"pdxmill/internal/moddesc"
	"pdxmill/internal/pdxdate"
	"pdxmill/internal/script"
	"pdxmill/internal/store"
	"pdxmill/internal/walker"
	"pdxmill/internal/watch"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "pdxmill",
		Short: "Parse, resolve, and merge Paradox script game data",
		Long:  "pdxmill parses Paradox-style script files into typed records, resolves dated history, and merges base-game data with mods in load order.",
	}

	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(loadCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(locCmd())
	rootCmd.AddCommand(modInfoCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a script file and print its tree and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <playset.yaml> | <base-dir> [mod-dir...]",
		Short: "Load and merge all sources in load order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")
			watchFiles, _ := cmd.Flags().GetBool("watch")
			return runLoad(args, save, watchFiles)
		},
	}
	cmd.Flags().Bool("save", false, "Persist resolved snapshots to PostgreSQL")
	cmd.Flags().Bool("watch", false, "Keep running and reload on file changes")
	return cmd
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <playset.yaml> <kind> <id>",
		Short: "Print one entity's snapshot at a date (default: latest)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dateStr, _ := cmd.Flags().GetString("date")
			return runResolve(args[0], args[1], args[2], dateStr)
		},
	}
	cmd.Flags().String("date", "", "Target date as Y.M.D (default: final state)")
	return cmd
}

func locCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loc <file>",
		Short: "Parse a localisation file and print its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, _ := cmd.Flags().GetBool("markup")
			return runLoc(args[0], markup)
		},
	}
	cmd.Flags().Bool("markup", false, "Also list game markup tokens found in each entry")
	return cmd
}

func modInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mod-info <descriptor.mod>",
		Short: "Print a mod descriptor's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModInfo(args[0])
		},
	}
}

func runInspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script file: %w", err)
	}
	root, diags := script.Parse(string(data))
	printDiagnostics(diags)
	printNode(root, 0)
	return nil
}

func runLoad(args []string, save, watchFiles bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	sources, err := sourcesFromArgs(args)
	if err != nil {
		return err
	}

	load := func() (*loader.Dataset, error) {
		ds, loadErr := loader.New(nil, cfg.WorkerCount).Load(ctx, sources)
		if loadErr != nil {
			return nil, loadErr
		}
		printDiagnostics(ds.Diagnostics)
		return ds, nil
	}

	ds, err := load()
	if err != nil {
		return err
	}

	if save {
		pool, poolErr := initDatabase(ctx, cfg)
		if poolErr != nil {
			return poolErr
		}
		defer pool.Close()

		st, storeErr := store.New(ctx, pool)
		if storeErr != nil {
			return storeErr
		}
		if saveErr := saveDataset(ctx, st, ds); saveErr != nil {
			return saveErr
		}
	}

	if watchFiles {
		return watch.Watch(ctx, sources, func() {
			if _, reloadErr := load(); reloadErr != nil {
				log.Error().Err(reloadErr).Msg("Reload failed")
			}
		})
	}
	return nil
}

func runResolve(playsetPath, kind, id, dateStr string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	playset, err := config.LoadPlayset(playsetPath)
	if err != nil {
		return err
	}
	ds, err := loader.New(nil, cfg.WorkerCount).Load(ctx, playset.Sources())
	if err != nil {
		return err
	}

	at := pdxdate.Max
	if dateStr != "" {
		at, err = pdxdate.Parse(dateStr)
		if err != nil {
			return err
		}
	}

	var snapshot any
	switch kind {
	case "province":
		rec, ok := ds.Provinces[id]
		if !ok {
			return fmt.Errorf("province %s not found", id)
		}
		snapshot = rec.ResolveAt(at)
	case "country":
		rec, ok := ds.Countries[id]
		if !ok {
			return fmt.Errorf("country %s not found", id)
		}
		snapshot = rec.ResolveAt(at)
	default:
		return fmt.Errorf("unknown entity kind %q (want province or country)", kind)
	}

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runLoc(path string, markup bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read localisation file: %w", err)
	}
	result, diags := localization.Parse(data)
	printDiagnostics(diags)
	fmt.Printf("language: %s\n", result.Language)
	for _, e := range result.Entries {
		fmt.Printf("%s: %q\n", e.Key, e.Text)
		if markup {
			if _, mappings := localization.Protect(e.Text); len(mappings) > 0 {
				for _, m := range mappings {
					fmt.Printf("  markup: %s\n", m.Original)
				}
			}
		}
	}
	return nil
}

func runModInfo(path string) error {
	d, diags, err := moddesc.Load(path)
	if err != nil {
		return err
	}
	printDiagnostics(diags)
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal descriptor: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// sourcesFromArgs builds the load order either from a playset file or from
// directory arguments, base first.
func sourcesFromArgs(args []string) ([]walker.Source, error) {
	if len(args) == 1 && (strings.HasSuffix(args[0], ".yaml") || strings.HasSuffix(args[0], ".yml")) {
		playset, err := config.LoadPlayset(args[0])
		if err != nil {
			return nil, err
		}
		return playset.Sources(), nil
	}
	sources := []walker.Source{{Name: "base", Root: args[0]}}
	for _, dir := range args[1:] {
		sources = append(sources, walker.Source{Name: filepath.Base(dir), Root: dir})
	}
	return sources, nil
}

func saveDataset(ctx context.Context, st *store.Store, ds *loader.Dataset) error {
	provinces := make(map[string]extract.ProvinceState, len(ds.Provinces))
	for id, rec := range ds.Provinces {
		provinces[id] = rec.Resolve()
	}
	countries := make(map[string]extract.CountryState, len(ds.Countries))
	for tag, rec := range ds.Countries {
		countries[tag] = rec.Resolve()
	}
	return st.SaveAll(ctx, provinces, countries)
}

func printDiagnostics(diags []diag.Diagnostic) {
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			log.Error().Msg(d.String())
		} else {
			log.Warn().Msg(d.String())
		}
	}
}

func printNode(n *script.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if !n.IsBlock() {
		fmt.Printf("%s%s\n", indent, n.Scalar.Raw)
		return
	}
	for _, e := range n.Entries {
		switch {
		case e.Key == nil && !e.Value.IsBlock():
			fmt.Printf("%s- %s\n", indent, e.Value.Scalar.Raw)
		case e.Key == nil:
			fmt.Printf("%s- {\n", indent)
			printNode(e.Value, depth+1)
			fmt.Printf("%s}\n", indent)
		case e.Value.IsBlock():
			fmt.Printf("%s%s = {\n", indent, e.Key.Raw)
			printNode(e.Value, depth+1)
			fmt.Printf("%s}\n", indent)
		default:
			fmt.Printf("%s%s = %s\n", indent, e.Key.Raw, e.Value.Scalar.Raw)
		}
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// initDatabase connects the PostgreSQL pool.
func initDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}
