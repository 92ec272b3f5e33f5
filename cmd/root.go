package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a1s/tgrid/internal/aws"
	"github.com/a1s/tgrid/internal/config"
	"github.com/a1s/tgrid/internal/config/data"
	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/server"
	"github.com/a1s/tgrid/internal/view"
)

const (
	appName    = config.AppName
	appVersion = "0.1.0"
)

var (
	tgridFlags *data.Flags
	serveDB    string
	rootCmd    = &cobra.Command{
		Use:   appName,
		Short: "A terminal data grid with server side filtering, sorting and paging",
		Long:  `tgrid pages through a record set in the terminal, pushing filters, sort order and page to its data source.`,
		RunE:  run,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the paged data endpoint",
		RunE:  serve,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
)

func init() {
	tgridFlags = config.NewFlags()
	initTGridFlags()
	initServeFlags()
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func initTGridFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(tgridFlags.LogLevel, "logLevel", "l", "", "Log level (debug, info, warn, error)")
	pf.StringVar(tgridFlags.LogFile, "logFile", "", "Log file path")
	pf.StringVarP(tgridFlags.Path, "data", "d", "", "Data file path or s3://bucket/key")
	pf.StringVar(tgridFlags.Profile, "profile", "", "AWS profile used for s3:// data files")
	pf.StringVar(tgridFlags.Region, "region", "", "AWS region used for s3:// data files")
	_ = rootCmd.RegisterFlagCompletionFunc("profile", completeProfiles)

	rootCmd.Flags().StringVarP(tgridFlags.Source, "source", "s", "", "Data source (local, file, remote, sqlite)")
	rootCmd.Flags().StringVarP(tgridFlags.URL, "url", "u", "", "Remote data endpoint base URL")
	rootCmd.Flags().IntVarP(tgridFlags.PageSize, "pageSize", "p", 0, "Initial page size")
	rootCmd.Flags().StringVar(tgridFlags.APITimeout, "timeout", "", "Per request timeout (e.g. 30s)")
}

func initServeFlags() {
	serveCmd.Flags().StringVarP(tgridFlags.Addr, "addr", "a", "", "Listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database backing the endpoint (use - for the default location)")
}

// completeProfiles lists the profiles of the shared AWS config files.
func completeProfiles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	nn, err := aws.NewProfiles().Names()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return nn, cobra.ShellCompDirectiveNoFileComp
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() (*config.Config, error) {
	if err := config.InitLocs(); err != nil {
		return nil, fmt.Errorf("failed to initialize locations: %w", err)
	}

	cfg := config.NewConfig()
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(tgridFlags); err != nil {
		return nil, fmt.Errorf("failed to refine configuration: %w", err)
	}
	_ = cfg.Save(false)

	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closer, err := config.NewLogger(cfg.TGrid.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closer.Close()

	srcCfg, err := cfg.TGrid.SourceConfig()
	if err != nil {
		return err
	}
	factory := dao.NewFactory(srcCfg, logger)
	defer factory.Close()

	source, err := factory.Source(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to build data source: %w", err)
	}

	app := view.NewApp(cfg, appVersion, logger)
	if err := app.Init(source); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	logger.Info("starting", "version", appVersion, "source", cfg.TGrid.SourceName())

	return app.Run()
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	switch serveDB {
	case "":
	case "-":
		cfg.TGrid.Server.DB = config.AppDBFile
	default:
		cfg.TGrid.Server.DB = serveDB
	}

	logger, err := config.NewServerLogger(os.Stderr, cfg.TGrid.Logger.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srcCfg, err := cfg.TGrid.ServeConfig()
	if err != nil {
		return err
	}
	factory := dao.NewFactory(srcCfg, logger)
	defer factory.Close()

	source, err := factory.Source(ctx)
	if err != nil {
		return fmt.Errorf("failed to build data source: %w", err)
	}

	return server.New(cfg.TGrid.Server, source, appVersion, logger).Serve(ctx)
}
