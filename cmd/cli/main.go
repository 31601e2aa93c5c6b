package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hannaerdza/titanic-visualization/adapters/api"
	"github.com/hannaerdza/titanic-visualization/adapters/excel"
	"github.com/hannaerdza/titanic-visualization/domain/passenger"
	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/config"
	"github.com/hannaerdza/titanic-visualization/internal/dashboard"
	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(appConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every subcommand
type globalOptions struct {
	apiURL   string
	timeout  time.Duration
	logLevel string
}

func (o *globalOptions) newStore(rows int) (*dashboard.Store, *internal.Logger, error) {
	logger := internal.NewLogger(internal.ParseLogLevel(o.logLevel))
	client, err := api.NewClient(api.ClientConfig{
		BaseURL: o.apiURL,
		Timeout: o.timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}
	store := dashboard.NewStore(client, dashboard.WithLogger(logger), dashboard.WithRowsPerPage(rows))
	return store, logger, nil
}

func newRootCmd(appConfig *config.Config) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "titanic",
		Short:         "Query, summarise and import Titanic passenger data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", appConfig.API.BaseURL, "Passenger API base URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", appConfig.API.Timeout, "Per-request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "Log level: ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newPassengersCmd(opts, appConfig.Table.DefaultRowsPerPage),
		newStatsCmd(opts),
		newImportCmd(opts, appConfig.Upload.MaxBytes),
	)
	return rootCmd
}

func newPassengersCmd(opts *globalOptions, defaultRows int) *cobra.Command {
	var filter passenger.Filter
	var page, rows int

	cmd := &cobra.Command{
		Use:   "passengers",
		Short: "List passengers matching the given filters",
		Long: `List one page of passengers matching the given filters.

Filter values are sent to the API exactly as given; omitted filters are not sent.

Example: titanic passengers --sex female --class 1 --rows 25 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, logger, err := opts.newStore(rows)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := store.ReplaceFilter(cmd.Context(), filter); err != nil {
				return err
			}
			if err := store.SetRowsPerPage(rows); err != nil {
				return err
			}
			if err := store.SetPage(page - 1); err != nil {
				return err
			}

			renderPassengers(cmd.OutOrStdout(), store.Snapshot().Table)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Survived, "survived", "", "Survival: 1 (yes) or 0 (no)")
	cmd.Flags().StringVar(&filter.Class, "class", "", "Passenger class: 1, 2 or 3")
	cmd.Flags().StringVar(&filter.Sex, "sex", "", "Sex: male or female")
	cmd.Flags().StringVar(&filter.Embarked, "embarked", "", "Embarkation port: C, Q or S")
	cmd.Flags().StringVar(&filter.MinAge, "min-age", "", "Minimum age")
	cmd.Flags().StringVar(&filter.MaxAge, "max-age", "", "Maximum age")
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&rows, "rows", defaultRows, "Rows per page: 10, 25, 50 or 100")
	return cmd
}

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show survival statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, logger, err := opts.newStore(dashboard.DefaultRowsPerPage)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := store.RefreshStatistics(cmd.Context()); err != nil {
				return err
			}
			renderCharts(cmd.OutOrStdout(), store.Snapshot().Charts.Charts)
			return nil
		},
	}
}

func newImportCmd(opts *globalOptions, maxBytes int64) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import passengers from a CSV or Excel file",
		Long: `Upload a CSV file to the passenger API. Excel workbooks (.xlsx) are converted
to CSV from their first worksheet before upload.

Example: titanic import train.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := readUpload(args[0], maxBytes, internal.NewNopLogger())
			if err != nil {
				return err
			}

			store, logger, err := opts.newStore(dashboard.DefaultRowsPerPage)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store.SelectFile(selected)
			if err := store.Upload(cmd.Context()); err != nil {
				return err
			}

			snap := store.Snapshot()
			fmt.Fprintln(cmd.OutOrStdout(), snap.Upload.Success)
			fmt.Fprintf(cmd.OutOrStdout(), "%d passengers now available\n", snap.Table.Total)
			return nil
		},
	}
}

// readUpload loads a local file for import, converting workbooks to CSV
func readUpload(path string, maxBytes int64, logger *internal.Logger) (dashboard.SelectedFile, error) {
	if !excel.IsSupported(path) {
		return dashboard.SelectedFile{}, errors.InvalidInput("only CSV (.csv) and Excel (.xlsx) files can be imported")
	}

	info, err := os.Stat(path)
	if err != nil {
		return dashboard.SelectedFile{}, errors.Wrapf(err, "cannot read %s", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return dashboard.SelectedFile{}, errors.InvalidInput(fmt.Sprintf("file size (%.1f MB) exceeds the %d MB limit", float64(info.Size())/(1024*1024), maxBytes>>20))
	}

	f, err := os.Open(path)
	if err != nil {
		return dashboard.SelectedFile{}, errors.Wrapf(err, "cannot open %s", path)
	}
	defer f.Close()

	reader := excel.NewDataReader(path, logger)
	content, err := reader.ReadCSV(f)
	if err != nil {
		return dashboard.SelectedFile{}, err
	}
	return dashboard.SelectedFile{Name: filepath.Base(reader.CSVName()), Content: content}, nil
}
