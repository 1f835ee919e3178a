package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diillson/order-cohort-analytics-go/internal/application/usecase"
	"github.com/diillson/order-cohort-analytics-go/internal/shared/types"
	"github.com/diillson/order-cohort-analytics-go/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd          *cobra.Command
	analyticsUseCase *usecase.AnalyticsUseCase
	version          string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "order-cohort",
		Short:   "Order Cohort Analytics CLI",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "Order Cohort Analytics version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("source-url", "u", "", "Order source: https://, s3://bucket/key or a local path to a JSON-lines file (gzip accepted)")
	rootCmd.PersistentFlags().StringSliceP("customer-ids", "i", nil, "Customer IDs to keep while streaming the source (comma-separated; empty keeps all)")
	rootCmd.PersistentFlags().IntP("max-sample", "s", 0, "Maximum number of orders to collect from the source (0 = no cap)")
	rootCmd.PersistentFlags().Int("month-start", 0, "Start month (1-12) for the migration matrix")
	rootCmd.PersistentFlags().Int("month-end", 0, "End month (1-12) for the migration matrix")
	rootCmd.PersistentFlags().Int("cohort-month", 0, "Cohort start month (1-12); the end month is the following one, wrapping December to January")
	rootCmd.PersistentFlags().Bool("migration", false, "Build the month-to-month migration matrix")
	rootCmd.PersistentFlags().Bool("cohort", false, "Build the cohort summary for --cohort-month")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report files (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, parquet, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().Bool("no-progress", false, "Disable the streaming progress bar")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	configFile, _ := app.rootCmd.Flags().GetString("config-file")
	sourceURL, _ := app.rootCmd.Flags().GetString("source-url")
	customerIDs, _ := app.rootCmd.Flags().GetStringSlice("customer-ids")
	maxSample, _ := app.rootCmd.Flags().GetInt("max-sample")
	monthStart, _ := app.rootCmd.Flags().GetInt("month-start")
	monthEnd, _ := app.rootCmd.Flags().GetInt("month-end")
	cohortMonth, _ := app.rootCmd.Flags().GetInt("cohort-month")
	migration, _ := app.rootCmd.Flags().GetBool("migration")
	cohort, _ := app.rootCmd.Flags().GetBool("cohort")
	reportName, _ := app.rootCmd.Flags().GetString("report-name")
	reportType, _ := app.rootCmd.Flags().GetStringSlice("report-type")
	dir, _ := app.rootCmd.Flags().GetString("dir")
	noProgress, _ := app.rootCmd.Flags().GetBool("no-progress")

	// Set default directory to current working directory if not specified
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:  configFile,
		SourceURL:   sourceURL,
		CustomerIDs: customerIDs,
		MaxSample:   maxSample,
		MonthStart:  monthStart,
		MonthEnd:    monthEnd,
		CohortMonth: cohortMonth,
		Migration:   migration,
		Cohort:      cohort,
		ReportName:  reportName,
		ReportType:  reportType,
		Dir:         dir,
		NoProgress:  noProgress,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	ctx := context.Background()
	return app.analyticsUseCase.RunAnalytics(ctx, cliArgs)
}

// SetAnalyticsUseCase sets the analytics use case for the CLI app.
func (app *CLIApp) SetAnalyticsUseCase(useCase *usecase.AnalyticsUseCase) {
	app.analyticsUseCase = useCase
}
