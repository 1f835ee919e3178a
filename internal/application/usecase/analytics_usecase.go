package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
	"github.com/diillson/order-cohort-analytics-go/internal/domain/repository"
	"github.com/diillson/order-cohort-analytics-go/internal/shared/types"
)

// AnalyticsUseCase handles the order cohort analytics pipeline.
type AnalyticsUseCase struct {
	orderRepo  repository.OrderRepository
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
}

// NewAnalyticsUseCase creates a new analytics use case.
func NewAnalyticsUseCase(
	orderRepo repository.OrderRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		orderRepo:  orderRepo,
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
	}
}

// mergeConfigFile carrega o arquivo de configuração e preenche os argumentos
// que não foram informados na linha de comando. Flags explícitas têm
// precedência sobre o arquivo.
func (uc *AnalyticsUseCase) mergeConfigFile(args *types.CLIArgs) error {
	if args.ConfigFile == "" {
		return nil
	}
	cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	if args.SourceURL == "" {
		args.SourceURL = cfg.SourceURL
	}
	if len(args.CustomerIDs) == 0 {
		args.CustomerIDs = cfg.CustomerIDs
	}
	if args.MaxSample == 0 {
		args.MaxSample = cfg.MaxSample
	}
	if args.MonthStart == 0 {
		args.MonthStart = cfg.MonthStart
	}
	if args.MonthEnd == 0 {
		args.MonthEnd = cfg.MonthEnd
	}
	if args.CohortMonth == 0 {
		args.CohortMonth = cfg.CohortMonth
	}
	if args.ReportName == "" {
		args.ReportName = cfg.ReportName
	}
	if len(args.ReportType) == 0 {
		args.ReportType = cfg.ReportType
	}
	if args.Dir == "" {
		args.Dir = cfg.Dir
	}
	return nil
}

// RunAnalytics executa a pipeline completa: carga, sequenciamento, agregação
// mensal, distribuição e, quando solicitados, matriz de migração e resumo de
// coorte. Cada estágio consome e produz um snapshot imutável da tabela.
func (uc *AnalyticsUseCase) RunAnalytics(ctx context.Context, args *types.CLIArgs) error {
	if err := uc.mergeConfigFile(args); err != nil {
		return err
	}
	if args.SourceURL == "" {
		return types.ErrNoSourceProvided
	}

	customerIDs := make(map[string]struct{}, len(args.CustomerIDs))
	for _, id := range args.CustomerIDs {
		customerIDs[id] = struct{}{}
	}

	opts := entity.LoadOptions{
		SourceURL:   args.SourceURL,
		CustomerIDs: customerIDs,
		MaxSample:   args.MaxSample,
	}

	// Com um cap de amostragem conhecido a carga mostra uma barra de
	// progresso; sem cap, um spinner de status.
	var status types.StatusHandle
	var progress types.ProgressHandle
	if !args.NoProgress && args.MaxSample > 0 {
		progress = uc.console.ProgressWithTotal(args.MaxSample)
		opts.OnOrder = progress.Increment
	} else {
		status = uc.console.Status(fmt.Sprintf("Loading order events from %s...", args.SourceURL))
	}

	result, err := uc.orderRepo.LoadOrders(ctx, opts)
	if progress != nil {
		progress.Stop()
	}
	if status != nil {
		status.Stop()
	}
	if err != nil {
		return err
	}

	uc.console.LogInfo("Loaded %d order events (%d lines read, %d skipped, ingestion date %s)",
		len(result.Events), result.LinesRead, result.LinesSkipped, result.IngestionDate)

	if len(result.Events) == 0 {
		uc.console.LogWarning("Source produced an empty event table; all result tables will be empty.")
	}

	// Núcleo da pipeline: cada estágio devolve uma nova tabela.
	sequenced := SequenceEvents(result.Events)
	aggregated := AggregateMonthly(sequenced)
	distribution := BuildDistribution(aggregated)

	report := &entity.AnalyticsReport{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		SourceURL:     args.SourceURL,
		IngestionDate: result.IngestionDate,
		Events:        aggregated,
		Distribution:  distribution,
	}

	uc.displayEventSummary(aggregated)
	uc.displayDistribution(distribution)

	if args.Migration {
		migration, err := BuildMigrationMatrix(aggregated, args.MonthStart, args.MonthEnd)
		if err != nil {
			return err
		}
		report.Migration = migration
		uc.displayMigration(migration, args.MonthStart, args.MonthEnd)
	}

	if args.Cohort {
		cohort, err := BuildCohortSummary(aggregated, args.CohortMonth)
		if err != nil {
			return err
		}
		report.Cohort = cohort
		uc.displayCohort(cohort)
	}

	if args.ReportName != "" && len(args.ReportType) > 0 {
		uc.exportReport(report, args)
	}

	return nil
}

// displayEventSummary exibe um resumo compacto da tabela sequenciada.
func (uc *AnalyticsUseCase) displayEventSummary(events []entity.OrderEvent) {
	customers := make(map[string]struct{})
	months := make(map[int]struct{})
	gapCount := 0
	var gapSum int64
	for _, ev := range events {
		customers[ev.CustomerID] = struct{}{}
		if ev.OrderCreatedMonth > 0 {
			months[ev.OrderCreatedMonth] = struct{}{}
		}
		if ev.DiffDays != nil {
			gapCount++
			gapSum += *ev.DiffDays
		}
	}

	table := uc.console.CreateTable()
	table.AddColumn("Events")
	table.AddColumn("Customers")
	table.AddColumn("Months")
	table.AddColumn("Avg Gap (days)")

	avgGap := "N/A"
	if gapCount > 0 {
		avgGap = fmt.Sprintf("%.1f", float64(gapSum)/float64(gapCount))
	}
	table.AddRow(len(events), len(customers), len(months), avgGap)
	uc.console.Print(table.Render())
}

// displayDistribution exibe a distribuição mensal como tabela e barras.
func (uc *AnalyticsUseCase) displayDistribution(rows []entity.DistributionRow) {
	if len(rows) == 0 {
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn("Month")
	table.AddColumn("Target")
	table.AddColumn("Active")
	table.AddColumn("Count")
	table.AddColumn("Month Total")
	table.AddColumn("%")

	shares := make([]types.DistributionShare, 0, len(rows))
	for _, row := range rows {
		table.AddRow(row.Month, row.IsTarget, row.Active, row.Count, row.TotalMonth,
			fmt.Sprintf("%.2f", row.Percentual))
		shares = append(shares, types.DistributionShare{
			Label:   fmt.Sprintf("M%02d target=%t active=%t", row.Month, row.IsTarget, row.Active),
			Percent: row.Percentual,
		})
	}
	uc.console.Print(table.Render())
	uc.console.DisplayDistributionBars(shares)
}

// displayMigration exibe a matriz de migração entre os dois meses.
func (uc *AnalyticsUseCase) displayMigration(cells []entity.MigrationCell, monthStart, monthEnd int) {
	table := uc.console.CreateTable()
	table.AddColumn(fmt.Sprintf("In Month %d", monthStart))
	table.AddColumn(fmt.Sprintf("In Month %d", monthEnd))
	table.AddColumn("Target")
	table.AddColumn("Customers")

	for _, cell := range cells {
		table.AddRow(cell.InMonthStart, cell.InMonthEnd, cell.IsTarget, cell.TotalClientes)
	}
	uc.console.Print(table.Render())
}

// displayCohort exibe o resumo da coorte com os rótulos de borda.
func (uc *AnalyticsUseCase) displayCohort(summary *entity.CohortSummary) {
	table := uc.console.CreateTable()
	table.AddColumn("Target")
	table.AddColumn(summary.LabelEnd)
	table.AddColumn(summary.LabelStart)
	table.AddColumn("Total_Clientes")

	for _, row := range summary.Rows {
		table.AddRow(row.IsTarget, row.PedidosMesFim, row.PedidosMesInicio, row.TotalClientes)
	}
	uc.console.Print(table.Render())
}

// exportReport grava as tabelas do relatório em cada formato solicitado.
func (uc *AnalyticsUseCase) exportReport(report *entity.AnalyticsReport, args *types.CLIArgs) {
	type tableExport struct {
		label  string
		export func(filename string) (string, error)
	}

	for _, reportType := range args.ReportType {
		var exports []tableExport
		switch reportType {
		case "csv":
			exports = []tableExport{
				{"events", func(f string) (string, error) {
					return uc.exportRepo.ExportEventsToCSV(report.Events, f, args.Dir)
				}},
				{"distribution", func(f string) (string, error) {
					return uc.exportRepo.ExportDistributionToCSV(report.Distribution, f, args.Dir)
				}},
			}
			if report.Migration != nil {
				exports = append(exports, tableExport{"migration", func(f string) (string, error) {
					return uc.exportRepo.ExportMigrationToCSV(report.Migration, f, args.Dir)
				}})
			}
			if report.Cohort != nil {
				exports = append(exports, tableExport{"cohort", func(f string) (string, error) {
					return uc.exportRepo.ExportCohortToCSV(report.Cohort, f, args.Dir)
				}})
			}
		case "json":
			exports = []tableExport{
				{"events", func(f string) (string, error) {
					return uc.exportRepo.ExportEventsToJSON(report.Events, f, args.Dir)
				}},
				{"distribution", func(f string) (string, error) {
					return uc.exportRepo.ExportDistributionToJSON(report.Distribution, f, args.Dir)
				}},
			}
			if report.Migration != nil {
				exports = append(exports, tableExport{"migration", func(f string) (string, error) {
					return uc.exportRepo.ExportMigrationToJSON(report.Migration, f, args.Dir)
				}})
			}
			if report.Cohort != nil {
				exports = append(exports, tableExport{"cohort", func(f string) (string, error) {
					return uc.exportRepo.ExportCohortToJSON(report.Cohort, f, args.Dir)
				}})
			}
		case "parquet":
			exports = []tableExport{
				{"events", func(f string) (string, error) {
					return uc.exportRepo.ExportEventsToParquet(report.Events, f, args.Dir)
				}},
				{"distribution", func(f string) (string, error) {
					return uc.exportRepo.ExportDistributionToParquet(report.Distribution, f, args.Dir)
				}},
			}
			if report.Migration != nil {
				exports = append(exports, tableExport{"migration", func(f string) (string, error) {
					return uc.exportRepo.ExportMigrationToParquet(report.Migration, f, args.Dir)
				}})
			}
			if report.Cohort != nil {
				exports = append(exports, tableExport{"cohort", func(f string) (string, error) {
					return uc.exportRepo.ExportCohortToParquet(report.Cohort, f, args.Dir)
				}})
			}
		case "pdf":
			exports = []tableExport{
				{"report", func(f string) (string, error) {
					return uc.exportRepo.ExportReportToPDF(report, f, args.Dir)
				}},
			}
		default:
			uc.console.LogWarning("Unknown report type %q, skipping", reportType)
			continue
		}

		for _, ex := range exports {
			filename := fmt.Sprintf("%s_%s", args.ReportName, ex.label)
			path, err := ex.export(filename)
			if err != nil {
				uc.console.LogError("Failed to export %s to %s: %s", ex.label, reportType, err)
			} else {
				uc.console.LogSuccess("Successfully exported %s to %s: %s", ex.label, reportType, path)
			}
		}
	}
}
