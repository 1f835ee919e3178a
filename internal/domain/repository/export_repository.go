package repository

import (
	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
)

type ExportRepository interface {
	// Tabela de eventos sequenciada e agregada
	ExportEventsToCSV(events []entity.OrderEvent, filename, outputDir string) (string, error)
	ExportEventsToJSON(events []entity.OrderEvent, filename, outputDir string) (string, error)
	ExportEventsToParquet(events []entity.OrderEvent, filename, outputDir string) (string, error)

	// Tabela de distribuição mensal por segmento
	ExportDistributionToCSV(rows []entity.DistributionRow, filename, outputDir string) (string, error)
	ExportDistributionToJSON(rows []entity.DistributionRow, filename, outputDir string) (string, error)
	ExportDistributionToParquet(rows []entity.DistributionRow, filename, outputDir string) (string, error)

	// Matriz de migração entre dois meses
	ExportMigrationToCSV(cells []entity.MigrationCell, filename, outputDir string) (string, error)
	ExportMigrationToJSON(cells []entity.MigrationCell, filename, outputDir string) (string, error)
	ExportMigrationToParquet(cells []entity.MigrationCell, filename, outputDir string) (string, error)

	// Resumo de coorte
	ExportCohortToCSV(summary *entity.CohortSummary, filename, outputDir string) (string, error)
	ExportCohortToJSON(summary *entity.CohortSummary, filename, outputDir string) (string, error)
	ExportCohortToParquet(summary *entity.CohortSummary, filename, outputDir string) (string, error)

	// Relatório combinado
	ExportReportToPDF(report *entity.AnalyticsReport, filename, outputDir string) (string, error)
}
