package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/parquet-go/parquet-go"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
	"github.com/diillson/order-cohort-analytics-go/internal/domain/repository"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// --- Tabela de eventos ---

func (r *ExportRepositoryImpl) ExportEventsToCSV(events []entity.OrderEvent, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"customer_id", "order_created_at", "order_total_amount", "is_target", "active",
		"order_created_month", "unique_order_hash", "prev_order_time", "diff_days",
		"num_pedidos_mes", "total_amount_mes", "ticket_medio", "num_pedidos_hist",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, ev := range events {
		record := []string{
			ev.CustomerID,
			formatTimestamp(ev.OrderCreatedAt),
			fmt.Sprintf("%.2f", ev.OrderTotalAmount),
			strconv.FormatBool(ev.IsTarget),
			strconv.FormatBool(ev.Active),
			strconv.Itoa(ev.OrderCreatedMonth),
			ev.UniqueOrderHash,
			formatOptionalTimestamp(ev.PrevOrderTime),
			formatOptionalInt64(ev.DiffDays),
			strconv.Itoa(ev.NumPedidosMes),
			fmt.Sprintf("%.2f", ev.TotalAmountMes),
			fmt.Sprintf("%.2f", ev.TicketMedio),
			strconv.Itoa(ev.NumPedidosHist),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportEventsToJSON(events []entity.OrderEvent, filename, outputDir string) (string, error) {
	return exportJSON(events, filename, outputDir)
}

// parquetEventRow é a linha da tabela de eventos no esquema Parquet. Campos
// opcionais usam ponteiros para preservar os nulos do lag.
type parquetEventRow struct {
	CustomerID        string     `parquet:"customer_id"`
	OrderCreatedAt    time.Time  `parquet:"order_created_at,timestamp"`
	OrderTotalAmount  float64    `parquet:"order_total_amount"`
	IsTarget          bool       `parquet:"is_target"`
	Active            bool       `parquet:"active"`
	OrderCreatedMonth int32      `parquet:"order_created_month"`
	UniqueOrderHash   string     `parquet:"unique_order_hash"`
	PrevOrderTime     *time.Time `parquet:"prev_order_time,optional,timestamp"`
	DiffDays          *int64     `parquet:"diff_days,optional"`
	NumPedidosMes     int32      `parquet:"num_pedidos_mes"`
	TotalAmountMes    float64    `parquet:"total_amount_mes"`
	TicketMedio       float64    `parquet:"ticket_medio"`
	NumPedidosHist    int32      `parquet:"num_pedidos_hist"`
}

func (r *ExportRepositoryImpl) ExportEventsToParquet(events []entity.OrderEvent, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "parquet")
	if err != nil {
		return "", err
	}

	rows := make([]parquetEventRow, len(events))
	for i, ev := range events {
		rows[i] = parquetEventRow{
			CustomerID:        ev.CustomerID,
			OrderCreatedAt:    ev.OrderCreatedAt,
			OrderTotalAmount:  ev.OrderTotalAmount,
			IsTarget:          ev.IsTarget,
			Active:            ev.Active,
			OrderCreatedMonth: int32(ev.OrderCreatedMonth),
			UniqueOrderHash:   ev.UniqueOrderHash,
			PrevOrderTime:     ev.PrevOrderTime,
			DiffDays:          ev.DiffDays,
			NumPedidosMes:     int32(ev.NumPedidosMes),
			TotalAmountMes:    ev.TotalAmountMes,
			TicketMedio:       ev.TicketMedio,
			NumPedidosHist:    int32(ev.NumPedidosHist),
		}
	}

	if err := parquet.WriteFile(outputFilename, rows); err != nil {
		return "", fmt.Errorf("error writing Parquet file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// --- Tabela de distribuição ---

func (r *ExportRepositoryImpl) ExportDistributionToCSV(rows []entity.DistributionRow, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"order_created_month", "is_target", "active", "count", "total_month", "percentual"}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Month),
			strconv.FormatBool(row.IsTarget),
			strconv.FormatBool(row.Active),
			strconv.Itoa(row.Count),
			strconv.Itoa(row.TotalMonth),
			fmt.Sprintf("%.2f", row.Percentual),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportDistributionToJSON(rows []entity.DistributionRow, filename, outputDir string) (string, error) {
	return exportJSON(rows, filename, outputDir)
}

type parquetDistributionRow struct {
	Month      int32   `parquet:"order_created_month"`
	IsTarget   bool    `parquet:"is_target"`
	Active     bool    `parquet:"active"`
	Count      int64   `parquet:"count"`
	TotalMonth int64   `parquet:"total_month"`
	Percentual float64 `parquet:"percentual"`
}

func (r *ExportRepositoryImpl) ExportDistributionToParquet(rows []entity.DistributionRow, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "parquet")
	if err != nil {
		return "", err
	}

	pqRows := make([]parquetDistributionRow, len(rows))
	for i, row := range rows {
		pqRows[i] = parquetDistributionRow{
			Month:      int32(row.Month),
			IsTarget:   row.IsTarget,
			Active:     row.Active,
			Count:      int64(row.Count),
			TotalMonth: int64(row.TotalMonth),
			Percentual: row.Percentual,
		}
	}

	if err := parquet.WriteFile(outputFilename, pqRows); err != nil {
		return "", fmt.Errorf("error writing Parquet file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// --- Matriz de migração ---

func (r *ExportRepositoryImpl) ExportMigrationToCSV(cells []entity.MigrationCell, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"in_month_start", "in_month_end", "is_target", "total_clientes"}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, cell := range cells {
		record := []string{
			strconv.Itoa(cell.InMonthStart),
			strconv.Itoa(cell.InMonthEnd),
			strconv.FormatBool(cell.IsTarget),
			strconv.Itoa(cell.TotalClientes),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportMigrationToJSON(cells []entity.MigrationCell, filename, outputDir string) (string, error) {
	return exportJSON(cells, filename, outputDir)
}

type parquetMigrationRow struct {
	InMonthStart  int32 `parquet:"in_month_start"`
	InMonthEnd    int32 `parquet:"in_month_end"`
	IsTarget      bool  `parquet:"is_target"`
	TotalClientes int64 `parquet:"total_clientes"`
}

func (r *ExportRepositoryImpl) ExportMigrationToParquet(cells []entity.MigrationCell, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "parquet")
	if err != nil {
		return "", err
	}

	pqRows := make([]parquetMigrationRow, len(cells))
	for i, cell := range cells {
		pqRows[i] = parquetMigrationRow{
			InMonthStart:  int32(cell.InMonthStart),
			InMonthEnd:    int32(cell.InMonthEnd),
			IsTarget:      cell.IsTarget,
			TotalClientes: int64(cell.TotalClientes),
		}
	}

	if err := parquet.WriteFile(outputFilename, pqRows); err != nil {
		return "", fmt.Errorf("error writing Parquet file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// --- Resumo de coorte ---

// O CSV da coorte usa os rótulos de exibição como cabeçalho; o Parquet mantém
// os nomes estáveis do esquema interno.
func (r *ExportRepositoryImpl) ExportCohortToCSV(summary *entity.CohortSummary, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"is_target", summary.LabelEnd, summary.LabelStart, "Total_Clientes"}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range summary.Rows {
		record := []string{
			strconv.FormatBool(row.IsTarget),
			strconv.Itoa(row.PedidosMesFim),
			strconv.Itoa(row.PedidosMesInicio),
			strconv.Itoa(row.TotalClientes),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportCohortToJSON(summary *entity.CohortSummary, filename, outputDir string) (string, error) {
	return exportJSON(summary, filename, outputDir)
}

type parquetCohortRow struct {
	IsTarget         bool  `parquet:"is_target"`
	PedidosMesFim    int32 `parquet:"pedidos_mes_fim"`
	PedidosMesInicio int32 `parquet:"pedidos_mes_inicio"`
	TotalClientes    int64 `parquet:"total_clientes"`
}

func (r *ExportRepositoryImpl) ExportCohortToParquet(summary *entity.CohortSummary, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "parquet")
	if err != nil {
		return "", err
	}

	pqRows := make([]parquetCohortRow, len(summary.Rows))
	for i, row := range summary.Rows {
		pqRows[i] = parquetCohortRow{
			IsTarget:         row.IsTarget,
			PedidosMesFim:    int32(row.PedidosMesFim),
			PedidosMesInicio: int32(row.PedidosMesInicio),
			TotalClientes:    int64(row.TotalClientes),
		}
	}

	if err := parquet.WriteFile(outputFilename, pqRows); err != nil {
		return "", fmt.Errorf("error writing Parquet file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// --- Relatório combinado em PDF ---

func (r *ExportRepositoryImpl) ExportReportToPDF(report *entity.AnalyticsReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	pdf.AddPage()

	// Cabeçalho
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Order Cohort Analytics Report"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Run ID: %s", report.RunID)), "", 1, "L", true, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Source: %s  |  Ingestion: %s", report.SourceURL, report.IngestionDate)), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	// Resumo dos eventos
	customers := make(map[string]struct{})
	for _, ev := range report.Events {
		customers[ev.CustomerID] = struct{}{}
	}
	drawSection("Event Summary", fmt.Sprintf("Events: %d\nDistinct customers: %d", len(report.Events), len(customers)))

	// Distribuição mensal
	if len(report.Distribution) > 0 {
		var b strings.Builder
		for _, row := range report.Distribution {
			b.WriteString(fmt.Sprintf("Month %02d | target=%t active=%t: %d of %d (%.2f%%)\n",
				row.Month, row.IsTarget, row.Active, row.Count, row.TotalMonth, row.Percentual))
		}
		drawSection("Monthly Distribution", b.String())
	}

	// Matriz de migração
	if len(report.Migration) > 0 {
		var b strings.Builder
		for _, cell := range report.Migration {
			b.WriteString(fmt.Sprintf("start=%d end=%d target=%t: %d customers\n",
				cell.InMonthStart, cell.InMonthEnd, cell.IsTarget, cell.TotalClientes))
		}
		drawSection("Migration Matrix", b.String())
	}

	// Resumo da coorte
	if report.Cohort != nil && len(report.Cohort.Rows) > 0 {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("Cohort: month %d -> month %d\n\n", report.Cohort.StartMonth, report.Cohort.EndMonth))
		for _, row := range report.Cohort.Rows {
			b.WriteString(fmt.Sprintf("target=%t | %s=%d | %s=%d: %d customers\n",
				row.IsTarget, report.Cohort.LabelEnd, row.PedidosMesFim,
				report.Cohort.LabelStart, row.PedidosMesInicio, row.TotalClientes))
		}
		drawSection("Cohort Summary", b.String())
	}

	// Rodapé
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by Order Cohort Analytics | %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

func exportJSON(data interface{}, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("2006-01-02 15:04:05")
}

func formatOptionalTimestamp(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return formatTimestamp(*ts)
}

func formatOptionalInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
