package entity

import "time"

// AnalyticsReport reúne todas as tabelas produzidas por uma execução, junto
// com os metadados da carga. É a unidade entregue ao sink de exportação.
type AnalyticsReport struct {
	RunID         string    `json:"run_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	SourceURL     string    `json:"source_url"`
	IngestionDate string    `json:"ingestion_date"`

	Events       []OrderEvent      `json:"events"`
	Distribution []DistributionRow `json:"distribution"`
	Migration    []MigrationCell   `json:"migration,omitempty"`
	Cohort       *CohortSummary    `json:"cohort,omitempty"`
}
