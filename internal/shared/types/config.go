package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	SourceURL   string   `json:"source_url" yaml:"source_url" toml:"source_url"`
	CustomerIDs []string `json:"customer_ids" yaml:"customer_ids" toml:"customer_ids"`
	MaxSample   int      `json:"max_sample" yaml:"max_sample" toml:"max_sample"`
	MonthStart  int      `json:"month_start" yaml:"month_start" toml:"month_start"`
	MonthEnd    int      `json:"month_end" yaml:"month_end" toml:"month_end"`
	CohortMonth int      `json:"cohort_month" yaml:"cohort_month" toml:"cohort_month"`
	ReportName  string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType  []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir         string   `json:"dir" yaml:"dir" toml:"dir"`
}
