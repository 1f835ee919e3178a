package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile  string
	SourceURL   string
	CustomerIDs []string
	MaxSample   int
	MonthStart  int
	MonthEnd    int
	CohortMonth int
	Migration   bool
	Cohort      bool
	ReportName  string
	ReportType  []string
	Dir         string
	NoProgress  bool
}
