package entity

// MigrationCell é uma célula da matriz de migração entre dois meses:
// clientes distintos por combinação de presença (0/1) em cada mês e segmento.
type MigrationCell struct {
	InMonthStart  int  `json:"in_month_start"`
	InMonthEnd    int  `json:"in_month_end"`
	IsTarget      bool `json:"is_target"`
	TotalClientes int  `json:"total_clientes"`
}

// CohortSummaryRow agrupa os clientes da coorte pelo padrão de contagem de
// pedidos nos dois meses acompanhados.
type CohortSummaryRow struct {
	IsTarget         bool `json:"is_target"`
	PedidosMesFim    int  `json:"pedidos_mes_fim"`
	PedidosMesInicio int  `json:"pedidos_mes_inicio"`
	TotalClientes    int  `json:"total_clientes"`
}

// CohortSummary é o resumo completo de uma coorte: mês de início, mês de fim
// (com wraparound dezembro→janeiro) e os rótulos de exibição das colunas de
// contagem. Os rótulos são uma preocupação de borda; os campos internos das
// linhas são estáveis.
type CohortSummary struct {
	StartMonth int                `json:"start_month"`
	EndMonth   int                `json:"end_month"`
	LabelStart string             `json:"label_start"`
	LabelEnd   string             `json:"label_end"`
	Rows       []CohortSummaryRow `json:"rows"`
}
