package entity

// DistributionRow representa a participação de um segmento (is_target, active)
// dentro de um mês: contagem de eventos, total do mês e percentual.
type DistributionRow struct {
	Month      int     `json:"order_created_month"`
	IsTarget   bool    `json:"is_target"`
	Active     bool    `json:"active"`
	Count      int     `json:"count"`
	TotalMonth int     `json:"total_month"`
	Percentual float64 `json:"percentual"`
}
