package entity

import "time"

// OrderEvent representa uma linha da tabela de pedidos: um evento por pedido.
// Os campos derivados são preenchidos pelo sequenciador e pelo agregador;
// a tabela de entrada carrega apenas as cinco colunas obrigatórias.
type OrderEvent struct {
	CustomerID       string    `json:"customer_id"`
	OrderCreatedAt   time.Time `json:"order_created_at"`
	OrderTotalAmount float64   `json:"order_total_amount"`
	IsTarget         bool      `json:"is_target"`
	Active           bool      `json:"active"`

	// Derivados pelo sequenciador. PrevOrderTime e DiffDays são nil na
	// primeira linha de cada cliente e quando o timestamp de origem é nulo.
	OrderCreatedMonth int        `json:"order_created_month"`
	UniqueOrderHash   string     `json:"unique_order_hash"`
	PrevOrderTime     *time.Time `json:"prev_order_time,omitempty"`
	DiffDays          *int64     `json:"diff_days,omitempty"`

	// Agregados mensais, escopados a (customer_id, is_target, mês).
	NumPedidosMes  int     `json:"num_pedidos_mes"`
	TotalAmountMes float64 `json:"total_amount_mes"`
	TicketMedio    float64 `json:"ticket_medio"`

	// Contagem histórica, escopada a (customer_id, is_target) apenas.
	NumPedidosHist int `json:"num_pedidos_hist"`
}

// LoadOptions controla a carga de pedidos a partir da fonte remota.
type LoadOptions struct {
	// SourceURL aceita http(s)://, s3://bucket/key ou um caminho local.
	SourceURL string

	// CustomerIDs, quando não vazio, filtra os registros pelo allowlist.
	CustomerIDs map[string]struct{}

	// MaxSample interrompe a leitura após coletar N registros (0 = sem limite).
	MaxSample int

	// Timeout aplicado à requisição HTTP. Zero usa o padrão do repositório.
	Timeout time.Duration

	// OnOrder, quando não nil, é chamado uma vez por pedido coletado. O
	// chamador usa o callback para dirigir sua barra de progresso.
	OnOrder func()
}

// OrderLoadResult é o resultado da carga: eventos validados mais metadados
// de ingestão.
type OrderLoadResult struct {
	Events        []OrderEvent `json:"events"`
	IngestionDate string       `json:"ingestion_date"`
	LinesRead     int          `json:"lines_read"`
	LinesSkipped  int          `json:"lines_skipped"`
}
