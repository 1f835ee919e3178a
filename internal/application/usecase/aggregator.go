package usecase

import (
	"math"
	"sort"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
)

// monthGroupKey escopa os agregados mensais.
type monthGroupKey struct {
	CustomerID string
	IsTarget   bool
	Month      int
}

// histGroupKey escopa a contagem histórica de pedidos.
type histGroupKey struct {
	CustomerID string
	IsTarget   bool
}

type monthAggregate struct {
	Count int
	Total float64
}

// AggregateMonthly anexa a cada linha os agregados do seu grupo mensal
// (num_pedidos_mes, total_amount_mes, ticket_medio) e a contagem histórica
// (num_pedidos_hist). O cálculo é feito em duas passadas: primeiro os mapas
// chave→agregado, depois a difusão de volta para cada linha pela chave,
// nunca por alinhamento implícito de índice.
func AggregateMonthly(events []entity.OrderEvent) []entity.OrderEvent {
	monthAggs := make(map[monthGroupKey]*monthAggregate)
	histCounts := make(map[histGroupKey]int)

	for _, ev := range events {
		mk := monthGroupKey{ev.CustomerID, ev.IsTarget, ev.OrderCreatedMonth}
		agg := monthAggs[mk]
		if agg == nil {
			agg = &monthAggregate{}
			monthAggs[mk] = agg
		}
		agg.Count++
		agg.Total += ev.OrderTotalAmount

		histCounts[histGroupKey{ev.CustomerID, ev.IsTarget}]++
	}

	out := make([]entity.OrderEvent, len(events))
	copy(out, events)

	for i := range out {
		mk := monthGroupKey{out[i].CustomerID, out[i].IsTarget, out[i].OrderCreatedMonth}
		agg := monthAggs[mk]
		out[i].NumPedidosMes = agg.Count
		out[i].TotalAmountMes = agg.Total
		out[i].TicketMedio = agg.Total / float64(agg.Count)
		out[i].NumPedidosHist = histCounts[histGroupKey{out[i].CustomerID, out[i].IsTarget}]
	}

	return out
}

// distGroupKey identifica um grupo da tabela de distribuição.
type distGroupKey struct {
	Month    int
	IsTarget bool
	Active   bool
}

// BuildDistribution agrupa os eventos por (mês, is_target, active) e calcula
// a participação percentual de cada grupo dentro do seu mês. total_month é a
// soma das contagens do mês, então a divisão nunca ocorre por zero. Eventos
// com timestamp nulo não pertencem a nenhum mês e ficam fora da tabela.
func BuildDistribution(events []entity.OrderEvent) []entity.DistributionRow {
	counts := make(map[distGroupKey]int)
	monthTotals := make(map[int]int)

	for _, ev := range events {
		if ev.OrderCreatedMonth == 0 {
			continue
		}
		counts[distGroupKey{ev.OrderCreatedMonth, ev.IsTarget, ev.Active}]++
		monthTotals[ev.OrderCreatedMonth]++
	}

	rows := make([]entity.DistributionRow, 0, len(counts))
	for key, count := range counts {
		total := monthTotals[key.Month]
		pct := float64(count) / float64(total) * 100.0
		rows = append(rows, entity.DistributionRow{
			Month:      key.Month,
			IsTarget:   key.IsTarget,
			Active:     key.Active,
			Count:      count,
			TotalMonth: total,
			Percentual: roundTo2(pct),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		if rows[i].IsTarget != rows[j].IsTarget {
			return !rows[i].IsTarget
		}
		return !rows[i].Active && rows[j].Active
	})

	return rows
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
