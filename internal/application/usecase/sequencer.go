package usecase

import (
	"sort"
	"time"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
)

// hashSeparator junta customer_id e timestamp no unique_order_hash. O pipe
// não ocorre em identificadores de cliente nem em timestamps formatados.
const hashSeparator = "|"

// hashTimeLayout formata o timestamp do pedido com precisão de segundos.
const hashTimeLayout = "2006-01-02 15:04:05"

// SequenceEvents deriva as colunas sequenciais da tabela de pedidos:
// order_created_month, unique_order_hash, prev_order_time e diff_days.
//
// A entrada nunca é modificada. As linhas são ordenadas de forma estável por
// (customer_id asc, order_created_at asc); dentro de cada cliente a varredura
// carrega o timestamp da linha anterior (lag por partição, não shift global).
// A tabela final é reordenada por (customer_id desc, order_created_at asc);
// essa ordenação é parte do contrato de saída.
func SequenceEvents(events []entity.OrderEvent) []entity.OrderEvent {
	out := make([]entity.OrderEvent, len(events))
	copy(out, events)

	for i := range out {
		out[i].OrderCreatedMonth = 0
		out[i].UniqueOrderHash = ""
		out[i].PrevOrderTime = nil
		out[i].DiffDays = nil

		// Timestamps nulos propagam campos derivados nulos.
		if out[i].OrderCreatedAt.IsZero() {
			continue
		}
		out[i].OrderCreatedMonth = int(out[i].OrderCreatedAt.Month())
		out[i].UniqueOrderHash = out[i].CustomerID + hashSeparator +
			out[i].OrderCreatedAt.Format(hashTimeLayout)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CustomerID != out[j].CustomerID {
			return out[i].CustomerID < out[j].CustomerID
		}
		return out[i].OrderCreatedAt.Before(out[j].OrderCreatedAt)
	})

	// Varredura sequencial por partição de cliente. Após a ordenação cada
	// cliente ocupa um trecho contíguo, então basta comparar com a linha
	// anterior.
	for i := 1; i < len(out); i++ {
		if out[i].CustomerID != out[i-1].CustomerID {
			continue
		}
		if out[i-1].OrderCreatedAt.IsZero() || out[i].OrderCreatedAt.IsZero() {
			continue
		}
		prev := out[i-1].OrderCreatedAt
		out[i].PrevOrderTime = &prev
		diff := wholeDays(prev, out[i].OrderCreatedAt)
		out[i].DiffDays = &diff
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CustomerID != out[j].CustomerID {
			return out[i].CustomerID > out[j].CustomerID
		}
		return out[i].OrderCreatedAt.Before(out[j].OrderCreatedAt)
	})

	return out
}

// wholeDays retorna o número de dias inteiros decorridos entre from e to.
func wholeDays(from, to time.Time) int64 {
	return int64(to.Sub(from) / (24 * time.Hour))
}
