package usecase

import (
	"fmt"
	"sort"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
	"github.com/diillson/order-cohort-analytics-go/internal/shared/types"
)

// presenceKey identifica um par (cliente, segmento) na matriz de migração.
type presenceKey struct {
	CustomerID string
	IsTarget   bool
}

// presenceFlags marca com 0/1 a presença do par em cada um dos dois meses.
type presenceFlags struct {
	InStart int
	InEnd   int
}

// BuildMigrationMatrix cruza a presença de cada cliente entre dois meses
// fornecidos pelo chamador (sem wraparound aqui) e conta clientes distintos
// por combinação de presença e segmento. Todos os clientes do dataset entram
// na matriz, inclusive os ausentes em ambos os meses (flags 0/0).
func BuildMigrationMatrix(events []entity.OrderEvent, monthStart, monthEnd int) ([]entity.MigrationCell, error) {
	if monthStart < 1 || monthStart > 12 {
		return nil, fmt.Errorf("month_start %d: %w", monthStart, types.ErrInvalidMonth)
	}
	if monthEnd < 1 || monthEnd > 12 {
		return nil, fmt.Errorf("month_end %d: %w", monthEnd, types.ErrInvalidMonth)
	}

	flags := make(map[presenceKey]*presenceFlags)
	for _, ev := range events {
		key := presenceKey{ev.CustomerID, ev.IsTarget}
		f := flags[key]
		if f == nil {
			f = &presenceFlags{}
			flags[key] = f
		}
		if ev.OrderCreatedMonth == monthStart {
			f.InStart = 1
		}
		if ev.OrderCreatedMonth == monthEnd {
			f.InEnd = 1
		}
	}

	type cellKey struct {
		InStart  int
		InEnd    int
		IsTarget bool
	}
	counts := make(map[cellKey]int)
	for key, f := range flags {
		counts[cellKey{f.InStart, f.InEnd, key.IsTarget}]++
	}

	cells := make([]entity.MigrationCell, 0, len(counts))
	for key, total := range counts {
		cells = append(cells, entity.MigrationCell{
			InMonthStart:  key.InStart,
			InMonthEnd:    key.InEnd,
			IsTarget:      key.IsTarget,
			TotalClientes: total,
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].InMonthStart != cells[j].InMonthStart {
			return cells[i].InMonthStart < cells[j].InMonthStart
		}
		if cells[i].InMonthEnd != cells[j].InMonthEnd {
			return cells[i].InMonthEnd < cells[j].InMonthEnd
		}
		return !cells[i].IsTarget && cells[j].IsTarget
	})

	return cells, nil
}

// NextCohortMonth devolve o mês seguinte ao mês de início da coorte, com
// wraparound de dezembro para janeiro.
func NextCohortMonth(startMonth int) int {
	return startMonth%12 + 1
}

// BuildCohortSummary acompanha a coorte dos clientes presentes no mês de
// início ao longo do mês seguinte. A tabela é restrita aos clientes da
// coorte e aos dois meses acompanhados, pivotada para uma linha por
// (cliente, segmento) com as contagens de pedidos de cada mês e então
// agrupada pelo padrão de contagens. Ausência no mês de fim vira contagem 0,
// não nulo.
func BuildCohortSummary(events []entity.OrderEvent, startMonth int) (*entity.CohortSummary, error) {
	if startMonth < 1 || startMonth > 12 {
		return nil, fmt.Errorf("cohort_month %d: %w", startMonth, types.ErrInvalidMonth)
	}
	endMonth := NextCohortMonth(startMonth)

	// A coorte é definida por customer_id puro: qualquer evento do cliente
	// no mês de início o inclui, independente do segmento.
	cohort := make(map[string]struct{})
	for _, ev := range events {
		if ev.OrderCreatedMonth == startMonth {
			cohort[ev.CustomerID] = struct{}{}
		}
	}

	type pivotCounts struct {
		InStart int
		InEnd   int
	}
	pivot := make(map[presenceKey]*pivotCounts)
	for _, ev := range events {
		if _, ok := cohort[ev.CustomerID]; !ok {
			continue
		}
		if ev.OrderCreatedMonth != startMonth && ev.OrderCreatedMonth != endMonth {
			continue
		}
		key := presenceKey{ev.CustomerID, ev.IsTarget}
		p := pivot[key]
		if p == nil {
			p = &pivotCounts{}
			pivot[key] = p
		}
		if ev.OrderCreatedMonth == startMonth {
			p.InStart++
		} else {
			p.InEnd++
		}
	}

	type rowKey struct {
		IsTarget bool
		InEnd    int
		InStart  int
	}
	counts := make(map[rowKey]int)
	for key, p := range pivot {
		counts[rowKey{key.IsTarget, p.InEnd, p.InStart}]++
	}

	rows := make([]entity.CohortSummaryRow, 0, len(counts))
	for key, total := range counts {
		rows = append(rows, entity.CohortSummaryRow{
			IsTarget:         key.IsTarget,
			PedidosMesFim:    key.InEnd,
			PedidosMesInicio: key.InStart,
			TotalClientes:    total,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].IsTarget != rows[j].IsTarget {
			return !rows[i].IsTarget
		}
		if rows[i].PedidosMesFim != rows[j].PedidosMesFim {
			return rows[i].PedidosMesFim < rows[j].PedidosMesFim
		}
		return rows[i].PedidosMesInicio < rows[j].PedidosMesInicio
	})

	return &entity.CohortSummary{
		StartMonth: startMonth,
		EndMonth:   endMonth,
		LabelStart: cohortMonthLabel(startMonth, endMonth, startMonth),
		LabelEnd:   cohortMonthLabel(startMonth, endMonth, endMonth),
		Rows:       rows,
	}, nil
}

// cohortMonthLabel devolve o rótulo de exibição da coluna de contagem de um
// mês. A virada de ano dezembro→janeiro usa os nomes fixos dos meses; os
// demais pares usam o rótulo numerado.
func cohortMonthLabel(startMonth, endMonth, month int) string {
	if startMonth == 12 && endMonth == 1 {
		if month == 12 {
			return "Total_Pedidos_Dezembro"
		}
		return "Total_Pedidos_Janeiro"
	}
	return fmt.Sprintf("Total_Pedidos_Mes_%d", month)
}
