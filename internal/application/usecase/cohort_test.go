package usecase

import (
	"errors"
	"testing"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
	"github.com/diillson/order-cohort-analytics-go/internal/shared/types"
)

func TestBuildMigrationMatrix_Flags(t *testing.T) {
	events := []entity.OrderEvent{
		monthOrder("both", 1, 10, true, true),
		monthOrder("both", 2, 10, true, true),
		monthOrder("only_start", 1, 10, true, true),
		monthOrder("only_end", 2, 10, true, true),
		monthOrder("neither", 7, 10, true, true),
	}

	cells, err := BuildMigrationMatrix(events, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make(map[[2]int]int)
	for _, cell := range cells {
		got[[2]int{cell.InMonthStart, cell.InMonthEnd}] = cell.TotalClientes
	}

	want := map[[2]int]int{
		{0, 0}: 1,
		{0, 1}: 1,
		{1, 0}: 1,
		{1, 1}: 1,
	}
	for flags, count := range want {
		if got[flags] != count {
			t.Errorf("cell %v = %d customers, want %d", flags, got[flags], count)
		}
	}
}

func TestBuildMigrationMatrix_PartitionsAllCustomers(t *testing.T) {
	events := []entity.OrderEvent{
		monthOrder("A", 1, 10, true, true),
		monthOrder("A", 2, 10, true, true),
		monthOrder("B", 3, 10, false, true),
		monthOrder("C", 1, 10, false, true),
		monthOrder("D", 2, 10, true, true),
		monthOrder("E", 9, 10, false, false),
	}

	cells, err := BuildMigrationMatrix(events, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := 0
	for _, cell := range cells {
		total += cell.TotalClientes
	}
	if total != 5 {
		t.Errorf("sum of total_clientes = %d, want 5 (all distinct customers)", total)
	}
}

func TestBuildMigrationMatrix_Sorted(t *testing.T) {
	events := []entity.OrderEvent{
		monthOrder("A", 1, 10, true, true),
		monthOrder("B", 2, 10, true, true),
		monthOrder("C", 5, 10, true, true),
	}

	cells, err := BuildMigrationMatrix(events, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(cells); i++ {
		prev, cur := cells[i-1], cells[i]
		if prev.InMonthStart > cur.InMonthStart {
			t.Fatal("cells not sorted by start flag")
		}
		if prev.InMonthStart == cur.InMonthStart && prev.InMonthEnd > cur.InMonthEnd {
			t.Fatal("cells not sorted by end flag")
		}
	}
}

func TestBuildMigrationMatrix_InvalidMonth(t *testing.T) {
	if _, err := BuildMigrationMatrix(nil, 0, 2); !errors.Is(err, types.ErrInvalidMonth) {
		t.Errorf("month_start 0: got %v, want ErrInvalidMonth", err)
	}
	if _, err := BuildMigrationMatrix(nil, 1, 13); !errors.Is(err, types.ErrInvalidMonth) {
		t.Errorf("month_end 13: got %v, want ErrInvalidMonth", err)
	}
}

func TestNextCohortMonth(t *testing.T) {
	tests := []struct{ in, want int }{
		{1, 2},
		{6, 7},
		{11, 12},
		{12, 1},
	}
	for _, tt := range tests {
		if got := NextCohortMonth(tt.in); got != tt.want {
			t.Errorf("NextCohortMonth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBuildCohortSummary_DecemberWraparound(t *testing.T) {
	// Cliente presente apenas em dezembro: aparece no pivot com contagem 0
	// em janeiro, não é descartado.
	events := []entity.OrderEvent{
		monthOrder("dec_only", 12, 10, true, true),
		monthOrder("retained", 12, 10, true, true),
		monthOrder("retained", 1, 10, true, true),
	}

	summary, err := BuildCohortSummary(events, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.EndMonth != 1 {
		t.Errorf("end month = %d, want 1", summary.EndMonth)
	}
	if summary.LabelStart != "Total_Pedidos_Dezembro" || summary.LabelEnd != "Total_Pedidos_Janeiro" {
		t.Errorf("labels = (%q, %q), want December/January fixed labels", summary.LabelStart, summary.LabelEnd)
	}

	foundZeroEnd := false
	totalClientes := 0
	for _, row := range summary.Rows {
		totalClientes += row.TotalClientes
		if row.PedidosMesFim == 0 && row.PedidosMesInicio == 1 {
			foundZeroEnd = true
		}
	}
	if !foundZeroEnd {
		t.Error("customer with no January orders missing from the pivot")
	}
	if totalClientes != 2 {
		t.Errorf("sum of total_clientes = %d, want 2 (cohort size)", totalClientes)
	}
}

func TestBuildCohortSummary_TemplatedLabels(t *testing.T) {
	events := []entity.OrderEvent{
		monthOrder("C1", 3, 10, true, true),
	}

	summary, err := BuildCohortSummary(events, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.LabelStart != "Total_Pedidos_Mes_3" {
		t.Errorf("label start = %q, want Total_Pedidos_Mes_3", summary.LabelStart)
	}
	if summary.LabelEnd != "Total_Pedidos_Mes_4" {
		t.Errorf("label end = %q, want Total_Pedidos_Mes_4", summary.LabelEnd)
	}
}

func TestBuildCohortSummary_ExcludesNonCohortCustomers(t *testing.T) {
	events := []entity.OrderEvent{
		monthOrder("in_cohort", 5, 10, true, true),
		monthOrder("in_cohort", 6, 10, true, true),
		// Presente só no mês de fim: não faz parte da coorte.
		monthOrder("late_joiner", 6, 10, true, true),
		// Fora de ambos os meses.
		monthOrder("unrelated", 9, 10, true, true),
	}

	summary, err := BuildCohortSummary(events, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := 0
	for _, row := range summary.Rows {
		total += row.TotalClientes
	}
	if total != 1 {
		t.Errorf("sum of total_clientes = %d, want 1", total)
	}

	if len(summary.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(summary.Rows))
	}
	row := summary.Rows[0]
	if row.PedidosMesInicio != 1 || row.PedidosMesFim != 1 {
		t.Errorf("row counts = (start %d, end %d), want (1, 1)", row.PedidosMesInicio, row.PedidosMesFim)
	}
}

func TestBuildCohortSummary_GroupsByCountPattern(t *testing.T) {
	events := []entity.OrderEvent{
		// Dois clientes com o mesmo padrão 2 pedidos -> 1 pedido.
		monthOrder("A", 5, 10, true, true),
		monthOrder("A", 5, 10, true, true),
		monthOrder("A", 6, 10, true, true),
		monthOrder("B", 5, 10, true, true),
		monthOrder("B", 5, 10, true, true),
		monthOrder("B", 6, 10, true, true),
	}

	summary, err := BuildCohortSummary(events, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(summary.Rows))
	}
	row := summary.Rows[0]
	if row.PedidosMesInicio != 2 || row.PedidosMesFim != 1 || row.TotalClientes != 2 {
		t.Errorf("row = (start %d, end %d, customers %d), want (2, 1, 2)",
			row.PedidosMesInicio, row.PedidosMesFim, row.TotalClientes)
	}
}

func TestBuildCohortSummary_InvalidMonth(t *testing.T) {
	if _, err := BuildCohortSummary(nil, 0); !errors.Is(err, types.ErrInvalidMonth) {
		t.Errorf("got %v, want ErrInvalidMonth", err)
	}
}

func TestBuildCohortSummary_Empty(t *testing.T) {
	summary, err := BuildCohortSummary(nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(summary.Rows))
	}
}
