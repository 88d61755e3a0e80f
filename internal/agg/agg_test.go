package agg

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/luarss/cea-live/internal/filter"
	"github.com/luarss/cea-live/internal/period"
	"github.com/luarss/cea-live/internal/store"
)

func newTestKernels(t *testing.T) *Kernels {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(context.Background(), filepath.Join(dir, "test.db"), store.ReadWrite)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	seed := []struct {
		reg, name, date, ptype, ttype, rep, town string
	}{
		{"R001", "Alice", "JAN-2023", "HDB", "RESALE", "BUYER", "BEDOK"},
		{"R001", "Alice", "FEB-2023", "HDB", "RESALE", "SELLER", "BEDOK"},
		{"R001", "Alice", "JAN-2024", "CONDOMINIUM_APARTMENTS", "NEW SALE", "BUYER", "ANG MO KIO"},
		{"R002", "Bob", "JAN-2023", "HDB", "RESALE", "BUYER", "BEDOK"},
		{"R002", "Bob", "MAR-2023", "LANDED", "RESALE", "TENANT", "-"},
	}
	for _, r := range seed {
		_, err := s.Exec(ctx,
			`INSERT INTO transactions (salesperson_reg_num, salesperson_name, transaction_date, property_type, transaction_type, represented, town) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.reg, r.name, r.date, r.ptype, r.ttype, r.rep, r.town,
		)
		if err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}
	return New(s)
}

func TestCrossTab_UnknownProjectionAndOrdering(t *testing.T) {
	k := newTestKernels(t)
	result, err := k.CrossTab(context.Background(), "property_type", filter.Filter{})
	if err != nil {
		t.Fatalf("crosstab: %v", err)
	}
	if result.Total != 5 {
		t.Fatalf("expected total 5, got %d", result.Total)
	}
	if result.Buckets[0].Value != "HDB" || result.Buckets[0].Count != 3 {
		t.Fatalf("expected HDB leading with 3, got %+v", result.Buckets[0])
	}
}

func TestCrossTab_RejectsUnknownDim(t *testing.T) {
	k := newTestKernels(t)
	if _, err := k.CrossTab(context.Background(), "price", filter.Filter{}); err == nil {
		t.Fatal("expected error for disallowed dimension")
	}
}

func TestTimeSeries_ExcludesSentinelAndNormalizes(t *testing.T) {
	k := newTestKernels(t)
	ctx := context.Background()
	// A row with the sentinel date must not produce a bucket.
	_, err := k.Store.Exec(ctx,
		`INSERT INTO transactions (salesperson_reg_num, salesperson_name, transaction_date, property_type, transaction_type, represented, town) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"R002", "Bob", "-", "HDB", "RESALE", "BUYER", "BEDOK",
	)
	if err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	// An unfiltered TimeSeries takes the fast path over monthly_stats,
	// which this store never precomputed, so the slow kernel that
	// buckets raw transaction_date values is called directly.
	result, err := k.timeSeriesSlow(ctx, period.Month, "", filter.Filter{})
	if err != nil {
		t.Fatalf("timeseries: %v", err)
	}
	if len(result.Full) != 4 {
		t.Fatalf("expected 4 distinct months, got %d: %+v", len(result.Full), result.Full)
	}
	if result.Full[0].Period != "2023-01" {
		t.Fatalf("expected ascending order starting 2023-01, got %+v", result.Full[0])
	}
}

func TestTopAgents_NoFilterUsesFastPathWithNoResults(t *testing.T) {
	k := newTestKernels(t)
	// top_agents table isn't populated by this test (PRECOMP's job), so
	// the fast path legitimately returns zero rows here.
	result, err := k.TopAgents(context.Background(), 10, "", filter.Filter{})
	if err != nil {
		t.Fatalf("top agents: %v", err)
	}
	if len(result.Agents) != 0 {
		t.Fatalf("expected empty fast-path result, got %+v", result.Agents)
	}
}

func TestTopAgents_SlowPathWithSearch(t *testing.T) {
	k := newTestKernels(t)
	result, err := k.TopAgents(context.Background(), 10, "Alice", filter.Filter{})
	if err != nil {
		t.Fatalf("top agents: %v", err)
	}
	if len(result.Agents) != 1 || result.Agents[0].RegNum != "R001" {
		t.Fatalf("expected single agent R001, got %+v", result.Agents)
	}
	if result.Agents[0].Count != 3 {
		t.Fatalf("expected count 3, got %d", result.Agents[0].Count)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
}

func TestTopAgents_TiesBreakByRegNumAscending(t *testing.T) {
	k := newTestKernels(t)
	ctx := context.Background()
	// R001 already has 2 HDB/RESALE transactions; give R003 exactly 2
	// as well, so both are tied on count and must order by reg_num
	// ascending, consistently across repeated requests.
	for _, date := range []string{"JAN-2023", "FEB-2023"} {
		_, err := k.Store.Exec(ctx,
			`INSERT INTO transactions (salesperson_reg_num, salesperson_name, transaction_date, property_type, transaction_type, represented, town) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			"R003", "Carol", date, "HDB", "RESALE", "BUYER", "BEDOK",
		)
		if err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}

	f, err := filter.Parse(`{"property_type":"HDB"}`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}

	for i := 0; i < 3; i++ {
		result, err := k.TopAgents(ctx, 10, "", f)
		if err != nil {
			t.Fatalf("top agents: %v", err)
		}
		var tied []string
		for _, a := range result.Agents {
			if a.Count == 2 {
				tied = append(tied, a.RegNum)
			}
		}
		if len(tied) != 2 || tied[0] != "R001" || tied[1] != "R003" {
			t.Fatalf("run %d: expected tied agents [R001 R003] in that order, got %v", i, tied)
		}
	}
}

func TestTopAgents_FastPathTiesBreakByRegNumAscending(t *testing.T) {
	k := newTestKernels(t)
	ctx := context.Background()
	rows := []struct{ reg, name string }{
		{"R003", "Carol"},
		{"R001", "Alice"},
		{"R002", "Bob"},
	}
	for _, r := range rows {
		_, err := k.Store.Exec(ctx,
			`INSERT INTO top_agents (reg_num, name, total_transactions, last_transaction) VALUES (?, ?, 5, 'JAN-2024')`,
			r.reg, r.name,
		)
		if err != nil {
			t.Fatalf("seed top_agents: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		result, err := k.TopAgents(ctx, 10, "", filter.Filter{})
		if err != nil {
			t.Fatalf("top agents: %v", err)
		}
		if len(result.Agents) != 3 {
			t.Fatalf("run %d: expected 3 agents, got %d", i, len(result.Agents))
		}
		got := []string{result.Agents[0].RegNum, result.Agents[1].RegNum, result.Agents[2].RegNum}
		if got[0] != "R001" || got[1] != "R002" || got[2] != "R003" {
			t.Fatalf("run %d: expected fast-path ties ordered [R001 R002 R003], got %v", i, got)
		}
	}
}

func TestTopAgents_TotalIsUncappedByLimit(t *testing.T) {
	k := newTestKernels(t)
	f, err := filter.Parse(`{"property_type":"HDB"}`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}

	result, err := k.TopAgents(context.Background(), 1, "", f)
	if err != nil {
		t.Fatalf("top agents: %v", err)
	}
	if len(result.Agents) != 1 {
		t.Fatalf("expected limit to cap Agents at 1, got %d", len(result.Agents))
	}
	if result.Total != 2 {
		t.Fatalf("expected uncapped total 2 (R001, R002 both have HDB), got %d", result.Total)
	}
}

func TestAgentProfile_NotFound(t *testing.T) {
	k := newTestKernels(t)
	if _, err := k.AgentProfile(context.Background(), "R999"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestAgentProfile_Basic(t *testing.T) {
	k := newTestKernels(t)
	profile, err := k.AgentProfile(context.Background(), "R001")
	if err != nil {
		t.Fatalf("agent profile: %v", err)
	}
	if profile.Total != 3 {
		t.Fatalf("expected total 3, got %d", profile.Total)
	}
	if profile.Name != "Alice" {
		t.Fatalf("expected name Alice, got %q", profile.Name)
	}
}

func TestRows_Pagination(t *testing.T) {
	k := newTestKernels(t)
	page, err := k.Rows(context.Background(), 1, 2, filter.Filter{})
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 {
		t.Fatalf("expected total=5 totalPages=3, got total=%d totalPages=%d", page.Total, page.TotalPages)
	}
	if len(page.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page.Rows))
	}
}

func TestRows_RejectsOutOfRangePage(t *testing.T) {
	k := newTestKernels(t)
	if _, err := k.Rows(context.Background(), 0, 50, filter.Filter{}); err == nil {
		t.Fatal("expected error for page < 1")
	}
	if _, err := k.Rows(context.Background(), 1, MaxPageLimit+1, filter.Filter{}); err == nil {
		t.Fatal("expected error for limit over max")
	}
}

func TestMarketInsights_Composite(t *testing.T) {
	k := newTestKernels(t)
	insights, err := k.MarketInsights(context.Background(), filter.Filter{})
	if err != nil {
		t.Fatalf("market insights: %v", err)
	}
	if insights.Total != 5 {
		t.Fatalf("expected total 5, got %d", insights.Total)
	}
	if insights.DateRange.First == "" || insights.DateRange.Last == "" {
		t.Fatal("expected non-empty date range")
	}
}
