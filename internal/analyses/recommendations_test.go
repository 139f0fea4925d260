package analyses

import "testing"

func TestParseJobOptions(t *testing.T) {
	raw := "Here are some options:\n- Data Engineer\n• ML Engineer \n1. Analytics Lead\n\n* BI Developer"

	got := parseJobOptions(raw)
	want := []string{"Here are some options:", "Data Engineer", "ML Engineer", "Analytics Lead", "BI Developer"}

	if len(got) != len(want) {
		t.Fatalf("got %d options %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("option %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseJobOptionsEmpty(t *testing.T) {
	if got := parseJobOptions("  \n\n  "); len(got) != 0 {
		t.Errorf("expected no options, got %v", got)
	}
}
