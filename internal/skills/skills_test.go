package skills

import "testing"

func TestCompareSubstringMatch(t *testing.T) {
	resume := "Experienced developer with Python and Django. Built REST APIs."

	cov := Compare(resume, []string{"Python", "TensorFlow"})

	if len(cov.Present) != 2 {
		t.Fatalf("expected 2 results, got %d", len(cov.Present))
	}
	if !cov.Present[0] {
		t.Error("expected Python to be covered")
	}
	if cov.Present[1] {
		t.Error("expected TensorFlow to be missing")
	}
	if cov.Covered != 1 {
		t.Errorf("covered = %d, want 1", cov.Covered)
	}
	if cov.Fraction() != 0.5 {
		t.Errorf("fraction = %v, want 0.5", cov.Fraction())
	}
}

func TestCompareCaseInsensitive(t *testing.T) {
	cov := Compare("worked with KUBERNETES in production", []string{"kubernetes"})
	if cov.Covered != 1 {
		t.Errorf("covered = %d, want 1", cov.Covered)
	}
}

func TestCompareEmptyRequired(t *testing.T) {
	cov := Compare("anything", nil)
	if cov.Covered != 0 || cov.Fraction() != 0 {
		t.Errorf("expected zero coverage, got covered=%d fraction=%v", cov.Covered, cov.Fraction())
	}
}

func TestParseListStripsBullets(t *testing.T) {
	raw := "- Python\n• SQL\n1. Docker\n2) Kubernetes\n\n* Git"

	got := ParseList(raw)
	want := []string{"Python", "SQL", "Docker", "Kubernetes", "Git"}

	if len(got) != len(want) {
		t.Fatalf("got %d skills, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skill %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseListCapsAtTen(t *testing.T) {
	raw := ""
	for i := 0; i < 15; i++ {
		raw += "- skill\n"
	}
	if got := ParseList(raw); len(got) != MaxRequired {
		t.Errorf("got %d skills, want %d", len(got), MaxRequired)
	}
}
