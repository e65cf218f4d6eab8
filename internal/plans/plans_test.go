package plans

import "testing"

func TestPlanForQuotas(t *testing.T) {
	if got := PlanFor(TierFree).MaxResumes; got != 1 {
		t.Fatalf("free maxResumes = %d, want 1", got)
	}
	if got := PlanFor(TierPro).MaxResumes; got != 5 {
		t.Fatalf("pro maxResumes = %d, want 5", got)
	}
	if got := PlanFor(TierPremium).MaxResumes; 5000 >= got {
		t.Fatalf("premium maxResumes = %d, want unbounded (> 5000)", got)
	}
}

func TestPlanForUnknownTierFallsBackToFree(t *testing.T) {
	d := PlanFor(Tier("enterprise"))
	if d.Tier != TierFree {
		t.Fatalf("unknown tier resolved to %q, want free", d.Tier)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want Tier
	}{
		{"pro", TierPro},
		{" Premium ", TierPremium},
		{"free", TierFree},
		{"", TierFree},
		{"gold", TierFree},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAllows(t *testing.T) {
	if !Allows(TierPremium, TierPro) {
		t.Fatal("premium should satisfy pro requirement")
	}
	if Allows(TierFree, TierPremium) {
		t.Fatal("free should not satisfy premium requirement")
	}
	if !Allows(TierPro, TierPro) {
		t.Fatal("pro should satisfy pro requirement")
	}
}

func TestWatermarkOnlyOnFree(t *testing.T) {
	for _, d := range All() {
		want := d.Tier == TierFree
		if d.HasWatermark != want {
			t.Errorf("tier %s hasWatermark = %v, want %v", d.Tier, d.HasWatermark, want)
		}
	}
}
