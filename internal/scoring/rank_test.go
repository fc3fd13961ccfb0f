package scoring

import "testing"

func TestAccumulateAndRankBonusRequiresWeight(t *testing.T) {
	weights := map[string]map[string]float64{
		"a": {"rare": 1.0},
		"b": {"other": 1.0},
	}
	weight := func(name, tag string) float64 { return weights[name][tag] }
	bonus := map[string]float64{"rare": 0.5}

	ranked := AccumulateAndRank([]string{"a", "b"}, []string{"rare", "rare"}, weight, bonus, 0, nil)
	if ranked[0].Item != "a" || ranked[0].Score != 3.0 {
		t.Fatalf("expected a at 3.0, got %s at %v", ranked[0].Item, ranked[0].Score)
	}
	if ranked[1].Score != 0 {
		t.Fatalf("bonus must not apply without a positive weight, got %v", ranked[1].Score)
	}
}

func TestAccumulateAndRankFlatBonusOnce(t *testing.T) {
	weight := func(string, string) float64 { return 0 }
	ranked := AccumulateAndRank([]string{"match", "miss"}, []string{"t", "t"}, weight, nil, 1.5,
		func(name string) bool { return name == "match" })
	if ranked[0].Item != "match" || ranked[0].Score != 1.5 {
		t.Fatalf("expected match at 1.5, got %s at %v", ranked[0].Item, ranked[0].Score)
	}
}

func TestAccumulateAndRankStableTies(t *testing.T) {
	weight := func(string, string) float64 { return 1 }
	ranked := AccumulateAndRank([]string{"x", "y", "z"}, []string{"t"}, weight, nil, 0, nil)
	for i, want := range []string{"x", "y", "z"} {
		if ranked[i].Item != want {
			t.Fatalf("tie order broken at %d: got %s want %s", i, ranked[i].Item, want)
		}
	}
}

func TestMatchPercents(t *testing.T) {
	if got := MatchPercents(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
	if got := MatchPercents([]float64{7}); got[0] != 100 {
		t.Fatalf("single score must read 100, got %v", got)
	}
	if got := MatchPercents([]float64{2, 2, 2}); got[0] != 100 || got[1] != 100 || got[2] != 100 {
		t.Fatalf("zero spread must read all 100, got %v", got)
	}

	got := MatchPercents([]float64{4, 3, 2})
	if got[0] != 100 {
		t.Fatalf("max must map to 100, got %v", got)
	}
	if got[2] != 55 {
		t.Fatalf("min must map to 55, got %v", got)
	}
	if got[1] != 78 {
		t.Fatalf("midpoint must round to 78, got %v", got)
	}
}
