package genomes

import (
	"sort"
	"testing"
)

func TestRegistryContainsNineBuilds(t *testing.T) {
	all := All()
	if len(all) != 9 {
		t.Fatalf("expected 9 builds, got %d", len(all))
	}
	want := []string{"dm3", "dm6", "hg19", "hg38", "mm10", "mm9", "rn4", "rn5", "rn6"}
	got := Names()
	if !sort.StringsAreSorted(got) {
		t.Fatalf("Names not sorted: %v", got)
	}
	if len(got) != len(want) {
		t.Fatalf("Names length: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names[%d]: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestGetKnownBuild(t *testing.T) {
	b, ok := Get("mm10")
	if !ok {
		t.Fatal("mm10 should be supported")
	}
	if b.Species != "Mus musculus" {
		t.Fatalf("mm10 species: got %q", b.Species)
	}
	if b.Assembly != "GRCm38" {
		t.Fatalf("mm10 assembly: got %q", b.Assembly)
	}
	if len(b.Annotations) == 0 {
		t.Fatal("mm10 should declare annotation kinds")
	}
}

func TestUnknownBuildRejected(t *testing.T) {
	for _, name := range []string{"hg37", "", "HG38", "mm11", "grch38"} {
		if IsSupported(name) {
			t.Errorf("%q should not be supported", name)
		}
		if _, ok := Get(name); ok {
			t.Errorf("Get(%q) should report not found", name)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "mutated"
	again := All()
	if again[0].Name == "mutated" {
		t.Fatal("All must not expose internal registry state")
	}
}
