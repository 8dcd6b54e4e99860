package pipeline

import "testing"

func TestStages_Order(t *testing.T) {
	want := []Stage{StageMarketResearch, StageFeatureAnalysis, StageDifferentiation, StageGTM}

	got := Stages()
	if len(got) != len(want) {
		t.Fatalf("Stages() = %d descriptors, want %d", len(got), len(want))
	}
	for i, sd := range got {
		if sd.Stage != want[i] {
			t.Errorf("stage %d = %v, want %v", i, sd.Stage, want[i])
		}
	}
}

func TestStages_OnlyResearchUsesSearch(t *testing.T) {
	for _, sd := range Stages() {
		want := sd.Stage == StageMarketResearch
		if sd.UsesSearch != want {
			t.Errorf("%s UsesSearch = %v, want %v", sd.Stage, sd.UsesSearch, want)
		}
	}
}

func TestStages_DescriptorsFilledIn(t *testing.T) {
	for _, sd := range Stages() {
		t.Run(sd.Stage.String(), func(t *testing.T) {
			if sd.Title == "" || sd.Role == "" || sd.Goal == "" || sd.Backstory == "" {
				t.Error("persona fields must be set")
			}
			if sd.Task == "" || sd.Expected == "" {
				t.Error("task fields must be set")
			}
		})
	}
}

func TestStages_ReturnsCopy(t *testing.T) {
	got := Stages()
	got[0].Task = "mutated"

	if Stages()[0].Task == "mutated" {
		t.Error("mutating the returned slice must not change the pipeline")
	}
}

func TestStageNames(t *testing.T) {
	want := []string{"MarketResearch", "FeatureAnalysis", "Differentiation", "GTM"}

	got := StageNames()
	if len(got) != len(want) {
		t.Fatalf("StageNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StageNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDescriptorFor(t *testing.T) {
	t.Run("known stage", func(t *testing.T) {
		sd, ok := descriptorFor(StageGTM)
		if !ok {
			t.Fatal("expected descriptor for GTM")
		}
		if sd.Role != "Go-To-Market Coach" {
			t.Errorf("Role = %q, want %q", sd.Role, "Go-To-Market Coach")
		}
	})

	t.Run("unknown stage", func(t *testing.T) {
		if _, ok := descriptorFor(Stage("Nonsense")); ok {
			t.Error("expected no descriptor for unknown stage")
		}
	})
}
