package config

import "testing"

func TestDefault_CoefficientRange(t *testing.T) {
	cfg := Default()
	if cfg.MinCoefficient != 0.5 || cfg.MaxCoefficient != 5.0 {
		t.Errorf("coefficient range = [%v, %v], want [0.5, 5.0]", cfg.MinCoefficient, cfg.MaxCoefficient)
	}
	if cfg.MinCoefficient >= cfg.MaxCoefficient {
		t.Error("min coefficient must be below max")
	}
}

func TestDefault_FetchSettings(t *testing.T) {
	cfg := Default()
	if cfg.ItemsPerChunk != 100 {
		t.Errorf("ItemsPerChunk = %d, want 100", cfg.ItemsPerChunk)
	}
	if cfg.RetryDelaySeconds != 60 {
		t.Errorf("RetryDelaySeconds = %d, want 60", cfg.RetryDelaySeconds)
	}
	if len(cfg.Locations) == 0 {
		t.Fatal("default Locations must not be empty")
	}
}

func TestDefault_ExcludedLocationNotFetched(t *testing.T) {
	cfg := Default()
	for _, loc := range cfg.Locations {
		if loc == cfg.ExcludedLocation {
			t.Errorf("excluded location %q must not appear in the fetch list", loc)
		}
	}
}

func TestDefault_ProfitTarget(t *testing.T) {
	cfg := Default()
	if cfg.ProfitTarget != 5_000_000 {
		t.Errorf("ProfitTarget = %v, want 5000000", cfg.ProfitTarget)
	}
}
