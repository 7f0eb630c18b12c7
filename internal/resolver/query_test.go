package resolver

import (
	"testing"

	"github.com/tomasvidal/trackseek/internal/models"
)

func TestQuery(t *testing.T) {
	descriptor := models.TrackDescriptor{
		Name:     "Yellow",
		Artists:  []string{"Coldplay", "Some Guest"},
		Album:    "Parachutes",
		Duration: 266,
	}

	tests := []struct {
		name     string
		strategy Strategy
		want     string
	}{
		{name: "exact joins artist name album", strategy: StrategyExact, want: "Coldplay Yellow Parachutes"},
		{name: "album joins album artist", strategy: StrategyAlbum, want: "Parachutes Coldplay"},
		{name: "fuzzy joins artist name", strategy: StrategyFuzzy, want: "Coldplay Yellow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Query(descriptor, tt.strategy); got != tt.want {
				t.Errorf("Query(%s) = %q, want %q", tt.strategy, got, tt.want)
			}
		})
	}

	t.Run("empty fields are omitted", func(t *testing.T) {
		single := models.TrackDescriptor{Name: "Yellow", Artists: []string{"Coldplay"}}
		if got := Query(single, StrategyExact); got != "Coldplay Yellow" {
			t.Errorf("Query without album = %q", got)
		}
		if got := Query(single, StrategyAlbum); got != "Coldplay" {
			t.Errorf("Query album strategy without album = %q", got)
		}
	})
}
