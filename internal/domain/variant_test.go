package domain

import (
	"errors"
	"testing"
)

func TestNewVariant(t *testing.T) {
	tests := []struct {
		players int
		want    Variant
	}{
		{2, Variant{Players: 2, EntranceCapacity: 7, TowerCapacity: 8, CloudCount: 2, StudentsPerCloud: 3, ExodusSize: 3}},
		{3, Variant{Players: 3, EntranceCapacity: 9, TowerCapacity: 6, CloudCount: 3, StudentsPerCloud: 4, ExodusSize: 4}},
		{4, Variant{Players: 4, EntranceCapacity: 7, TowerCapacity: 8, CloudCount: 4, StudentsPerCloud: 3, ExodusSize: 3}},
	}
	for _, tt := range tests {
		got, err := NewVariant(tt.players)
		if err != nil {
			t.Fatalf("NewVariant(%d): %v", tt.players, err)
		}
		if got != tt.want {
			t.Fatalf("NewVariant(%d) = %+v, want %+v", tt.players, got, tt.want)
		}
	}

	for _, n := range []int{0, 1, 5} {
		if _, err := NewVariant(n); !errors.Is(err, ErrInvalidPlayerCount) {
			t.Fatalf("NewVariant(%d) error = %v, want %v", n, err, ErrInvalidPlayerCount)
		}
	}
}

func TestParseNames(t *testing.T) {
	if c, err := ParseColor("red"); err != nil || c != Red {
		t.Fatalf("ParseColor(red) = %v, %v", c, err)
	}
	if _, err := ParseColor("purple"); err == nil {
		t.Fatalf("ParseColor(purple) succeeded")
	}
	if w, err := ParseWizard("PIXIE"); err != nil || w != WizardPixie {
		t.Fatalf("ParseWizard(PIXIE) = %v, %v", w, err)
	}
	if tc, err := ParseTowerColor("grey"); err != nil || tc != TowerGrey {
		t.Fatalf("ParseTowerColor(grey) = %v, %v", tc, err)
	}
	if k, err := ParseCharacter("knight"); err != nil || k != Knight {
		t.Fatalf("ParseCharacter(knight) = %v, %v", k, err)
	}
}
