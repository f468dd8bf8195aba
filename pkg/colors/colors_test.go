package colors

import (
	"image/color"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestPositiveNegative(t *testing.T) {
	values := []*float64{ptr(-4), ptr(4), nil, ptr(-1), ptr(0)}
	want := []string{RoleNegative, RolePositive, RoleNeutral, RoleNegative, RoleNeutral}

	for i, v := range values {
		if got := PositiveNegative(v); got != want[i] {
			t.Errorf("PositiveNegative(#%d) = %q, want %q", i, got, want[i])
		}
	}
}

func TestWarmCold(t *testing.T) {
	tests := []struct {
		name     string
		baseline float64
		value    *float64
		want     string
	}{
		{"below zero", 0, ptr(-4), RoleCold},
		{"above zero", 0, ptr(4), RoleWarm},
		{"missing", 0, nil, RoleNeutral},
		{"at baseline", 2, ptr(2), RoleNeutral},
		{"below baseline", 10, ptr(4), RoleCold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WarmCold(tt.baseline)(tt.value); got != tt.want {
				t.Errorf("WarmCold(%v) = %q, want %q", tt.baseline, got, tt.want)
			}
		})
	}
}

func TestLookupRule(t *testing.T) {
	if _, err := LookupRule("positive_negative", 0); err != nil {
		t.Errorf("positive_negative: %v", err)
	}
	if _, err := LookupRule("warm_cold", 0); err != nil {
		t.Errorf("warm_cold: %v", err)
	}
	if _, err := LookupRule("rainbow", 0); err == nil {
		t.Error("expected error for unknown rule")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#5aa69d", color.NRGBA{0x5a, 0xa6, 0x9d, 0xff}, false},
		{"5aa69d", color.NRGBA{0x5a, 0xa6, 0x9d, 0xff}, false},
		{"#FFF", color.NRGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}, false},
		{"white", color.NRGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"none", color.NRGBA{}, false},
		{"", color.NRGBA{}, true},
		{"#12345", color.NRGBA{}, true},
		{"not-a-color", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("5AA69D")
	if err != nil {
		t.Fatal(err)
	}
	if got != "#5aa69d" {
		t.Errorf("Normalize = %q, want #5aa69d", got)
	}
}

func TestPaletteAt(t *testing.T) {
	if len(Qualitative) != 8 {
		t.Fatalf("len(Qualitative) = %d, want 8", len(Qualitative))
	}
	if Qualitative.At(0) != "#66c2a5" {
		t.Errorf("At(0) = %q", Qualitative.At(0))
	}
	if Qualitative.At(8) != Qualitative.At(0) {
		t.Error("palette should wrap around")
	}
	if (Palette{}).At(3) != Neutral {
		t.Error("empty palette should fall back to neutral")
	}
}

func TestScale(t *testing.T) {
	s := NewScale("#000000", "#ffffff")

	if got := Hex(s.At(0)); got != "#000000" {
		t.Errorf("At(0) = %s", got)
	}
	if got := Hex(s.At(1)); got != "#ffffff" {
		t.Errorf("At(1) = %s", got)
	}
	if got := Hex(s.At(5)); got != "#ffffff" {
		t.Errorf("At(5) should clamp, got %s", got)
	}

	steps := Sequential(Strong).Steps(5)
	if len(steps) != 5 {
		t.Fatalf("Steps(5) returned %d colors", len(steps))
	}
	if steps[4] != Strong {
		t.Errorf("last step = %s, want %s", steps[4], Strong)
	}
}
