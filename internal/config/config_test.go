package config

import "testing"

func TestClassFor(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		want  DeviceClass
	}{
		{"Phone", 390, Mobile},
		{"Just below breakpoint", 767.9, Mobile},
		{"At breakpoint", 768, Desktop},
		{"Laptop", 1440, Desktop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassFor(tt.width); got != tt.want {
				t.Errorf("Expected %v for width %v, got %v", tt.want, tt.width, got)
			}
		})
	}
}

func TestForDevice(t *testing.T) {
	cfg := Default()

	desk := cfg.ForDevice(Desktop)
	if desk.Count != 280 || desk.MouseRadius != 180 {
		t.Errorf("Unexpected desktop subset: %+v", desk)
	}
	mob := cfg.ForDevice(Mobile)
	if mob.Count != 120 {
		t.Errorf("Expected 120 mobile particles, got %d", mob.Count)
	}
	if mob.ConnectionDistance >= desk.ConnectionDistance {
		t.Errorf("Expected shorter mobile connections, got %v >= %v", mob.ConnectionDistance, desk.ConnectionDistance)
	}
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette([]string{"#ff0000", "#00ff00"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r, g, b := p[0].RGB255(); r != 255 || g != 0 || b != 0 {
		t.Errorf("Expected red, got %d,%d,%d", r, g, b)
	}
	if _, err := ParsePalette([]string{"teal"}); err == nil {
		t.Errorf("Expected error for non-hex entry")
	}
	if len(Default().Colors) != len(DefaultPalette) {
		t.Errorf("Default palette not fully parsed")
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := Default()
	cfg.FPS = 50
	if got := cfg.FrameInterval(); got != 20 {
		t.Errorf("Expected 20ms, got %v", got)
	}
	cfg.FPS = 0
	if got := cfg.FrameInterval(); got != 0 {
		t.Errorf("Expected unthrottled interval, got %v", got)
	}
}
