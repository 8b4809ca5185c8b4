package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultAirports(t *testing.T) {
	a := DefaultAirports()

	tests := []struct {
		code     string
		domestic bool
		city     string
	}{
		{"SYD", true, "Sydney"},
		{"mel", true, "Melbourne"},
		{"LAX", false, "Los Angeles"},
		{"XXX", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := a.IsDomestic(tt.code); got != tt.domestic {
				t.Errorf("IsDomestic(%q) = %v, want %v", tt.code, got, tt.domestic)
			}
			if got := a.CityName(tt.code); got != tt.city {
				t.Errorf("CityName(%q) = %q, want %q", tt.code, got, tt.city)
			}
		})
	}

	if got := len(a.Codes()); got != 20 {
		t.Errorf("len(Codes()) = %d, want 20", got)
	}
	if got := a.DomesticCodes()[0]; got != "SYD" {
		t.Errorf("DomesticCodes()[0] = %q, want SYD", got)
	}
}

func TestAirports_Resolve(t *testing.T) {
	a := DefaultAirports()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Sydney", "SYD", true},
		{" gold coast ", "OOL", true},
		{"hnd", "HND", true},
		{"Atlantis", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := a.Resolve(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLoadAirports(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airports.yaml")
	content := `
domestic:
  - code: yyz
    city: Toronto
  - code: YVR
    city: Vancouver
international:
  - code: JFK
    city: New York
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	a, err := LoadAirports(path)
	if err != nil {
		t.Fatalf("LoadAirports() failed: %v", err)
	}
	if !a.IsDomestic("YYZ") {
		t.Error("YYZ should be domestic")
	}
	if a.IsDomestic("JFK") {
		t.Error("JFK should not be domestic")
	}
	if got := a.CityName("JFK"); got != "New York" {
		t.Errorf("CityName(JFK) = %q", got)
	}
}

func TestLoadAirports_MissingFileUsesDefaults(t *testing.T) {
	a, err := LoadAirports(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadAirports() failed: %v", err)
	}
	if !a.IsDomestic("SYD") {
		t.Error("expected built-in tables")
	}
}

func TestParseAirports_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Garbage", "domestic: [::"},
		{"NoDomestic", "international:\n  - code: LAX\n    city: Los Angeles\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAirports([]byte(tt.content)); err == nil {
				t.Error("ParseAirports() should fail")
			}
		})
	}
}
