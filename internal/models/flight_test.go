package models

import (
	"testing"
	"time"
)

func TestParseColumn(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Column
		wantOK bool
	}{
		{"Exact", "price", ColPrice, true},
		{"Case", "Flight_Date", ColFlightDate, true},
		{"Spaces", "  origin ", ColOrigin, true},
		{"Unknown", "fare_class", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseColumn(tt.header)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseColumn(%q) = %v, %v, want %v, %v", tt.header, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestColumnSet(t *testing.T) {
	s := NewColumnSet(ColOrigin, ColDestination, ColPrice)
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if !s.Has(ColPrice) {
		t.Error("set should contain price")
	}
	s = s.Without(ColPrice)
	if s.Has(ColPrice) {
		t.Error("price should be removed")
	}
	names := s.With(ColFlightDate).Names()
	want := []string{"flight_date", "origin", "destination"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestFlightTable_Clone(t *testing.T) {
	d := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	orig := NewFlightTable(NewColumnSet(ColOrigin, ColDestination, ColPrice), []FlightRecord{
		{Origin: "SYD", Destination: "MEL", Price: Ptr(150.0), FlightDate: &d},
	})

	clone := orig.Clone()
	*clone.Records[0].Price = 999
	clone.Records[0].Origin = "BNE"

	if *orig.Records[0].Price != 150 {
		t.Errorf("original price mutated: %v", *orig.Records[0].Price)
	}
	if orig.Records[0].Origin != "SYD" {
		t.Errorf("original origin mutated: %v", orig.Records[0].Origin)
	}
	if clone.Records[0].FlightDate == orig.Records[0].FlightDate {
		t.Error("clone shares the flight date pointer")
	}
}

func TestFlightRecord_DateKey(t *testing.T) {
	d := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	parsed := FlightRecord{FlightDate: &d, RawDate: "9 March 2024"}
	if got := parsed.DateKey(); got != "2024-03-09" {
		t.Errorf("DateKey() = %q, want 2024-03-09", got)
	}
	raw := FlightRecord{RawDate: "someday"}
	if got := raw.DateKey(); got != "someday" {
		t.Errorf("DateKey() = %q, want someday", got)
	}
}

func TestInsightsDocument_Keys(t *testing.T) {
	doc := NewInsightsDocument()
	if !doc.IsEmpty() {
		t.Error("new document should be empty")
	}

	doc.Summary = &Summary{TotalFlights: 4}
	doc.MarketOpportunities = []Opportunity{}
	doc.PopularRoutes = []RouteFrequency{{Origin: "SYD", Destination: "MEL", Frequency: 2}}

	keys := doc.Keys()
	want := []string{KeyPopularRoutes, KeyMarketOpportunities, KeySummary}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if doc.Has(KeyPriceStats) {
		t.Error("price_stats should be absent")
	}
}

func TestOpportunityType_Title(t *testing.T) {
	tests := []struct {
		typ  OpportunityType
		want string
	}{
		{OpportunityHighDemandHighPrice, "High Demand & High Price Opportunity"},
		{OpportunityWeekendPremium, "Weekend Price Premium Opportunity"},
		{OpportunitySeasonalVariation, "Seasonal Price Variation Opportunity"},
		{OpportunityType("other"), "Market Opportunity"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
