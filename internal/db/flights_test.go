package db

import (
	"context"
	"testing"
	"time"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

func sampleTable() *models.FlightTable {
	d, _ := models.ParseDate("2024-06-01")
	cols := models.NewColumnSet(models.ColFlightDate, models.ColFlightTime, models.ColOrigin,
		models.ColDestination, models.ColAirline, models.ColIsDomestic)
	return models.NewFlightTable(cols, []models.FlightRecord{
		{
			FlightDate: &d, RawDate: "2024-06-01", FlightTime: models.Ptr("08:30"),
			Origin: "SYD", Destination: "MEL", Airline: models.Ptr("Qantas"), IsDomestic: models.Ptr(true),
		},
		{
			FlightDate: &d, RawDate: "2024-06-01",
			Origin: "SYD", Destination: "AKL", IsDomestic: models.Ptr(false),
		},
	})
}

func TestSaveAndFreshFlights(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	key := CacheKey("syd", 30)
	if key != "SYD:30" {
		t.Errorf("CacheKey() = %q, want SYD:30", key)
	}

	if err := db.SaveFlights(ctx, key, sampleTable(), time.Now()); err != nil {
		t.Fatalf("SaveFlights failed: %v", err)
	}

	table, fetchedAt, err := db.FreshFlights(ctx, key, time.Hour)
	if err != nil {
		t.Fatalf("FreshFlights failed: %v", err)
	}
	if table == nil {
		t.Fatal("expected cached table")
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	if table.Columns != sampleTable().Columns {
		t.Errorf("Columns = %v, want %v", table.Columns.Names(), sampleTable().Columns.Names())
	}
	if time.Since(fetchedAt) > time.Minute {
		t.Errorf("fetchedAt = %v, expected recent", fetchedAt)
	}

	first := table.Records[0]
	if first.FlightTime == nil || *first.FlightTime != "08:30" {
		t.Errorf("FlightTime = %v, want 08:30", first.FlightTime)
	}
	if first.Airline == nil || *first.Airline != "Qantas" {
		t.Errorf("Airline = %v, want Qantas", first.Airline)
	}
	if first.FlightDate == nil || first.DateKey() != "2024-06-01" {
		t.Errorf("FlightDate = %v, want 2024-06-01", first.FlightDate)
	}
	if first.Price != nil {
		t.Errorf("Price = %v, want nil", *first.Price)
	}
	second := table.Records[1]
	if second.IsDomestic == nil || *second.IsDomestic {
		t.Errorf("IsDomestic = %v, want false", second.IsDomestic)
	}
	if second.Airline != nil {
		t.Errorf("Airline = %v, want nil", *second.Airline)
	}
}

func TestFreshFlights_Stale(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := db.SaveFlights(ctx, "SYD:30", sampleTable(), time.Now().Add(-2*time.Hour)); err != nil {
		t.Fatalf("SaveFlights failed: %v", err)
	}

	table, _, err := db.FreshFlights(ctx, "SYD:30", time.Hour)
	if err != nil {
		t.Fatalf("FreshFlights failed: %v", err)
	}
	if table != nil {
		t.Errorf("expected no fresh rows, got %d", table.Len())
	}

	n, err := db.PruneFlightCache(ctx, time.Hour)
	if err != nil {
		t.Fatalf("PruneFlightCache failed: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d rows, want 2", n)
	}
}

func TestSaveFlights_Replaces(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := db.SaveFlights(ctx, "SYD:30", sampleTable(), time.Now()); err != nil {
		t.Fatalf("SaveFlights failed: %v", err)
	}
	one := models.NewFlightTable(models.NewColumnSet(models.ColOrigin, models.ColDestination), []models.FlightRecord{
		{Origin: "SYD", Destination: "PER"},
	})
	if err := db.SaveFlights(ctx, "SYD:30", one, time.Now()); err != nil {
		t.Fatalf("SaveFlights failed: %v", err)
	}

	table, _, err := db.FreshFlights(ctx, "SYD:30", time.Hour)
	if err != nil {
		t.Fatalf("FreshFlights failed: %v", err)
	}
	if table.Len() != 1 || table.Records[0].Destination != "PER" {
		t.Errorf("expected the replacement batch, got %+v", table.Records)
	}
	if table.Has(models.ColFlightDate) {
		t.Error("replacement batch should not carry flight_date")
	}
}
