package pipeline

import (
	"errors"
	"testing"

	"property-feed/internal/model"
)

func validProperty() model.RawPropertyRecord {
	return model.RawPropertyRecord{
		ID: "PROP1", Suburb: "Newtown", Postcode: "2042",
		Latitude: -33.9, Longitude: 151.1,
		Price: 900_000, Mortgage: 600_000, ClearanceRate: 68,
		HistoricalPrice: 850_000, MonthsSinceHistorical: 12,
	}
}

func TestValidatePropertyAccepts(t *testing.T) {
	v := NewValidator()
	if err := v.ValidateProperty(validProperty()); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}
}

func TestValidatePropertyRejects(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*model.RawPropertyRecord)
		wantField string
	}{
		{"missing id", func(r *model.RawPropertyRecord) { r.ID = "" }, "id"},
		{"missing suburb", func(r *model.RawPropertyRecord) { r.Suburb = "" }, "suburb"},
		{"latitude too low", func(r *model.RawPropertyRecord) { r.Latitude = -90.5 }, "latitude"},
		{"latitude too high", func(r *model.RawPropertyRecord) { r.Latitude = 91 }, "latitude"},
		{"longitude out of range", func(r *model.RawPropertyRecord) { r.Longitude = 181 }, "longitude"},
		{"zero price", func(r *model.RawPropertyRecord) { r.Price = 0 }, "price"},
		{"negative mortgage", func(r *model.RawPropertyRecord) { r.Mortgage = -1 }, "mortgage"},
		{"clearance above 100", func(r *model.RawPropertyRecord) { r.ClearanceRate = 101 }, "clearanceRate"},
		{"zero historical price", func(r *model.RawPropertyRecord) { r.HistoricalPrice = 0 }, "historicalPrice"},
		{"zero months", func(r *model.RawPropertyRecord) { r.MonthsSinceHistorical = 0 }, "monthsSinceHistorical"},
	}

	v := NewValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validProperty()
			tc.mutate(&raw)

			err := v.ValidateProperty(raw)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("failing field: got %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}

func TestValidatePropertyFailsFastOnFirstViolation(t *testing.T) {
	// Both latitude and price are invalid; latitude is checked first.
	raw := validProperty()
	raw.Latitude = 200
	raw.Price = -1

	var verr *ValidationError
	err := NewValidator().ValidateProperty(raw)
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "latitude" {
		t.Errorf("expected first violated field latitude, got %q", verr.Field)
	}
}

func TestValidateMarket(t *testing.T) {
	v := NewValidator()

	valid := model.RawMarketRecord{
		ID: "MKT1", MedianPrice: 1_000_000, SalesVolume: 200,
		DaysOnMarket: 30, ClearanceRate: 65,
		Trends: model.RawMarketTrends{DemandIndex: 70},
	}
	if err := v.ValidateMarket(valid); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}

	invalid := valid
	invalid.MedianPrice = 0
	var verr *ValidationError
	if err := v.ValidateMarket(invalid); !errors.As(err, &verr) || verr.Field != "medianPrice" {
		t.Errorf("expected medianPrice violation, got %v", err)
	}

	invalid = valid
	invalid.Trends.DemandIndex = 150
	if err := v.ValidateMarket(invalid); !errors.As(err, &verr) || verr.Field != "trends.demandIndex" {
		t.Errorf("expected trends.demandIndex violation, got %v", err)
	}
}

func TestValidateInfrastructure(t *testing.T) {
	v := NewValidator()

	valid := model.RawInfrastructureRecord{
		ID: "INF1", Name: "Light Rail", Type: "Transport", Status: "Planned",
		Completion: 0,
		Impact:     model.RawInfrastructureImpact{Radius: 2, EstimatedValue: 10_000_000, Confidence: 90},
	}
	if err := v.ValidateInfrastructure(valid); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}

	invalid := valid
	invalid.Impact.Radius = 0
	var verr *ValidationError
	if err := v.ValidateInfrastructure(invalid); !errors.As(err, &verr) || verr.Field != "impact.radius" {
		t.Errorf("expected impact.radius violation, got %v", err)
	}
}
