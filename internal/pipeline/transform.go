package pipeline

import (
	"time"

	"property-feed/internal/model"
)

// Zone score weights and indicator thresholds. An indicator fires only on
// a strict inequality, so equity of exactly 40 contributes nothing.
const (
	equityWeight    = 0.4
	clearanceWeight = 0.3
	growthWeight    = 0.3

	equityThreshold    = 40.0
	clearanceThreshold = 65.0
	growthThreshold    = 5.0

	greenThreshold  = 0.7
	yellowThreshold = 0.4
)

// Transformer converts validated records into their canonical shape and
// derives the zone classification. Deterministic: identical input always
// yields an identical score, zone and confidence. The clock only feeds
// the lastUpdated metadata field.
type Transformer struct {
	now func() time.Time
}

func NewTransformer() *Transformer {
	return &Transformer{now: time.Now}
}

// NewTransformerWithClock injects a fixed clock, for tests.
func NewTransformerWithClock(now func() time.Time) *Transformer {
	return &Transformer{now: now}
}

// Equity is the owned share of the property value, as a percentage.
func Equity(price, mortgage float64) float64 {
	return (price - mortgage) / price * 100
}

// GrowthRate annualizes price growth since the historical observation.
func GrowthRate(price, historicalPrice, monthsSince float64) float64 {
	return (price - historicalPrice) / historicalPrice * (12 / monthsSince)
}

// ZoneScore sums the three boolean-weighted indicators. Possible values
// are exactly 0, 0.3, 0.4, 0.6, 0.7 and 1.0.
func ZoneScore(equity, clearanceRate, growthRate float64) float64 {
	score := 0.0
	if equity > equityThreshold {
		score += equityWeight
	}
	if clearanceRate > clearanceThreshold {
		score += clearanceWeight
	}
	if growthRate > growthThreshold {
		score += growthWeight
	}
	return score
}

// Classify maps a zone score onto its traffic-light tier.
func Classify(zoneScore float64) model.Zone {
	switch {
	case zoneScore >= greenThreshold:
		return model.ZoneGreen
	case zoneScore >= yellowThreshold:
		return model.ZoneYellow
	default:
		return model.ZoneRed
	}
}

// TransformProperty produces the canonical property record with derived
// metrics and zone classification.
func (t *Transformer) TransformProperty(raw model.RawPropertyRecord) model.PropertyRecord {
	equity := Equity(raw.Price, raw.Mortgage)
	growth := GrowthRate(raw.Price, raw.HistoricalPrice, raw.MonthsSinceHistorical)
	score := ZoneScore(equity, raw.ClearanceRate, growth)

	return model.PropertyRecord{
		PropertyID: raw.ID,
		Location: model.Location{
			Suburb:   raw.Suburb,
			Postcode: raw.Postcode,
			Coordinates: model.Coordinates{
				Lat: raw.Latitude,
				Lng: raw.Longitude,
			},
		},
		Metrics: model.PropertyMetrics{
			Price:         raw.Price,
			Equity:        equity,
			ClearanceRate: raw.ClearanceRate,
			GrowthRate:    growth,
		},
		ZoneClassification: model.ZoneClassification{
			CurrentZone: Classify(score),
			Confidence:  score * 100,
			LastUpdated: t.now().UTC(),
		},
	}
}

// TransformMarket maps a raw market record onto the canonical snapshot.
func (t *Transformer) TransformMarket(raw model.RawMarketRecord) model.MarketSnapshot {
	return model.MarketSnapshot{
		MarketID: raw.ID,
		Indicators: model.MarketIndicators{
			MedianPrice:   raw.MedianPrice,
			SalesVolume:   raw.SalesVolume,
			DaysOnMarket:  raw.DaysOnMarket,
			ClearanceRate: raw.ClearanceRate,
		},
		Trends: model.MarketTrends{
			PriceGrowth:  raw.Trends.PriceGrowth,
			VolumeGrowth: raw.Trends.VolumeGrowth,
			DemandIndex:  raw.Trends.DemandIndex,
		},
	}
}

// TransformInfrastructure maps a raw project onto the canonical entity.
func (t *Transformer) TransformInfrastructure(raw model.RawInfrastructureRecord) model.InfrastructureProject {
	return model.InfrastructureProject{
		ProjectID: raw.ID,
		Details: model.ProjectDetails{
			Name:       raw.Name,
			Type:       raw.Type,
			Status:     raw.Status,
			Completion: raw.Completion,
		},
		Impact: model.ProjectImpact{
			Radius:         raw.Impact.Radius,
			EstimatedValue: raw.Impact.EstimatedValue,
			Confidence:     raw.Impact.Confidence,
		},
	}
}
