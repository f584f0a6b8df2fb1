package pipeline

import (
	"property-feed/internal/model"
)

// Validator schema-checks raw records before they enter the pipeline.
// Every check fails fast on the first violated constraint, reporting the
// failing field and the rule it broke. All methods are pure.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProperty applies the property-feed schema to a raw record.
func (v *Validator) ValidateProperty(raw model.RawPropertyRecord) error {
	switch {
	case raw.ID == "":
		return &ValidationError{Field: "id", Rule: "required"}
	case raw.Suburb == "":
		return &ValidationError{Field: "suburb", Rule: "required"}
	case raw.Postcode == "":
		return &ValidationError{Field: "postcode", Rule: "required"}
	case raw.Latitude < -90 || raw.Latitude > 90:
		return &ValidationError{Field: "latitude", Rule: "range [-90,90]"}
	case raw.Longitude < -180 || raw.Longitude > 180:
		return &ValidationError{Field: "longitude", Rule: "range [-180,180]"}
	case raw.Price <= 0:
		return &ValidationError{Field: "price", Rule: "positive"}
	case raw.Mortgage < 0:
		return &ValidationError{Field: "mortgage", Rule: "min 0"}
	case raw.ClearanceRate < 0 || raw.ClearanceRate > 100:
		return &ValidationError{Field: "clearanceRate", Rule: "range [0,100]"}
	case raw.HistoricalPrice <= 0:
		return &ValidationError{Field: "historicalPrice", Rule: "positive"}
	case raw.MonthsSinceHistorical <= 0:
		return &ValidationError{Field: "monthsSinceHistorical", Rule: "positive"}
	}
	return nil
}

// ValidateMarket applies the market-feed schema to a raw record.
func (v *Validator) ValidateMarket(raw model.RawMarketRecord) error {
	switch {
	case raw.ID == "":
		return &ValidationError{Field: "id", Rule: "required"}
	case raw.MedianPrice <= 0:
		return &ValidationError{Field: "medianPrice", Rule: "positive"}
	case raw.SalesVolume < 0:
		return &ValidationError{Field: "salesVolume", Rule: "min 0"}
	case raw.DaysOnMarket < 0:
		return &ValidationError{Field: "daysOnMarket", Rule: "min 0"}
	case raw.ClearanceRate < 0 || raw.ClearanceRate > 100:
		return &ValidationError{Field: "clearanceRate", Rule: "range [0,100]"}
	case raw.Trends.DemandIndex < 0 || raw.Trends.DemandIndex > 100:
		return &ValidationError{Field: "trends.demandIndex", Rule: "range [0,100]"}
	}
	return nil
}

// ValidateInfrastructure applies the infrastructure-feed schema to a raw record.
func (v *Validator) ValidateInfrastructure(raw model.RawInfrastructureRecord) error {
	switch {
	case raw.ID == "":
		return &ValidationError{Field: "id", Rule: "required"}
	case raw.Name == "":
		return &ValidationError{Field: "name", Rule: "required"}
	case raw.Completion < 0 || raw.Completion > 100:
		return &ValidationError{Field: "completion", Rule: "range [0,100]"}
	case raw.Impact.Radius <= 0:
		return &ValidationError{Field: "impact.radius", Rule: "positive"}
	case raw.Impact.EstimatedValue < 0:
		return &ValidationError{Field: "impact.estimatedValue", Rule: "min 0"}
	case raw.Impact.Confidence < 0 || raw.Impact.Confidence > 100:
		return &ValidationError{Field: "impact.confidence", Rule: "range [0,100]"}
	}
	return nil
}
