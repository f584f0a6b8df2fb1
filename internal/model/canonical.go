package model

import "time"

// Zone is the traffic-light risk tier assigned to a property.
type Zone string

const (
	ZoneGreen  Zone = "green"
	ZoneYellow Zone = "yellow"
	ZoneRed    Zone = "red"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" msgpack:"lat"`
	Lng float64 `json:"lng" msgpack:"lng"`
}

// Location places a property within a suburb.
type Location struct {
	Suburb      string      `json:"suburb" msgpack:"suburb"`
	Postcode    string      `json:"postcode" msgpack:"postcode"`
	Coordinates Coordinates `json:"coordinates" msgpack:"coordinates"`
}

// PropertyMetrics holds the raw and derived financial signals of a property.
// Equity and GrowthRate are computed by the transformer; the rest pass
// through from the validated record.
type PropertyMetrics struct {
	Price         float64 `json:"price" msgpack:"price"`
	Equity        float64 `json:"equity" msgpack:"equity"`
	ClearanceRate float64 `json:"clearanceRate" msgpack:"clearanceRate"`
	GrowthRate    float64 `json:"growthRate" msgpack:"growthRate"`
}

// ZoneClassification is the classifier verdict attached to a property.
type ZoneClassification struct {
	CurrentZone Zone      `json:"currentZone" msgpack:"currentZone"`
	Confidence  float64   `json:"confidence" msgpack:"confidence"`
	LastUpdated time.Time `json:"lastUpdated" msgpack:"lastUpdated"`
}

// PropertyRecord is the canonical transformed entity. A new immutable
// record is produced for the same PropertyID on every ingestion cycle,
// superseding the previous one.
type PropertyRecord struct {
	PropertyID         string             `json:"propertyId" msgpack:"propertyId"`
	Location           Location           `json:"location" msgpack:"location"`
	Metrics            PropertyMetrics    `json:"metrics" msgpack:"metrics"`
	ZoneClassification ZoneClassification `json:"zoneClassification" msgpack:"zoneClassification"`
}

// MarketIndicators are the point-in-time sales figures of a market snapshot.
type MarketIndicators struct {
	MedianPrice   float64 `json:"medianPrice" msgpack:"medianPrice"`
	SalesVolume   float64 `json:"salesVolume" msgpack:"salesVolume"`
	DaysOnMarket  float64 `json:"daysOnMarket" msgpack:"daysOnMarket"`
	ClearanceRate float64 `json:"clearanceRate" msgpack:"clearanceRate"`
}

// MarketTrends are the growth indicators of a market snapshot.
type MarketTrends struct {
	PriceGrowth  float64 `json:"priceGrowth" msgpack:"priceGrowth"`
	VolumeGrowth float64 `json:"volumeGrowth" msgpack:"volumeGrowth"`
	DemandIndex  float64 `json:"demandIndex" msgpack:"demandIndex"`
}

// MarketSnapshot is the canonical market entity.
type MarketSnapshot struct {
	MarketID   string           `json:"marketId" msgpack:"marketId"`
	Indicators MarketIndicators `json:"indicators" msgpack:"indicators"`
	Trends     MarketTrends     `json:"trends" msgpack:"trends"`
}

// ProjectDetails describe an infrastructure project.
type ProjectDetails struct {
	Name       string  `json:"name" msgpack:"name"`
	Type       string  `json:"type" msgpack:"type"`
	Status     string  `json:"status" msgpack:"status"`
	Completion float64 `json:"completion" msgpack:"completion"`
}

// ProjectImpact is the projected effect of a project on nearby values.
type ProjectImpact struct {
	Radius         float64 `json:"radius" msgpack:"radius"`
	EstimatedValue float64 `json:"estimatedValue" msgpack:"estimatedValue"`
	Confidence     float64 `json:"confidence" msgpack:"confidence"`
}

// InfrastructureProject is the canonical infrastructure entity.
type InfrastructureProject struct {
	ProjectID string         `json:"projectId" msgpack:"projectId"`
	Details   ProjectDetails `json:"details" msgpack:"details"`
	Impact    ProjectImpact  `json:"impact" msgpack:"impact"`
}
