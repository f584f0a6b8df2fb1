package model

// Raw records are the per-category payload shapes as delivered by the
// external sources, prior to validation. One struct per category rather
// than a generic map, so a job is bound to its schema at registration.

// RawPropertyRecord is a single listing as returned by the property feed.
type RawPropertyRecord struct {
	ID                    string  `json:"id"`
	Suburb                string  `json:"suburb"`
	Postcode              string  `json:"postcode"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	Price                 float64 `json:"price"`
	Mortgage              float64 `json:"mortgage"`
	ClearanceRate         float64 `json:"clearanceRate"`
	HistoricalPrice       float64 `json:"historicalPrice"`
	MonthsSinceHistorical float64 `json:"monthsSinceHistorical"`
}

// RawMarketTrends carries the growth indicators of a market payload.
type RawMarketTrends struct {
	PriceGrowth  float64 `json:"priceGrowth"`
	VolumeGrowth float64 `json:"volumeGrowth"`
	DemandIndex  float64 `json:"demandIndex"`
}

// RawMarketRecord is a suburb-level market snapshot from the market feed.
type RawMarketRecord struct {
	ID            string          `json:"id"`
	MedianPrice   float64         `json:"medianPrice"`
	SalesVolume   float64         `json:"salesVolume"`
	DaysOnMarket  float64         `json:"daysOnMarket"`
	ClearanceRate float64         `json:"clearanceRate"`
	Trends        RawMarketTrends `json:"trends"`
}

// RawInfrastructureImpact describes the projected effect of a project
// on surrounding property values.
type RawInfrastructureImpact struct {
	Radius         float64 `json:"radius"`
	EstimatedValue float64 `json:"estimatedValue"`
	Confidence     float64 `json:"confidence"`
}

// RawInfrastructureRecord is a single project from the infrastructure feed.
type RawInfrastructureRecord struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Type       string                  `json:"type"`
	Status     string                  `json:"status"`
	Completion float64                 `json:"completion"`
	Impact     RawInfrastructureImpact `json:"impact"`
}
