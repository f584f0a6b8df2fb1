package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "property-feed/docs"
	"property-feed/internal/api/handler"
	"property-feed/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.FeedHandler) {
	r.GET("/property-data", h.PropertyData)
	r.GET("/market-data", h.MarketData)
	r.GET("/infrastructure-data", h.InfrastructureData)
	r.GET("/healthz", h.Healthz)
	r.POST("/cache/invalidate", h.InvalidateCache)
	r.GET("/ws", h.LiveFeed)
	r.Mount("/swagger/", httpSwagger.WrapHandler)
}
