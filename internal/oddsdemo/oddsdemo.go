// Package oddsdemo serves a fixed odds document for front-end demos. It is
// independent of the fetch pipeline.
package oddsdemo

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Market struct {
	Name string             `json:"name"`
	Odds map[string]float64 `json:"odds"`
}

type Document struct {
	Match   string   `json:"match"`
	Markets []Market `json:"markets"`
}

// Payload returns a fresh copy of the demo document.
func Payload() Document {
	return Document{
		Match: "Real Betis vs Villarreal",
		Markets: []Market{
			{Name: "Match winner", Odds: map[string]float64{"home": 2.10, "draw": 3.30, "away": 3.40}},
			{Name: "Total goals 2.5", Odds: map[string]float64{"over": 1.85, "under": 1.95}},
			{Name: "Both teams score", Odds: map[string]float64{"yes": 1.70, "no": 2.05}},
		},
	}
}

// NewRouter builds the gin engine serving GET /odds and /ping.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/odds", handleOdds)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong\n")
	})
	return r
}

func handleOdds(c *gin.Context) {
	c.JSON(http.StatusOK, Payload())
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		slog.Debug("Odds demo request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "duration", time.Since(started))
	}
}
