package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pratyushashukla/IP-BE/kv"
)

// HealthController reports service liveness plus the state of the
// best-effort cache. A cache outage degrades reads but never takes the
// service down, so it is reported without failing the check.
type HealthController struct {
	kv kv.KeyValueStore
}

func NewHealthController(store kv.KeyValueStore) *HealthController {
	return &HealthController{kv: store}
}

// Health returns 200 as long as the process serves requests; the cache
// field flips to "unavailable" when the key-value store is unreachable
func (ctrl HealthController) Health(c *gin.Context) {
	cacheStatus := "ok"
	if _, err := ctrl.kv.Get(c.Request.Context(), "health:probe"); err != nil && !errors.Is(err, kv.ErrKeyMiss) {
		cacheStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "facility-management-api",
		"cache":   cacheStatus,
	})
}
