package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/internal/domain/history"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/response"
)

// GetDeviceID extracts the device ID from the Gin context
func GetDeviceID(c *gin.Context) string {
	return c.GetString("device_id")
}

// GetSession extracts the signed-in session from the Gin context
func GetSession(c *gin.Context) *entity.Session {
	val, exists := c.Get("session")
	if !exists {
		return nil
	}
	session, ok := val.(*entity.Session)
	if !ok {
		return nil
	}
	return session
}

func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseSelection reads the history filter from the query string. A custom
// range without both dates is rejected and nothing is queried.
func parseSelection(c *gin.Context, loc *time.Location) (history.Selection, bool) {
	var q request.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return history.Selection{}, false
	}
	sel, err := history.ParseSelection(q.Range, q.Start, q.End, loc)
	if err != nil {
		response.Error(c, err)
		return history.Selection{}, false
	}
	if !sel.Complete() {
		response.BadRequest(c, "Custom range requires both start and end dates")
		return history.Selection{}, false
	}
	return sel, true
}
