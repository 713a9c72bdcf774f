package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/pkg/utils"
)

const (
	// DeviceHeader carries the device ID for non-browser clients.
	DeviceHeader = "X-Device-ID"
	// DeviceCookie persists the device ID across browser sessions.
	DeviceCookie = "device_id"

	deviceCookieMaxAge = 5 * 365 * 24 * 60 * 60
)

// DeviceMiddleware resolves the device identity of every request. A device
// without one is issued a new ID, stored in a long-lived cookie.
func DeviceMiddleware(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(DeviceHeader)
		if !utils.ValidDeviceID(deviceID) {
			deviceID, _ = c.Cookie(DeviceCookie)
		}
		if !utils.ValidDeviceID(deviceID) {
			deviceID = utils.NewDeviceID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(DeviceCookie, deviceID, deviceCookieMaxAge, "/", "", secureCookie, false)
		}

		c.Set("device_id", deviceID)
		c.Header(DeviceHeader, deviceID)
		c.Next()
	}
}
