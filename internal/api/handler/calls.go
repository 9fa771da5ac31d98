package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCallHistory повертає дзвінки автентифікованого користувача,
// від найновіших до найстаріших.
func (h *Handler) GetCallHistory(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	records, err := h.Storage.GetCallHistory(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load call history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": records})
}

// GetOnlineUsers повертає поточний знімок присутності.
func (h *Handler) GetOnlineUsers(c *gin.Context) {
	if _, ok := h.authenticate(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	online := h.Hub.Registry.Online()
	c.JSON(http.StatusOK, gin.H{"count": len(online), "online": online})
}

// GetLastSeen повертає час останнього відключення користувача.
func (h *Handler) GetLastSeen(c *gin.Context) {
	if _, ok := h.authenticate(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	targetID := c.Param("id")
	if _, online := h.Hub.Registry.Lookup(targetID); online {
		c.JSON(http.StatusOK, gin.H{"user_id": targetID, "online": true})
		return
	}

	lastSeen, err := h.Storage.GetLastSeen(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load last seen"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": targetID, "online": false, "last_seen": lastSeen})
}
