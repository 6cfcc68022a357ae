package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"document-chat-platform/models"
	"document-chat-platform/services"
	"document-chat-platform/utils"
)

// SetupChatRoutes registers the query and history endpoints. A query
// always answers with 200; backend failures surface as an apology in the
// answer body rather than an error status.
func SetupChatRoutes(router *gin.Engine, chat *services.ChatService) {
	group := router.Group("/api/chat")

	group.POST("/query", func(c *gin.Context) {
		var req models.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		resp := chat.ProcessQuery(c.Request.Context(), req.Question)
		c.JSON(http.StatusOK, resp)
	})

	group.GET("/history", func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		records := chat.GetChatHistory(c.Request.Context(), limit)
		if records == nil {
			records = []models.ChatRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"history": records, "count": len(records)})
	})
}
