package handlers

import (
	"net/http"

	"quizbackend/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds to HTTP statuses. Store-layer
// failures carry no kind and come back as 500s unchanged.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindValidation:
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
