package handlers

import (
	"errors"
	"io"
	"net/http"

	"quizbackend/services"

	"github.com/gin-gonic/gin"
)

type ParticipationHandler struct {
	participationService *services.ParticipationService
	guestService         *services.GuestService
}

func NewParticipationHandler(participationService *services.ParticipationService, guestService *services.GuestService) *ParticipationHandler {
	return &ParticipationHandler{
		participationService: participationService,
		guestService:         guestService,
	}
}

type SubmitQuizRequest struct {
	SelectedResponseIDs []uint `json:"selectedResponseIds"`
	GuestID             *uint  `json:"guestId"`
}

type JoinQuizRequest struct {
	GuestID *uint `json:"guestId"`
}

func (h *ParticipationHandler) SubmitQuiz(c *gin.Context) {
	quizID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participation, err := h.participationService.SubmitAnswers(
		c.Request.Context(), quizID, req.SelectedResponseIDs, identityFrom(c, req.GuestID))
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.participationService.View(c.Request.Context(), participation)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *ParticipationHandler) JoinByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quiz code required"})
		return
	}

	// Body is optional; authenticated joiners send nothing at all.
	var req JoinQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participation, err := h.participationService.RegisterByCode(
		c.Request.Context(), code, identityFrom(c, req.GuestID))
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.participationService.View(c.Request.Context(), participation)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ParticipationHandler) GetQuizParticipations(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quizID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	participations, err := h.participationService.ListForQuiz(c.Request.Context(), quizID, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.participationService.Views(c.Request.Context(), participations)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *ParticipationHandler) GetMyParticipations(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	participations, err := h.participationService.ListForUser(c.Request.Context(), userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.participationService.Views(c.Request.Context(), participations)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *ParticipationHandler) IssueGuest(c *gin.Context) {
	guest, err := h.guestService.IssueGuest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"guest_id": guest.ID})
}

// identityFrom combines the optional authenticated user from the context
// with the optional guest id from the request body. The engine rejects
// requests carrying both.
func identityFrom(c *gin.Context, guestID *uint) services.Identity {
	ident := services.Identity{GuestID: guestID}
	if userID, exists := c.Get("user_id"); exists {
		id := userID.(uint)
		ident.UserID = &id
	}
	return ident
}
