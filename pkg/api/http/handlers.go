package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/internal/application/exchange"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/draw"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// CreateGroupRequest represents a group creation request
type CreateGroupRequest struct {
	Name   string `json:"name" binding:"required"`
	Budget string `json:"budget"`
}

// JoinGroupRequest represents a join request
type JoinGroupRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
}

// ExclusionRequest represents an exclusion add/remove request
type ExclusionRequest struct {
	A string `json:"a" binding:"required"`
	B string `json:"b" binding:"required"`
}

// BudgetRequest represents a budget update request
type BudgetRequest struct {
	Budget string `json:"budget" binding:"required"`
}

// WishlistRequest represents a wishlist update request
type WishlistRequest struct {
	Items []string `json:"items"`
}

// GroupResponse is the public view of a group. Assignments are never
// included; each participant reveals only their own via the assignment
// endpoint.
type GroupResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	JoinCode     string               `json:"join_code"`
	Status       domain.GroupStatus   `json:"status"`
	Budget       string               `json:"budget,omitempty"`
	Participants []domain.Participant `json:"participants"`
	Exclusions   []domain.Exclusion   `json:"exclusions,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	DrawnAt      *time.Time           `json:"drawn_at,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"checks": gin.H{
			"exchange": "ok",
		},
	})
}

// handleCreateGroup handles group creation
func (s *Server) handleCreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	group, err := s.manager.CreateGroup(c.Request.Context(), req.Name, req.Budget)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, groupResponse(group))
}

// handleGetGroup handles getting group details
func (s *Server) handleGetGroup(c *gin.Context) {
	group, err := s.manager.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, groupResponse(group))
}

// handleJoinGroup handles a participant joining via join code
func (s *Server) handleJoinGroup(c *gin.Context) {
	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	group, participant, err := s.manager.JoinGroup(c.Request.Context(), req.JoinCode, req.Name, req.Email)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"group":       groupResponse(group),
		"participant": participant,
	})
}

// handleAddExclusion handles adding an exclusion rule
func (s *Server) handleAddExclusion(c *gin.Context) {
	var req ExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	group, err := s.manager.AddExclusion(c.Request.Context(), c.Param("id"), req.A, req.B)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, groupResponse(group))
}

// handleRemoveExclusion handles removing an exclusion rule
func (s *Server) handleRemoveExclusion(c *gin.Context) {
	var req ExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	group, err := s.manager.RemoveExclusion(c.Request.Context(), c.Param("id"), req.A, req.B)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, groupResponse(group))
}

// handleSetBudget handles updating the group budget
func (s *Server) handleSetBudget(c *gin.Context) {
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	group, err := s.manager.SetBudget(c.Request.Context(), c.Param("id"), req.Budget)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, groupResponse(group))
}

// handleUpdateWishlist handles replacing a participant's wishlist
func (s *Server) handleUpdateWishlist(c *gin.Context) {
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	group, err := s.manager.UpdateWishlist(c.Request.Context(), c.Param("id"), c.Param("pid"), req.Items)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, groupResponse(group))
}

// handleCheckDraw handles a feasibility pre-check without drawing
func (s *Server) handleCheckDraw(c *gin.Context) {
	result, err := s.manager.CheckDraw(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feasible": result.Valid,
		"reasons":  result.Reasons,
	})
}

// handleRunDraw handles draw execution
func (s *Server) handleRunDraw(c *gin.Context) {
	group, err := s.manager.RunDraw(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group_id":     group.ID,
		"status":       group.Status,
		"participants": len(group.Participants),
		"drawn_at":     group.DrawnAt,
	})
}

// handleGetAssignment reveals a single participant's recipient
func (s *Server) handleGetAssignment(c *gin.Context) {
	recipient, err := s.manager.Assignment(c.Request.Context(), c.Param("id"), c.Param("pid"))
	if err != nil {
		s.mapError(c, err)
		return
	}

	// Email stays private; the giver only needs a name and wishlist.
	c.JSON(http.StatusOK, gin.H{
		"recipient": gin.H{
			"id":       recipient.ID,
			"name":     recipient.Name,
			"wishlist": recipient.Wishlist,
		},
	})
}

// badRequest responds to malformed request bodies
func (s *Server) badRequest(c *gin.Context, err error) {
	s.logger.Error("invalid request", zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// mapError translates application and engine errors to HTTP responses
func (s *Server) mapError(c *gin.Context, err error) {
	var verr *draw.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "DRAW_NOT_FEASIBLE",
				Message: "The draw cannot be run with the current group setup",
				Details: verr.Reasons,
			},
		})
		return
	}

	var xerr *draw.ExhaustedError
	if errors.As(err, &xerr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "DRAW_EXHAUSTED",
				Message: "No valid assignment was found; exclusion rules may be too restrictive",
			},
		})
		return
	}

	switch {
	case errors.Is(err, ports.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "GROUP_NOT_FOUND",
				Message: "Group not found",
			},
		})
	case errors.Is(err, exchange.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "PARTICIPANT_NOT_FOUND",
				Message: "Participant not found in group",
			},
		})
	case errors.Is(err, exchange.ErrGroupDrawn), errors.Is(err, exchange.ErrGroupNotDrawn):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: ErrorDetail{
				Code:    "GROUP_STATE_CONFLICT",
				Message: err.Error(),
			},
		})
	case errors.Is(err, exchange.ErrDuplicateEmail), errors.Is(err, exchange.ErrSelfExclusion):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_OPERATION",
				Message: err.Error(),
			},
		})
	default:
		s.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: err.Error(),
			},
		})
	}
}

// groupResponse converts a domain group to its public representation
func groupResponse(group *domain.Group) GroupResponse {
	return GroupResponse{
		ID:           group.ID,
		Name:         group.Name,
		JoinCode:     group.JoinCode,
		Status:       group.Status,
		Budget:       group.Budget,
		Participants: group.Participants,
		Exclusions:   group.Exclusions,
		CreatedAt:    group.CreatedAt,
		DrawnAt:      group.DrawnAt,
	}
}
