package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

// handleListUsages handles GET /api/v1/usages
func (s *Server) handleListUsages(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Usages())
}

// handleCreateUsage handles POST /api/v1/usages
func (s *Server) handleCreateUsage(c *gin.Context) {
	var u types.Usage
	if err := c.ShouldBindJSON(&u); err != nil {
		s.writeError(c, errors.Wrap(errors.TypeValidation, "invalid request body", err))
		return
	}
	created, err := s.store.CreateUsage(&u)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// handleUpdateUsage handles PUT /api/v1/usages/:id
func (s *Server) handleUpdateUsage(c *gin.Context) {
	var u types.Usage
	if err := c.ShouldBindJSON(&u); err != nil {
		s.writeError(c, errors.Wrap(errors.TypeValidation, "invalid request body", err))
		return
	}
	u.ID = c.Param("id")
	updated, err := s.store.UpdateUsage(&u)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// handleDeleteUsage handles DELETE /api/v1/usages/:id
func (s *Server) handleDeleteUsage(c *gin.Context) {
	if err := s.store.DeleteUsage(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleListBudgets handles GET /api/v1/budgets
func (s *Server) handleListBudgets(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Budgets())
}

// handleCreateBudget handles POST /api/v1/budgets
func (s *Server) handleCreateBudget(c *gin.Context) {
	var b types.Budget
	if err := c.ShouldBindJSON(&b); err != nil {
		s.writeError(c, errors.Wrap(errors.TypeValidation, "invalid request body", err))
		return
	}
	created, err := s.store.CreateBudget(&b)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// handleDeleteBudget handles DELETE /api/v1/budgets/:id
func (s *Server) handleDeleteBudget(c *gin.Context) {
	if err := s.store.DeleteBudget(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
