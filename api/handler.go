// Package api - HTTP handlers for lookup and quote recompute
// Handlers wrap the engine - they contain NO pricing logic.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cloud-quote/adapters/storage"
	"cloud-quote/core/engine"
	"cloud-quote/core/output"
	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

// handleLookup handles POST /api/v1/lookup
func (s *Server) handleLookup(c *gin.Context) {
	start := time.Now()

	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.Wrap(errors.TypeValidation, "invalid request body", err))
		return
	}

	lookup := &engine.LookupRequest{
		Requirement: req.Requirement,
		Covered:     req.Covered,
		Strict:      req.Strict,
	}
	var err error
	if lookup.Usage, err = s.usageNamed(req.Requirement.UsageName); err != nil {
		s.writeError(c, err)
		return
	}
	if lookup.Budget, err = s.budgetNamed(req.Requirement.BudgetName); err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.engine.Lookup(c.Request.Context(), lookup)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, LookupResponse{
		LookupDocument: output.NewLookupDocument(result),
		Metadata:       s.metadata(c, &req, start),
	})
}

// handleRecompute handles POST /api/v1/quotes/recompute on an inline quote
func (s *Server) handleRecompute(c *gin.Context) {
	start := time.Now()

	var doc QuoteDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		s.writeError(c, errors.Wrap(errors.TypeValidation, "invalid request body", err))
		return
	}

	quote, err := s.quoteOf(&doc)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.recompute(c, quote, &doc, start)
}

// handleSaveQuote handles POST /api/v1/quotes
func (s *Server) handleSaveQuote(c *gin.Context) {
	var doc QuoteDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		s.writeError(c, errors.Wrap(errors.TypeValidation, "invalid request body", err))
		return
	}

	quote, err := s.quoteOf(&doc)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.store.SaveQuote(quote); err != nil {
		s.writeError(c, err)
		return
	}
	saved, err := s.store.Quote(quote.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// handleGetQuote handles GET /api/v1/quotes/:id
func (s *Server) handleGetQuote(c *gin.Context) {
	quote, err := s.store.Quote(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// handleRecomputeSaved handles POST /api/v1/quotes/:id/recompute
func (s *Server) handleRecomputeSaved(c *gin.Context) {
	start := time.Now()

	quote, err := s.store.Quote(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	result, ok := s.recompute(c, quote, quote, start)
	if !ok {
		return
	}
	if err := s.options.History.Save(c.Request.Context(), storage.NewSnapshot(result)); err != nil {
		s.logger.Warn("snapshot not recorded", zap.Error(err), logging.Quote(quote.ID))
	}
}

// handleDeleteQuote handles DELETE /api/v1/quotes/:id
func (s *Server) handleDeleteQuote(c *gin.Context) {
	if err := s.store.DeleteQuote(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recompute writes the result of a quote, reporting whether it succeeded.
// The quote is left untouched; the default currency rate goes on a copy.
func (s *Server) recompute(c *gin.Context, quote *types.Quote, input interface{}, start time.Time) (*types.QuoteResult, bool) {
	if quote.CurrencyRate.IsZero() && !s.options.CurrencyRate.IsZero() {
		scaled := *quote
		scaled.CurrencyRate = s.options.CurrencyRate
		quote = &scaled
	}

	result, err := s.engine.Recompute(c.Request.Context(), quote)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	s.store.RecordRequired(result.Budgets)

	c.JSON(http.StatusOK, QuoteResponse{
		QuoteResult: result,
		Metadata:    s.metadata(c, input, start),
	})
	return result, true
}

// handleHistory handles GET /api/v1/quotes/:id/history
func (s *Server) handleHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		s.writeError(c, errors.Validation("limit", "limit must be a positive integer"))
		return
	}
	snapshots, err := s.options.History.List(c.Request.Context(), &storage.ListFilter{
		QuoteID: c.Param("id"),
		Limit:   limit,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	if snapshots == nil {
		snapshots = []*storage.Snapshot{}
	}
	c.JSON(http.StatusOK, snapshots)
}

// handleCompare handles GET /api/v1/quotes/:id/compare?old=&new=
// Without ids it compares the two newest snapshots.
func (s *Server) handleCompare(c *gin.Context) {
	ctx := c.Request.Context()
	oldID, newID := c.Query("old"), c.Query("new")
	if oldID == "" || newID == "" {
		snapshots, err := s.options.History.List(ctx, &storage.ListFilter{QuoteID: c.Param("id"), Limit: 2})
		if err != nil {
			s.writeError(c, err)
			return
		}
		if len(snapshots) < 2 {
			s.writeError(c, errors.NotFound("second snapshot of quote", c.Param("id")))
			return
		}
		newID, oldID = snapshots[0].ID, snapshots[1].ID
	}

	cmp, err := storage.Compare(ctx, s.options.History, oldID, newID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// quoteOf resolves the profile names of a document into a quote
func (s *Server) quoteOf(doc *QuoteDocument) (*types.Quote, error) {
	quote := &types.Quote{
		ID:           doc.ID,
		Name:         doc.Name,
		Location:     doc.Location,
		License:      doc.License,
		Reservation:  doc.Reservation,
		Optimizer:    doc.Optimizer,
		TermPrefixes: doc.TermPrefixes,
		CurrencyRate: doc.CurrencyRate,
	}
	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}

	var err error
	if quote.Usage, err = s.usageNamed(doc.Usage); err != nil {
		return nil, err
	}
	if quote.Budget, err = s.budgetNamed(doc.Budget); err != nil {
		return nil, err
	}

	for i, rd := range doc.Resources {
		r := &types.Resource{
			ID:          rd.ID,
			Name:        rd.Name,
			Requirement: rd.Requirement,
			MinQuantity: 1,
			MaxQuantity: rd.MaxQuantity,
			Order:       i,
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if rd.MinQuantity != nil {
			r.MinQuantity = *rd.MinQuantity
		}
		if r.Usage, err = s.usageNamed(rd.Requirement.UsageName); err != nil {
			return nil, err
		}
		if r.Budget, err = s.budgetNamed(rd.Requirement.BudgetName); err != nil {
			return nil, err
		}
		quote.Resources = append(quote.Resources, r)
	}
	return quote, nil
}

func (s *Server) usageNamed(name string) (*types.Usage, error) {
	if name == "" {
		return nil, nil
	}
	u, err := s.store.UsageByName(name)
	if err != nil {
		return nil, errors.Validationf("usage", "unknown usage %q", name)
	}
	return u, nil
}

func (s *Server) budgetNamed(name string) (*types.Budget, error) {
	if name == "" {
		return nil, nil
	}
	b, err := s.store.BudgetByName(name)
	if err != nil {
		return nil, errors.Validationf("budget", "unknown budget %q", name)
	}
	return b, nil
}

// writeError maps the error taxonomy onto HTTP statuses
func (s *Server) writeError(c *gin.Context, err error) {
	body := ErrorBody{
		Code:      string(errors.TypeInternal),
		Message:   err.Error(),
		RequestID: c.GetString(requestIDKey),
	}
	status := http.StatusInternalServerError

	var typed *errors.Error
	if errors.As(err, &typed) {
		body.Code = string(typed.Type)
		body.Field = typed.Field()
		body.Context = typed.Context
		status = statusOf(typed.Type)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err), zap.String(requestIDKey, c.GetString(requestIDKey)))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}

func statusOf(t errors.Type) int {
	switch t {
	case errors.TypeValidation, errors.TypeParsing:
		return http.StatusBadRequest
	case errors.TypeNoMatch, errors.TypeNotFound:
		return http.StatusNotFound
	case errors.TypeConflict:
		return http.StatusConflict
	case errors.TypeBudget:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
