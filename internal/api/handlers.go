package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prescripto/health-recommender/internal/domain"
	"github.com/prescripto/health-recommender/internal/history"
	"github.com/prescripto/health-recommender/internal/report"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"symptoms":  s.predictor.Index().Size(),
	})
}

// handleListSymptoms returns the symptom vocabulary in index order, so a UI
// can populate its option list from the same vocabulary the encoder uses.
func (s *Server) handleListSymptoms(c *gin.Context) {
	symptoms := s.predictor.Index().Symptoms()
	c.JSON(http.StatusOK, gin.H{
		"symptoms": symptoms,
		"count":    len(symptoms),
	})
}

// handlePredict runs a full prediction over the submitted symptom set.
func (s *Server) handlePredict(c *gin.Context) {
	var req domain.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid request body", err.Error())
		return
	}
	if len(req.Symptoms) == 0 {
		s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "select at least one symptom", "")
		return
	}

	result, err := s.predictor.Predict(c.Request.Context(), req.Symptoms)
	if err != nil {
		s.logger.WithError(err).Error("Prediction failed")
		s.respondError(c, http.StatusBadGateway, domain.ErrClassifier, "prediction failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleGetDisease resolves a disease label directly against the reference
// tables. The label is matched exactly; an unknown label yields a bundle with
// all fields empty rather than a 404, because reference-table coverage is
// maintained independently of the label vocabulary.
func (s *Server) handleGetDisease(c *gin.Context) {
	name := c.Param("name")
	bundle := s.predictor.Recommender().Resolve(domain.DiseaseLabel(name))
	c.JSON(http.StatusOK, bundle)
}

// handleListHistory returns stored predictions, newest first.
func (s *Server) handleListHistory(c *gin.Context) {
	if s.store == nil {
		s.respondError(c, http.StatusNotFound, domain.ErrHistoryError, "history is not configured", "")
		return
	}

	limit := parseIntParam(c, "limit", 50)
	offset := parseIntParam(c, "offset", 0)

	records, err := s.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list history")
		s.respondError(c, http.StatusInternalServerError, domain.ErrHistoryError, "failed to list history", "")
		return
	}
	count, err := s.store.Count(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to count history")
		s.respondError(c, http.StatusInternalServerError, domain.ErrHistoryError, "failed to count history", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   count,
		"limit":   limit,
		"offset":  offset,
	})
}

// handleGetHistory returns one stored prediction by ID.
func (s *Server) handleGetHistory(c *gin.Context) {
	rec, ok := s.lookupRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleGetReport renders a stored prediction as a downloadable Markdown
// document. The bundle is re-resolved against the live reference tables; only
// the symptoms and label come from the stored record.
func (s *Server) handleGetReport(c *gin.Context) {
	rec, ok := s.lookupRecord(c)
	if !ok {
		return
	}

	full := &report.FullReport{
		PredictionID: rec.ID,
		GeneratedAt:  time.Now().UTC(),
		Symptoms:     rec.Symptoms,
		Unrecognized: rec.Unrecognized,
		Bundle:       s.predictor.Recommender().Resolve(domain.DiseaseLabel(rec.Disease)),
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+rec.ID+".md"))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.RenderMarkdown(full)))
}

func (s *Server) lookupRecord(c *gin.Context) (*history.PredictionRecord, bool) {
	if s.store == nil {
		s.respondError(c, http.StatusNotFound, domain.ErrHistoryError, "history is not configured", "")
		return nil, false
	}

	id := c.Param("id")
	rec, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		var notFound *history.ErrNotFound
		if errors.As(err, &notFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrNotFound, "prediction not found", id)
			return nil, false
		}
		s.logger.WithError(err).Error("Failed to load prediction record")
		s.respondError(c, http.StatusInternalServerError, domain.ErrHistoryError, "failed to load prediction", "")
		return nil, false
	}
	return rec, true
}

func (s *Server) respondError(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, domain.NewAPIError(code, message, details, c.GetString("correlation_id")))
}

func parseIntParam(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
