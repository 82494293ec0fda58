package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RishiKendai/codeplag/internal/config"
	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/metrics"
	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/RishiKendai/codeplag/internal/normalize"
	"github.com/RishiKendai/codeplag/internal/parser"
	"github.com/RishiKendai/codeplag/internal/plagiarism"
	"github.com/RishiKendai/codeplag/internal/repository"
	"github.com/RishiKendai/codeplag/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Ingestor stores submissions.
type Ingestor interface {
	ProcessSubmission(ctx context.Context, submission *models.Submission) error
}

// NormalizedReader reads stored normalized copies.
type NormalizedReader interface {
	GetCopy(ctx context.Context, corpusID, path string) (*models.NormalizedCopy, error)
}

// Services are the dependencies of the HTTP handlers.
type Services struct {
	Ingest     Ingestor
	Corpus     session.Corpus
	Store      session.Store
	Runner     *session.Runner
	Normalized NormalizedReader
}

// Handler holds dependencies for handlers
type Handler struct {
	cfg            *config.Config
	svc            Services
	computeSem     chan struct{} // Semaphore for bounded concurrency
	computeTimeout time.Duration
}

// NewHandler creates a new handler
func NewHandler(cfg *config.Config, svc Services) *Handler {
	// Create semaphore for bounded concurrency
	sem := make(chan struct{}, cfg.MaxConcurrentCompute)

	return &Handler{
		cfg:            cfg,
		svc:            svc,
		computeSem:     sem,
		computeTimeout: cfg.ComputationTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// CompareResponse is the synchronous comparison of two inline files.
type CompareResponse struct {
	Comparison models.PairReport `json:"comparison"`
	Features   []string          `json:"features"`
	Threshold  string            `json:"threshold"`
	Issues     []string          `json:"issues,omitempty"`
}

// Compare normalizes two inline files and compares them.
func (h *Handler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	opts, ok := h.resolveOptions(c, req.Algorithm, req.Features, req.Threshold, nil)
	if !ok {
		return
	}

	var issues []string
	a := parser.Parse(req.Files[0].Name, req.Files[0].Source)
	b := parser.Parse(req.Files[1].Name, req.Files[1].Source)
	for _, f := range []*elements.JavaFile{a, b} {
		if err := normalize.Apply(f, opts.Features); err != nil {
			issues = append(issues, err.Error())
		}
	}

	comparison := plagiarism.Compare(a, b, opts.Algorithm, opts.Threshold)
	c.JSON(http.StatusOK, CompareResponse{
		Comparison: session.NewPairReport(comparison, true),
		Features:   featureNames(opts.Features),
		Threshold:  opts.Threshold.String(),
		Issues:     issues,
	})
}

// Submit stores one submission of a corpus.
func (h *Handler) Submit(c *gin.Context) {
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	err := h.svc.Ingest.ProcessSubmission(c.Request.Context(), &sub)
	switch {
	case errors.Is(err, models.ErrInvalidSubmission):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_SUBMISSION"})
		return
	case errors.Is(err, repository.ErrDuplicateSubmission):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DUPLICATE_SUBMISSION"})
		return
	case err != nil:
		log.Error().Err(err).Str("corpusId", sub.CorpusID).Msg("Failed to store submission")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store submission", Code: "INTERNAL_ERROR"})
		return
	}
	metrics.SubmissionsIngested.WithLabelValues("api").Inc()

	c.JSON(http.StatusCreated, gin.H{
		"submissionId": sub.SubmissionID,
		"path":         sub.Path(),
		"diagnostics":  sub.Diagnostics,
	})
}

// Compute starts an asynchronous session over a stored corpus.
func (h *Handler) Compute(c *gin.Context) {
	var req models.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	opts, ok := h.resolveOptions(c, req.Algorithm, req.Features, req.Threshold, req.Prefilter)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	count, err := h.svc.Corpus.CountSubmissionsByCorpusID(ctx, req.CorpusID)
	if err != nil {
		log.Error().Err(err).Str("corpusId", req.CorpusID).Msg("Failed to check corpus")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to check corpus",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No submissions found for corpusId",
			Code:  "CORPUS_NOT_FOUND",
		})
		return
	}

	// Acquire semaphore (bounded concurrency)
	select {
	case h.computeSem <- struct{}{}:
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	sessionID := uuid.NewString()
	if err := h.svc.Store.SetStep(ctx, sessionID, models.StepInitiated); err != nil {
		log.Warn().Err(err).Str("sessionId", sessionID).Msg("Failed to update initiated status")
	}

	c.JSON(http.StatusAccepted, models.ComputeResponse{
		SessionID: sessionID,
		CorpusID:  req.CorpusID,
		Step:      models.StepInitiated,
	})

	go h.processComputation(sessionID, req.CorpusID, opts)
}

// processComputation runs a session in the background
func (h *Handler) processComputation(sessionID, corpusID string, opts session.Options) {
	defer func() { <-h.computeSem }() // Release semaphore

	ctx, cancel := context.WithTimeout(context.Background(), h.computeTimeout)
	defer cancel()

	if _, err := h.svc.Runner.Run(ctx, sessionID, corpusID, opts); err != nil {
		log.Error().Err(err).Str("sessionId", sessionID).Msg("Computation failed")
		return
	}
	log.Debug().Str("sessionId", sessionID).Msg("Computation completed successfully")
}

func (h *Handler) SessionStatus(c *gin.Context) {
	sessionID := c.Param("id")
	step, err := h.svc.Store.Step(c.Request.Context(), sessionID)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown or expired session", Code: "SESSION_NOT_FOUND"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("sessionId", sessionID).Msg("Failed to read session status")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read session status", Code: "INTERNAL_ERROR"})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{SessionID: sessionID, Step: step})
}

func (h *Handler) SessionReport(c *gin.Context) {
	sessionID := c.Param("id")
	ctx := c.Request.Context()

	report, err := h.svc.Store.Report(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		if step, serr := h.svc.Store.Step(ctx, sessionID); serr == nil {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Session is " + string(step), Code: "REPORT_NOT_READY"})
			return
		}
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown or expired session", Code: "SESSION_NOT_FOUND"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("sessionId", sessionID).Msg("Failed to read session report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read session report", Code: "INTERNAL_ERROR"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// NormalizedCopy returns the stored normalized text of one corpus path.
func (h *Handler) NormalizedCopy(c *gin.Context) {
	corpusID := c.Param("corpusId")
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "path is required", Code: "INVALID_REQUEST"})
		return
	}

	doc, err := h.svc.Normalized.GetCopy(c.Request.Context(), corpusID, path)
	if err != nil {
		log.Error().Err(err).Str("corpusId", corpusID).Str("path", path).Msg("Failed to read normalized copy")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read normalized copy", Code: "INTERNAL_ERROR"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No normalized copy for path", Code: "COPY_NOT_FOUND"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// resolveOptions fills request settings from the configured defaults and
// writes a 400 response when one is invalid.
func (h *Handler) resolveOptions(c *gin.Context, algorithm string, features []string, threshold *float64, prefilter *bool) (session.Options, bool) {
	opts := session.Options{
		Features:   h.cfg.DefaultFeatures,
		Threshold:  h.cfg.MethodThreshold,
		Prefilter:  h.cfg.PrefilterCandidates,
		MinOverlap: h.cfg.PrefilterMinOverlap,
	}

	if algorithm == "" {
		algorithm = h.cfg.DefaultAlgorithm
	}
	alg, err := plagiarism.NewAlgorithm(algorithm)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_ALGORITHM"})
		return opts, false
	}
	opts.Algorithm = alg

	if len(features) > 0 {
		parsed, err := normalize.ParseFeatures(features)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_FEATURE"})
			return opts, false
		}
		opts.Features = parsed
	}

	if threshold != nil {
		t, err := plagiarism.NewThreshold(*threshold)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_THRESHOLD"})
			return opts, false
		}
		opts.Threshold = t
	}

	if prefilter != nil {
		opts.Prefilter = *prefilter
	}
	return opts, true
}

func featureNames(features []normalize.Feature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	return names
}
