package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"fieldlex-client/internal/catalog"
	"fieldlex-client/internal/config"
	"fieldlex-client/internal/excel"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/queue"
	"fieldlex-client/internal/remote"
	"fieldlex-client/internal/store"
	"fieldlex-client/internal/sync"
	"fieldlex-client/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler exposes the submission pipeline to the collection UI over
// localhost HTTP. The UI owns presentation; everything here is plumbing.
type Handler struct {
	cfg      *config.Config
	svc      *sync.Service
	auth     *remote.Authenticator
	catalogs *catalog.Service
	queue    *queue.Offline
	store    *store.Submissions
	importer *excel.Importer
	log      zerolog.Logger
}

func NewHandler(
	cfg *config.Config,
	svc *sync.Service,
	auth *remote.Authenticator,
	catalogs *catalog.Service,
	q *queue.Offline,
	st *store.Submissions,
) *Handler {
	return &Handler{
		cfg:      cfg,
		svc:      svc,
		auth:     auth,
		catalogs: catalogs,
		queue:    q,
		store:    st,
		importer: excel.NewImporter(svc),
		log:      logger.Component("api"),
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": resp.User})
}

func (h *Handler) Profile(c *gin.Context) {
	profile, ok := h.auth.CachedProfile()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not logged in"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) Submit(c *gin.Context) {
	var form model.FormState
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	outcome, err := h.svc.Submit(c.Request.Context(), form)
	if err != nil {
		h.fail(c, err)
		return
	}

	if outcome.Queued {
		// Distinct from a hard failure: the record is safe and will sync.
		c.JSON(http.StatusAccepted, gin.H{
			"message":    "Saved locally, will sync later",
			"submission": outcome.Submission,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"submission": outcome.Submission})
}

func (h *Handler) ListSubmissions(c *gin.Context) {
	subs, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

func (h *Handler) ListQueue(c *gin.Context) {
	entries, err := h.queue.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

func (h *Handler) ClearQueue(c *gin.Context) {
	// Destructive and irreversible; the UI confirms intent and says so
	// explicitly here.
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pass confirm=true to clear the queue"})
		return
	}

	if err := h.queue.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear queue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Offline queue cleared"})
}

func (h *Handler) TriggerSync(c *gin.Context) {
	report, err := h.svc.SyncAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing spreadsheet file"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	report, err := h.importer.Import(c.Request.Context(), data)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Districts(c *gin.Context) {
	out, err := h.catalogs.Districts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Tehsils(c *gin.Context) {
	out, err := h.catalogs.Tehsils(c.Request.Context(), c.Query("districtId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Villages(c *gin.Context) {
	out, err := h.catalogs.Villages(c.Request.Context(), c.Query("tehsilId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Languages(c *gin.Context) {
	out, err := h.catalogs.Languages(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Words(c *gin.Context) {
	out, err := h.catalogs.Words(c.Request.Context(), c.Query("languageId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Reference(c *gin.Context) {
	ref, err := h.catalogs.LoadReference(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

func (h *Handler) RemoteSubmissions(c *gin.Context) {
	filter := model.SubmissionFilter{
		Sort: c.Query("sort"),
	}
	if v := c.Query("page"); v != "" {
		filter.Page, _ = strconv.Atoi(v)
	}
	if v := c.Query("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := c.QueryArray("userIds"); len(v) > 0 {
		filter.UserIDs = v
	}
	if v := c.QueryArray("statuses"); len(v) > 0 {
		filter.Statuses = v
	}

	page, err := h.catalogs.Submissions(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

// fail translates the pipeline error taxonomy into HTTP for the UI.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := errors.KindOf(err)

	status := http.StatusBadGateway
	switch kind {
	case errors.KindValidation, errors.KindClientError:
		status = http.StatusBadRequest
	case errors.KindUnauthorized:
		status = http.StatusUnauthorized
	case errors.KindTimeout:
		status = http.StatusGatewayTimeout
	}

	if kind == errors.KindNetwork {
		status = http.StatusServiceUnavailable
	}
	if stderrors.Is(err, errors.ErrSyncInFlight) {
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
