package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cati-platform/internal/audit"
	"cati-platform/internal/auth"
	"cati-platform/internal/calls"
	"cati-platform/internal/performance"
	"cati-platform/internal/rbac"
	"cati-platform/internal/roster"
	"cati-platform/internal/telephony"
	"cati-platform/pkg/logger"
	"cati-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// AttemptStore is the write side for provider callbacks and CDR backfill.
type AttemptStore interface {
	GetAttempt(ctx context.Context, id string) (calls.CallAttempt, bool, error)
	SaveAttempt(ctx context.Context, a calls.CallAttempt) error
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth        *auth.Manager
	Performance *performance.Service
	Cache       *performance.Cache
	Roster      *roster.Service
	Audit       *audit.Service
	Dialer      *telephony.Client
	Attempts    AttemptStore

	// RDB backs the build concurrency cap; nil disables capping.
	RDB                  *redis.Client
	MaxConcurrentReports int

	// WebhookSecret guards the public callback endpoint.
	WebhookSecret string
}

const reportCapKey = "cap:report_builds"

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Performance reports ---

// CampaignPerformance serves the reconciled report for one campaign.
// Supervisors see only the interviewers on their roster; an empty roster
// yields an all-zero report, not an error.
func (h Handlers) CampaignPerformance(c *gin.Context) {
	req, ok := h.performanceRequest(c)
	if !ok {
		return
	}

	scope, err := h.Performance.ScopeFor(req)
	if err != nil {
		h.writePerformanceError(c, err)
		return
	}
	key := performance.CacheKey(scope)
	if report, hit := h.Cache.Get(c.Request.Context(), key); hit {
		c.JSON(http.StatusOK, report)
		return
	}

	if h.RDB != nil && h.MaxConcurrentReports > 0 {
		ok, err := utils.AcquireConcurrencyCap(c.Request.Context(), h.RDB, reportCapKey, h.MaxConcurrentReports, 3*time.Minute)
		if err == nil {
			if !ok {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many concurrent report builds"})
				return
			}
			defer func() {
				// Release must not depend on the request context; a client
				// that hung up would otherwise leak the slot until TTL.
				_ = utils.ReleaseConcurrencyCap(context.Background(), h.RDB, reportCapKey)
			}()
		}
		// A redis failure degrades to uncapped builds rather than refusing
		// the report.
	}

	report, err := h.Performance.CampaignPerformance(c.Request.Context(), req)
	if err != nil {
		h.writePerformanceError(c, err)
		return
	}
	h.Cache.Set(c.Request.Context(), key, report)

	if h.Audit != nil {
		uid, _ := auth.UserID(c.Request.Context())
		role, _ := auth.Role(c.Request.Context())
		meta := fmt.Sprintf(`{"rows":%d,"call_records":%d}`, len(report.Rows), report.TotalCallRecords)
		_ = h.Audit.LogReportBuild(c.Request.Context(), uid, role, c.ClientIP(), req.CampaignID, meta)
	}
	c.JSON(http.StatusOK, report)
}

// ExportPerformance streams the report as a spreadsheet download.
func (h Handlers) ExportPerformance(c *gin.Context) {
	req, ok := h.performanceRequest(c)
	if !ok {
		return
	}
	report, err := h.Performance.CampaignPerformance(c.Request.Context(), req)
	if err != nil {
		h.writePerformanceError(c, err)
		return
	}

	f, err := performance.ExportWorkbook(report)
	if err != nil {
		logger.FromGin(c).Error("export failed", "campaign_id", req.CampaignID, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	defer f.Close()

	if h.Audit != nil {
		uid, _ := auth.UserID(c.Request.Context())
		role, _ := auth.Role(c.Request.Context())
		_ = h.Audit.LogReportExport(c.Request.Context(), uid, role, c.ClientIP(), req.CampaignID)
	}

	filename := fmt.Sprintf("performance-%s.xlsx", req.CampaignID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		logger.FromGin(c).Error("export write failed", "campaign_id", req.CampaignID, "error", err)
	}
}

// performanceRequest parses query parameters and resolves the caller's
// access scope. Supervisors are restricted to their managed roster.
func (h Handlers) performanceRequest(c *gin.Context) (performance.Request, bool) {
	if h.Performance == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "performance not configured"})
		return performance.Request{}, false
	}
	req := performance.Request{
		CampaignID: c.Param("campaign_id"),
		FromDate:   c.Query("from_date"),
		ToDate:     c.Query("to_date"),
	}
	if raw := c.Query("interviewer_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.InterviewerIDs = append(req.InterviewerIDs, id)
			}
		}
	}
	if c.Query("filter_mode") == string(performance.FilterExclude) {
		req.Mode = performance.FilterExclude
	}

	role, _ := auth.Role(c.Request.Context())
	if rbac.IsScopedRole(role) {
		if h.Roster == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "roster not configured"})
			return performance.Request{}, false
		}
		uid, err := auth.UserID(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
			return performance.Request{}, false
		}
		managed, err := h.Roster.ManagedInterviewerIDs(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "access resolution failed"})
			return performance.Request{}, false
		}
		req.AccessInterviewerIDs = managed
	}
	return req, true
}

func (h Handlers) writePerformanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, performance.ErrInvalidRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, performance.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
	case errors.Is(err, performance.ErrTimeout):
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "report timed out, narrow the date range"})
	default:
		logger.FromGin(c).Error("report failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
	}
}

// --- Roster ---

// ImportRoster accepts a multipart workbook upload and registers the rows
// under the uploading supervisor.
func (h Handlers) ImportRoster(c *gin.Context) {
	if h.Roster == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "roster not configured"})
		return
	}
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer file.Close()

	result, err := h.Roster.Import(c.Request.Context(), file, uid)
	if err != nil {
		if errors.Is(err, roster.ErrEmptyWorkbook) || errors.Is(err, roster.ErrMissingColumn) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.FromGin(c).Error("roster import failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	if h.Audit != nil {
		role, _ := auth.Role(c.Request.Context())
		meta := fmt.Sprintf(`{"imported":%d,"skipped":%d}`, result.Imported, result.Skipped)
		_ = h.Audit.LogRosterImport(c.Request.Context(), uid, role, c.ClientIP(), meta)
	}
	c.JSON(http.StatusOK, result)
}

// --- Provider callbacks ---

// DialerStatusCallback ingests a provider status callback. The endpoint is
// public; a shared secret header stands in for provider signature checks.
func (h Handlers) DialerStatusCallback(c *gin.Context) {
	if h.Attempts == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "storage not configured"})
		return
	}
	if h.WebhookSecret != "" && c.GetHeader("X-Webhook-Secret") != h.WebhookSecret {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad webhook secret"})
		return
	}

	form, err := telephony.ParseStatusCallback(c.Request)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid callback"})
		return
	}
	incoming := form.ToCallAttempt(time.Now())
	if incoming.ID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "call id required"})
		return
	}

	ctx := c.Request.Context()
	attempt := incoming
	if existing, found, err := h.Attempts.GetAttempt(ctx, incoming.ID); err == nil && found {
		// A delivered callback is authoritative for status fields; identity
		// and linkage fields from the first sighting are kept.
		existing.StatusCode = incoming.StatusCode
		existing.StatusDescription = incoming.StatusDescription
		existing.HangupCause = incoming.HangupCause
		existing.HangupReason = incoming.HangupReason
		existing.HangupByOriginator = incoming.HangupByOriginator
		existing.TalkDurationSeconds = incoming.TalkDurationSeconds
		attempt = existing
	}
	if err := h.Attempts.SaveAttempt(ctx, attempt); err != nil {
		logger.FromGin(c).Error("callback store failed", "call_id", attempt.ID, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "store failed"})
		return
	}

	if h.Audit != nil {
		_ = h.Audit.LogStatusCallback(ctx, c.ClientIP(), attempt.CampaignID, attempt.ID)
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// --- CDR backfill ---

// BackfillCDRs pulls detail records from the provider for attempts whose
// callbacks were lost, enriching existing rows and creating missing ones.
func (h Handlers) BackfillCDRs(c *gin.Context) {
	if h.Dialer == nil || h.Attempts == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "backfill not configured"})
		return
	}
	campaignID := c.Param("campaign_id")
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
		return
	}

	ctx := c.Request.Context()
	cdrs, err := h.Dialer.FetchCDRs(ctx, campaignID, from, to)
	if err != nil {
		logger.FromGin(c).Error("cdr fetch failed", "campaign_id", campaignID, "error", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "provider fetch failed"})
		return
	}

	var enriched, created int
	for _, cdr := range cdrs {
		if cdr.CallID == "" {
			continue
		}
		existing, found, err := h.Attempts.GetAttempt(ctx, cdr.CallID)
		if err != nil {
			logger.FromGin(c).Error("backfill lookup failed", "call_id", cdr.CallID, "error", err)
			continue
		}
		if found {
			telephony.EnrichAttempt(&existing, cdr)
			if err := h.Attempts.SaveAttempt(ctx, existing); err == nil {
				enriched++
			}
			continue
		}
		if err := h.Attempts.SaveAttempt(ctx, cdr.ToCallAttempt(campaignID)); err == nil {
			created++
		}
	}
	c.JSON(http.StatusOK, gin.H{"fetched": len(cdrs), "enriched": enriched, "created": created})
}
