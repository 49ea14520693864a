package api

import (
	"context"
	"net/http"
	"time"

	models "SignalDash/internal/domain/models"
	domrepo "SignalDash/internal/domain/repository"
	"SignalDash/internal/render/snapshot"
	"SignalDash/internal/service/signallog"
	xhttp "SignalDash/pkg/http"
	xlogger "SignalDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

const pingTimeout = 2 * time.Second

// DashboardEchoHandler serves the latest dashboard projection over HTTP.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	holder  *snapshot.Holder
	backend domrepo.Pinger
	push    domrepo.Pinger
}

func NewDashboardEchoHandler(logger *xlogger.Logger, holder *snapshot.Holder, backend domrepo.Pinger) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger.Component("api"), holder: holder, backend: backend}
}

// WithPushCheck adds the push transport's own reachability to /health.
func (h *DashboardEchoHandler) WithPushCheck(p domrepo.Pinger) *DashboardEchoHandler {
	h.push = p
	return h
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/dashboard", h.Dashboard)
}

// Dashboard returns the merged projection with the signal list narrowed by ?asset and ?q.
func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.holder.Ready() {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("dashboard is still loading"))
	}

	p := h.holder.Latest()
	resp := models.DashboardResponse{
		Asset:      req.Asset,
		Query:      req.Query,
		Assets:     []string{},
		Projection: p,
	}
	if p.Signals != nil {
		events := make([]models.SignalEvent, 0, len(p.Signals.Rows))
		rows := make([]models.SignalRow, 0, len(p.Signals.Rows))
		for _, row := range p.Signals.Rows {
			events = append(events, row.Event)
			if signallog.MatchesAsset(row.Event, req.Asset) && signallog.Matches(row.Event, req.Query) {
				rows = append(rows, row)
			}
		}
		if assets := signallog.Assets(events); assets != nil {
			resp.Assets = assets
		}
		// copy so the held projection is never touched
		resp.Projection.Signals = &models.SignalsView{Rows: rows, HistorySize: p.Signals.HistorySize}
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, resp)
}

// Health reports the lifecycle phase and, when configured, backend reachability.
func (h *DashboardEchoHandler) Health(c echo.Context) error {
	p := h.holder.Latest()
	resp := models.HealthResponse{Phase: p.Phase}
	if p.Signals != nil {
		resp.VisibleSignals = len(p.Signals.Rows)
	}
	switch p.Phase {
	case models.PhaseLive:
		resp.Status = "ok"
	case models.PhaseDegraded:
		resp.Status = "degraded"
	default:
		resp.Status = "starting"
	}

	if h.backend != nil {
		resp.Backend = h.reach(c.Request().Context(), "backend", h.backend)
	}
	if h.push != nil {
		resp.Push = h.reach(c.Request().Context(), "push", h.push)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DashboardEchoHandler) reach(ctx context.Context, name string, p domrepo.Pinger) string {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx, pingTimeout); err != nil {
		h.logger.Warn(name+" ping failed", xlogger.Error(err))
		return "unreachable"
	}
	return "ok"
}
