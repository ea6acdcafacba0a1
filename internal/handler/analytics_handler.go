package handler

import (
	"fmt"
	"net/http"
	"time"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/service"
)

// AnalyticsHandler serves consent, tracking and the admin reports.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) consent(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.ConsentInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	if err := h.analytics.SaveConsent(r.Context(), in); err != nil {
		return serviceError(err, "Failed to save consent")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// track answers 200 whether or not the event was stored.
func (h *AnalyticsHandler) track(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.TrackInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	if in.UserAgent == "" {
		in.UserAgent = r.UserAgent()
	}
	if in.Referrer == "" {
		in.Referrer = r.Referer()
	}
	tracked, err := h.analytics.Track(r.Context(), in)
	if err != nil {
		return serviceError(err, "Failed to track event")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true, "tracked": tracked})
}

// window reads the optional from/to query parameters.
func window(r *http.Request) (time.Time, time.Time, *middleware.AppError) {
	from, appErr := queryTime(r, "from", false)
	if appErr != nil {
		return from, from, appErr
	}
	to, appErr := queryTime(r, "to", true)
	return from, to, appErr
}

func (h *AnalyticsHandler) stats(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	from, to, appErr := window(r)
	if appErr != nil {
		return appErr
	}
	st, err := h.analytics.Stats(r.Context(), from, to)
	if err != nil {
		return serviceError(err, "Failed to fetch analytics")
	}
	return writeJSON(w, http.StatusOK, st)
}

// export downloads the raw events as a JSON attachment.
func (h *AnalyticsHandler) export(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	from, to, appErr := window(r)
	if appErr != nil {
		return appErr
	}
	events, err := h.analytics.Export(r.Context(), from, to)
	if err != nil {
		return serviceError(err, "Failed to export analytics")
	}
	name := fmt.Sprintf("analytics-%s.json", time.Now().UTC().Format(time.DateOnly))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	return writeJSON(w, http.StatusOK, map[string]interface{}{"events": events, "count": len(events)})
}

// delete removes events in the from/to window, or events older than
// ?olderThanDays=N when given.
func (h *AnalyticsHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var (
		n   int64
		err error
	)
	if raw := r.URL.Query().Get("olderThanDays"); raw != "" {
		var days int
		if _, scanErr := fmt.Sscanf(raw, "%d", &days); scanErr != nil || days <= 0 {
			return badRequest(scanErr, "olderThanDays must be a positive number")
		}
		n, err = h.analytics.DeleteOlderThan(r.Context(), days)
	} else {
		from, to, appErr := window(r)
		if appErr != nil {
			return appErr
		}
		n, err = h.analytics.DeleteRange(r.Context(), from, to)
	}
	if err != nil {
		return serviceError(err, "Failed to delete analytics")
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deleted": n})
}
