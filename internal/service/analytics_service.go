package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/logger"
)

const (
	defaultStatsWindow  = 30 * 24 * time.Hour
	defaultExportWindow = 365 * 24 * time.Hour
	defaultRetention    = 365
	popularPagesLimit   = 10
	recentEventsLimit   = 20
	viewsByDayLimit     = 30
	defaultEventType    = "pageview"
)

// TrackInput is one tracked interaction sent by the public site.
type TrackInput struct {
	SessionID string          `json:"sessionId"`
	PagePath  string          `json:"pagePath"`
	PageTitle string          `json:"pageTitle"`
	Referrer  string          `json:"referrer"`
	UserAgent string          `json:"userAgent"`
	Language  string          `json:"language"`
	Country   string          `json:"country"`
	EventType string          `json:"eventType"`
	Metadata  json.RawMessage `json:"metadata"`
}

// ConsentInput is the cookie choice of a visitor session.
type ConsentInput struct {
	SessionID string `json:"sessionId"`
	Analytics bool   `json:"analytics"`
	Marketing bool   `json:"marketing"`
}

// PathViews is a view count for one page.
type PathViews struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DayViews is a view count for one UTC day.
type DayViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// RecentEvent is a page view shown in the recent activity list.
type RecentEvent struct {
	ID        string    `json:"id"`
	PagePath  string    `json:"pagePath"`
	PageTitle string    `json:"pageTitle"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats summarises page views over a period.
type Stats struct {
	TotalPageViews int           `json:"totalPageViews"`
	UniqueVisitors int           `json:"uniqueVisitors"`
	PopularPages   []PathViews   `json:"popularPages"`
	RecentEvents   []RecentEvent `json:"recentEvents"`
	ViewsByDay     []DayViews    `json:"viewsByDay"`
	ViewsByPage    []PathViews   `json:"viewsByPage"`
}

// AnalyticsService records consent-gated events and reports on them.
type AnalyticsService struct {
	repo AnalyticsRepository
	log  logger.Logger
	now  func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo AnalyticsRepository, log logger.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, log: log, now: time.Now}
}

// SaveConsent stores the cookie choice of a session.
func (s *AnalyticsService) SaveConsent(ctx context.Context, in ConsentInput) error {
	if in.SessionID == "" {
		return invalid("Session ID is required")
	}
	return s.repo.SaveConsent(ctx, &data.CookieConsent{SessionID: in.SessionID, Analytics: in.Analytics, Marketing: in.Marketing})
}

// Track records an event when the session consented to analytics. It
// reports whether the event was stored. Storage failures are logged and
// swallowed so tracking never breaks the public site.
func (s *AnalyticsService) Track(ctx context.Context, in TrackInput) (bool, error) {
	if in.SessionID == "" || in.PagePath == "" {
		return false, invalid("Session ID and page path are required")
	}
	consent, err := s.repo.GetConsent(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, data.ErrNotFound) {
			s.log.Error(err, "failed to read analytics consent")
		}
		return false, nil
	}
	if !consent.Analytics {
		return false, nil
	}

	event := &data.AnalyticsEvent{
		SessionID: in.SessionID,
		PagePath:  in.PagePath,
		PageTitle: in.PageTitle,
		Referrer:  in.Referrer,
		UserAgent: in.UserAgent,
		Language:  in.Language,
		Country:   in.Country,
		EventType: in.EventType,
	}
	if event.EventType == "" {
		event.EventType = defaultEventType
	}
	if len(in.Metadata) > 0 && json.Valid(in.Metadata) && string(in.Metadata) != "null" {
		event.Metadata = data.JSONText(in.Metadata)
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		s.log.Error(err, "failed to store analytics event")
		return false, nil
	}
	return true, nil
}

// window fills in missing bounds: to defaults to now, from to to minus span.
func (s *AnalyticsService) window(from, to time.Time, span time.Duration) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-span)
	}
	if from.After(to) {
		return from, to, invalid("Start date must be before end date")
	}
	return from, to, nil
}

// Stats reports page views in [from, to]. Zero bounds default to the last
// 30 days.
func (s *AnalyticsService) Stats(ctx context.Context, from, to time.Time) (*Stats, error) {
	from, to, err := s.window(from, to, defaultStatsWindow)
	if err != nil {
		return nil, err
	}
	st := &Stats{}
	if st.TotalPageViews, err = s.repo.CountPageViews(ctx, from, to); err != nil {
		return nil, err
	}
	if st.UniqueVisitors, err = s.repo.CountVisitors(ctx, from, to); err != nil {
		return nil, err
	}

	byPage, err := s.repo.PageViewsByPath(ctx, from, to, 0)
	if err != nil {
		return nil, err
	}
	st.ViewsByPage = make([]PathViews, 0, len(byPage))
	for _, p := range byPage {
		st.ViewsByPage = append(st.ViewsByPage, PathViews{Path: p.PagePath, Views: p.Views})
	}
	st.PopularPages = st.ViewsByPage[:min(popularPagesLimit, len(st.ViewsByPage))]

	recent, err := s.repo.RecentPageViews(ctx, from, to, recentEventsLimit)
	if err != nil {
		return nil, err
	}
	st.RecentEvents = make([]RecentEvent, 0, len(recent))
	for _, e := range recent {
		st.RecentEvents = append(st.RecentEvents, RecentEvent{ID: e.ID, PagePath: e.PagePath, PageTitle: e.PageTitle, CreatedAt: e.CreatedAt})
	}

	times, err := s.repo.PageViewTimes(ctx, from, to)
	if err != nil {
		return nil, err
	}
	st.ViewsByDay = viewsByDay(times)
	return st, nil
}

// viewsByDay groups timestamps by UTC date, newest day first, keeping at
// most 30 days.
func viewsByDay(times []time.Time) []DayViews {
	counts := map[string]int{}
	for _, t := range times {
		counts[t.UTC().Format(time.DateOnly)]++
	}
	days := make([]DayViews, 0, len(counts))
	for d, n := range counts {
		days = append(days, DayViews{Date: d, Views: n})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days[:min(viewsByDayLimit, len(days))]
}

// Export returns every event in [from, to], newest first. Zero bounds
// default to the last year.
func (s *AnalyticsService) Export(ctx context.Context, from, to time.Time) ([]data.AnalyticsEvent, error) {
	from, to, err := s.window(from, to, defaultExportWindow)
	if err != nil {
		return nil, err
	}
	return s.repo.EventsBetween(ctx, from, to)
}

// DeleteRange removes events in [from, to]. A zero from means the beginning
// of time and a zero to means now.
func (s *AnalyticsService) DeleteRange(ctx context.Context, from, to time.Time) (int64, error) {
	if from.IsZero() {
		from = time.Unix(0, 0).UTC()
	}
	from, to, err := s.window(from, to, 0)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}
	s.log.Info(fmt.Sprintf("deleted %d analytics events", n))
	return n, nil
}

// DeleteOlderThan removes events older than days. Non-positive values use
// one year.
func (s *AnalyticsService) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = defaultRetention
	}
	cutoff := s.now().AddDate(0, 0, -days)
	n, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info(fmt.Sprintf("deleted %d analytics events older than %d days", n, days))
	return n, nil
}
