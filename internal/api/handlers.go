package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/config"
	"github.com/zapponejosh/hebcal-api/internal/database"
	"github.com/zapponejosh/hebcal-api/internal/display"
	"github.com/zapponejosh/hebcal-api/internal/logger"
)

// maxRangeDays caps GET /api/v1/range.
const maxRangeDays = 90

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db        *database.DB
	conv      *calendar.Converter
	formatter *display.Formatter
	metrics   *Metrics
	validate  *validator.Validate
	cfg       *config.Config
	logger    *slog.Logger

	// now is the clock used for "today"; tests replace it.
	now func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, conv *calendar.Converter, cfg *config.Config, logger *slog.Logger) *Handlers {
	if conv == nil {
		conv = calendar.Default()
	}
	return &Handlers{
		db:        db,
		conv:      conv,
		formatter: display.NewFormatter(conv),
		metrics:   NewMetrics(conv),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Metrics returns the collectors fed by the handlers.
func (h *Handlers) Metrics() *Metrics {
	return h.metrics
}

// =============================================================================
// Error helpers
// =============================================================================

func (h *Handlers) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}

// writeCalendarError reports err as a client error when the engine or
// formatter rejected the input, and as a 500 otherwise.
func (h *Handlers) writeCalendarError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, ok := classifyError(err)
	if !ok {
		h.log(r).Error("calendar operation failed",
			slog.Any("error", err),
			slog.String("path", r.URL.Path),
		)
		WriteInternalError(w, "Calendar computation failed")
		return
	}
	WriteError(w, status, err.Error(), code)
}

// writeInputError is writeCalendarError for request parsing, where
// unclassified errors are the caller's fault.
func (h *Handlers) writeInputError(w http.ResponseWriter, r *http.Request, err error) {
	if _, _, ok := classifyError(err); ok {
		h.writeCalendarError(w, r, err)
		return
	}
	WriteBadRequest(w, err.Error())
}

// checkYear rejects Hebrew years outside the configured window.
func (h *Handlers) checkYear(w http.ResponseWriter, year int) bool {
	if h.cfg.YearInRange(year) {
		return true
	}
	WriteError(w, http.StatusBadRequest,
		fmt.Sprintf("Hebrew year %d is outside the supported range %d-%d", year, h.cfg.MinYear, h.cfg.MaxYear),
		CodeYearOutOfRange)
	return false
}

// intParam parses a path parameter as an integer.
func intParam(r *http.Request, name string) (int, error) {
	s := chi.URLParam(r, name)
	if s == "" {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", name, s)
	}
	return n, nil
}

// intQuery parses a required query parameter as an integer.
func intQuery(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, fmt.Errorf("%s query parameter is required", name)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", name, s)
	}
	return n, nil
}

// =============================================================================
// Service
// =============================================================================

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.log(r).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}
	version, err := h.db.SchemaVersion(r.Context())
	if err != nil {
		h.log(r).Warn("schema version unavailable", slog.Any("error", err))
	}

	WriteSuccess(w, map[string]interface{}{
		"status":         "healthy",
		"schema_version": version,
		"year_range":     []int{h.cfg.MinYear, h.cfg.MaxYear},
		"cache_active":   h.conv.Cached(),
	})
}

// =============================================================================
// Conversion
// =============================================================================

// convertGregorian writes the DateView for a Gregorian date.
func (h *Handlers) convertGregorian(w http.ResponseWriter, r *http.Request, g calendar.GregorianDate) {
	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	hd, err := h.conv.ToHebrew(g)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	if !h.checkYear(w, hd.Year) {
		return
	}
	h.metrics.conversions.WithLabelValues(toHebrew).Inc()

	view, err := h.dateView(g, hd, opts)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	WriteSuccess(w, view)
}

// GetToday handles GET /api/v1/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	h.convertGregorian(w, r, calendar.FromTime(h.now()))
}

// ConvertGregorian handles GET /api/v1/convert/gregorian/{YYYY-MM-DD}
func (h *Handlers) ConvertGregorian(w http.ResponseWriter, r *http.Request) {
	g, err := calendar.ParseGregorian(chi.URLParam(r, "date"))
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	h.convertGregorian(w, r, g)
}

// ConvertHebrew handles GET /api/v1/convert/hebrew/{year}/{month}/{day}
func (h *Handlers) ConvertHebrew(w http.ResponseWriter, r *http.Request) {
	var hd calendar.HebrewDate
	var err error
	if hd.Year, err = intParam(r, "year"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if hd.Month, err = intParam(r, "month"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if hd.Day, err = intParam(r, "day"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.checkYear(w, hd.Year) {
		return
	}

	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	g, err := h.conv.ToGregorian(hd)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	h.metrics.conversions.WithLabelValues(toGregorian).Inc()

	view, err := h.dateView(g, hd, opts)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	WriteSuccess(w, view)
}

// GetRange handles GET /api/v1/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	start, err := calendar.ParseGregorian(startStr)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	end, err := calendar.ParseGregorian(endStr)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}

	first, last := start.Fixed(), end.Fixed()
	if first > last {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}
	if last-first > maxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", maxRangeDays))
		return
	}

	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	days := make([]DateView, 0, last-first+1)
	for rd := first; rd <= last; rd++ {
		hd, err := h.conv.FromFixed(rd)
		if err != nil {
			h.writeCalendarError(w, r, err)
			return
		}
		if !h.checkYear(w, hd.Year) {
			return
		}
		view, err := h.dateView(calendar.GregorianFromFixed(rd), hd, opts)
		if err != nil {
			h.writeCalendarError(w, r, err)
			return
		}
		days = append(days, view)
	}
	h.metrics.conversions.WithLabelValues(toHebrew).Add(float64(len(days)))

	WriteSuccess(w, map[string]interface{}{
		"start": start.String(),
		"end":   end.String(),
		"days":  days,
	})
}

// =============================================================================
// Display
// =============================================================================

// FormatDate handles GET /api/v1/format?year=&month=&day=
func (h *Handlers) FormatDate(w http.ResponseWriter, r *http.Request) {
	var hd calendar.HebrewDate
	var err error
	if hd.Year, err = intQuery(r, "year"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if hd.Month, err = intQuery(r, "month"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if hd.Day, err = intQuery(r, "day"); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.checkYear(w, hd.Year) {
		return
	}

	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	text, err := h.formatter.Format(hd, opts.locale, opts.pattern, opts.style)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"hebrew":  hd,
		"locale":  opts.locale,
		"pattern": opts.pattern,
		"display": text,
	})
}

// GetGematria handles GET /api/v1/gematria/{number}
func (h *Handlers) GetGematria(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "number")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	view, err := gematriaView(n)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	WriteSuccess(w, view)
}

// =============================================================================
// Years and months
// =============================================================================

// GetYear handles GET /api/v1/years/{year}
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.checkYear(w, year) {
		return
	}

	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	info, err := h.conv.Describe(year)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	view, err := yearView(info, opts.locale, opts.style.Ashkenazi)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	WriteSuccess(w, view)
}

// GetMonth handles GET /api/v1/years/{year}/months/{month}
func (h *Handlers) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	month, err := intParam(r, "month")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !h.checkYear(w, year) {
		return
	}

	first := h.cfg.FirstDayOfWeek
	if s := r.URL.Query().Get("first_day_of_week"); s != "" {
		switch s {
		case "0":
			first = time.Sunday
		case "1":
			first = time.Monday
		default:
			WriteBadRequest(w, "first_day_of_week must be 0 (Sunday) or 1 (Monday)")
			return
		}
	}

	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	mv, err := h.conv.MonthView(year, month, first)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	view, err := monthGridView(mv, first, opts)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	WriteSuccess(w, view)
}

// =============================================================================
// Saved dates
// =============================================================================

// hebrewDateInput is a Hebrew date in a request body.
type hebrewDateInput struct {
	Year  int `json:"year" validate:"required,gte=1"`
	Month int `json:"month" validate:"required,gte=1,lte=13"`
	Day   int `json:"day" validate:"required,gte=1,lte=30"`
}

// createEventRequest is the body of POST /api/v1/events. Exactly one of
// Date (Gregorian) and Hebrew is given.
type createEventRequest struct {
	Title  string           `json:"title" validate:"required,max=200"`
	Date   string           `json:"date,omitempty" validate:"required_without=Hebrew,excluded_with=Hebrew,omitempty,datetime=2006-01-02"`
	Hebrew *hebrewDateInput `json:"hebrew,omitempty" validate:"required_without=Date,omitempty"`
	Notes  string           `json:"notes,omitempty" validate:"max=2000"`
}

// validationMessage flattens validator errors into one line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Namespace()), fe.Tag()))
	}
	return "Invalid request: " + strings.Join(parts, "; ")
}

// ListEvents handles GET /api/v1/events
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := GetUserID(r)

	limit := 50 // default
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	events, err := h.db.ListEvents(ctx, owner, limit, offset)
	if err != nil {
		h.log(r).Error("failed to list events", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve events")
		return
	}
	stats, err := h.db.CountEvents(ctx, owner)
	if err != nil {
		h.log(r).Error("failed to count events", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve events")
		return
	}

	views := make([]EventView, 0, len(events))
	for _, e := range events {
		view, err := h.eventView(e, opts)
		if err != nil {
			h.writeCalendarError(w, r, err)
			return
		}
		views = append(views, view)
	}

	WriteSuccess(w, map[string]interface{}{
		"events": views,
		"total":  stats.Total,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateEvent handles POST /api/v1/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err), CodeValidation)
		return
	}

	var hd calendar.HebrewDate
	var g calendar.GregorianDate
	var err error
	if req.Hebrew != nil {
		hd = calendar.HebrewDate{Year: req.Hebrew.Year, Month: req.Hebrew.Month, Day: req.Hebrew.Day}
		if !h.checkYear(w, hd.Year) {
			return
		}
		if g, err = h.conv.ToGregorian(hd); err != nil {
			h.writeCalendarError(w, r, err)
			return
		}
	} else {
		if g, err = calendar.ParseGregorian(req.Date); err != nil {
			h.writeCalendarError(w, r, err)
			return
		}
		if hd, err = h.conv.ToHebrew(g); err != nil {
			h.writeCalendarError(w, r, err)
			return
		}
		if !h.checkYear(w, hd.Year) {
			return
		}
	}

	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	event := &database.Event{
		Owner:         GetUserID(r),
		Title:         strings.TrimSpace(req.Title),
		HebrewYear:    hd.Year,
		HebrewMonth:   hd.Month,
		HebrewDay:     hd.Day,
		GregorianDate: g.String(),
	}
	if req.Notes != "" {
		event.Notes = &req.Notes
	}

	if err := h.db.CreateEvent(ctx, event); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteError(w, http.StatusConflict, "Date already saved under this title", CodeDuplicate)
			return
		}
		h.log(r).Error("failed to create event", slog.Any("error", err))
		WriteInternalError(w, "Failed to save date")
		return
	}
	h.metrics.events.WithLabelValues("create").Inc()

	view, err := h.eventView(*event, opts)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	WriteCreated(w, view)
}

// GetEvent handles GET /api/v1/events/{id}
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	opts, err := h.parseDisplayOptions(r)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	event, err := h.db.GetEvent(r.Context(), GetUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Event not found")
			return
		}
		h.log(r).Error("failed to get event", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve event")
		return
	}

	view, err := h.eventView(*event, opts)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}
	WriteSuccess(w, view)
}

// DeleteEvent handles DELETE /api/v1/events/{id}
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	err := h.db.DeleteEvent(r.Context(), GetUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Event not found")
			return
		}
		h.log(r).Error("failed to delete event", slog.Any("error", err))
		WriteInternalError(w, "Failed to delete event")
		return
	}
	h.metrics.events.WithLabelValues("delete").Inc()

	WriteSuccess(w, map[string]string{"message": "Event deleted"})
}

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
