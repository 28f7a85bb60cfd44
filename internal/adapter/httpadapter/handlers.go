package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/bewara-landslide-service/internal/catalog"
	"github.com/couchcryptid/bewara-landslide-service/internal/dashboard"
	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

type errorResponse struct {
	Error  string `json:"error"`
	Notice string `json:"notice,omitempty"`
}

type pointView struct {
	domain.PointHazard
	Color string `json:"color"`
}

type catalogResponse struct {
	Zones      []domain.HazardZone     `json:"zones"`
	Points     []pointView             `json:"points"`
	Boundaries []domain.BoundaryRegion `json:"boundaries"`
	View       catalog.MapView         `json:"view"`
	Prediction catalog.PredictionArea  `json:"prediction"`
	Stats      catalog.Stats           `json:"stats"`
}

type lookupResponse struct {
	Location     domain.Coordinate       `json:"location"`
	Zones        []domain.HazardZone     `json:"zones"`
	Boundaries   []domain.BoundaryRegion `json:"boundaries"`
	MaxZoneLevel *domain.ZoneLevel       `json:"max_zone_level,omitempty"`
}

type stateResponse struct {
	dashboard.State
	Weather dashboard.WeatherDisplay `json:"weather"`
	Syncing bool                     `json:"syncing"`
}

// inputRequest is a partial update; omitted fields keep their value.
type inputRequest struct {
	RainfallMM *float64 `json:"rainfall_mm"`
	ElevationM *float64 `json:"elevation_m"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	cat := s.session.Catalog()

	points := cat.Points()
	views := make([]pointView, len(points))
	for i, p := range points {
		views[i] = pointView{PointHazard: p, Color: catalog.Highlight(p)}
	}

	sharedobs.WriteJSON(w, http.StatusOK, catalogResponse{
		Zones:      cat.Zones(),
		Points:     views,
		Boundaries: cat.Boundaries(),
		View:       cat.View(),
		Prediction: cat.Prediction(),
		Stats:      cat.Stats(),
	})
}

func (s *Server) handleCatalogGeoJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.session.Catalog().GeoJSON()) //nolint:errcheck // client may have gone away
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := floatParam(q, "lat")
	if err != nil {
		s.writeError(w, err)
		return
	}
	lon, err := floatParam(q, "lon")
	if err != nil {
		s.writeError(w, err)
		return
	}
	at := domain.Coordinate{Lat: lat, Lon: lon}
	if err := at.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	cat := s.session.Catalog()
	resp := lookupResponse{
		Location:   at,
		Zones:      cat.ZonesAt(at),
		Boundaries: cat.BoundariesAt(at),
	}
	if level, ok := cat.MaxZoneLevel(at); ok {
		resp.MaxZoneLevel = &level
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, stateResponse{
		State:   s.session.Snapshot(),
		Weather: s.session.DisplayWeather(),
		Syncing: s.session.Syncing(),
	})
}

// syncWriteDeadline replaces the server-wide write timeout for POST /api/sync.
// It outlasts the longest provider timeout config.Load accepts, so a failed
// sync still delivers its notice.
const syncWriteDeadline = 30 * time.Second

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Now().Add(syncWriteDeadline)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.logger.Warn("extend sync write deadline", "error", err)
	}

	// A sync has no cancellation path: it ends in success or failure even
	// if the caller disconnects. The provider client's timeout bounds it.
	st, err := s.session.Sync(context.WithoutCancel(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, stateResponse{
		State:   st,
		Weather: s.session.DisplayWeather(),
	})
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Value: "", Reason: err.Error()})
		return
	}

	var (
		st  dashboard.State
		err error
	)
	switch {
	case req.RainfallMM != nil && req.ElevationM != nil:
		st, err = s.session.SetInput(r.Context(), domain.RiskInput{RainfallMM: *req.RainfallMM, ElevationM: *req.ElevationM})
	case req.RainfallMM != nil:
		st, err = s.session.SetRainfall(r.Context(), *req.RainfallMM)
	case req.ElevationM != nil:
		st, err = s.session.SetElevation(r.Context(), *req.ElevationM)
	default:
		err = &domain.ValidationError{Field: "body", Value: "{}", Reason: "set rainfall_mm or elevation_m"}
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, stateResponse{
		State:   st,
		Weather: s.session.DisplayWeather(),
		Syncing: s.session.Syncing(),
	})
}

// handleClassify runs the engine on the query values without touching
// session state.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rain, err := floatParam(q, "rainfall_mm")
	if err != nil {
		s.writeError(w, err)
		return
	}
	elev, err := floatParam(q, "elevation_m")
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := domain.Assess(domain.RiskInput{RainfallMM: rain, ElevationM: elev})
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, v)
}

func floatParam(q url.Values, key string) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, &domain.ValidationError{Field: key, Value: raw, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: key, Value: raw, Reason: "must be a number"}
	}
	return v, nil
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var serr *dashboard.SyncError
	switch {
	case domain.IsValidation(err):
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, dashboard.ErrSyncInProgress):
		sharedobs.WriteJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &serr):
		sharedobs.WriteJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Notice: serr.Notice})
	case errors.Is(err, domain.ErrIngestion):
		sharedobs.WriteJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
