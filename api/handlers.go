package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/sldm/ldm"
	"github.com/theoremus-urban-solutions/sldm/v2x"
)

type healthResponse struct {
	Status        string  `json:"status"`
	Vehicles      uint64  `json:"vehicles"`
	Events        int     `json:"events"`
	Certificates  int     `json:"certificates"`
	EventsVersion uint64  `json:"eventsVersion"`
	CenterLat     float64 `json:"centerLat"`
	CenterLon     float64 `json:"centerLon"`
	ClientID      string  `json:"clientID,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	lat, lon := s.vehicles.Center()
	resp := healthResponse{
		Status:       "ok",
		Vehicles:     s.vehicles.Cardinality(),
		Events:       s.events.Cardinality(),
		Certificates: s.certs.Len(),
		CenterLat:    lat,
		CenterLon:    lon,
		ClientID:     s.clientID,
	}
	if s.notifier != nil {
		resp.EventsVersion = s.notifier.Version()
	}
	writeJSON(w, http.StatusOK, resp)
}

type vehiclesResponse struct {
	Count    int                `json:"count"`
	Vehicles []ldm.VehicleEntry `json:"vehicles"`
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var entries []ldm.VehicleEntry

	switch {
	case q.Get("around") != "":
		id, err := parseStationID(q.Get("around"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		radius, err := parseRadius(q.Get("radius"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var res ldm.Result
		entries, res = s.vehicles.RangeSelectAround(radius, id)
		if res == ldm.ItemNotFound {
			writeError(w, http.StatusNotFound, "station "+strconv.FormatUint(id, 10)+" not found")
			return
		}
	case q.Get("lat") != "" || q.Get("lon") != "":
		lat, err := parseCoordinate(q.Get("lat"), 90)
		if err != nil {
			writeError(w, http.StatusBadRequest, "lat: "+err.Error())
			return
		}
		lon, err := parseCoordinate(q.Get("lon"), 180)
		if err != nil {
			writeError(w, http.StatusBadRequest, "lon: "+err.Error())
			return
		}
		radius, err := parseRadius(q.Get("radius"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		entries = s.vehicles.RangeSelect(radius, lat, lon)
	default:
		entries = s.vehicles.All()
	}

	if entries == nil {
		entries = []ldm.VehicleEntry{}
	}
	writeJSON(w, http.StatusOK, vehiclesResponse{Count: len(entries), Vehicles: entries})
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := parseStationID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, res := s.vehicles.Lookup(id)
	if res != ldm.OK {
		writeError(w, http.StatusNotFound, "station "+strconv.FormatUint(id, 10)+" not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type eventsResponse struct {
	Version uint64           `json:"version"`
	Count   int              `json:"count"`
	Events  []ldm.EventEntry `json:"events"`
}

func (s *Server) eventsSnapshot() eventsResponse {
	var version uint64
	if s.notifier != nil {
		version = s.notifier.Version()
	}
	events := s.events.All()
	if events == nil {
		events = []ldm.EventEntry{}
	}
	return eventsResponse{Version: version, Count: len(events), Events: events}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eventsSnapshot())
}

type certificateResponse struct {
	Digest      string                 `json:"digest"`
	Status      string                 `json:"status"`
	Certificate *v2x.CertificateRecord `json:"certificate,omitempty"`
}

func (s *Server) handleCertificate(w http.ResponseWriter, r *http.Request) {
	digest := strings.TrimSpace(r.PathValue("digest"))
	if digest == "" {
		writeError(w, http.StatusBadRequest, "missing digest")
		return
	}
	resp := certificateResponse{Digest: digest, Status: s.certs.IsValid(digest).String()}
	if rec, ok := s.certs.Lookup(digest); ok {
		resp.Certificate = &rec
	}
	status := http.StatusOK
	if resp.Certificate == nil {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }

func parseStationID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &paramError{msg: "station id must be a non-negative integer"}
	}
	return id, nil
}

func parseRadius(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, &paramError{msg: "radius is required"}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, &paramError{msg: "radius must be a non-negative number of meters"}
	}
	return v, nil
}

func parseCoordinate(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < -limit || v > limit {
		return 0, &paramError{msg: "must be a number between -" + strconv.FormatFloat(limit, 'f', 0, 64) + " and " + strconv.FormatFloat(limit, 'f', 0, 64)}
	}
	return v, nil
}
