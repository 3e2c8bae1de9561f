package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/wiresep/pkg/buildinfo"
	"github.com/matzehuels/wiresep/pkg/declutter"
	"github.com/matzehuels/wiresep/pkg/diagram"
	errs "github.com/matzehuels/wiresep/pkg/errors"
	"github.com/matzehuels/wiresep/pkg/geom"
	wireio "github.com/matzehuels/wiresep/pkg/io"
	"github.com/matzehuels/wiresep/pkg/pipeline"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// =============================================================================
// Declutter
// =============================================================================

type declutterResponse struct {
	Diagram  json.RawMessage `json:"diagram"`
	Stats    pipeline.Stats  `json:"stats"`
	CacheHit bool            `json:"cache_hit"`
	Warnings []string        `json:"warnings,omitempty"`
}

func (s *Server) handleDeclutter(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, ok := s.readSnapshot(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := wireio.Marshal(result.Diagram)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "encode result"))
		return
	}

	resp := declutterResponse{Diagram: data, Stats: result.Stats, CacheHit: result.CacheHit}
	for _, m := range result.Warnings {
		resp.Warnings = append(resp.Warnings, m.String())
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// requestOptions layers the query parameters over the server's base options.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{
		Declutter:     s.base.Declutter,
		Corners:       s.base.Corners,
		MaxCornerSize: s.base.MaxCornerSize,
		CacheTTL:      s.base.CacheTTL,
		Logger:        s.logger,
	}
	q := r.URL.Query()

	if v := q.Get("separation"); v != "" {
		sep, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "separation %q is not a number", v)
		}
		opts.Declutter.MaxSegmentSeparation = sep
	}
	if v := q.Get("corners"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "corners %q is not a boolean", v)
		}
		opts.Corners = on
	}
	if v := q.Get("refresh"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "refresh %q is not a boolean", v)
		}
		opts.Refresh = on
	}
	return opts, nil
}

func (s *Server) readSnapshot(w http.ResponseWriter, r *http.Request) (diagram.Diagram, bool) {
	d, err := wireio.ReadJSON(http.MaxBytesReader(w, r.Body, MaxSnapshotBytes))
	if err == nil {
		return d, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Code:  string(errs.ErrCodeInvalidInput),
			Error: "snapshot too large",
		})
		return diagram.Diagram{}, false
	}
	s.writeError(w, r, err)
	return diagram.Diagram{}, false
}

// =============================================================================
// Inspect
// =============================================================================

type lineView struct {
	ID      declutter.LineID   `json:"id"`
	P       float64            `json:"p"`
	Bound   geom.Bound         `json:"bound"`
	Type    string             `json:"type"`
	WireID  diagram.WireID     `json:"wire_id,omitempty"`
	Segment *int               `json:"segment,omitempty"`
	Links   []declutter.LineID `json:"links,omitempty"`
}

type placementView struct {
	Line declutter.LineID `json:"line"`
	P    float64          `json:"p"`
}

type clusterView struct {
	Segments   []declutter.LineID `json:"segments"`
	Bound      geom.Bound         `json:"bound"`
	LowerFix   *float64           `json:"lower_fix,omitempty"`
	UpperFix   *float64           `json:"upper_fix,omitempty"`
	Placements []placementView    `json:"placements"`
}

type inspectResponse struct {
	Axis     string        `json:"axis"`
	Lines    []lineView    `json:"lines"`
	Clusters []clusterView `json:"clusters"`
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	axis := r.URL.Query().Get("axis")
	if axis == "" {
		axis = "h"
	}
	o, err := diagram.ParseOrientation(axis)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "axis"))
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, ok := s.readSnapshot(w, r)
	if !ok {
		return
	}

	dump, err := declutter.Inspect(d, o, opts.Declutter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newInspectResponse(dump))
}

func newInspectResponse(dump declutter.AxisDump) inspectResponse {
	resp := inspectResponse{
		Axis:     dump.Orientation.String(),
		Lines:    make([]lineView, 0, len(dump.Lines)),
		Clusters: make([]clusterView, 0, len(dump.Clusters)),
	}
	for _, l := range dump.Lines {
		v := lineView{ID: l.ID, P: l.P, Bound: l.B, Type: l.LType.String(), WireID: l.WireID, Links: l.Links}
		if l.Seg != nil {
			idx := l.Seg.Index
			v.Segment = &idx
		}
		resp.Lines = append(resp.Lines, v)
	}
	for i, c := range dump.Clusters {
		v := clusterView{Segments: c.Segments, Bound: c.Bound, LowerFix: c.LowerFix, UpperFix: c.UpperFix}
		for _, pl := range dump.Placements[i] {
			v.Placements = append(v.Placements, placementView{Line: pl.Line, P: pl.P})
		}
		resp.Clusters = append(resp.Clusters, v)
	}
	return resp
}
