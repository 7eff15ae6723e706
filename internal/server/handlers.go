package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/anmol3478/podverification/internal/bench"
	"github.com/anmol3478/podverification/internal/faults"
	"github.com/anmol3478/podverification/internal/render"
	"github.com/anmol3478/podverification/internal/viewer"
)

type datasetResponse struct {
	Path        string   `json:"path"`
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
	JSONColumn  string   `json:"json_column"`
	ImageColumn string   `json:"image_column,omitempty"`
	Threshold   int      `json:"threshold"`
}

type sessionState struct {
	Index     int         `json:"index"`
	Rows      int         `json:"rows"`
	Mode      viewer.Mode `json:"mode"`
	Threshold int         `json:"threshold"`
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "podverify",
		"rows":    s.table.RowCount(),
	})
}

func (s *Server) handleDataset(c *gin.Context) {
	c.JSON(http.StatusOK, datasetResponse{
		Path:        s.table.Path,
		Rows:        s.table.RowCount(),
		Columns:     s.table.Columns(),
		JSONColumn:  s.table.JSONColumn(),
		ImageColumn: s.table.ImageColumn(),
		Threshold:   s.session.Threshold(),
	})
}

func (s *Server) handleRow(c *gin.Context) {
	idx, err := s.rowIndex(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	threshold, err := s.thresholdQuery(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	view, err := viewer.Build(s.table, idx, threshold)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleRowImage(c *gin.Context) {
	idx, locator, err := s.rowLocator(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	ctx := faults.WithRow(c.Request.Context(), idx)
	data, meta, err := s.loader.Raw(ctx, locator)
	if err != nil {
		s.renderError(c, err)
		return
	}
	contentType := meta.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) handleRowAnnotated(c *gin.Context) {
	idx, err := s.rowIndex(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	view, err := viewer.Build(s.table, idx, s.session.Threshold())
	if err != nil {
		s.renderError(c, err)
		return
	}
	locator, err := view.RequireLocator()
	if err != nil {
		s.renderError(c, err)
		return
	}

	img, _, err := s.loader.Load(faults.WithRow(c.Request.Context(), idx), locator)
	if err != nil {
		s.renderError(c, err)
		return
	}

	annotated, rep := render.Annotate(img, view.Record.StructuredInfo, render.Options{
		Face:   s.face,
		Logger: s.log(),
	})

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, annotated, imaging.PNG); err != nil {
		s.renderError(c, fmt.Errorf("encode annotated image: %w", err))
		return
	}
	c.Header("X-Boxes-Drawn", strconv.Itoa(len(rep.Drawn)))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) handleStats(c *gin.Context) {
	var query struct {
		Threshold *int `form:"threshold" binding:"omitempty,min=0,max=100"`
		Save      bool `form:"save"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		s.renderError(c, faults.Wrap(faults.ErrValidation, component, "stats",
			"threshold must be an integer between 0 and 100", err))
		return
	}
	threshold := s.session.Threshold()
	if query.Threshold != nil {
		threshold = *query.Threshold
	}

	run := bench.Compute(s.table, bench.Options{Threshold: threshold, Logger: s.log()})

	if query.Save {
		if s.store == nil {
			s.renderError(c, faults.Wrap(faults.ErrConfiguration, component, "stats",
				"report store is not configured", nil))
			return
		}
		if err := s.store.Save(c.Request.Context(), run); err != nil {
			s.renderError(c, err)
			return
		}
		s.log().Info("saved benchmark run", "id", run.ID, "threshold", run.Threshold)
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessionState())
}

func (s *Server) handleSessionNext(c *gin.Context) {
	s.session.Next()
	c.JSON(http.StatusOK, s.sessionState())
}

func (s *Server) handleSessionPrevious(c *gin.Context) {
	s.session.Previous()
	c.JSON(http.StatusOK, s.sessionState())
}

func (s *Server) handleSessionSelect(c *gin.Context) {
	var req struct {
		Index *int `json:"index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, faults.Wrap(faults.ErrValidation, component, "session",
			"body must carry an integer index", err))
		return
	}
	s.session.Select(*req.Index)
	c.JSON(http.StatusOK, s.sessionState())
}

func (s *Server) handleSessionMode(c *gin.Context) {
	var req struct {
		Mode viewer.Mode `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, faults.Wrap(faults.ErrValidation, component, "session",
			"body must carry a mode", err))
		return
	}
	if err := s.session.SetMode(req.Mode); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionState())
}

func (s *Server) handleSessionThreshold(c *gin.Context) {
	var req struct {
		Threshold *int `json:"threshold" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, faults.Wrap(faults.ErrValidation, component, "session",
			"body must carry an integer threshold", err))
		return
	}
	if err := s.session.SetThreshold(*req.Threshold); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionState())
}

func (s *Server) sessionState() sessionState {
	return sessionState{
		Index:     s.session.Index(),
		Rows:      s.table.RowCount(),
		Mode:      s.session.Mode(),
		Threshold: s.session.Threshold(),
	}
}

func (s *Server) rowIndex(c *gin.Context) (int, error) {
	raw := c.Param("index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		detail := fmt.Sprintf("row index %q must be an integer", raw)
		return 0, faults.Wrap(faults.ErrValidation, component, "rows", detail, nil)
	}
	if idx < 0 || idx >= s.table.RowCount() {
		detail := fmt.Sprintf("row %d out of range, dataset has %d rows", idx, s.table.RowCount())
		return 0, faults.Wrap(faults.ErrNotFound, component, "rows", detail, nil)
	}
	return idx, nil
}

func (s *Server) rowLocator(c *gin.Context) (int, string, error) {
	idx, err := s.rowIndex(c)
	if err != nil {
		return 0, "", err
	}
	view, err := viewer.Build(s.table, idx, s.session.Threshold())
	if err != nil {
		return idx, "", err
	}
	locator, err := view.RequireLocator()
	return idx, locator, err
}

func (s *Server) thresholdQuery(c *gin.Context) (int, error) {
	var query struct {
		Threshold *int `form:"threshold" binding:"omitempty,min=0,max=100"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		return 0, faults.Wrap(faults.ErrValidation, component, "threshold",
			"threshold must be an integer between 0 and 100", err)
	}
	if query.Threshold != nil {
		return *query.Threshold, nil
	}
	return s.session.Threshold(), nil
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := faults.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log().Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
