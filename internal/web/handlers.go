package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timepick-cli/internal/clock"
	"timepick-cli/internal/constraint"
	"timepick-cli/internal/picker"
	"timepick-cli/internal/session"
)

type fieldRequest struct {
	Value *string `json:"value"`
}

type selectRequest struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

type checkResponse struct {
	Time     string             `json:"time"`
	Disabled bool               `json:"disabled"`
	Reasons  []constraint.Check `json:"reasons"`
}

func abortErr(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (s *Server) sessionErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownField):
		abortErr(c, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNotTimeField):
		abortErr(c, http.StatusBadRequest, err.Error())
	default:
		s.log.Warn("request failed", zap.Error(err))
		abortErr(c, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) listFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.sess.Fields()})
}

func (s *Server) putField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		abortErr(c, http.StatusBadRequest, `expected {"value": "..."}`)
		return
	}
	f, err := s.sess.SetField(c.Param("id"), *req.Value)
	if err != nil {
		s.sessionErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": f})
}

func (s *Server) lookupPicker(c *gin.Context) (*picker.Picker, bool) {
	p, err := s.sess.Picker(c.Param("id"))
	if err != nil {
		s.sessionErr(c, err)
		return nil, false
	}
	return p, true
}

func (s *Server) listPickers(c *gin.Context) {
	out := []picker.State{}
	for _, p := range s.sess.Pickers.Pickers() {
		out = append(out, p.State())
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) getPicker(c *gin.Context) {
	p, ok := s.lookupPicker(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p.State()})
}

func (s *Server) openPicker(c *gin.Context) {
	p, ok := s.lookupPicker(c)
	if !ok {
		return
	}
	s.sess.Pickers.Open(p.Field())
	c.JSON(http.StatusOK, gin.H{"data": p.State()})
}

func (s *Server) hidePicker(c *gin.Context) {
	p, ok := s.lookupPicker(c)
	if !ok {
		return
	}
	p.Hide()
	c.JSON(http.StatusOK, gin.H{"data": p.State()})
}

func (s *Server) cancelPicker(c *gin.Context) {
	p, ok := s.lookupPicker(c)
	if !ok {
		return
	}
	p.Cancel()
	c.JSON(http.StatusOK, gin.H{"data": p.State()})
}

func (s *Server) confirmPicker(c *gin.Context) {
	p, ok := s.lookupPicker(c)
	if !ok {
		return
	}
	p.Confirm()
	c.JSON(http.StatusOK, gin.H{"data": p.State()})
}

func (s *Server) selectPicker(c *gin.Context) {
	p, ok := s.lookupPicker(c)
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortErr(c, http.StatusBadRequest, `expected {"column": "hour|minute|period", "value": "..."}`)
		return
	}
	col, ok := picker.ParseColumn(req.Column)
	if !ok {
		abortErr(c, http.StatusBadRequest, "unknown column: "+req.Column)
		return
	}
	choice, ok := p.Lookup(col, req.Value)
	if !ok {
		abortErr(c, http.StatusBadRequest, "value not offered: "+req.Value)
		return
	}
	if choice.Disabled || !p.Select(col, choice.Value) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "choice is disabled", "data": p.State()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p.State()})
}

func (s *Server) checkPicker(c *gin.Context) {
	p, ok := s.lookupPicker(c)
	if !ok {
		return
	}
	raw := c.Query("time")
	t, err := clock.Parse(strings.TrimSpace(raw))
	if err != nil {
		abortErr(c, http.StatusBadRequest, "not a time: "+raw)
		return
	}
	disabled, reasons := p.Check(t)
	if reasons == nil {
		reasons = []constraint.Check{}
	}
	c.JSON(http.StatusOK, gin.H{"data": checkResponse{Time: t.Format(p.Options().PadHour), Disabled: disabled, Reasons: reasons}})
}
