package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/service"
	"github.com/abhisek/outlines/internal/store"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"catalogVersion": s.svc.Catalog().Version(),
	})
}

func (s *Server) match(c *gin.Context) {
	var req api.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, bindError(err))
		return
	}
	best, err := s.svc.Match(c.Request.Context(), req.Profile())
	if err != nil {
		s.fail(c, err)
		return
	}
	if best == nil {
		c.JSON(http.StatusOK, api.MatchResponse{NoMatch: true})
		return
	}
	cand := api.CandidateFromResult(*best)
	c.JSON(http.StatusOK, api.MatchResponse{Match: &cand})
}

func (s *Server) compare(c *gin.Context) {
	var req api.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, bindError(err))
		return
	}
	cmp, err := s.svc.Compare(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (s *Server) listStandards(c *gin.Context) {
	cat := s.svc.Catalog()
	var standards []ccn.Standard
	if d := c.Query("discipline"); d != "" {
		standards = cat.Discipline(d)
	} else {
		standards = cat.Standards()
	}
	if standards == nil {
		standards = []ccn.Standard{}
	}
	c.JSON(http.StatusOK, gin.H{"version": cat.Version(), "standards": standards})
}

func (s *Server) getStandard(c *gin.Context) {
	std, err := s.svc.Standard(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, std)
}

func (s *Server) listCourses(c *gin.Context) {
	courses, err := s.svc.Courses(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]api.Course, 0, len(courses))
	for _, course := range courses {
		out = append(out, service.CourseDTO(course))
	}
	c.JSON(http.StatusOK, gin.H{"courses": out})
}

func (s *Server) getCourse(c *gin.Context) {
	course, err := s.svc.Course(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, service.CourseDTO(*course))
}

func (s *Server) updateCourse(c *gin.Context) {
	var u api.CourseUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		abortWith(c, bindError(err))
		return
	}
	course, err := s.svc.UpdateCourse(c.Request.Context(), c.Param("id"), actor(c), u)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, service.CourseDTO(*course))
}

func (s *Server) submitJustification(c *gin.Context) {
	var req api.JustificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, bindError(err))
		return
	}
	j, err := s.svc.SubmitJustification(c.Request.Context(), c.Param("id"), actor(c), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.JustificationResponse{ID: j.ID.String(), SubmittedAt: j.SubmittedAt})
}

func (s *Server) listJustifications(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := s.svc.Course(ctx, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	list, err := s.svc.Justifications(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []justification.Justification{}
	}
	c.JSON(http.StatusOK, gin.H{"justifications": list})
}

func (s *Server) audit(c *gin.Context) {
	opts := store.QueryOpts{CourseID: c.Param("id")}
	details := map[string]string{}
	if v := c.Query("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			details["after"] = "must be a non-negative integer"
		}
		opts.After = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			details["limit"] = "must be a non-negative integer"
		}
		opts.Limit = n
	}
	if len(details) > 0 {
		s.fail(c, service.ValidationError(details))
		return
	}

	events, err := s.svc.Audit(c.Request.Context(), opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	if events == nil {
		events = []store.AuditEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
