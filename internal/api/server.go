package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fmuoria/interview-organizer/internal/apperrors"
	"github.com/fmuoria/interview-organizer/internal/config"
	"github.com/fmuoria/interview-organizer/internal/dispatch"
	"github.com/fmuoria/interview-organizer/internal/logger"
	"github.com/fmuoria/interview-organizer/internal/models"
	"github.com/fmuoria/interview-organizer/internal/roster"
	"github.com/fmuoria/interview-organizer/internal/session"
)

const (
	// SessionHeader carries the session identifier in both directions
	SessionHeader = "X-Session-ID"

	sessionKey = "session"
)

// Server handles HTTP requests
type Server struct {
	sessions   *session.Store
	roster     *roster.Roster
	dispatcher *dispatch.Dispatcher
	settings   *config.LiveSettings
	metrics    http.Handler
	log        logger.Logger
}

// NewServer creates a new API server. metrics may be nil.
func NewServer(r *roster.Roster, d *dispatch.Dispatcher, settings *config.LiveSettings, metrics http.Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Server{
		sessions:   session.NewStore(),
		roster:     r,
		dispatcher: d,
		settings:   settings,
		metrics:    metrics,
		log:        log,
	}
}

// Sessions exposes the session store so the caller can expire idle sessions
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.loggingMiddleware())

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}

	r.GET("/candidates", s.handleCandidates)
	r.GET("/panel-members", s.handlePanelMembers)
	r.GET("/settings", s.handleGetSettings)
	r.PUT("/settings", s.handlePutSettings)

	sess := r.Group("/", s.sessionMiddleware())
	sess.GET("groups", s.handleListGroups)
	sess.POST("groups", s.handleCreateGroup)
	sess.POST("groups/:name/members", s.handleAddMembers)
	sess.DELETE("groups/:name/members", s.handleRemoveMembers)
	sess.GET("panels", s.handleListPanels)
	sess.POST("panels", s.handleCreatePanel)
	sess.POST("schedule", s.handleSchedule)
	sess.POST("messages", s.handleMessages)

	return r
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Interview Organizer",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"GET /candidates":                   "List candidates",
			"GET /panel-members":                "List panel members",
			"GET|POST /groups":                  "List or create candidate groups",
			"POST|DELETE /groups/:name/members": "Add or remove group members",
			"GET|POST /panels":                  "List or create interview panels",
			"POST /schedule":                    "Schedule a group and notify everyone",
			"POST /messages":                    "Send a custom message",
			"GET|PUT /settings":                 "Read or update mail settings (clear_secret removes the password)",
			"GET /health":                       "Health check",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"mail_configured": s.settings.Get().MailConfigured(),
	})
}

func (s *Server) handleCandidates(c *gin.Context) {
	c.JSON(http.StatusOK, s.roster.Candidates())
}

func (s *Server) handlePanelMembers(c *gin.Context) {
	c.JSON(http.StatusOK, s.roster.PanelMembers())
}

type groupView struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func (s *Server) handleListGroups(c *gin.Context) {
	sess := currentSession(c)
	out := make([]groupView, 0)
	for _, name := range sess.GroupNames() {
		members, _ := sess.Group(name)
		out = append(out, groupView{Name: name, Members: members})
	}
	c.JSON(http.StatusOK, out)
}

type createGroupForm struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) handleCreateGroup(c *gin.Context) {
	var form createGroupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		s.respondError(c, &apperrors.ValidationError{Field: "name", Msg: "group name is required", Err: err})
		return
	}
	if !currentSession(c).CreateGroup(form.Name) {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("group %q already exists", form.Name)})
		return
	}
	c.JSON(http.StatusCreated, groupView{Name: form.Name, Members: []string{}})
}

// membersForm names candidates by email, by a 1-based row selection such as
// "1-5" or "1,3,5", or all at once
type membersForm struct {
	Emails    []string `json:"emails"`
	Selection string   `json:"selection"`
	All       bool     `json:"all"`
}

func (s *Server) resolveMembers(form membersForm) ([]string, error) {
	emails := s.roster.Emails(models.KindCandidate)
	if form.All {
		return emails, nil
	}
	ids := append([]string(nil), form.Emails...)
	if form.Selection != "" {
		picked, err := session.SelectEmails(form.Selection, emails)
		if err != nil {
			return nil, &apperrors.ValidationError{Field: "selection", Msg: "invalid selection", Err: err}
		}
		ids = append(ids, picked...)
	}
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("emails", "select at least one candidate")
	}
	for _, id := range ids {
		if _, ok := s.roster.Candidate(id); !ok {
			return nil, apperrors.NewValidationError("emails", fmt.Sprintf("%s is not a known candidate", id))
		}
	}
	return ids, nil
}

func (s *Server) updateMembers(c *gin.Context, add bool) {
	sess := currentSession(c)
	name := c.Param("name")
	if _, ok := sess.Group(name); !ok {
		s.respondError(c, &apperrors.NotFoundError{Kind: "group", Name: name})
		return
	}

	var form membersForm
	if err := c.ShouldBindJSON(&form); err != nil {
		s.respondError(c, &apperrors.ValidationError{Msg: "invalid request body", Err: err})
		return
	}
	ids, err := s.resolveMembers(form)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var changed int
	if add {
		changed = sess.AddToGroup(name, ids...)
	} else {
		changed = sess.RemoveFromGroup(name, ids...)
	}
	members, _ := sess.Group(name)
	c.JSON(http.StatusOK, gin.H{"name": name, "changed": changed, "members": members})
}

func (s *Server) handleAddMembers(c *gin.Context) {
	s.updateMembers(c, true)
}

func (s *Server) handleRemoveMembers(c *gin.Context) {
	s.updateMembers(c, false)
}

func (s *Server) handleListPanels(c *gin.Context) {
	sess := currentSession(c)
	out := make([]groupView, 0)
	for _, name := range sess.PanelNames() {
		members, _ := sess.Panel(name)
		out = append(out, groupView{Name: name, Members: members})
	}
	c.JSON(http.StatusOK, out)
}

type createPanelForm struct {
	Name    string   `json:"name" binding:"required"`
	Members []string `json:"members" binding:"required,min=1"`
}

func (s *Server) handleCreatePanel(c *gin.Context) {
	var form createPanelForm
	if err := c.ShouldBindJSON(&form); err != nil {
		s.respondError(c, &apperrors.ValidationError{Msg: "panel name and at least one member are required", Err: err})
		return
	}
	for _, m := range form.Members {
		if _, ok := s.roster.PanelMember(m); !ok {
			s.respondError(c, apperrors.NewValidationError("members", fmt.Sprintf("%s is not a known panel member", m)))
			return
		}
	}
	if !currentSession(c).CreatePanel(form.Name, form.Members) {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("panel %q already exists", form.Name)})
		return
	}
	c.JSON(http.StatusCreated, groupView{Name: form.Name, Members: form.Members})
}

func (s *Server) handleSchedule(c *gin.Context) {
	var req dispatch.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &apperrors.ValidationError{Msg: "invalid request body", Err: err})
		return
	}
	report, err := s.dispatcher.Schedule(c.Request.Context(), currentSession(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleMessages(c *gin.Context) {
	var req dispatch.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, &apperrors.ValidationError{Msg: "invalid request body", Err: err})
		return
	}
	report, err := s.dispatcher.SendBulk(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settings.Get().Masked())
}

// settingsForm is a full settings record. An empty or masked gmail_password
// keeps the stored secret; set clear_secret to remove it.
type settingsForm struct {
	config.Settings
	ClearSecret bool `json:"clear_secret"`
}

func (s *Server) handlePutSettings(c *gin.Context) {
	var form settingsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		s.respondError(c, &apperrors.ValidationError{Msg: "invalid settings", Err: err})
		return
	}
	in := form.Settings
	if form.ClearSecret {
		in.MailSecret = ""
	} else {
		in = s.settings.MergeSecret(in)
	}
	if err := s.settings.Update(in); err != nil {
		s.respondError(c, err)
		return
	}
	s.log.Infof("settings saved")
	c.JSON(http.StatusOK, s.settings.Get().Masked())
}

// respondError maps err to a status code and sends it as JSON
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var (
		ve *apperrors.ValidationError
		nf *apperrors.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &nf):
		status = http.StatusNotFound
	default:
		s.log.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// sessionMiddleware attaches the caller's session, creating one when the
// header is absent or unknown, and echoes its identifier back
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := s.sessions.Get(c.GetHeader(SessionHeader))
		c.Header(SessionHeader, sess.ID)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Infof("%s %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Writer.Status(), time.Since(start))
	}
}
