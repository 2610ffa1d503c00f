// Package apitest provides an in-process fake of the AsRecorded backend
// for tests.
package apitest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/asrecorded/asrec/internal/api"
	"github.com/asrecorded/asrec/internal/timecode"
)

const sessionCookie = "session"

// Server is a fake backend seeded with chapters.
type Server struct {
	URL string

	mu          sync.Mutex
	chapters    map[int64]*api.ChapterDetails
	series      []api.Series
	users       map[string]string
	roles       map[string]string
	sessions    map[string]api.User
	failures    map[string]failure
	requireAuth bool
	requests    []string
	requestIDs  []string
	export      []byte
	imports     []Upload
}

// Upload is a workbook received by POST /import/excel.
type Upload struct {
	Filename string
	Data     []byte
}

type failure struct {
	status int
	msg    string
}

// New starts a fake backend and registers its shutdown with t.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		chapters: make(map[int64]*api.ChapterDetails),
		users:    map[string]string{"operator": "secret"},
		roles:    map[string]string{"operator": "tecnico"},
		sessions: make(map[string]api.User),
		failures: make(map[string]failure),
		export:   []byte("PK\x03\x04fake-xlsx"),
	}
	ts := httptest.NewServer(s.router())
	t.Cleanup(ts.Close)
	s.URL = ts.URL + "/api"
	return s
}

// AddChapter seeds chapter details.
func (s *Server) AddChapter(d api.ChapterDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := d
	c.Takes = make([]api.Take, len(d.Takes))
	for i, t := range d.Takes {
		t.Interventions = append([]api.Intervention(nil), t.Interventions...)
		c.Takes[i] = t
	}
	s.chapters[d.Chapter.ID] = &c
	for i := range s.series {
		if s.series[i].ID == d.Chapter.SeriesID {
			s.series[i].ChapterCount++
			return
		}
	}
	s.series = append(s.series, api.Series{ID: d.Chapter.SeriesID, Name: fmt.Sprintf("Series %d", d.Chapter.SeriesID), ChapterCount: 1})
}

// RequireAuth makes every endpoint except login and register demand a
// session cookie.
func (s *Server) RequireAuth() {
	s.mu.Lock()
	s.requireAuth = true
	s.mu.Unlock()
}

// Fail makes the next request whose route key matches fail with status
// and msg. Route keys look like "PATCH /interventions/:id/status".
func (s *Server) Fail(route string, status int, msg string) {
	s.mu.Lock()
	s.failures[route] = failure{status: status, msg: msg}
	s.mu.Unlock()
}

// Requests returns the route keys served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// RequestIDs returns the X-Request-ID header of every request, in order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Imports returns the workbooks uploaded so far.
func (s *Server) Imports() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.imports...)
}

// Intervention returns the stored state of an intervention.
func (s *Server) Intervention(id int64) (api.Intervention, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if iv := s.findLocked(id); iv != nil {
		return *iv, true
	}
	return api.Intervention{}, false
}

func (s *Server) findLocked(id int64) *api.Intervention {
	for _, ch := range s.chapters {
		for ti := range ch.Takes {
			for ii := range ch.Takes[ti].Interventions {
				if ch.Takes[ti].Interventions[ii].ID == id {
					return &ch.Takes[ti].Interventions[ii]
				}
			}
		}
	}
	return nil
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	g := r.Group("/api", s.record)
	g.POST("/login", s.login)
	g.POST("/register", s.register)

	authed := g.Group("", s.auth)
	authed.POST("/logout", s.logout)
	authed.GET("/users/me", s.me)
	authed.GET("/series", s.listSeries)
	authed.GET("/series/:id/chapters", s.listChapters)
	authed.GET("/chapters/:id/details", s.details)
	authed.GET("/chapters/:id/export/excel", s.exportExcel)
	authed.POST("/import/excel", s.importExcel)
	authed.PATCH("/interventions/:id/status", s.updateStatus)
	authed.PATCH("/interventions/:id/dialogue", s.updateDialogue)
	authed.PATCH("/interventions/:id/timecode", s.updateTimecode)
	return r
}

func (s *Server) record(c *gin.Context) {
	key := c.Request.Method + " " + c.FullPath()[len("/api"):]
	s.mu.Lock()
	s.requests = append(s.requests, key)
	s.requestIDs = append(s.requestIDs, c.GetHeader("X-Request-ID"))
	f, ok := s.failures[key]
	if ok {
		delete(s.failures, key)
	}
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(f.status, gin.H{"error": f.msg})
		return
	}
	c.Next()
}

func (s *Server) auth(c *gin.Context) {
	s.mu.Lock()
	required := s.requireAuth
	s.mu.Unlock()
	if !required {
		c.Next()
		return
	}
	token, err := c.Cookie(sessionCookie)
	s.mu.Lock()
	_, ok := s.sessions[token]
	s.mu.Unlock()
	if err != nil || !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message":    "Acceso no autorizado. Por favor, inicie sesión.",
			"error_code": "UNAUTHORIZED",
		})
		return
	}
	c.Next()
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) login(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.users[creds.Username]; !ok || pw != creds.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	token := fmt.Sprintf("tok-%d", len(s.sessions)+1)
	user := api.User{ID: int64(len(s.sessions) + 1), Username: creds.Username, Role: s.roles[creds.Username]}
	s.sessions[token] = user
	c.SetCookie(sessionCookie, token, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) register(c *gin.Context) {
	var reg api.Registration
	if err := c.ShouldBindJSON(&reg); err != nil || reg.Username == "" || reg.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre y contraseña son obligatorios"})
		return
	}
	if len(reg.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña debe tener al menos 6 caracteres"})
		return
	}
	switch reg.Role {
	case "":
		reg.Role = "tecnico"
	case "tecnico", "director":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol no válido"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[reg.Username]; exists {
		c.JSON(http.StatusConflict, gin.H{"error": "El nombre de usuario ya existe"})
		return
	}
	s.users[reg.Username] = reg.Password
	s.roles[reg.Username] = reg.Role
	user := api.User{ID: int64(len(s.users)), Username: reg.Username, Role: reg.Role}
	c.JSON(http.StatusCreated, gin.H{"message": "Usuario registrado exitosamente", "user": user})
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) me(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	s.mu.Lock()
	u, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		u = api.User{ID: 0, Username: "anonymous", Role: "guest"}
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) listSeries(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]api.Series{}, s.series...)
	c.JSON(http.StatusOK, out)
}

func (s *Server) listChapters(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.ChapterSummary{}
	for _, d := range s.chapters {
		if d.Chapter.SeriesID == id {
			out = append(out, api.ChapterSummary{ID: d.Chapter.ID, Number: d.Chapter.Number, Title: d.Chapter.Title})
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) details(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.chapters[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) exportExcel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="chapter_%d.xlsx"`, id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", s.export)
}

func (s *Server) importExcel(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se encontró el archivo"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de archivo no válido. Solo se permiten .xlsx"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.imports = append(s.imports, Upload{Filename: fh.Filename, Data: data})
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Archivo %s importado correctamente", fh.Filename)})
}

func (s *Server) updateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body api.StatusUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	iv := s.findLocked(id)
	if iv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Intervention not found"})
		return
	}
	iv.Completed = body.Completed
	c.JSON(http.StatusOK, body)
}

func (s *Server) updateDialogue(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body api.DialogueUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	iv := s.findLocked(id)
	if iv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Intervention not found"})
		return
	}
	iv.Dialogue = body.Dialogue
	c.JSON(http.StatusOK, body)
}

func (s *Server) updateTimecode(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body api.TimecodeUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if body.TCIn != nil {
		if err := timecode.Validate(*body.TCIn, timecode.DefaultFPS); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timecode format"})
			return
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	iv := s.findLocked(id)
	if iv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Intervention not found"})
		return
	}
	iv.TCIn = body.TCIn
	c.JSON(http.StatusOK, body)
}
