package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Client talks to the AsRecorded backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        *attrJar
	logger     *slog.Logger
	timeout    atomic.Int64 // nanoseconds
	seed       []*http.Cookie
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The client is copied;
// its cookie jar is created when it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds every request issued by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout.Store(int64(d))
		}
	}
}

// WithCookies seeds the session cookie jar, typically from a previous login.
func WithCookies(cookies []*http.Cookie) Option {
	return func(c *Client) {
		c.seed = append(c.seed, cookies...)
	}
}

// New creates a client for baseURL (for example http://host:5000/api).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api base url required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.timeout.Store(int64(15 * time.Second))
	for _, opt := range opts {
		opt(c)
	}
	hc := *c.httpClient
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	c.jar = newAttrJar(hc.Jar)
	hc.Jar = c.jar
	c.httpClient = &hc
	c.setCookies(c.seed)
	c.seed = nil
	return c, nil
}

// SetTimeout changes the bound on requests started afterwards. Safe to
// call while requests are in flight.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout.Store(int64(d))
	}
}

func (c *Client) setCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	c.jar.SetCookies(c.baseURL, cookies)
}

// Cookies returns the session cookies currently held for the backend,
// with the Path and expiry the server set.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.withAttrs(c.jar.Cookies(c.baseURL))
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func checkID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// do issues a request with a JSON body (if any) and decodes a JSON
// response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// send performs a request with a JSON body (if any) and returns the
// response for 2xx statuses. The caller closes the body.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if body == nil {
		return c.sendBody(ctx, method, path, "", nil)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.sendBody(ctx, method, path, "application/json", bytes.NewReader(data))
}

func (c *Client) sendBody(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.timeout.Load()))
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build request: %w", err)
	}
	reqID, _ := ctx.Value(requestIDKey{}).(string)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		c.logger.Warn("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer cancel()
		defer resp.Body.Close()
		var eb errorBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, &eb)
		msg := eb.Error
		if msg == "" {
			// Auth failures carry {"message", "error_code"} instead.
			msg = eb.Message
		}
		return nil, newAPIError(resp.StatusCode, msg)
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type requestIDKey struct{}

// WithRequestID makes the next request carry id as its X-Request-ID, so
// callers can correlate their own records with the backend's logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelOnClose) Close() error {
	err := r.ReadCloser.Close()
	r.cancel()
	return err
}

// ChapterDetails loads a chapter and its ordered takes.
func (c *Client) ChapterDetails(ctx context.Context, chapterID int64) (*ChapterDetails, error) {
	if err := checkID(chapterID); err != nil {
		return nil, err
	}
	var out ChapterDetails
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chapters/%d/details", chapterID), nil, &out); err != nil {
		return nil, err
	}
	if out.Takes == nil {
		out.Takes = []Take{}
	}
	return &out, nil
}

// UpdateStatus sets the completion flag of an intervention and returns
// the server-confirmed value.
func (c *Client) UpdateStatus(ctx context.Context, interventionID int64, completed bool) (bool, error) {
	if err := checkID(interventionID); err != nil {
		return false, err
	}
	out := StatusUpdate{Completed: completed}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/interventions/%d/status", interventionID), StatusUpdate{Completed: completed}, &out)
	return out.Completed, err
}

// UpdateDialogue replaces the dialogue text and returns the confirmed text.
func (c *Client) UpdateDialogue(ctx context.Context, interventionID int64, dialogue string) (string, error) {
	if err := checkID(interventionID); err != nil {
		return "", err
	}
	out := DialogueUpdate{Dialogue: dialogue}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/interventions/%d/dialogue", interventionID), DialogueUpdate{Dialogue: dialogue}, &out)
	return out.Dialogue, err
}

// UpdateTimecode sets the in-timecode (nil clears it) and returns the
// possibly normalised value echoed by the server.
func (c *Client) UpdateTimecode(ctx context.Context, interventionID int64, tcIn *string) (*string, error) {
	if err := checkID(interventionID); err != nil {
		return nil, err
	}
	out := TimecodeUpdate{TCIn: tcIn}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/interventions/%d/timecode", interventionID), TimecodeUpdate{TCIn: tcIn}, &out)
	return out.TCIn, err
}

// Login exchanges credentials for a session cookie kept in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password required")
	}
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", Credentials{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		out.User = &User{Username: username}
	}
	return out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSeries(ctx context.Context) ([]Series, error) {
	var out []Series
	if err := c.do(ctx, http.MethodGet, "/series", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListChapters(ctx context.Context, seriesID int64) ([]ChapterSummary, error) {
	if err := checkID(seriesID); err != nil {
		return nil, err
	}
	var out []ChapterSummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/series/%d/chapters", seriesID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportChapter streams the chapter's Excel export into w and returns the
// filename suggested by the server.
func (c *Client) ExportChapter(ctx context.Context, chapterID int64, w io.Writer) (string, int64, error) {
	if err := checkID(chapterID); err != nil {
		return "", 0, err
	}
	path := fmt.Sprintf("/chapters/%d/export/excel", chapterID)
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	name := fmt.Sprintf("chapter_%d_export.xlsx", chapterID)
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return name, n, fmt.Errorf("download export: %w", err)
	}
	return name, n, nil
}

// ImportExcel uploads a chapter workbook as multipart field "file" to
// POST /import/excel and returns the server's summary message. Only
// .xlsx files are accepted.
func (c *Client) ImportExcel(ctx context.Context, r io.Reader, filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return "", fmt.Errorf("import %q: only .xlsx workbooks are accepted", filename)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	resp, err := c.sendBody(ctx, http.MethodPost, "/import/excel", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("POST /import/excel: decode response: %w", err)
	}
	return out.Message, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Role = strings.ToLower(strings.TrimSpace(reg.Role))
	if reg.Username == "" || reg.Password == "" {
		return nil, errors.New("username and password required")
	}
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", reg, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		out.User = &User{Username: reg.Username, Role: reg.Role}
	}
	return out.User, nil
}
