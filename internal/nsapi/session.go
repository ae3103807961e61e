// Package nsapi is a minimal authenticated client for the NationStates site
// and its public API. It covers only the operations the batch tools need:
// logging in, founding nations, settings/flag updates, region moves, card
// bids, endorsements, World Assembly votes and nation data queries.
package nsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.nationstates.net"

// The site rate-limits aggressively; one request per 700ms keeps scripted
// traffic inside the documented ceiling.
const defaultRequestInterval = 700 * time.Millisecond

var (
	// ErrLoginFailed indicates the site rejected the nation/password pair.
	ErrLoginFailed = errors.New("login failed")

	// ErrNotLoggedIn indicates an authenticated operation was attempted
	// before a successful Login.
	ErrNotLoggedIn = errors.New("not logged in")
)

var chkPattern = regexp.MustCompile(`name="chk"[^>]*value="([^"]+)"`)

// Session is an authenticated browsing session. It is not safe for
// concurrent use; the batch tools drive it from a single worker.
type Session struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	baseURL   string

	// Security token scraped after login, required by state-changing forms.
	chk    string
	nation string
}

// New creates a session identified by the script name, version and author,
// plus the user agent of the person running it. The site requires all four
// for scripted traffic.
func New(script, version, author, userAgent string) *Session {
	jar, _ := cookiejar.New(nil)
	return &Session{
		client: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Every(defaultRequestInterval), 1),
		userAgent: fmt.Sprintf("%s/%s (by %s; in use by %s)", script, version, author, userAgent),
		baseURL:   defaultBaseURL,
	}
}

// WithBaseURL points the session at a different host. Used by tests.
func (s *Session) WithBaseURL(base string) *Session {
	s.baseURL = strings.TrimRight(base, "/")
	return s
}

// SetRequestInterval adjusts the minimum spacing between requests.
func (s *Session) SetRequestInterval(interval time.Duration) {
	if interval > 0 {
		s.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// Nation returns the currently logged-in nation, or "".
func (s *Session) Nation() string {
	return s.nation
}

// Login authenticates as a nation. On success the session holds the site
// cookie and the chk security token used by subsequent form submissions.
func (s *Session) Login(nation, password string) error {
	form := url.Values{
		"logging_in": {"1"},
		"nation":     {nation},
		"password":   {password},
	}

	body, err := s.postPage("settings", form)
	if err != nil {
		return fmt.Errorf("login request for %s: %w", nation, err)
	}

	match := chkPattern.FindStringSubmatch(body)
	if match == nil {
		s.chk = ""
		s.nation = ""
		return fmt.Errorf("%w: %s", ErrLoginFailed, nation)
	}

	s.chk = match[1]
	s.nation = nation
	return nil
}

// postPage submits a form to a template-overall=none page and returns the
// response body.
func (s *Session) postPage(page string, form url.Values) (string, error) {
	target := fmt.Sprintf("%s/template-overall=none/page=%s", s.baseURL, page)
	return s.do(http.MethodPost, target, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded")
}

// postForm submits a form to an absolute site path.
func (s *Session) postForm(path string, form url.Values) (string, error) {
	return s.do(http.MethodPost, s.baseURL+path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded")
}

func (s *Session) get(rawURL string) (string, int, error) {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return "", 0, err
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	return string(body), resp.StatusCode, nil
}

func (s *Session) do(method, rawURL string, body io.Reader, contentType string) (string, error) {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return "", err
	}

	req, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("server returned %s", resp.Status)
	}
	return string(data), nil
}

func (s *Session) requireLogin() error {
	if s.chk == "" {
		return ErrNotLoggedIn
	}
	return nil
}
