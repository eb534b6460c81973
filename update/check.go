// ABOUTME: Release check against a JSON metadata endpoint
// ABOUTME: Compares the published tag with the running version and classifies network failures

// Package update asks a release-metadata endpoint whether a newer build exists.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Masterminds/semver/v3"
)

// DefaultTimeout bounds a whole check, including reading the body
const DefaultTimeout = 15 * time.Second

// maxBody caps how much of the response is decoded
const maxBody = 1 << 20

var (
	ErrConnectivity = errors.New("update server unreachable")
	ErrTimeout      = errors.New("update check timed out")
	ErrMalformed    = errors.New("malformed release metadata")
	ErrInFlight     = errors.New("update check already running")
)

// Release is the subset of the metadata document the checker reads
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Result describes the outcome of a successful check
type Result struct {
	Current         string
	Latest          string
	UpdateAvailable bool
	DownloadURL     string
}

// Checker performs release checks
type Checker struct {
	Endpoint string
	Current  string // Running version, leading "v" allowed
	Client   *http.Client
	Timeout  time.Duration
}

// NewChecker creates a checker with the default timeout
func NewChecker(endpoint, current string) *Checker {
	return &Checker{
		Endpoint: endpoint,
		Current:  current,
		Client:   &http.Client{},
		Timeout:  DefaultTimeout,
	}
}

// Check issues one GET and compares the published version with Current.
// Errors wrap ErrConnectivity, ErrTimeout or ErrMalformed.
func (c *Checker) Check(ctx context.Context) (Result, error) {
	current, err := semver.NewVersion(c.Current)
	if err != nil {
		return Result{}, fmt.Errorf("invalid running version %q: %w", c.Current, err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	req.Header.Set("Accept", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: status %d", ErrConnectivity, resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&rel); err != nil {
		if isTimeout(err) {
			return Result{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if strings.TrimSpace(rel.TagName) == "" {
		return Result{}, fmt.Errorf("%w: missing tag_name", ErrMalformed)
	}

	latest, err := semver.NewVersion(rel.TagName)
	if err != nil {
		return Result{}, fmt.Errorf("%w: tag %q: %v", ErrMalformed, rel.TagName, err)
	}

	return Result{
		Current:         current.String(),
		Latest:          latest.String(),
		UpdateAvailable: latest.GreaterThan(current),
		DownloadURL:     rel.HTMLURL,
	}, nil
}

func classify(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrConnectivity, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// Message turns a check error into text for the user
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInFlight):
		return "An update check is already running."
	case errors.Is(err, ErrTimeout):
		return "The update server took too long to respond. Try again later."
	case errors.Is(err, ErrMalformed):
		return "The update server sent a response that could not be read."
	case errors.Is(err, ErrConnectivity):
		return "Could not reach the update server. Check your internet connection."
	default:
		return fmt.Sprintf("Update check failed: %v", err)
	}
}

// Summary turns a successful result into text for the user
func (r Result) Summary() string {
	if r.UpdateAvailable {
		return fmt.Sprintf("Version %s is available (running %s).", r.Latest, r.Current)
	}

	return fmt.Sprintf("You are running the latest version (%s).", r.Current)
}

// Guard allows a single check at a time
type Guard struct {
	busy atomic.Bool
}

// Begin claims the guard or returns ErrInFlight
func (g *Guard) Begin() error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrInFlight
	}

	return nil
}

// Done releases the guard; call on every completion, success or failure
func (g *Guard) Done() {
	g.busy.Store(false)
}

// Busy reports whether a check is running
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
