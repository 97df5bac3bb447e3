package release

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
	"github.com/okarpov/fslogix-agent/internal/logger"
	"github.com/okarpov/fslogix-agent/internal/version"
)

// maxRedirectHops bounds the redirect walk.
const maxRedirectHops = 10

// archiveSuffix is the expected extension of the versioned filename.
const archiveSuffix = ".zip"

// Resolver resolves a redirect endpoint to the current versioned
// download location. It never downloads the release body.
type Resolver struct {
	// hc is the HTTP client. Redirects are walked manually so the
	// version can be read off the Location chain.
	hc *http.Client
}

// NewResolver creates a resolver whose requests are bounded by timeout.
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		hc: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Resolve walks the redirect chain starting at redirectURL until a
// Location carries a versioned archive filename. The filename contract
// is <prefix>_<prefix2>_<major.minor.build.revision>.zip.
func (r *Resolver) Resolve(ctx context.Context, redirectURL string) (deploy.RemoteDistribution, error) {
	var dist deploy.RemoteDistribution

	current, err := url.Parse(redirectURL)
	if err != nil {
		return dist, fmt.Errorf("parse redirect URL %q: %v: %w", redirectURL, err, deploy.ErrResolution)
	}

	redirected := false

	for hop := 0; hop < maxRedirectHops; hop++ {
		location, status, err := r.locationOf(ctx, current)
		if err != nil {
			return dist, err
		}

		if location == nil {
			// Terminal response without a redirect.
			if !redirected {
				return dist, fmt.Errorf("%s answered %s without redirecting: %w",
					current, status, deploy.ErrResolution)
			}

			break
		}

		redirected = true

		if v, ok := versionFromFilename(path.Base(location.Path)); ok {
			logger.InfoKV(ctx, "Resolved release",
				"url", location.String(), "version", v.String())

			return deploy.RemoteDistribution{
				ResolvedURL: location.String(),
				Version:     v,
			}, nil
		}

		current = location
	}

	return dist, fmt.Errorf("no versioned filename in redirect chain from %s: %w",
		redirectURL, deploy.ErrResolution)
}

// locationOf performs one request and returns the redirect target, or nil
// when the response is not a redirect. The body is discarded either way.
func (r *Resolver) locationOf(ctx context.Context, u *url.URL) (*url.URL, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("build request for %s: %v: %w", u, err, deploy.ErrResolution)
	}

	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := r.hc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request %s: %v: %w", u, err, deploy.ErrResolution)
	}

	// The body is never needed, only the headers.
	_ = resp.Body.Close()

	if resp.StatusCode < http.StatusMultipleChoices || resp.StatusCode >= http.StatusBadRequest {
		return nil, resp.Status, nil
	}

	rawLocation := resp.Header.Get("Location")
	if rawLocation == "" {
		return nil, "", fmt.Errorf("%s answered %s without a location header: %w",
			u, resp.Status, deploy.ErrResolution)
	}

	location, err := u.Parse(rawLocation)
	if err != nil {
		return nil, "", fmt.Errorf("parse location %q: %v: %w", rawLocation, err, deploy.ErrResolution)
	}

	return location, resp.Status, nil
}

// versionFromFilename extracts the version from a filename of the form
// <prefix>_<prefix2>_<version>.zip.
func versionFromFilename(name string) (deploy.PackageVersion, bool) {
	base, found := strings.CutSuffix(name, archiveSuffix)
	if !found {
		return deploy.PackageVersion{}, false
	}

	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return deploy.PackageVersion{}, false
	}

	v := deploy.ParseVersion(base[idx+1:])
	if v.IsZero() {
		return deploy.PackageVersion{}, false
	}

	return v, true
}
