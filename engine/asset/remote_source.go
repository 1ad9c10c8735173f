package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"go.uber.org/zap"
)

// remoteSource fetches assets with a single HTTP GET each. There is no retry.
type remoteSource struct {
	base   *url.URL
	client *http.Client
	logger *zap.Logger
}

var _ Source = &remoteSource{}

func newRemoteSource(s *source) (*remoteSource, error) {
	if s.origin == "" {
		return nil, errors.New("remote source requires an origin")
	}
	base, err := BaseURL(s.origin, s.pathSegment)
	if err != nil {
		return nil, err
	}
	return &remoteSource{
		base:   base,
		client: s.client,
		logger: s.logger,
	}, nil
}

// BaseURL combines a deployment origin with the fixed path segment into the directory URL
// that asset names are resolved against. The segment is not appended twice when the origin
// already ends with it.
//
// Parameters:
//   - origin: scheme and host, optionally followed by a path
//   - segment: the fixed path segment, may be empty
//
// Returns:
//   - *url.URL: the base URL, always ending in "/"
//   - error: if origin is not an absolute URL
func BaseURL(origin, segment string) (*url.URL, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid origin %q: scheme and host are required", origin)
	}

	p := strings.TrimRight(u.Path, "/")
	segment = strings.Trim(segment, "/")
	if segment != "" && !strings.HasSuffix(p, "/"+segment) {
		p += "/" + segment
	}
	u.Path = p + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func (r *remoteSource) resolve(name string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid asset name %q: %w", common.ErrNetwork, name, err)
	}
	return r.base.ResolveReference(ref), nil
}

func (r *remoteSource) Retrieve(ctx context.Context, name string) ([]byte, error) {
	u, err := r.resolve(name)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %w", common.ErrNetwork, u, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", common.ErrNetwork, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &common.StatusError{URL: u.String(), Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %w", common.ErrNetwork, u, err)
	}

	r.logger.Debug("asset fetched", zap.String("url", u.String()), zap.Int("bytes", len(data)))
	return data, nil
}

func (r *remoteSource) RetrieveText(ctx context.Context, name string) (string, error) {
	data, err := r.Retrieve(ctx, name)
	if err != nil {
		return "", err
	}
	return decodeText(name, data)
}

func (r *remoteSource) Location() string {
	return r.base.String()
}
