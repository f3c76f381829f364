package extension

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go-chatmod/internal/errs"
	"go-chatmod/internal/logging"

	"github.com/valyala/fasthttp"
)

// Resolver turns a configured source into configuration bytes. A source
// is either an inline JSON object, used as-is, or a JSON string holding
// a URL to fetch. Fetched payloads are snapshotted so a later startup
// survives the URL being down.
type Resolver struct {
	fetcher   *Fetcher
	snapshots *SnapshotStore
}

func NewResolver(fetcher *Fetcher, snapshots *SnapshotStore) *Resolver {
	return &Resolver{fetcher: fetcher, snapshots: snapshots}
}

func (r *Resolver) Resolve(ctx context.Context, extension, guildID string, raw json.RawMessage) ([]byte, error) {
	var url string
	if err := json.Unmarshal(raw, &url); err != nil {
		// Not a string: inline mapping.
		return raw, nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, errs.Config("config source %q is neither a mapping nor a URL", url)
	}

	payload, err := r.fetcher.Fetch(url)
	if err != nil {
		if r.snapshots != nil {
			if cached, cacheErr := r.snapshots.Load(extension, guildID); cacheErr == nil {
				logging.Warn("extension %s: fetch of %s failed (%v), using snapshot", extension, url, err)
				return cached, nil
			}
		}
		return nil, err
	}

	if !json.Valid(payload) {
		return nil, errs.Config("config fetched from %s is not valid JSON", url)
	}
	if r.snapshots != nil {
		if err := r.snapshots.Save(extension, guildID, url, payload); err != nil {
			logging.Warn("extension %s: snapshot save failed: %v", extension, err)
		}
	}
	return payload, nil
}

// Fetcher retrieves remote configuration over HTTP. Content type is
// ignored; the body is treated as JSON regardless.
type Fetcher struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &fasthttp.Client{
			MaxIdleConnDuration: 30 * time.Second,
		},
		timeout: timeout,
	}
}

func (f *Fetcher) Fetch(url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := f.client.DoTimeout(req, resp, f.timeout); err != nil {
		return nil, errs.Platform(err, "fetch config from %s", url)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, errs.Config("config URL %s returned status %d", url, resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
