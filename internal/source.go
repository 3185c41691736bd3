/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikeb26/compgen/s3cache"
)

// sheetMaxAge bounds how stale a fetched assignment sheet may be. Sheets are
// edited right up to the competition, so keep it short.
const sheetMaxAge = 5 * time.Minute

// Locator reads and writes locations given as local paths, http(s) URLs or
// s3://bucket/key URIs.
type Locator struct {
	// CacheBucket, when set, backs the http cache with S3.
	CacheBucket string

	httpClient   *http.Client
	clientBucket string
}

func NewLocator(cacheBucket string) *Locator {
	return &Locator{CacheBucket: cacheBucket}
}

func isHTTP(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// ReadSource returns the contents found at loc.
func (l *Locator) ReadSource(ctx context.Context, loc string) ([]byte, error) {
	switch {
	case s3cache.IsURI(loc):
		obj, err := openObject(ctx, loc)
		if err != nil {
			return nil, err
		}
		return obj.cache.GetObject(obj.key)
	case isHTTP(loc):
		return l.fetch(ctx, loc)
	default:
		data, err := os.ReadFile(loc)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", loc, err)
		}
		return data, nil
	}
}

// WriteDest stores data at loc. http(s) destinations are not supported.
func (l *Locator) WriteDest(ctx context.Context, loc string, data []byte) error {
	switch {
	case s3cache.IsURI(loc):
		obj, err := openObject(ctx, loc)
		if err != nil {
			return err
		}
		return obj.cache.PutObject(obj.key, data)
	case isHTTP(loc):
		return fmt.Errorf("cannot write to %v: http destinations are read-only", loc)
	default:
		if dir := filepath.Dir(loc); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(loc, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", loc, err)
		}
		return nil
	}
}

// JoinDest appends name to the directory-like location dir.
func JoinDest(dir string, name string) string {
	if dir == "" {
		return name
	}
	if s3cache.IsURI(dir) || isHTTP(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}

	return filepath.Join(dir, name)
}

// HttpClient returns the shared cached client, creating it on first use and
// again whenever CacheBucket has changed since. The client outlives ctx, so
// only ctx's values are kept.
func (l *Locator) HttpClient(ctx context.Context) *http.Client {
	if l.httpClient == nil || l.clientBucket != l.CacheBucket {
		l.httpClient = NewCachedHttpClient(context.WithoutCancel(ctx),
			l.CacheBucket, sheetMaxAge)
		l.clientBucket = l.CacheBucket
	}

	return l.httpClient
}

func (l *Locator) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v (new): %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	resp, err := l.HttpClient(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v (do): %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to fetch %v: http status: %v", url,
			resp.Status)
	}

	return io.ReadAll(resp.Body)
}

type object struct {
	cache *s3cache.Cache
	key   string
}

func openObject(ctx context.Context, loc string) (object, error) {
	bucket, key, err := s3cache.ParseURI(loc)
	if err != nil {
		return object{}, err
	}
	cache := s3cache.New(ctx, bucket)
	if err := cache.Init(); err != nil {
		return object{}, err
	}

	return object{cache: cache, key: key}, nil
}
