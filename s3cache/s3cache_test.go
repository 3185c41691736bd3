/* Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3cache

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/gregjones/httpcache/test"
)

// testBucket names a bucket the caller can write to; the S3 tests skip
// without one.
func testBucket(t *testing.T) string {
	bucket := os.Getenv("COMPGEN_TEST_BUCKET")
	if bucket == "" {
		t.Skip("Skipping test because COMPGEN_TEST_BUCKET is unset")
	}

	return bucket
}

func TestS3Cache(t *testing.T) {
	bucket := testBucket(t)
	cache := New(context.Background(), bucket, WithErrorLogging())
	err := cache.Init()
	if err != nil {
		t.Skip(fmt.Sprintf("Skipping test due to lack of access to %v: %v",
			bucket, err))
	}

	test.Cache(t, cache)
}

func TestS3CacheWithGzip(t *testing.T) {
	bucket := testBucket(t)
	cache := New(context.Background(), bucket, WithGzip(), WithErrorLogging())
	err := cache.Init()
	if err != nil {
		t.Skip(fmt.Sprintf("Skipping test due to lack of access to %v: %v",
			bucket, err))
	}

	test.Cache(t, cache)
}

func TestParseURI(t *testing.T) {
	cases := []struct {
		in      string
		bucket  string
		key     string
		wantErr bool
	}{
		{in: "s3://comps/2025/assignments.csv", bucket: "comps", key: "2025/assignments.csv"},
		{in: "s3://comps/a.csv", bucket: "comps", key: "a.csv"},
		{in: "s3://comps", wantErr: true},
		{in: "s3:///a.csv", wantErr: true},
		{in: "assignments.csv", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			bucket, key, err := ParseURI(c.in)
			if c.wantErr {
				if err == nil {
					t.Errorf("ParseURI(%q) = %q, %q; want error", c.in, bucket, key)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURI(%q): %v", c.in, err)
			}
			if bucket != c.bucket || key != c.key {
				t.Errorf("ParseURI(%q) = %q, %q; want %q, %q", c.in, bucket, key,
					c.bucket, c.key)
			}
		})
	}
}

func TestCacheKeyToObjectKey(t *testing.T) {
	plain := New(context.Background(), "b")
	zipped := New(context.Background(), "b", WithGzip())

	k1 := plain.cacheKeyToObjectKey("https://example.com/a")
	k2 := zipped.cacheKeyToObjectKey("https://example.com/a")
	if k2 != k1+".gz" {
		t.Errorf("gzip key %q should be %q + .gz", k2, k1)
	}
	if k1 == plain.cacheKeyToObjectKey("https://example.com/b") {
		t.Error("distinct urls mapped to the same object key")
	}
}
