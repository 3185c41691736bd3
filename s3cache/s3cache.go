/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3cache stores and retrieves data in Amazon S3. A Cache serves two
 * purposes: it implements httpcache.Cache so fetched web pages survive
 * between runs, and it reads and writes plain objects so assignment sheets
 * and staged outputs can live in a bucket (s3://bucket/key).
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const (
	uriScheme  = "s3://"
	pathPrefix = "s3cache"
)

var ErrNoSuchKey = errors.New("no such key")

// Cache objects store and retrieve data using Amazon S3.
type Cache struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client used when interacting with S3. Init() builds
	// one from the default config; callers may replace it afterwards.
	Client *s3.Client

	bucketName string

	// gzip compresses http cache entries; cache keys get a ".gz" suffix.
	// Plain objects are never compressed.
	gzip bool

	logErrors bool

	ctx context.Context
}

type Option func(*Cache)

// WithGzip compresses http cache entries.
func WithGzip() Option {
	return func(c *Cache) {
		c.gzip = true
	}
}

// WithErrorLogging logs failures of the httpcache.Cache methods, which have
// no way to return them.
func WithErrorLogging() Option {
	return func(c *Cache) {
		c.logErrors = true
	}
}

// New returns a new Cache backed by bucketName. Callers must invoke Init()
// on the returned Cache before use.
func New(ctx context.Context, bucketName string, opts ...Option) *Cache {
	c := &Cache{
		ctx:        ctx,
		bucketName: bucketName,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Init loads the default AWS configuration (environment variables, then the
// shared configuration and credentials files) and verifies the bucket is
// reachable.
func (c *Cache) Init() error {
	var err error
	c.Config, err = config.LoadDefaultConfig(c.ctx)
	if err != nil {
		return fmt.Errorf("s3cache.init: failed to load AWS config: %w", err)
	}
	c.Client = s3.NewFromConfig(c.Config)

	if _, err = c.Client.HeadBucket(c.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	}); err != nil {
		return fmt.Errorf("s3cache.init: head bucket failed for %s: %w", c.bucketName, err)
	}

	return nil
}

func (c *Cache) Bucket() string {
	return c.bucketName
}

// Get implements httpcache.Cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	objKey := c.cacheKeyToObjectKey(key)
	data, err := c.read(objKey, c.gzip)
	if err != nil {
		if c.logErrors && !errors.Is(err, ErrNoSuchKey) {
			log.Printf("s3cache.get: %v", err)
		}
		return []byte{}, false
	}

	return data, true
}

// Set implements httpcache.Cache.
func (c *Cache) Set(key string, data []byte) {
	if err := c.write(c.cacheKeyToObjectKey(key), data, c.gzip); err != nil {
		if c.logErrors {
			log.Printf("s3cache.set: %v", err)
		}
	}
}

// Delete implements httpcache.Cache.
func (c *Cache) Delete(key string) {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.cacheKeyToObjectKey(key)),
	}

	_, err := c.Client.DeleteObject(c.ctx, input)
	if err != nil {
		if c.logErrors {
			log.Printf("s3cache.delete: delete failed: %v", err)
		}
	}
}

// GetObject returns the contents of the object stored under key.
func (c *Cache) GetObject(key string) ([]byte, error) {
	return c.read(key, false)
}

// PutObject stores data under key.
func (c *Cache) PutObject(key string, data []byte) error {
	return c.write(key, data, false)
}

func (c *Cache) read(objKey string, compressed bool) ([]byte, error) {
	resp, err := c.Client.GetObject(c.ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %v/%v", ErrNoSuchKey, c.bucketName, objKey)
		}
		return nil, fmt.Errorf("failed to get object %v/%v: %w", c.bucketName,
			objKey, err)
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if compressed {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed object %v/%v: %w",
				c.bucketName, objKey, err)
		}
		defer gr.Close()
		rdr = gr
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %v/%v: %w", c.bucketName,
			objKey, err)
	}

	return data, nil
}

func (c *Cache) write(objKey string, data []byte, compressed bool) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objKey),
		Body:   bytes.NewReader(data),
	}

	if compressed {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("failed to gzip data for %v/%v: %w", c.bucketName,
				objKey, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer for %v/%v: %w",
				c.bucketName, objKey, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.Client.PutObject(c.ctx, input); err != nil {
		return fmt.Errorf("put failed for %v/%v: %w", c.bucketName, objKey, err)
	}

	return nil
}

func (c *Cache) cacheKeyToObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	objKey := fmt.Sprintf("%v/%v", pathPrefix, hex.EncodeToString(h.Sum(nil)))
	if c.gzip {
		objKey += ".gz"
	}

	return objKey
}

// IsURI reports whether loc names an S3 object.
func IsURI(loc string) bool {
	return strings.HasPrefix(loc, uriScheme)
}

// ParseURI splits "s3://bucket/some/key" into its bucket and key.
func ParseURI(loc string) (string, string, error) {
	if !IsURI(loc) {
		return "", "", fmt.Errorf("%q is not an %v uri", loc, uriScheme)
	}
	rest := strings.TrimPrefix(loc, uriScheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q must name both a bucket and a key", loc)
	}

	return bucket, key, nil
}
