/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package s3 adapts github.com/aws/aws-sdk-go-v2/service/s3 to the
// pkg/objectstore.Store contract: a single-call HeadObject/PutObject pair,
// no multipart. This module's packages are sized to fit one PUT.
package s3

import (
	"context"
	"encoding/base64"
	"errors"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	sdkcfg "github.com/aws/aws-sdk-go-v2/config"
	sdkcred "github.com/aws/aws-sdk-go-v2/credentials"
	sdksss "github.com/aws/aws-sdk-go-v2/service/s3"
	sdktps "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/isundaylee/sparsebundle-sync/pkg/objectstore"
)

// Client wraps an *sdksss.Client to satisfy objectstore.Store.
type Client struct {
	cli *sdksss.Client
}

// New builds a Client from a region. With an empty accessKeyID, credentials
// come from the SDK's default chain (environment, shared config,
// container/instance role); with one set, a static provider pins the pair
// explicitly, for the case where the caller's own config source (not the
// SDK's) is the source of truth for the key pair.
func New(ctx context.Context, region, accessKeyID, secretAccessKey string) (*Client, error) {
	opts := []func(*sdkcfg.LoadOptions) error{sdkcfg.WithRegion(region)}

	if accessKeyID != "" {
		opts = append(opts, sdkcfg.WithCredentialsProvider(
			sdkcred.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	cfg, err := sdkcfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{cli: sdksss.NewFromConfig(cfg)}, nil
}

// NewFromClient wraps an already-constructed SDK client, for callers that
// need custom credentials or endpoint resolution.
func NewFromClient(cli *sdksss.Client) *Client {
	return &Client{cli: cli}
}

func (c *Client) HeadObject(ctx context.Context, bucket, key string) (string, error) {
	out, err := c.cli.HeadObject(ctx, &sdksss.HeadObjectInput{
		Bucket: sdkaws.String(bucket),
		Key:    sdkaws.String(key),
	})

	if err != nil {
		if isNotFound(err) {
			return "", objectstore.ErrNotFound
		}
		return "", err
	}

	if out.ETag == nil {
		return "", objectstore.ErrNotFound
	}

	return *out.ETag, nil
}

func (c *Client) PutObject(ctx context.Context, in objectstore.PutObjectInput) (string, error) {
	out, err := c.cli.PutObject(ctx, &sdksss.PutObjectInput{
		Bucket:        sdkaws.String(in.Bucket),
		Key:           sdkaws.String(in.Key),
		Body:          in.Body,
		ContentLength: sdkaws.Int64(in.Length),
		ContentMD5:    sdkaws.String(base64.StdEncoding.EncodeToString(in.ContentMD5)),
		StorageClass:  sdktps.StorageClass(in.StorageClass),
	})
	if err != nil {
		return "", err
	}

	if out.ETag == nil {
		return "", ErrorInvalidResponse.Error(nil)
	}

	return *out.ETag, nil
}

func isNotFound(err error) bool {
	var nf *sdktps.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var nsk *sdktps.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	return false
}
