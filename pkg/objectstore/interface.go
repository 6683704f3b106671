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

// Package objectstore defines the opaque object-store contract the
// uploader drives: head a key for its entity tag, or put a body under a
// storage class. The concrete implementation (pkg/objectstore/s3) is an
// external collaborator in the same sense the CLI and the filesystem walk
// are - this package only names the shape the uploader depends on.
package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is wrapped into the error HeadObject returns when the key
// does not exist. Callers should check it with errors.Is.
var ErrNotFound = errors.New("objectstore: key not found")

// Store is the object-store capability the uploader depends on.
type Store interface {
	// HeadObject returns the entity tag of bucket/key, or an error
	// wrapping ErrNotFound if the key does not exist.
	HeadObject(ctx context.Context, bucket, key string) (etag string, err error)

	// PutObject uploads in.Body (exactly in.Length bytes) to in.Bucket/in.Key
	// under in.StorageClass, with in.ContentMD5 as the integrity check, and
	// returns the resulting entity tag.
	PutObject(ctx context.Context, in PutObjectInput) (etag string, err error)
}

// PutObjectInput is the body and metadata of a single-call upload. This
// module never needs more than one put_object call per object: packages
// are sized so each archive fits in a single PUT (see Non-goals).
type PutObjectInput struct {
	Bucket       string
	Key          string
	Body         io.ReadSeeker
	Length       int64
	ContentMD5   []byte // raw 16 bytes; an adapter base64-encodes it for the wire
	StorageClass string
}
