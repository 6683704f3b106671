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

package arc

import (
	"io"
)

// Flag is the little-endian flags word stored in the archive header.
type Flag uint32

const (
	FlagGZIP Flag = 1 << iota
	FlagLZ4
)

// CachePolicy controls whether a compression wrapper keeps its compressed
// buffer around after a traversal reaches the end of it.
type CachePolicy uint8

const (
	// CacheDiscard recomputes the compressed buffer on demand and drops it
	// the moment a read cursor reaches its end. Correct for seekable
	// sources, where recomputing just means seeking the source back to 0.
	CacheDiscard CachePolicy = iota

	// CacheRetain computes the compressed buffer once and keeps it until
	// the wrapper is released. Required for non-seekable sources, since
	// the upload path always reads the body twice (MD5 pass, then the
	// transmission pass).
	CacheRetain
)

// Source is the minimal capability a field's payload must offer: known
// length, and random-access read. NewFileSource (over an
// ioutils.FileProgress handle) and BytesSource (over an in-memory byte
// slice) both return one.
type Source interface {
	io.ReadSeeker
	// Length returns the source's uncompressed byte length.
	Length() (int64, error)
}

// bytesSource adapts an in-memory byte slice to Source.
type bytesSource struct {
	*bytesReadSeeker
}

func newBytesSource(b []byte) *bytesSource {
	return &bytesSource{bytesReadSeeker: newBytesReadSeeker(b)}
}

func (b *bytesSource) Length() (int64, error) {
	return int64(len(b.buf)), nil
}

// bytesReadSeeker is a minimal io.ReadSeeker over a byte slice, used both
// directly as a Source and as the backing store for compressed buffers.
type bytesReadSeeker struct {
	buf []byte
	pos int64
}

func newBytesReadSeeker(b []byte) *bytesReadSeeker {
	return &bytesReadSeeker{buf: b}
}

func (b *bytesReadSeeker) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *bytesReadSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	}
	b.pos = abs
	return abs, nil
}

// wrapper is the compression-wrapper trait: one of pass-through, GZIP, LZ4.
type wrapper interface {
	// Length returns the wrapped (possibly compressed) byte length.
	Length() (int64, error)
	// Seek positions an internal read cursor over the wrapped bytes.
	Seek(offset int64, whence int) (int64, error)
	// Read reads from the internal cursor, advancing it.
	Read(p []byte) (int, error)
}

// newWrapper builds the wrapper matching flags, backed by src, honoring
// policy for compressing wrappers. flags must carry at most one of
// FlagGZIP/FlagLZ4; passing both is a caller bug and is not defended here
// (the Writer validates flags once at construction).
func newWrapper(flags Flag, src Source, policy CachePolicy) wrapper {
	switch {
	case flags&FlagGZIP != 0:
		return newGzipWrapper(src, policy)
	case flags&FlagLZ4 != 0:
		return newLZ4Wrapper(src, policy)
	default:
		return &passthroughWrapper{src: src}
	}
}

// passthroughWrapper forwards Length/Seek/Read directly to the source. It
// is the Go-idiomatic stand-in for the reference implementation's
// attribute-duck-typed "no-op" wrapper: Go has no hasattr, so field
// construction always resolves to one concrete wrapper type up front.
type passthroughWrapper struct {
	src Source
}

func (p *passthroughWrapper) Length() (int64, error) {
	return p.src.Length()
}

func (p *passthroughWrapper) Seek(offset int64, whence int) (int64, error) {
	return p.src.Seek(offset, whence)
}

func (p *passthroughWrapper) Read(b []byte) (int, error) {
	return p.src.Read(b)
}
