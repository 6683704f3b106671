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
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/pierrec/lz4/v4"

	liberr "github.com/isundaylee/sparsebundle-sync/errors"
)

// Entry is one record yielded by Reader.Files: a name and a lazily
// decompressed, seekable view over its payload.
type Entry struct {
	Name    string
	Payload io.ReadSeeker
}

// Reader parses the arc header and file-record directory of a seekable
// byte source. Unlike the Writer side, Reader does not need a cache-policy
// choice: it always reads from a seekable, already-materialised archive.
type Reader struct {
	src io.ReadSeeker
}

// NewReader constructs a Reader over src. src is not read until Files is
// called.
func NewReader(src io.ReadSeeker) *Reader {
	return &Reader{src: src}
}

// Files parses the header and the full record directory eagerly (names,
// offsets, lengths), returning one Entry per record in file order. Each
// Entry's Payload is read lazily - the payload bytes are not touched until
// the caller reads from it.
func (r *Reader) Files(_ context.Context) ([]Entry, liberr.Error) {
	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return nil, ErrorInvalidHeader.Error(err)
	}

	hdr := make([]byte, headerLen)
	if _, err := io.ReadFull(r.src, hdr); err != nil {
		return nil, ErrorInvalidMagic.Error(err)
	}

	if string(hdr[:4]) != magic {
		return nil, ErrorInvalidMagic.Error(nil)
	}

	flags := Flag(binary.LittleEndian.Uint32(hdr[4:8]))

	for _, b := range hdr[8:headerLen] {
		if b != 0 {
			return nil, ErrorInvalidHeader.Error(nil)
		}
	}

	var entries []Entry
	offset := int64(headerLen)

	for {
		nameLenBytes := make([]byte, 4)
		n, err := io.ReadFull(r.src, nameLenBytes)
		if n == 0 && err == io.EOF {
			break
		}
		if err != nil {
			return nil, ErrorTruncatedRecord.Error(err)
		}
		offset += 4

		nameLen := binary.LittleEndian.Uint32(nameLenBytes)
		nameBytes := make([]byte, nameLen)
		if _, err = io.ReadFull(r.src, nameBytes); err != nil {
			return nil, ErrorTruncatedRecord.Error(err)
		}
		offset += int64(nameLen)

		if !utf8.Valid(nameBytes) {
			return nil, ErrorNameNotUTF8.Error(nil)
		}

		contentLenBytes := make([]byte, 8)
		if _, err = io.ReadFull(r.src, contentLenBytes); err != nil {
			return nil, ErrorTruncatedRecord.Error(err)
		}
		offset += 8

		contentLen := int64(binary.LittleEndian.Uint64(contentLenBytes))

		payloadOffset := offset
		entries = append(entries, Entry{
			Name: string(nameBytes),
			Payload: &payloadView{
				src:    r.src,
				offset: payloadOffset,
				length: contentLen,
				flags:  flags,
			},
		})

		if _, err = r.src.Seek(contentLen, io.SeekCurrent); err != nil {
			return nil, ErrorTruncatedRecord.Error(err)
		}
		offset += contentLen
	}

	return entries, nil
}

// payloadView is a lazy, per-entry reader over one record's payload. For
// uncompressed entries it seeks the shared source directly; for compressed
// entries it decompresses the full compressed range into memory on first
// use and serves subsequent reads from that buffer, releasing it once the
// cursor reaches the end - this is the caching discipline that keeps a
// traversal linear instead of quadratic in payload size.
type payloadView struct {
	src    io.ReadSeeker
	offset int64
	length int64
	flags  Flag

	cursor int64
	decBuf []byte
}

func (p *payloadView) Read(b []byte) (int, error) {
	if p.flags == 0 {
		return p.readPassthrough(b)
	}
	return p.readCompressed(b)
}

func (p *payloadView) readPassthrough(b []byte) (int, error) {
	if p.cursor >= p.length {
		return 0, io.EOF
	}

	if _, err := p.src.Seek(p.offset+p.cursor, io.SeekStart); err != nil {
		return 0, err
	}

	remain := p.length - p.cursor
	toRead := int64(len(b))
	if toRead > remain {
		toRead = remain
	}

	n, err := p.src.Read(b[:toRead])
	p.cursor += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (p *payloadView) readCompressed(b []byte) (int, error) {
	if p.decBuf == nil {
		buf, err := p.decompress()
		if err != nil {
			return 0, err
		}
		p.decBuf = buf
	}

	if p.cursor >= int64(len(p.decBuf)) {
		p.decBuf = nil
		return 0, io.EOF
	}

	n := copy(b, p.decBuf[p.cursor:])
	p.cursor += int64(n)

	if p.cursor >= int64(len(p.decBuf)) {
		p.decBuf = nil
	}

	return n, nil
}

func (p *payloadView) decompress() ([]byte, error) {
	if _, err := p.src.Seek(p.offset, io.SeekStart); err != nil {
		return nil, err
	}

	compressed := make([]byte, p.length)
	if _, err := io.ReadFull(p.src, compressed); err != nil {
		return nil, ErrorTruncatedRecord.Error(err)
	}

	var (
		rc  io.Reader
		err error
	)

	switch {
	case p.flags&FlagGZIP != 0:
		rc, err = gzip.NewReader(bytes.NewReader(compressed))
	case p.flags&FlagLZ4 != 0:
		rc = lz4.NewReader(bytes.NewReader(compressed))
	default:
		return compressed, nil
	}

	if err != nil {
		return nil, ErrorDecompressionFailed.Error(err)
	}

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, ErrorDecompressionFailed.Error(err)
	}

	return out, nil
}

// Seek repositions the view's read cursor. For compressed entries this
// only affects the logical cursor into the (possibly not yet decompressed)
// buffer; decompression happens lazily on the next Read.
func (p *payloadView) Seek(offset int64, whence int) (int64, error) {
	var pos int64

	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = p.cursor + offset
	case io.SeekEnd:
		pos = p.length + offset
	}

	if pos < 0 {
		pos = 0
	}

	p.cursor = pos
	return pos, nil
}
