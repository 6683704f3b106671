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
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4Wrapper frame-compresses its source at level 1 with content checksums
// enabled and the uncompressed size omitted from the frame descriptor,
// matching a streaming producer that does not know the final size up
// front. Same materialise-on-first-use, cursor-over-buffer semantics as
// gzipWrapper.
type lz4Wrapper struct {
	src    Source
	policy CachePolicy

	buf *bytesReadSeeker
}

func newLZ4Wrapper(src Source, policy CachePolicy) *lz4Wrapper {
	return &lz4Wrapper{src: src, policy: policy}
}

func (l *lz4Wrapper) ensure() error {
	if l.buf != nil {
		return nil
	}

	if l.policy == CacheDiscard {
		if _, err := l.src.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	var out bytes.Buffer
	w := lz4.NewWriter(&out)
	if err := w.Apply(
		lz4.CompressionLevelOption(lz4.Level1),
		lz4.ChecksumOption(true),
		lz4.SizeOption(0),
	); err != nil {
		return err
	}

	tmp := make([]byte, 1<<20)
	for {
		n, rerr := l.src.Read(tmp)
		if n > 0 {
			if _, werr := w.Write(tmp[:n]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}

	if err := w.Close(); err != nil {
		return err
	}

	l.buf = newBytesReadSeeker(out.Bytes())
	return nil
}

func (l *lz4Wrapper) release() {
	if l.policy == CacheDiscard {
		l.buf = nil
	}
}

func (l *lz4Wrapper) Length() (int64, error) {
	if err := l.ensure(); err != nil {
		return 0, err
	}
	return int64(len(l.buf.buf)), nil
}

func (l *lz4Wrapper) Seek(offset int64, whence int) (int64, error) {
	if err := l.ensure(); err != nil {
		return 0, err
	}
	return l.buf.Seek(offset, whence)
}

func (l *lz4Wrapper) Read(p []byte) (int, error) {
	if err := l.ensure(); err != nil {
		return 0, err
	}
	n, err := l.buf.Read(p)
	if l.buf.pos >= int64(len(l.buf.buf)) {
		l.release()
	}
	return n, err
}
