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
	"io"
	"time"
)

// gzipWrapper compresses its source with deflate at the highest level and a
// zeroed modification-time header field, so the compressed bytes are
// deterministic across runs. The compressed buffer materialises fully on
// the first Length() or Read() call.
type gzipWrapper struct {
	src    Source
	policy CachePolicy

	buf *bytesReadSeeker
}

func newGzipWrapper(src Source, policy CachePolicy) *gzipWrapper {
	return &gzipWrapper{src: src, policy: policy}
}

func (g *gzipWrapper) ensure() error {
	if g.buf != nil {
		return nil
	}

	if g.policy == CacheDiscard {
		if _, err := g.src.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	var out bytes.Buffer
	w, err := gzip.NewWriterLevel(&out, gzip.BestCompression)
	if err != nil {
		return err
	}
	w.ModTime = time.Time{}

	tmp := make([]byte, 1<<20)
	for {
		n, rerr := g.src.Read(tmp)
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

	if err = w.Close(); err != nil {
		return err
	}

	g.buf = newBytesReadSeeker(out.Bytes())
	return nil
}

func (g *gzipWrapper) release() {
	if g.policy == CacheDiscard {
		g.buf = nil
	}
}

func (g *gzipWrapper) Length() (int64, error) {
	if err := g.ensure(); err != nil {
		return 0, err
	}
	return int64(len(g.buf.buf)), nil
}

func (g *gzipWrapper) Seek(offset int64, whence int) (int64, error) {
	if err := g.ensure(); err != nil {
		return 0, err
	}
	return g.buf.Seek(offset, whence)
}

func (g *gzipWrapper) Read(p []byte) (int, error) {
	if err := g.ensure(); err != nil {
		return 0, err
	}
	n, err := g.buf.Read(p)
	if g.buf.pos >= int64(len(g.buf.buf)) {
		g.release()
	}
	return n, err
}
