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
	"github.com/isundaylee/sparsebundle-sync/ioutils"
)

// FileSource adapts an ioutils.FileProgress handle to Source, stat-ing it
// lazily on the first Length() call and caching the result - band files do
// not change size while a package is being archived. Going through
// FileProgress rather than a bare *os.File means a caller can attach a
// byte-level progress callback via SetIncrement before handing the file to
// a Writer.
type FileSource struct {
	f    ioutils.FileProgress
	size int64
	done bool
}

// NewFileSource wraps an already-open, read-seekable file handle. The
// caller retains ownership: the Writer borrows the handle for its
// lifetime and never closes it.
func NewFileSource(f ioutils.FileProgress) *FileSource {
	return &FileSource{f: f}
}

func (s *FileSource) Length() (int64, error) {
	if !s.done {
		fi, err := s.f.FileStat()
		if err != nil {
			return 0, err
		}
		s.size = fi.Size()
		s.done = true
	}
	return s.size, nil
}

func (s *FileSource) Read(p []byte) (int, error) {
	return s.f.Read(p)
}

func (s *FileSource) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}

// BytesSource wraps an in-memory byte slice as a Source.
func BytesSource(b []byte) Source {
	return newBytesSource(b)
}
