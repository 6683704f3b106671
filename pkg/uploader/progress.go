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

package uploader

import "io"

// progressReadSeeker wraps an io.ReadSeeker and reports cumulative bytes
// read through onRead, mirroring the increment callback the teacher's
// ioutils.FileProgress threads through its Read method. It is only wired
// around the transmission pass of an upload, not the MD5 pass, so a
// caller watching OnProgress sees monotonic progress toward total.
type progressReadSeeker struct {
	src    io.ReadSeeker
	total  int64
	sent   int64
	onRead func(sent, total int64)
}

func newProgressReadSeeker(src io.ReadSeeker, total int64, onRead func(sent, total int64)) *progressReadSeeker {
	return &progressReadSeeker{src: src, total: total, onRead: onRead}
}

func (p *progressReadSeeker) Read(b []byte) (int, error) {
	n, err := p.src.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.onRead != nil {
			p.onRead(p.sent, p.total)
		}
	}
	return n, err
}

func (p *progressReadSeeker) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.src.Seek(offset, whence)
	if err == nil && whence == io.SeekStart && offset == 0 {
		p.sent = 0
	}
	return pos, err
}
