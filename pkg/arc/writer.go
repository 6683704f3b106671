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

// Package arc implements the streaming archive container this module uses
// to group sparse-bundle band files for upload: a fixed 36-byte header
// (magic, compression flags, reserved padding) followed by a flat stream
// of name/length/payload records. Writer exposes a read/seek interface so
// it can be handed directly to an object-store client as a request body
// without ever materialising the full archive in memory; Reader parses
// that stream back into lazily-decompressed entries.
package arc

import (
	"encoding/binary"
	"io"
	"unicode/utf8"

	liberr "github.com/isundaylee/sparsebundle-sync/errors"
)

const (
	magic      = "arcf"
	headerLen  = 4 + 4 + 28
	paddingLen = 28
)

type fieldKind uint8

const (
	fieldBytes fieldKind = iota
	fieldPayload
)

// field is the Writer's internal unit: a tagged (length, source) pair.
type field struct {
	kind   fieldKind
	length int64
	data   []byte
	pl     wrapper
}

func (f *field) readAt(off int64, p []byte) (int, error) {
	switch f.kind {
	case fieldBytes:
		if off >= int64(len(f.data)) {
			return 0, io.EOF
		}
		return copy(p, f.data[off:]), nil
	default:
		if _, err := f.pl.Seek(off, io.SeekStart); err != nil {
			return 0, err
		}
		return f.pl.Read(p)
	}
}

// Writer assembles a sequence of fields (header plus per-file records) and
// exposes them as a single streaming, seekable byte source.
type Writer struct {
	flags  Flag
	policy CachePolicy

	fields []field

	fieldIdx int
	fieldOff int64
}

// NewWriter constructs a Writer with the given compression flags (at most
// one of FlagGZIP/FlagLZ4) and cache policy. The header fields (magic,
// flags, padding) are installed immediately.
func NewWriter(flags Flag, policy CachePolicy) (*Writer, liberr.Error) {
	if flags&FlagGZIP != 0 && flags&FlagLZ4 != 0 {
		return nil, ErrorInvalidFlags.Error(nil)
	}

	w := &Writer{flags: flags, policy: policy}

	flagBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(flagBytes, uint32(flags))

	w.fields = append(w.fields,
		field{kind: fieldBytes, length: 4, data: []byte(magic)},
		field{kind: fieldBytes, length: 4, data: flagBytes},
		field{kind: fieldBytes, length: paddingLen, data: make([]byte, paddingLen)},
	)

	return w, nil
}

// AddFile wraps source in the writer's configured compression wrapper and
// appends the four fields of a file record: name length, name bytes,
// content length, content payload. The payload's compressed length is
// computed immediately (the wrapper's Length() is queried at add time),
// so compression work for a file happens during AddFile, not lazily on
// first read.
func (w *Writer) AddFile(name string, source Source) liberr.Error {
	if !utf8.ValidString(name) {
		return ErrorNameNotUTF8.Error(nil)
	}

	wrp := newWrapper(w.flags, source, w.policy)

	contentLen, err := wrp.Length()
	if err != nil {
		return ErrorDecompressionFailed.Error(err)
	}

	nameBytes := []byte(name)
	nameLenBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(nameLenBytes, uint32(len(nameBytes)))

	contentLenBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(contentLenBytes, uint64(contentLen))

	w.fields = append(w.fields,
		field{kind: fieldBytes, length: 4, data: nameLenBytes},
		field{kind: fieldBytes, length: int64(len(nameBytes)), data: nameBytes},
		field{kind: fieldBytes, length: 8, data: contentLenBytes},
		field{kind: fieldPayload, length: contentLen, pl: wrp},
	)

	return nil
}

// Len returns the total archive length: the sum of every field's length.
func (w *Writer) Len() int64 {
	var total int64
	for _, f := range w.fields {
		total += f.length
	}
	return total
}

// Read returns up to len(p) bytes from the current cursor, advancing it.
// A single call never spans more than one field: once the current field is
// exhausted the cursor rolls over, and the remainder of p is left unfilled
// for the next call. Returns io.EOF once the cursor reaches the end of the
// archive.
func (w *Writer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for w.fieldIdx < len(w.fields) {
		f := &w.fields[w.fieldIdx]
		remain := f.length - w.fieldOff

		if remain <= 0 {
			w.fieldIdx++
			w.fieldOff = 0
			continue
		}

		toRead := int64(len(p))
		if toRead > remain {
			toRead = remain
		}

		n, err := f.readAt(w.fieldOff, p[:toRead])
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n == 0 {
			return 0, ErrorShortRead.Error(nil)
		}

		w.fieldOff += int64(n)
		if w.fieldOff >= f.length {
			w.fieldIdx++
			w.fieldOff = 0
		}

		return n, nil
	}

	return 0, io.EOF
}

// Seek positions the cursor at an absolute offset into the archive byte
// stream, walking the field list to find the field containing pos.
// Seeking at or past the end of the archive parks the cursor at
// end-of-stream; a subsequent Read then returns io.EOF.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	var pos int64

	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = w.currentOffset() + offset
	case io.SeekEnd:
		pos = w.Len() + offset
	default:
		return 0, ErrorParamsEmpty.Error(nil)
	}

	if pos < 0 {
		pos = 0
	}

	var acc int64
	for i := range w.fields {
		fl := w.fields[i].length
		if pos < acc+fl {
			w.fieldIdx = i
			w.fieldOff = pos - acc
			return pos, nil
		}
		acc += fl
	}

	w.fieldIdx = len(w.fields)
	w.fieldOff = 0
	return pos, nil
}

func (w *Writer) currentOffset() int64 {
	var acc int64
	for i := 0; i < w.fieldIdx && i < len(w.fields); i++ {
		acc += w.fields[i].length
	}
	return acc + w.fieldOff
}
