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

import "github.com/isundaylee/sparsebundle-sync/errors"

const (
	ErrorInvalidMagic errors.CodeError = iota + errors.MinPkgSparseBundleArc
	ErrorInvalidHeader
	ErrorTruncatedRecord
	ErrorNameNotUTF8
	ErrorDecompressionFailed
	ErrorInvalidFlags
	ErrorShortRead
	ErrorParamsEmpty
)

func init() {
	errors.RegisterIdFctMessage(ErrorInvalidMagic, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorInvalidMagic:
		return "archive header magic does not match 'arcf'"
	case ErrorInvalidHeader:
		return "archive header padding is not all zero"
	case ErrorTruncatedRecord:
		return "archive record ended before the expected number of bytes"
	case ErrorNameNotUTF8:
		return "archive entry name is not valid UTF-8"
	case ErrorDecompressionFailed:
		return "archive entry payload failed to decompress"
	case ErrorInvalidFlags:
		return "archive flags word sets more than one compression bit"
	case ErrorShortRead:
		return "payload adapter returned fewer bytes than it reported as its length"
	case ErrorParamsEmpty:
		return "given parameters is empty"
	}

	return ""
}
