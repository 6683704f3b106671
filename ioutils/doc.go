/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

/*
Package ioutils provides the file-handle primitives the rest of this module
builds on: a progress-reporting file handle, a temporary-file helper and a
path existence/creation helper.

# Contents

	PathCheckCreate     - file/directory creation with permission management
	NewTempFile         - os.CreateTemp wrapper returning this module's Error type
	FileProgress        - *os.File wrapper reporting read/write progress via callbacks

FileProgress is the handle type pkg/arc's field adapters and pkg/uploader's
archive-then-upload path use for band and meta files. Upload progress does
not go through its SetIncrement/SetReset callbacks: pkg/uploader wraps the
upload body in its own progress reader and reports through
Config.OnProgress.

# Error Handling

Functions that can fail return this module's Error type (see the errors
package) rather than a bare error, so callers can inspect the failure code
with errors.Has/errors.IsCode instead of string-matching.
*/
package ioutils
