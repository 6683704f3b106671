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

package bundle

import (
	"io"
	"os"
	"path/filepath"

	"github.com/isundaylee/sparsebundle-sync/encoding/plist"
	liberr "github.com/isundaylee/sparsebundle-sync/errors"
)

const infoPlistName = "Info.plist"

// Info holds the subset of Info.plist this module reads.
type Info struct {
	// BandSize is the "band-size" key: the uncompressed byte size of each
	// band file in the bundle.
	BandSize int64
}

// ReadInfo opens <bundleRoot>/Info.plist and reads its band-size key.
func ReadInfo(bundleRoot string) (*Info, liberr.Error) {
	f, err := os.Open(filepath.Join(bundleRoot, infoPlistName))
	if err != nil {
		return nil, ErrorMissingInfoPlist.Error(err)
	}
	defer func() { _ = f.Close() }()

	return ReadInfoFrom(f)
}

// ReadInfoFrom decodes Info.plist content from an already-open reader,
// for callers that obtained it some other way than opening a local file.
func ReadInfoFrom(r io.Reader) (*Info, liberr.Error) {
	dict, err := plist.Decode(r)
	if err != nil {
		return nil, ErrorMissingInfoPlist.Error(err)
	}

	bandSize, err := dict.Int64("band-size")
	if err != nil {
		return nil, ErrorMissingInfoPlist.Error(err)
	}

	return &Info{BandSize: bandSize}, nil
}
