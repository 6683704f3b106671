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

// Package bundle classifies the files of a macOS-style sparse-bundle disk
// image into metadata files and band files, and reads the handful of
// Info.plist keys this module needs. Enumerating the filesystem is the
// caller's job (a plain filepath.WalkDir in cmd/sparsebundle-sync);
// classification here works off a pre-enumerated list so it can be
// exercised without touching a real filesystem.
package bundle

import (
	"path"
	"sort"
	"strconv"
	"strings"

	liberr "github.com/isundaylee/sparsebundle-sync/errors"
)

const bandsDirName = "bands"

// Path describes one enumerated file under a bundle root.
type Path struct {
	// Rel is the file's path relative to the bundle root, using "/" as
	// the separator regardless of host OS.
	Rel   string
	IsDir bool
}

// Scan is the classification result: the bundle's metadata files (as
// bundle-root-relative paths) and the sorted ascending list of band
// indices found under bands/.
type Scan struct {
	MetaFiles []string
	Bands     []uint64
}

// ScanPaths classifies a pre-enumerated file list. Directories (including
// the bands/ entry itself) are skipped silently. Every other path not
// under bands/ is a meta file; a meta file whose relative path starts
// with "." is rejected as ErrorUnexpectedMetaFile. Every non-directory
// path under bands/ must be a canonical lower-case, no-leading-zero hex
// integer filename, or it is rejected as ErrorInvalidBandFile.
func ScanPaths(paths []Path) (*Scan, liberr.Error) {
	s := &Scan{}

	for _, p := range paths {
		if p.IsDir {
			continue
		}

		rel := path.Clean(p.Rel)

		if rel == bandsDirName {
			continue
		}

		if isUnderBands(rel) {
			idx, err := parseBandName(path.Base(rel))
			if err != nil {
				return nil, ErrorInvalidBandFile.Error(err)
			}
			s.Bands = append(s.Bands, idx)
			continue
		}

		if strings.HasPrefix(rel, ".") {
			return nil, ErrorUnexpectedMetaFile.Error(nil)
		}

		s.MetaFiles = append(s.MetaFiles, rel)
	}

	sort.Slice(s.Bands, func(i, j int) bool { return s.Bands[i] < s.Bands[j] })

	return s, nil
}

func isUnderBands(rel string) bool {
	return rel == bandsDirName || strings.HasPrefix(rel, bandsDirName+"/")
}

// parseBandName validates that name is the canonical lower-case,
// no-leading-zero hexadecimal representation of a non-negative integer:
// name == format(parse_hex(name), "x").
func parseBandName(name string) (uint64, error) {
	v, err := strconv.ParseUint(name, 16, 64)
	if err != nil {
		return 0, err
	}

	if canonical := strconv.FormatUint(v, 16); canonical != name {
		return 0, &canonicalizationError{name: name, canonical: canonical}
	}

	return v, nil
}

type canonicalizationError struct {
	name      string
	canonical string
}

func (e *canonicalizationError) Error() string {
	return "band filename '" + e.name + "' is not canonical (expected '" + e.canonical + "')"
}
