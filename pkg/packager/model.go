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

// Package packager groups a bundle's sorted band indices into fixed-width
// packages and names each one deterministically, matching the remote
// layout the uploader writes to.
package packager

import (
	"sort"
	"strconv"

	liberr "github.com/isundaylee/sparsebundle-sync/errors"
)

// Package is one group of contiguous-range band indices destined for a
// single .arc upload.
type Package struct {
	// ID is the package index: band // width.
	ID uint64
	// Name is "<start_hex>-<end_hex>" for the package's full id range,
	// independent of which bands within that range actually exist.
	Name string
	// Bands are the band indices that belong to this package, ascending.
	Bands []uint64
}

// Group partitions sorted band indices into packages of width bands each.
// Packages are returned in ascending ID order. width must be positive.
func Group(bands []uint64, width uint64) ([]Package, liberr.Error) {
	if width == 0 {
		return nil, ErrorInvalidWidth.Error(nil)
	}

	byID := make(map[uint64][]uint64)
	for _, b := range bands {
		id := b / width
		byID[id] = append(byID[id], b)
	}

	ids := make([]uint64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pkgs := make([]Package, 0, len(ids))
	for _, id := range ids {
		pkgs = append(pkgs, Package{
			ID:    id,
			Name:  Name(id, width),
			Bands: byID[id],
		})
	}

	return pkgs, nil
}

// Name returns the canonical "<start_hex>-<end_hex>" name for package id
// at the given width.
func Name(id, width uint64) string {
	start := id * width
	end := (id+1)*width - 1
	return strconv.FormatUint(start, 16) + "-" + strconv.FormatUint(end, 16)
}

// RemoteKey returns the object-store key a package's archive is uploaded
// to: "<bundleName>/bands/<pkgName>.arc".
func RemoteKey(bundleName, pkgName string) string {
	return bundleName + "/bands/" + pkgName + ".arc"
}
