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

// Package uploader drives the sequential scan -> package -> archive ->
// upload -> catalogue pipeline: meta files first, then one archive per
// package, then the checksum catalogue itself.
package uploader

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	liberr "github.com/isundaylee/sparsebundle-sync/errors"
	"github.com/isundaylee/sparsebundle-sync/ioutils"
	"github.com/isundaylee/sparsebundle-sync/pkg/arc"
	"github.com/isundaylee/sparsebundle-sync/pkg/objectstore"
	"github.com/isundaylee/sparsebundle-sync/pkg/packager"
	"github.com/isundaylee/sparsebundle-sync/pkg/sblog"
)

// Config is the full set of inputs a Driver needs to run a sync sequence.
type Config struct {
	Store objectstore.Store

	Bucket     string
	BundleName string

	// StorageClass is used for meta-file-adjacent objects that are never
	// archival: the checksum catalogue.
	StorageClass string
	// ArchivalStorageClass is used for every band package and every other
	// meta file.
	ArchivalStorageClass string

	Flags       arc.Flag
	CachePolicy arc.CachePolicy

	// CataloguePath is a local file the driver appends "<md5> <key>\n"
	// lines to as it uploads. Empty disables catalogue tracking entirely.
	CataloguePath string

	// ForReal false makes every upload a dry run: the MD5/head_object
	// dedup check still runs (so logs reflect what would happen) but no
	// put_object call is made and the catalogue is not appended.
	ForReal bool

	// OnProgress, if set, is called with cumulative bytes sent and the
	// total size of the current object during its transmission pass
	// only (not the MD5 pass).
	OnProgress func(sent, total int64)
}

// Driver runs one bundle's upload sequence against Config.Store.
type Driver struct {
	cfg       Config
	stopped   atomic.Bool
	catalogue *os.File
}

// NewDriver constructs a Driver. If cfg.CataloguePath is set, the file is
// opened (created/truncated) immediately so a permissions problem surfaces
// before any upload work begins.
func NewDriver(cfg Config) (*Driver, liberr.Error) {
	d := &Driver{cfg: cfg}

	if cfg.CataloguePath != "" {
		f, err := os.OpenFile(cfg.CataloguePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, ErrorCatalogueWrite.Error(err)
		}
		d.catalogue = f
	}

	return d, nil
}

// Stop requests that the driver abort between packages. It does not
// interrupt an upload already in flight.
func (d *Driver) Stop() {
	d.stopped.Store(true)
}

// UploadMetaFiles uploads every meta file in rels (bundle-root-relative
// paths, as returned by bundle.Scan.MetaFiles) to
// "<bundle-name>/<relative-path>" under the archival storage class.
func (d *Driver) UploadMetaFiles(ctx context.Context, bundleRoot string, rels []string) liberr.Error {
	for _, rel := range rels {
		if d.stopped.Load() {
			return ErrorStopped.Error(nil)
		}

		if e := d.uploadMetaFile(ctx, bundleRoot, rel); e != nil {
			return e
		}
	}

	return nil
}

func (d *Driver) uploadMetaFile(ctx context.Context, bundleRoot, rel string) liberr.Error {
	path := filepath.Join(bundleRoot, filepath.FromSlash(rel))

	f, ferr := ioutils.NewFileProgressPathRead(path, 0o644)
	if ferr != nil {
		return ErrorOpenBandFile.Error(ferr)
	}
	defer func() { _ = f.Close() }()

	info, ferr := f.FileStat()
	if ferr != nil {
		return ErrorOpenBandFile.Error(ferr)
	}

	key := d.cfg.BundleName + "/" + rel

	sblog.DebugLevel.LogFields("uploading meta file", sblog.Fields{"path": rel, "key": key})

	return d.uploadBody(ctx, key, f, info.Size(), d.cfg.ArchivalStorageClass, true)
}

// UploadPackages archives and uploads every package (ascending id), each
// as a single .arc object at "<bundle-name>/bands/<pkg-name>.arc".
func (d *Driver) UploadPackages(ctx context.Context, bundleRoot string, pkgs []packager.Package) liberr.Error {
	for _, pkg := range pkgs {
		if d.stopped.Load() {
			return ErrorStopped.Error(nil)
		}

		if e := d.uploadPackage(ctx, bundleRoot, pkg); e != nil {
			return e
		}
	}

	return nil
}

func (d *Driver) uploadPackage(ctx context.Context, bundleRoot string, pkg packager.Package) liberr.Error {
	w, werr := arc.NewWriter(d.cfg.Flags, d.cfg.CachePolicy)
	if werr != nil {
		return werr
	}

	var handles []ioutils.FileProgress
	defer func() {
		for _, f := range handles {
			_ = f.Close()
		}
	}()

	for _, band := range pkg.Bands {
		name := strconv.FormatUint(band, 16)
		path := filepath.Join(bundleRoot, "bands", name)

		f, ferr := ioutils.NewFileProgressPathRead(path, 0o644)
		if ferr != nil {
			return ErrorOpenBandFile.Error(ferr)
		}
		handles = append(handles, f)

		if e := w.AddFile(name, arc.NewFileSource(f)); e != nil {
			return e
		}
	}

	key := packager.RemoteKey(d.cfg.BundleName, pkg.Name)

	sblog.DebugLevel.LogFields("uploading package", sblog.Fields{"package": pkg.Name, "key": key, "bands": len(pkg.Bands)})

	return d.uploadBody(ctx, key, w, w.Len(), d.cfg.ArchivalStorageClass, true)
}

// UploadCatalogue uploads the accumulated checksum catalogue to
// "<bundle-name>/checksums.txt" under the standard (never archival)
// storage class, with appendCatalogue disabled to avoid self-reference.
// It is a no-op if no catalogue path was configured.
func (d *Driver) UploadCatalogue(ctx context.Context) liberr.Error {
	if d.catalogue == nil {
		return nil
	}

	if err := d.catalogue.Close(); err != nil {
		return ErrorCatalogueWrite.Error(err)
	}

	f, ferr := ioutils.NewFileProgressPathRead(d.cfg.CataloguePath, 0o644)
	if ferr != nil {
		return ErrorOpenBandFile.Error(ferr)
	}
	defer func() { _ = f.Close() }()

	info, ferr := f.FileStat()
	if ferr != nil {
		return ErrorOpenBandFile.Error(ferr)
	}

	key := d.cfg.BundleName + "/checksums.txt"

	sblog.DebugLevel.LogFields("uploading checksum catalogue", sblog.Fields{"key": key})

	return d.uploadBody(ctx, key, f, info.Size(), d.cfg.StorageClass, false)
}

// uploadBody runs the per-upload sequence from the rewind/MD5 pass
// through the optional catalogue append.
func (d *Driver) uploadBody(ctx context.Context, key string, body io.ReadSeeker, size int64, storageClass string, appendCatalogue bool) liberr.Error {
	sum, err := computeMD5(body)
	if err != nil {
		return ErrorUploadFailed.Error(err)
	}
	hexSum := hex.EncodeToString(sum)

	etag, err := d.cfg.Store.HeadObject(ctx, d.cfg.Bucket, key)
	switch {
	case err == nil:
		if stripETag(etag) == hexSum {
			sblog.InfoLevel.LogFields("already uploaded, skipping", sblog.Fields{"key": key})
			return nil
		}
		sblog.WarnLevel.LogFields("remote object exists with a mismatched checksum, re-uploading", sblog.Fields{"key": key, "remote_etag": etag, "local_md5": hexSum})
	case errors.Is(err, objectstore.ErrNotFound):
		// proceed
	default:
		return ErrorUploadFailed.Error(err)
	}

	if !d.cfg.ForReal {
		sblog.InfoLevel.LogFields("dry run, not uploading", sblog.Fields{"key": key})
		return nil
	}

	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return ErrorUploadFailed.Error(err)
	}

	pr := newProgressReadSeeker(body, size, d.cfg.OnProgress)

	_, err = d.cfg.Store.PutObject(ctx, objectstore.PutObjectInput{
		Bucket:       d.cfg.Bucket,
		Key:          key,
		Body:         pr,
		Length:       size,
		ContentMD5:   sum,
		StorageClass: storageClass,
	})
	if err != nil {
		return ErrorUploadFailed.Error(err)
	}

	if appendCatalogue && d.catalogue != nil {
		if _, err := fmt.Fprintf(d.catalogue, "%s %s\n", hexSum, key); err != nil {
			return ErrorCatalogueWrite.Error(err)
		}
	}

	return nil
}

func computeMD5(body io.ReadSeeker) ([]byte, error) {
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	h := md5.New()
	buf := make([]byte, 1<<20)
	if _, err := io.CopyBuffer(h, body, buf); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}

// stripETag drops one leading and one trailing character, per spec.md
// §4.6's entity-tag note (the SDK returns a quoted hex string).
func stripETag(tag string) string {
	if len(tag) < 2 {
		return tag
	}
	return tag[1 : len(tag)-1]
}
