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

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/isundaylee/sparsebundle-sync/internal/config"
	"github.com/isundaylee/sparsebundle-sync/pkg/arc"
	"github.com/isundaylee/sparsebundle-sync/pkg/bundle"
	"github.com/isundaylee/sparsebundle-sync/pkg/objectstore/s3"
	"github.com/isundaylee/sparsebundle-sync/pkg/packager"
	"github.com/isundaylee/sparsebundle-sync/pkg/sblog"
	"github.com/isundaylee/sparsebundle-sync/pkg/uploader"
)

func run(ctx context.Context, cfg config.Config) error {
	paths, err := walkBundle(cfg.BundlePath)
	if err != nil {
		return err
	}

	scan, serr := bundle.ScanPaths(paths)
	if serr != nil {
		return serr
	}

	info, ierr := bundle.ReadInfo(cfg.BundlePath)
	if ierr != nil {
		return ierr
	}
	sblog.InfoLevel.LogFields("bundle scanned", sblog.Fields{
		"meta_files": len(scan.MetaFiles),
		"bands":      len(scan.Bands),
		"band_size":  info.BandSize,
	})

	pkgs, perr := packager.Group(scan.Bands, cfg.PackageWidth)
	if perr != nil {
		return perr
	}

	store, serr2 := s3.New(ctx, cfg.Region, cfg.AccessKeyID, cfg.SecretAccessKey)
	if serr2 != nil {
		return serr2
	}

	flags, ferr := compressionFlags(cfg.Compression)
	if ferr != nil {
		return ferr
	}

	policy := arc.CacheDiscard
	if cfg.CacheRetain {
		policy = arc.CacheRetain
	}

	var cataloguePath string
	if cfg.OutputDir != "" {
		cataloguePath = filepath.Join(cfg.OutputDir, "checksums.txt")
	}

	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(0,
		mpb.PrependDecorators(decor.Name("sparsebundle-sync")),
		mpb.AppendDecorators(decor.Percentage()),
	)
	var barTotal int64

	driver, derr := uploader.NewDriver(uploader.Config{
		Store:                store,
		Bucket:               cfg.Bucket,
		BundleName:           cfg.BundleName,
		StorageClass:         cfg.StorageClass,
		ArchivalStorageClass: cfg.ArchivalStorageClass,
		Flags:                flags,
		CachePolicy:          policy,
		CataloguePath:        cataloguePath,
		ForReal:              cfg.ForReal,
		OnProgress: func(sent, total int64) {
			if total != barTotal {
				bar.SetTotal(total, false)
				barTotal = total
			}
			bar.SetCurrent(sent)
		},
	})
	if derr != nil {
		progress.Wait()
		return derr
	}

	if err := driver.UploadMetaFiles(ctx, cfg.BundlePath, scan.MetaFiles); err != nil {
		progress.Wait()
		return err
	}

	if err := driver.UploadPackages(ctx, cfg.BundlePath, pkgs); err != nil {
		progress.Wait()
		return err
	}

	if err := driver.UploadCatalogue(ctx); err != nil {
		progress.Wait()
		return err
	}

	bar.SetTotal(bar.Current(), true)
	progress.Wait()

	sblog.InfoLevel.Log("sync complete")
	return nil
}

func compressionFlags(name string) (arc.Flag, error) {
	switch name {
	case "none":
		return arc.Flag(0), nil
	case "gzip":
		return arc.FlagGZIP, nil
	case "lz4":
		return arc.FlagLZ4, nil
	default:
		return 0, &unknownCompressionError{name: name}
	}
}

type unknownCompressionError struct{ name string }

func (e *unknownCompressionError) Error() string {
	return "unknown compression: " + e.name
}

// walkBundle enumerates every entry under root as a bundle.Path. This is
// the one filesystem walk in the module; classification itself lives in
// pkg/bundle so it can be tested without touching disk.
func walkBundle(root string) ([]bundle.Path, error) {
	var paths []bundle.Path

	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}

		paths = append(paths, bundle.Path{
			Rel:   filepath.ToSlash(rel),
			IsDir: d.IsDir(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}
