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

// Package config loads the sparsebundle-sync CLI's configuration from
// flags, environment variables, and an optional config file, via
// spf13/viper bound directly onto spf13/cobra persistent flags.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	liberr "github.com/isundaylee/sparsebundle-sync/errors"
)

// Config is the full set of knobs a sync run needs.
type Config struct {
	// BundlePath is the local .sparsebundle directory to sync.
	BundlePath string

	// PackageWidth is the number of bands grouped into each archive.
	PackageWidth uint64

	// Compression selects the per-file wrapper: "none", "gzip", or "lz4".
	Compression string
	// CacheRetain forces the single-pass (non-seekable-safe) wrapper
	// cache policy; false uses the cheaper discard-and-recompute policy.
	CacheRetain bool

	// OutputDir holds the local checksum catalogue file only; packages
	// are never written to disk.
	OutputDir string

	Bucket     string
	Region     string
	BundleName string

	// AccessKeyID/SecretAccessKey pin an explicit credential pair. Both
	// empty means defer to the AWS SDK's own default credential chain.
	AccessKeyID     string
	SecretAccessKey string

	StorageClass         string
	ArchivalStorageClass string

	// ForReal false makes the run a dry run: every dedup check still
	// happens, but nothing is actually uploaded.
	ForReal bool
}

// Defaults returns a Config with the same defaults bound by BindFlags.
func Defaults() Config {
	return Config{
		PackageWidth:         64,
		Compression:          "gzip",
		CacheRetain:          false,
		StorageClass:         "STANDARD",
		ArchivalStorageClass: "STANDARD_IA",
		ForReal:              false,
	}
}

// BindFlags registers every Config field as a persistent flag on cmd and
// binds it into v, so viper.Unmarshal (or Load) sees flag, then env, then
// config-file, then default precedence.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	d := Defaults()
	flags := cmd.PersistentFlags()

	flags.String("bundle-path", "", "path to the .sparsebundle to sync")
	flags.Uint64("package-width", d.PackageWidth, "number of bands grouped per archive")
	flags.String("compression", d.Compression, "per-file compression: none, gzip, or lz4")
	flags.Bool("cache-retain", d.CacheRetain, "retain compressed output instead of recomputing on each pass")
	flags.String("output-dir", "", "local directory for the checksum catalogue")
	flags.String("bucket", "", "destination S3 bucket")
	flags.String("region", "", "S3 region")
	flags.String("bundle-name", "", "remote object-key prefix for this bundle")
	flags.String("access-key-id", "", "explicit AWS access key ID (empty: use the SDK's default credential chain)")
	flags.String("secret-access-key", "", "explicit AWS secret access key")
	flags.String("storage-class", d.StorageClass, "storage class for the checksum catalogue")
	flags.String("archival-storage-class", d.ArchivalStorageClass, "storage class for meta files and band packages")
	flags.Bool("for-real", d.ForReal, "actually upload, instead of a dry run")

	_ = v.BindPFlags(flags)

	v.SetEnvPrefix("sparsebundle_sync")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the bound values out of v into a Config, after cmd.Execute()
// has parsed flags (and viper has merged in any config file set via
// v.SetConfigFile/ReadInConfig).
func Load(v *viper.Viper) (Config, liberr.Error) {
	cfg := Config{
		BundlePath:           v.GetString("bundle-path"),
		PackageWidth:         v.GetUint64("package-width"),
		Compression:          v.GetString("compression"),
		CacheRetain:          v.GetBool("cache-retain"),
		OutputDir:            v.GetString("output-dir"),
		Bucket:               v.GetString("bucket"),
		Region:               v.GetString("region"),
		BundleName:           v.GetString("bundle-name"),
		AccessKeyID:          v.GetString("access-key-id"),
		SecretAccessKey:      v.GetString("secret-access-key"),
		StorageClass:         v.GetString("storage-class"),
		ArchivalStorageClass: v.GetString("archival-storage-class"),
		ForReal:              v.GetBool("for-real"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() liberr.Error {
	if c.BundlePath == "" {
		return ErrorMissingBundlePath.Error(nil)
	}
	if c.Bucket == "" {
		return ErrorMissingBucket.Error(nil)
	}
	if c.BundleName == "" {
		return ErrorMissingBundleName.Error(nil)
	}
	if c.PackageWidth == 0 {
		return ErrorInvalidPackageWidth.Error(nil)
	}

	switch c.Compression {
	case "none", "gzip", "lz4":
	default:
		return ErrorInvalidCompression.Error(nil)
	}

	return nil
}
