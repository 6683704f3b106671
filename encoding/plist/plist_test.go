/*
 * MIT License
 *
 * Copyright (c) 2023 Nicolas JUHEL
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

package plist_test

import (
	"strings"

	"github.com/isundaylee/sparsebundle-sync/encoding/plist"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sampleInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>band-size</key>
	<integer>8388608</integer>
	<key>bundle-backingstore-version</key>
	<integer>1</integer>
	<key>diskimage-bundle-type</key>
	<string>com.apple.diskimage.sparsebundle</string>
	<key>size</key>
	<integer>107374182400</integer>
</dict>
</plist>
`

var _ = Describe("encoding/plist", func() {
	Context("Decode", func() {
		It("reads integer and string keys from a sparse bundle Info.plist", func() {
			d, err := plist.Decode(strings.NewReader(sampleInfoPlist))
			Expect(err).ToNot(HaveOccurred())

			bandSize, err := d.Int64("band-size")
			Expect(err).ToNot(HaveOccurred())
			Expect(bandSize).To(Equal(int64(8388608)))

			kind, err := d.String("diskimage-bundle-type")
			Expect(err).ToNot(HaveOccurred())
			Expect(kind).To(Equal("com.apple.diskimage.sparsebundle"))
		})

		It("returns ErrKeyNotSet for a missing key", func() {
			d, err := plist.Decode(strings.NewReader(sampleInfoPlist))
			Expect(err).ToNot(HaveOccurred())

			_, err = d.Int64("does-not-exist")
			Expect(err).To(MatchError(plist.ErrKeyNotSet))
		})

		It("returns ErrWrongType when the stored element doesn't match the accessor", func() {
			d, err := plist.Decode(strings.NewReader(sampleInfoPlist))
			Expect(err).ToNot(HaveOccurred())

			_, err = d.String("band-size")
			Expect(err).To(MatchError(plist.ErrWrongType))
		})
	})
})
