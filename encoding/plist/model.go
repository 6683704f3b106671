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

// Package plist decodes the Apple XML property-list format far enough to
// read a sparse bundle's Info.plist. Binary plists (bplist00) are out of
// scope: every sparse bundle produced by modern Disk Utility ships an XML
// plist, and nothing in this module needs to write one back out.
package plist

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
)

var (
	ErrKeyNotSet = errors.New("plist: key not present in dict")
	ErrWrongType = errors.New("plist: value has unexpected type")
)

// rawElem is one child element of a plist <dict>: either a <key> or one
// of the scalar value elements (<integer>, <string>, ...). plist dicts are
// ordered key/value pairs, not XML attributes, so the dict's children must
// be walked in document order to line a key up with the value after it.
type rawElem struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type rawDict struct {
	Entries []rawElem `xml:",any"`
}

type rawDocument struct {
	XMLName xml.Name `xml:"plist"`
	Dict    rawDict  `xml:"dict"`
}

// Dict is a decoded plist <dict> exposing its keys as plain Go values.
type Dict struct {
	values map[string]rawElem
}

// Decode reads an XML property list from r and returns its top-level dict.
func Decode(r io.Reader) (*Dict, error) {
	var doc rawDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	values := make(map[string]rawElem, len(doc.Dict.Entries)/2)
	var pendingKey string
	haveKey := false

	for _, e := range doc.Dict.Entries {
		if e.XMLName.Local == "key" {
			pendingKey = e.Value
			haveKey = true
			continue
		}
		if haveKey {
			values[pendingKey] = e
			haveKey = false
		}
	}

	return &Dict{values: values}, nil
}

// Int64 returns the integer value stored under key.
func (d *Dict) Int64(key string) (int64, error) {
	e, ok := d.values[key]
	if !ok {
		return 0, ErrKeyNotSet
	}
	if e.XMLName.Local != "integer" {
		return 0, ErrWrongType
	}
	return strconv.ParseInt(e.Value, 10, 64)
}

// String returns the string value stored under key.
func (d *Dict) String(key string) (string, error) {
	e, ok := d.values[key]
	if !ok {
		return "", ErrKeyNotSet
	}
	if e.XMLName.Local != "string" {
		return "", ErrWrongType
	}
	return e.Value, nil
}
