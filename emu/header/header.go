/*
   Core War champion binary header codec.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package header packs and unpacks the fixed-layout champion binary header:
// magic, null-padded name, code size, and null-padded comment.
package header

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rcornwell/corewar/emu/opcodemap"
)

// Header is the decoded form of a champion binary's fixed-size header.
type Header struct {
	Name    string
	Comment string
	Size    uint32
}

// ErrBadMagic is returned by Parse when the leading 4 bytes aren't the
// Core War magic number.
var ErrBadMagic = fmt.Errorf("corewar: bad champion magic")

// ErrTruncated is returned by Parse when fewer than opcodemap.HeaderSize
// bytes are available.
var ErrTruncated = fmt.Errorf("corewar: truncated champion header")

// ErrNameTooLong is returned by Encode when name exceeds ProgNameLength
// bytes.
type ErrNameTooLong struct{ Len int }

func (e ErrNameTooLong) Error() string {
	return fmt.Sprintf("champion name too long: %d bytes (max %d)", e.Len, opcodemap.ProgNameLength)
}

// ErrCommentTooLong is returned by Encode when comment exceeds
// ProgCommentLength bytes.
type ErrCommentTooLong struct{ Len int }

func (e ErrCommentTooLong) Error() string {
	return fmt.Sprintf("champion comment too long: %d bytes (max %d)", e.Len, opcodemap.ProgCommentLength)
}

// Encode packs h into the fixed opcodemap.HeaderSize-byte wire header.
func Encode(h Header) ([]byte, error) {
	if len(h.Name) > opcodemap.ProgNameLength {
		return nil, ErrNameTooLong{Len: len(h.Name)}
	}
	if len(h.Comment) > opcodemap.ProgCommentLength {
		return nil, ErrCommentTooLong{Len: len(h.Comment)}
	}

	buf := make([]byte, opcodemap.HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], opcodemap.HeaderMagic)
	copy(buf[4:4+opcodemap.ProgNameLength+1], h.Name)
	binary.BigEndian.PutUint32(buf[133:137], h.Size)
	copy(buf[137:137+opcodemap.ProgCommentLength+1], h.Comment)

	return buf, nil
}

// Parse unpacks the header at the front of raw. Trailing padding bytes
// after a field's NUL terminator are tolerated and ignored.
func Parse(raw []byte) (Header, error) {
	if len(raw) < opcodemap.HeaderSize {
		return Header{}, ErrTruncated
	}

	magic := binary.BigEndian.Uint32(raw[0:4])
	if magic != opcodemap.HeaderMagic {
		return Header{}, ErrBadMagic
	}

	name := nulTerminated(raw[4 : 4+opcodemap.ProgNameLength+1])
	size := binary.BigEndian.Uint32(raw[133:137])
	comment := nulTerminated(raw[137 : 137+opcodemap.ProgCommentLength+1])

	return Header{Name: name, Comment: comment, Size: size}, nil
}

func nulTerminated(field []byte) string {
	if idx := bytes.IndexByte(field, 0); idx >= 0 {
		return string(field[:idx])
	}
	return string(field)
}
