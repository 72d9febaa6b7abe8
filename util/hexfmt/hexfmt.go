/*
 * Core War - Hex formatting helpers.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package hexfmt renders bytes and words as hex text for memory dumps and
// the observer console, the arena having no wider native unit than a
// byte and no displacement-style addressing to format.
package hexfmt

import "strings"

var hexMap = "0123456789ABCDEF"

// FormatByte writes the two-digit hex form of data.
func FormatByte(str *strings.Builder, data byte) {
	str.WriteByte(hexMap[(data>>4)&0xf])
	str.WriteByte(hexMap[data&0xf])
}

// FormatBytes writes each byte in data as two hex digits, space-separated
// when space is true.
func FormatBytes(str *strings.Builder, space bool, data []byte) {
	for i, by := range data {
		if space && i > 0 {
			str.WriteByte(' ')
		}
		FormatByte(str, by)
	}
}

// FormatWord writes the eight-digit hex form of a 32-bit value.
func FormatWord(str *strings.Builder, word uint32) {
	shift := 28
	for range 8 {
		str.WriteByte(hexMap[(word>>shift)&0xf])
		shift -= 4
	}
}

// Dump renders a classic hex-dump line: an 0x-prefixed address, the hex
// bytes, then the same bytes as printable ASCII (a dot for anything else).
func Dump(addr int, data []byte) string {
	var b strings.Builder
	b.WriteString("0x")
	FormatWord(&b, uint32(addr))
	b.WriteString("  ")
	FormatBytes(&b, true, data)

	for i := len(data); i < 16; i++ {
		b.WriteString("   ")
	}
	b.WriteString("  ")

	for _, by := range data {
		if by >= 0x20 && by < 0x7f {
			b.WriteByte(by)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
