package header

import (
	"testing"

	"github.com/rcornwell/corewar/emu/opcodemap"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	h := Header{Name: "zork", Comment: "a simple champion", Size: 42}

	raw, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(raw) != opcodemap.HeaderSize {
		t.Fatalf("encoded header is %d bytes, want %d", len(raw), opcodemap.HeaderSize)
	}

	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != h {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	raw := make([]byte, opcodemap.HeaderSize)
	if _, err := Parse(raw); err != ErrBadMagic {
		t.Errorf("Parse() error = %v, want ErrBadMagic", err)
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	if _, err := Parse(make([]byte, 10)); err != ErrTruncated {
		t.Errorf("Parse() error = %v, want ErrTruncated", err)
	}
}

func TestEncodeRejectsOverlongName(t *testing.T) {
	long := make([]byte, opcodemap.ProgNameLength+1)
	_, err := Encode(Header{Name: string(long)})
	if _, ok := err.(ErrNameTooLong); !ok {
		t.Errorf("Encode() error = %v, want ErrNameTooLong", err)
	}
}

func TestParseTolerantOfTrailingPadding(t *testing.T) {
	h := Header{Name: "x", Comment: "y", Size: 1}
	raw, _ := Encode(h)
	// Pollute padding bytes after the NUL terminator; Parse must ignore them.
	raw[10] = 0xFF

	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Name != "x" {
		t.Errorf("Name = %q, want %q", got.Name, "x")
	}
}
