package state

import (
	"bytes"
	"strings"
	"testing"
)

func TestArchiveWriteScalarFormatsFixedWidthHex(t *testing.T) {
	ar := NewArchive()
	var pc uint16 = 0x8000
	var flag bool = true
	Scalar(ar, "pc", &pc)
	Bool(ar, "flag", &flag)

	var buf bytes.Buffer
	if err := ar.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "pc") || !strings.Contains(out, "8000") {
		t.Errorf("expected pc/8000 in output, got %q", out)
	}
	if !strings.Contains(out, "flag") || !strings.Contains(out, "01") {
		t.Errorf("expected flag/01 in output, got %q", out)
	}
}

func TestArchiveNamespaceQualifiesNames(t *testing.T) {
	ar := NewArchive()
	var a uint8
	ar.Namespace("nes", func() {
		ar.Namespace("cpu", func() {
			Scalar(ar, "a", &a)
		})
	})

	names := ar.Names()
	if len(names) != 1 || names[0] != "nes.cpu.a" {
		t.Fatalf("expected [nes.cpu.a], got %v", names)
	}
}

func TestArchiveRoundTripScalarsAndBytes(t *testing.T) {
	type regs struct {
		a, x uint8
		pc   uint16
		oam  [8]uint8
	}
	src := regs{a: 0x42, x: 0x7F, pc: 0xC000, oam: [8]uint8{1, 2, 3, 4, 5, 6, 7, 8}}

	save := func(r *regs) *Archive {
		ar := NewArchive()
		Scalar(ar, "a", &r.a)
		Scalar(ar, "x", &r.x)
		Scalar(ar, "pc", &r.pc)
		Bytes(ar, "oam", r.oam[:])
		return ar
	}

	writeAr := save(&src)
	var buf bytes.Buffer
	if err := writeAr.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var dst regs
	readAr := save(&dst)
	if err := readAr.Read(&buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if dst != src {
		t.Errorf("round trip mismatch: got %+v, want %+v", dst, src)
	}
}

func TestArchiveReadIgnoresUnknownNames(t *testing.T) {
	ar := NewArchive()
	var a uint8
	Scalar(ar, "a", &a)

	input := strings.NewReader("stale_field 1234 a 2A")
	if err := ar.Read(input); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a != 0x2A {
		t.Errorf("a = %#x, want 0x2A", a)
	}
}

func TestArchiveReadTruncatedReturnsError(t *testing.T) {
	ar := NewArchive()
	var oam [4]uint8
	Bytes(ar, "oam", oam[:])

	input := strings.NewReader("oam 01 02")
	if err := ar.Read(input); err == nil {
		t.Error("expected error for truncated array, got nil")
	}
}
