package memory

import (
	"bytes"

	"gones/internal/cartridge"
)

// testROMBuilder assembles a minimal iNES image for exercising the memory
// package against a real *cartridge.Cartridge instead of a bare mock,
// mirroring the fluent style of cartridge package test helpers.
type testROMBuilder struct {
	prgBanks  int
	chrBanks  int
	chrRAM    bool
	vertical  bool
	battery   bool
	prg       []uint8
	chr       []uint8
}

func newTestROMBuilder() *testROMBuilder {
	return &testROMBuilder{prgBanks: 1, chrBanks: 1}
}

func (b *testROMBuilder) WithPRGSize(banks uint8) *testROMBuilder {
	b.prgBanks = int(banks)
	return b
}

func (b *testROMBuilder) WithCHRSize(banks uint8) *testROMBuilder {
	b.chrBanks = int(banks)
	b.chrRAM = false
	return b
}

func (b *testROMBuilder) WithCHRRAM() *testROMBuilder {
	b.chrBanks = 0
	b.chrRAM = true
	return b
}

func (b *testROMBuilder) prgBuf() []uint8 {
	size := b.prgBanks * 0x4000
	if b.prg == nil || len(b.prg) < size {
		grown := make([]uint8, size)
		copy(grown, b.prg)
		b.prg = grown
	}
	return b.prg
}

func (b *testROMBuilder) WithData(offset uint16, data []uint8) *testROMBuilder {
	buf := b.prgBuf()
	copy(buf[offset:], data)
	return b
}

func (b *testROMBuilder) WithCHRData(data []uint8) *testROMBuilder {
	size := b.chrBanks * 0x2000
	buf := make([]uint8, size)
	copy(buf, data)
	b.chr = buf
	return b
}

func (b *testROMBuilder) WithMirroring(mode cartridge.Mirror) *testROMBuilder {
	b.vertical = mode == cartridge.MirrorVertical
	return b
}

func (b *testROMBuilder) WithBattery() *testROMBuilder {
	b.battery = true
	return b
}

func (b *testROMBuilder) WithResetVector(addr uint16) *testROMBuilder {
	return b.withVector(0x3FFC, addr)
}

func (b *testROMBuilder) WithNMIVector(addr uint16) *testROMBuilder {
	return b.withVector(0x3FFA, addr)
}

func (b *testROMBuilder) WithIRQVector(addr uint16) *testROMBuilder {
	return b.withVector(0x3FFE, addr)
}

// withVector writes a 16-bit little-endian vector at the fixed offset from
// the end of a 16KB PRG window; for multi-bank ROMs this lands in the last
// bank, where the 6502 vectors always live.
func (b *testROMBuilder) withVector(offsetFromBankEnd uint16, addr uint16) *testROMBuilder {
	buf := b.prgBuf()
	lastBank := len(buf) - 0x4000
	off := lastBank + int(offsetFromBankEnd)
	buf[off] = uint8(addr)
	buf[off+1] = uint8(addr >> 8)
	return b
}

func (b *testROMBuilder) BuildCartridge() (*cartridge.Cartridge, error) {
	var buf bytes.Buffer
	buf.WriteString("NES\x1a")
	buf.WriteByte(uint8(b.prgBanks))
	buf.WriteByte(uint8(b.chrBanks))
	var flags6 uint8
	if b.vertical {
		flags6 |= 0x01
	}
	if b.battery {
		flags6 |= 0x02
	}
	buf.WriteByte(flags6) // mapper 0 (NROM) low nibble stays 0
	buf.Write(make([]byte, 9))

	buf.Write(b.prgBuf())
	if !b.chrRAM {
		chr := b.chr
		if chr == nil {
			chr = make([]byte, b.chrBanks*0x2000)
		}
		buf.Write(chr)
	}

	return cartridge.LoadFromReader(bytes.NewReader(buf.Bytes()))
}
