package cartridge

import (
	"bytes"
)

// NewMockCartridge builds a bare NROM cartridge for tests that only need
// CPU-side PRG/CHR access without going through an iNES image. Callers fill
// it in with LoadPRG/LoadCHR before use.
func NewMockCartridge() *Cartridge {
	c := &Cartridge{
		MapperID: 0,
		mirror:   MirrorHorizontal,
		PRGROM:   make([]uint8, 2*prgBankSize),
		CHRROM:   make([]uint8, chrBankSize),
		chrIsRAM: true,
		PRGRAM:   make([]uint8, 0x2000),
	}
	c.mapper = newMapper0(c)
	return c
}

// LoadPRG replaces the mock cartridge's PRG ROM, re-deriving NROM's 16KB vs
// 32KB mirroring mode from the new length.
func (c *Cartridge) LoadPRG(data []uint8) {
	c.PRGROM = append([]uint8(nil), data...)
	c.mapper = newMapper0(c)
}

// LoadCHR replaces the mock cartridge's CHR ROM.
func (c *Cartridge) LoadCHR(data []uint8) {
	c.CHRROM = append([]uint8(nil), data...)
	c.chrIsRAM = false
	c.mapper = newMapper0(c)
}

// TestROMBuilder assembles a minimal iNES image fluently, for tests that
// want to exercise the real header-parsing and mapper-selection path in
// LoadFromReader rather than poking a Cartridge's fields directly.
type TestROMBuilder struct {
	prgBanks int
	chrBanks int
	chrRAM   bool
	vertical bool
	battery  bool
	prg      []uint8
	chr      []uint8
}

// NewTestROMBuilder starts a builder for a 1x16KB PRG / 1x8KB CHR NROM image.
func NewTestROMBuilder() *TestROMBuilder {
	return &TestROMBuilder{prgBanks: 1, chrBanks: 1}
}

func (b *TestROMBuilder) WithPRGSize(banks uint8) *TestROMBuilder {
	b.prgBanks = int(banks)
	return b
}

func (b *TestROMBuilder) WithCHRSize(banks uint8) *TestROMBuilder {
	b.chrBanks = int(banks)
	b.chrRAM = false
	return b
}

func (b *TestROMBuilder) WithCHRRAM() *TestROMBuilder {
	b.chrBanks = 0
	b.chrRAM = true
	return b
}

func (b *TestROMBuilder) prgBuf() []uint8 {
	size := b.prgBanks * prgBankSize
	if b.prg == nil || len(b.prg) < size {
		grown := make([]uint8, size)
		copy(grown, b.prg)
		b.prg = grown
	}
	return b.prg
}

// WithData writes bytes at offset within the PRG image (offset 0 is $8000
// for a 32KB NROM window).
func (b *TestROMBuilder) WithData(offset uint16, data []uint8) *TestROMBuilder {
	buf := b.prgBuf()
	copy(buf[offset:], data)
	return b
}

func (b *TestROMBuilder) WithCHRData(data []uint8) *TestROMBuilder {
	size := b.chrBanks * chrBankSize
	buf := make([]uint8, size)
	copy(buf, data)
	b.chr = buf
	return b
}

func (b *TestROMBuilder) WithMirroring(mode Mirror) *TestROMBuilder {
	b.vertical = mode == MirrorVertical
	return b
}

func (b *TestROMBuilder) WithBattery() *TestROMBuilder {
	b.battery = true
	return b
}

func (b *TestROMBuilder) WithResetVector(addr uint16) *TestROMBuilder {
	return b.withVector(0x3FFC, addr)
}

func (b *TestROMBuilder) WithNMIVector(addr uint16) *TestROMBuilder {
	return b.withVector(0x3FFA, addr)
}

func (b *TestROMBuilder) WithIRQVector(addr uint16) *TestROMBuilder {
	return b.withVector(0x3FFE, addr)
}

// withVector writes a 16-bit little-endian vector at the fixed offset from
// the end of a 16KB PRG window; for multi-bank ROMs this lands in the last
// bank, where the 6502 vectors always live.
func (b *TestROMBuilder) withVector(offsetFromBankEnd uint16, addr uint16) *TestROMBuilder {
	buf := b.prgBuf()
	lastBank := len(buf) - prgBankSize
	off := lastBank + int(offsetFromBankEnd)
	buf[off] = uint8(addr)
	buf[off+1] = uint8(addr >> 8)
	return b
}

// WithDescription is a documentation-only label; it has no effect on the
// built image.
func (b *TestROMBuilder) WithDescription(string) *TestROMBuilder {
	return b
}

func (b *TestROMBuilder) BuildCartridge() (*Cartridge, error) {
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
	buf.WriteByte(flags6)
	buf.Write(make([]byte, 9))

	buf.Write(b.prgBuf())
	if !b.chrRAM {
		chr := b.chr
		if chr == nil {
			chr = make([]byte, b.chrBanks*chrBankSize)
		}
		buf.Write(chr)
	}

	return LoadFromReader(bytes.NewReader(buf.Bytes()))
}
