package cartridge

// mapper0 implements NROM: no bank switching. 16KB PRG ROM mirrors to fill
// the 32KB CPU window; CHR is either 8KB ROM or, when the header declared
// zero CHR banks, 8KB RAM.
type mapper0 struct {
	baseMapper
	prgRAM prgRAMAccess
	prg16k bool
}

func newMapper0(c *Cartridge) *mapper0 {
	return &mapper0{
		baseMapper: baseMapper{cart: c, mirror: c.mirror},
		prgRAM:     prgRAMAccess{ram: c.PRGRAM},
		prg16k:     len(c.PRGROM) == prgBankSize,
	}
}

func (m *mapper0) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM.read(addr)
	case addr >= 0x8000:
		off := addr - 0x8000
		if m.prg16k {
			off &= 0x3FFF
		}
		return m.cart.PRGROM[off]
	default:
		return 0xFF
	}
}

func (m *mapper0) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM.write(addr, value)
	}
	// writes to ROM are discarded; NROM has no registers
}

func (m *mapper0) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.cart.CHRROM) {
		return m.cart.CHRROM[addr]
	}
	return 0xFF
}

func (m *mapper0) WriteCHR(addr uint16, value uint8) {
	if m.cart.chrIsRAM && int(addr) < len(m.cart.CHRROM) {
		m.cart.CHRROM[addr] = value
	}
}
