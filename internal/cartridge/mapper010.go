package cartridge

import "gones/internal/state"

// mapper10 implements MMC4: PRG is a single switchable 16KB window plus a
// fixed-last window; CHR is split into two 4KB halves, each choosing
// between a "$FD" bank and an "$FE" bank selected by a latch that flips
// based on which tile addresses the PPU reads. The latch update is a real
// side effect of ReadCHR, not a pure peek — see spec §9.
type mapper10 struct {
	baseMapper
	prgRAM prgRAMAccess

	prgBank int
	chrFD   [2]int
	chrFE   [2]int
	latch   [2]uint8 // 0xFD or 0xFE, per pattern-table half

	prgBankCount int
	chrBankCount int
}

func newMapper10(c *Cartridge) *mapper10 {
	return &mapper10{
		baseMapper:   baseMapper{cart: c, mirror: c.mirror},
		prgRAM:       prgRAMAccess{ram: c.PRGRAM},
		latch:        [2]uint8{0xFE, 0xFE},
		prgBankCount: len(c.PRGROM) / 0x4000,
		chrBankCount: maxInt(len(c.CHRROM)/0x1000, 1),
	}
}

func (m *mapper10) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM.read(addr)
	case addr >= 0x8000 && addr < 0xC000:
		bank := m.prgBank % m.prgBankCount
		return m.cart.PRGROM[bank*0x4000+int(addr-0x8000)]
	case addr >= 0xC000:
		return m.cart.PRGROM[(m.prgBankCount-1)*0x4000+int(addr-0xC000)]
	default:
		return 0xFF
	}
}

func (m *mapper10) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.prgRAM.write(addr, value)
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = int(value & 0x0F)
	case addr >= 0xB000 && addr < 0xC000:
		m.chrFD[0] = int(value & 0x1F)
	case addr >= 0xC000 && addr < 0xD000:
		m.chrFE[0] = int(value & 0x1F)
	case addr >= 0xD000 && addr < 0xE000:
		m.chrFD[1] = int(value & 0x1F)
	case addr >= 0xE000 && addr < 0xF000:
		m.chrFE[1] = int(value & 0x1F)
	case addr >= 0xF000:
		if value&0x01 == 0 {
			m.mirror = MirrorVertical
		} else {
			m.mirror = MirrorHorizontal
		}
	}
}

func (m *mapper10) ReadCHR(addr uint16) uint8 {
	half := 0
	if addr >= 0x1000 {
		half = 1
	}
	off := addr % 0x1000

	var data uint8
	if m.latch[half] == 0xFD {
		data = m.chrByte(m.chrFD[half], off)
	} else {
		data = m.chrByte(m.chrFE[half], off)
	}

	// Latch updates unconditionally on reads in the trigger ranges,
	// mirroring the original's const_cast side effect (spec §9).
	local := addr % 0x1000
	switch {
	case half == 0 && local >= 0x0FD8 && local <= 0x0FDF:
		m.latch[0] = 0xFD
	case half == 0 && local >= 0x0FE8 && local <= 0x0FEF:
		m.latch[0] = 0xFE
	case half == 1 && local >= 0x0FD8 && local <= 0x0FDF:
		m.latch[1] = 0xFD
	case half == 1 && local >= 0x0FE8 && local <= 0x0FEF:
		m.latch[1] = 0xFE
	}
	return data
}

func (m *mapper10) chrByte(bank4k int, off uint16) uint8 {
	idx := (bank4k%m.chrBankCount)*0x1000 + int(off)
	if idx < 0 || idx >= len(m.cart.CHRROM) {
		return 0xFF
	}
	return m.cart.CHRROM[idx]
}

func (m *mapper10) WriteCHR(addr uint16, value uint8) {
	// MMC4 CHR is always ROM.
}

func (m *mapper10) serializeMapper(ar *state.Archive) {
	state.Scalar(ar, "mapper10.prg_bank", &m.prgBank)
	state.Slice(ar, "mapper10.chr_fd", m.chrFD[:])
	state.Slice(ar, "mapper10.chr_fe", m.chrFE[:])
	state.Bytes(ar, "mapper10.latch", m.latch[:])
}
