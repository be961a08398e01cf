package cartridge

import "gones/internal/state"

// mapper4 implements MMC3: paired bank-select/bank-data registers at
// $8000/$8001, a mirroring + PRG-RAM-protect pair at $A000/$A001, and an
// IRQ counter clocked from PPU A12 rising edges (approximated here as PPU
// cycle 261 on scanlines 0-239 and 261, per spec §4.1).
type mapper4 struct {
	baseMapper
	prgRAM prgRAMAccess

	bankSelect  uint8
	prgMode     uint8 // 0 or 1
	chrInvert   uint8 // 0 or 1

	prgBank [4]int
	chrBank [8]int

	prgBankCount int
	chrBankCount int

	prgRAMProtect bool

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool
}

func newMapper4(c *Cartridge) *mapper4 {
	prgBanks := len(c.PRGROM) / 0x2000
	m := &mapper4{
		baseMapper:   baseMapper{cart: c, mirror: c.mirror},
		prgRAM:       prgRAMAccess{ram: c.PRGRAM},
		prgBankCount: prgBanks,
		chrBankCount: maxInt(len(c.CHRROM)/0x400, 1),
	}
	m.prgBank[0] = 0
	m.prgBank[1] = 1
	m.prgBank[2] = prgBanks - 2
	m.prgBank[3] = prgBanks - 1
	for i := range m.chrBank {
		m.chrBank[i] = i
	}
	return m
}

func (m *mapper4) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM.read(addr)
	case addr >= 0x8000:
		window := int(addr-0x8000) / 0x2000
		off := int(addr-0x8000) % 0x2000
		bank := m.prgBank[window] % m.prgBankCount
		return m.cart.PRGROM[bank*0x2000+off]
	default:
		return 0xFF
	}
}

func (m *mapper4) WritePRG(addr uint16, value uint8) {
	even := addr%2 == 0
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if !m.prgRAMProtect {
			m.prgRAM.write(addr, value)
		}
	case addr >= 0x8000 && addr < 0xA000:
		if even {
			m.setBankSelect(value)
		} else {
			m.setBankData(value)
		}
	case addr >= 0xA000 && addr < 0xC000:
		if even {
			if value&0x01 == 0 {
				m.mirror = MirrorVertical
			} else {
				m.mirror = MirrorHorizontal
			}
		} else {
			m.prgRAMProtect = value&0x40 != 0
		}
	case addr >= 0xC000 && addr < 0xE000:
		if even {
			m.irqLatch = value
		} else {
			m.irqReload = true
			m.irqCounter = 0
		}
	case addr >= 0xE000:
		if even {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mapper4) setBankSelect(value uint8) {
	m.bankSelect = value & 0x07
	m.prgMode = (value >> 6) & 0x01
	m.chrInvert = (value >> 7) & 0x01
}

func (m *mapper4) setBankData(value uint8) {
	prgBank := int(value) % m.prgBankCount
	chrBank := int(value) % m.chrBankCount

	if m.chrInvert == 0 {
		switch m.bankSelect {
		case 0:
			m.chrBank[0], m.chrBank[1] = chrBank&^1, (chrBank&^1)+1
		case 1:
			m.chrBank[2], m.chrBank[3] = chrBank&^1, (chrBank&^1)+1
		case 2:
			m.chrBank[4] = chrBank
		case 3:
			m.chrBank[5] = chrBank
		case 4:
			m.chrBank[6] = chrBank
		case 5:
			m.chrBank[7] = chrBank
		}
	} else {
		switch m.bankSelect {
		case 0:
			m.chrBank[4], m.chrBank[5] = chrBank&^1, (chrBank&^1)+1
		case 1:
			m.chrBank[6], m.chrBank[7] = chrBank&^1, (chrBank&^1)+1
		case 2:
			m.chrBank[0] = chrBank
		case 3:
			m.chrBank[1] = chrBank
		case 4:
			m.chrBank[2] = chrBank
		case 5:
			m.chrBank[3] = chrBank
		}
	}

	if m.prgMode == 0 {
		switch m.bankSelect {
		case 6:
			m.prgBank[0] = prgBank
			m.prgBank[2] = m.prgBankCount - 2
		case 7:
			m.prgBank[1] = prgBank
		}
	} else {
		switch m.bankSelect {
		case 6:
			m.prgBank[2] = prgBank
			m.prgBank[0] = m.prgBankCount - 2
		case 7:
			m.prgBank[1] = prgBank
		}
	}
	m.prgBank[3] = m.prgBankCount - 1
}

func (m *mapper4) ReadCHR(addr uint16) uint8 {
	window := int(addr) / 0x400
	off := int(addr) % 0x400
	bank := m.chrBank[window] % m.chrBankCount
	idx := bank*0x400 + off
	if m.cart.chrIsRAM {
		if idx < len(m.cart.CHRROM) {
			return m.cart.CHRROM[idx]
		}
		return 0xFF
	}
	return m.cart.CHRROM[idx]
}

func (m *mapper4) WriteCHR(addr uint16, value uint8) {
	if !m.cart.chrIsRAM {
		return
	}
	window := int(addr) / 0x400
	off := int(addr) % 0x400
	bank := m.chrBank[window] % m.chrBankCount
	idx := bank*0x400 + off
	if idx < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

// PPUTick clocks the IRQ counter on the filtered A12 rising edge, modeled
// as PPU dot 261 on visible scanlines (0-239) and the pre-render line (261).
func (m *mapper4) PPUTick(cycle, scanline int) {
	if cycle != 261 {
		return
	}
	if !(scanline >= 0 && scanline <= 239) && scanline != 261 {
		return
	}
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mapper4) IRQPending() bool { return m.irqPending }
func (m *mapper4) ClearIRQ()        { m.irqPending = false }

func (m *mapper4) serializeMapper(ar *state.Archive) {
	state.Scalar(ar, "mapper4.bank_select", &m.bankSelect)
	state.Scalar(ar, "mapper4.prg_mode", &m.prgMode)
	state.Scalar(ar, "mapper4.chr_invert", &m.chrInvert)
	state.Slice(ar, "mapper4.prg_bank", m.prgBank[:])
	state.Slice(ar, "mapper4.chr_bank", m.chrBank[:])
	state.Bool(ar, "mapper4.prgram_protect", &m.prgRAMProtect)
	state.Scalar(ar, "mapper4.irq_latch", &m.irqLatch)
	state.Scalar(ar, "mapper4.irq_counter", &m.irqCounter)
	state.Bool(ar, "mapper4.irq_reload", &m.irqReload)
	state.Bool(ar, "mapper4.irq_enabled", &m.irqEnabled)
	state.Bool(ar, "mapper4.irq_pending", &m.irqPending)
}
