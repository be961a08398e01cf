package cartridge

import "gones/internal/state"

// mmc1PRGMode and mmc1CHRMode name the PRG/CHR bank-switch granularities
// selected by the control register's shift-in bits.
type mmc1PRGMode uint8

const (
	mmc1PRG32KSwitchLow mmc1PRGMode = iota
	mmc1PRG32KSwitchHigh
	mmc1PRGFixFirst
	mmc1PRGFixLast
)

// mapper1 implements MMC1 (mapper 1): a serial shift register clocked one
// bit per CPU write to $8000-$FFFF. Every fifth write commits the
// assembled 5-bit value into one of four internal registers selected by
// the address of that fifth write.
type mapper1 struct {
	baseMapper
	prgRAM prgRAMAccess

	shift      uint8
	shiftCount uint8

	control  uint8
	chrMode4K bool
	prgMode   mmc1PRGMode

	chrBank0, chrBank1 int
	prgBank            int

	prgBankCount int
	chrBankCount int
}

func newMapper1(c *Cartridge) *mapper1 {
	m := &mapper1{
		baseMapper:   baseMapper{cart: c, mirror: c.mirror},
		prgRAM:       prgRAMAccess{ram: c.PRGRAM},
		shift:        0x10,
		prgMode:      mmc1PRGFixLast,
		prgBankCount: len(c.PRGROM) / prgBankSize,
		chrBankCount: maxInt(len(c.CHRROM)/(4*1024), 1),
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (m *mapper1) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM.read(addr)
	case addr >= 0x8000 && addr < 0xC000:
		bank := m.prgLowBank()
		return m.cart.PRGROM[bank*prgBankSize+int(addr-0x8000)]
	case addr >= 0xC000:
		bank := m.prgHighBank()
		return m.cart.PRGROM[bank*prgBankSize+int(addr-0xC000)]
	default:
		return 0xFF
	}
}

func (m *mapper1) prgLowBank() int {
	switch m.prgMode {
	case mmc1PRG32KSwitchLow, mmc1PRG32KSwitchHigh:
		return (m.prgBank &^ 1) % m.prgBankCount
	case mmc1PRGFixFirst:
		return 0
	default: // fix last
		return m.prgBank % m.prgBankCount
	}
}

func (m *mapper1) prgHighBank() int {
	switch m.prgMode {
	case mmc1PRG32KSwitchLow, mmc1PRG32KSwitchHigh:
		return ((m.prgBank &^ 1) + 1) % m.prgBankCount
	case mmc1PRGFixFirst:
		return m.prgBank % m.prgBankCount
	default: // fix last
		return m.prgBankCount - 1
	}
}

func (m *mapper1) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM.write(addr, value)
		return
	}
	if addr < 0x8000 {
		return
	}

	if value&0x80 != 0 {
		m.shift = 0x10
		m.shiftCount = 0
		m.prgMode = mmc1PRGFixLast
		return
	}

	fifth := m.shift&0x01 != 0
	m.shift = (m.shift >> 1) | ((value & 0x01) << 4)
	m.shiftCount++

	if fifth || m.shiftCount == 5 {
		switch {
		case addr < 0xA000:
			m.setControl()
		case addr < 0xC000:
			m.setCHRBank0()
		case addr < 0xE000:
			m.setCHRBank1()
		default:
			m.setPRGBank()
		}
		m.shift = 0x10
		m.shiftCount = 0
	}
}

func (m *mapper1) setControl() {
	m.control = m.shift
	switch m.shift & 0x03 {
	case 0:
		m.mirror = MirrorSingleLow
	case 1:
		m.mirror = MirrorSingleHigh
	case 2:
		m.mirror = MirrorVertical
	case 3:
		m.mirror = MirrorHorizontal
	}
	m.prgMode = mmc1PRGMode((m.shift >> 2) & 0x03)
	m.chrMode4K = (m.shift>>4)&0x01 != 0
}

func (m *mapper1) setCHRBank0() {
	if m.chrMode4K {
		m.chrBank0 = int(m.shift & 0x1F)
	} else {
		m.chrBank0 = int(m.shift & 0x1E)
		m.chrBank1 = m.chrBank0 + 1
	}
}

func (m *mapper1) setCHRBank1() {
	if m.chrMode4K {
		m.chrBank1 = int(m.shift & 0x1F)
	}
}

func (m *mapper1) setPRGBank() {
	m.prgBank = int(m.shift & 0x0F)
}

func (m *mapper1) ReadCHR(addr uint16) uint8 {
	if addr < 0x1000 {
		return m.chrByte(m.chrBank0, addr)
	}
	return m.chrByte(m.chrBank1, addr-0x1000)
}

func (m *mapper1) chrByte(bank4k int, off uint16) uint8 {
	idx := (bank4k%m.chrBankCount)*4*1024 + int(off)
	if idx < 0 || idx >= len(m.cart.CHRROM) {
		return 0xFF
	}
	return m.cart.CHRROM[idx]
}

func (m *mapper1) WriteCHR(addr uint16, value uint8) {
	if !m.cart.chrIsRAM {
		return
	}
	var bank4k int
	var off uint16
	if addr < 0x1000 {
		bank4k, off = m.chrBank0, addr
	} else {
		bank4k, off = m.chrBank1, addr-0x1000
	}
	idx := (bank4k%m.chrBankCount)*4*1024 + int(off)
	if idx >= 0 && idx < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *mapper1) serializeMapper(ar *state.Archive) {
	state.Scalar(ar, "mapper1.shift", &m.shift)
	state.Scalar(ar, "mapper1.shift_count", &m.shiftCount)
	state.Scalar(ar, "mapper1.control", &m.control)
	state.Bool(ar, "mapper1.chr_mode_4k", &m.chrMode4K)
	state.Scalar(ar, "mapper1.prg_mode", &m.prgMode)
	state.Scalar(ar, "mapper1.chr_bank0", &m.chrBank0)
	state.Scalar(ar, "mapper1.chr_bank1", &m.chrBank1)
	state.Scalar(ar, "mapper1.prg_bank", &m.prgBank)
}
