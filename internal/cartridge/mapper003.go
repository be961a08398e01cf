package cartridge

import "gones/internal/state"

// mapper3 implements CNROM: fixed PRG, one switchable 8KB CHR bank.
type mapper3 struct {
	baseMapper
	prgRAM   prgRAMAccess
	prg16k   bool
	chrBanks *BankMap
}

func newMapper3(c *Cartridge) *mapper3 {
	bm := NewBankMap(chrBankSize, 1)
	bm.Resize(len(c.CHRROM))
	return &mapper3{
		baseMapper: baseMapper{cart: c, mirror: c.mirror},
		prgRAM:     prgRAMAccess{ram: c.PRGRAM},
		prg16k:     len(c.PRGROM) == prgBankSize,
		chrBanks:   bm,
	}
}

func (m *mapper3) ReadPRG(addr uint16) uint8 {
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

func (m *mapper3) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.prgRAM.write(addr, value)
	case addr >= 0x8000:
		m.chrBanks.Select(0, int(value&0x03))
	}
}

func (m *mapper3) ReadCHR(addr uint16) uint8 {
	return m.cart.CHRROM[m.chrBanks.Map(int(addr))]
}

func (m *mapper3) WriteCHR(addr uint16, value uint8) {
	if m.cart.chrIsRAM {
		m.cart.CHRROM[m.chrBanks.Map(int(addr))] = value
	}
}

func (m *mapper3) serializeMapper(ar *state.Archive) {
	m.chrBanks.Serialize(ar, "mapper3.chr_banks")
}
