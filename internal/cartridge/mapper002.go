package cartridge

import "gones/internal/state"

// mapper2 implements UxROM: a switchable 16KB low PRG window and a fixed
// last-bank high window. CHR is always 8KB RAM.
type mapper2 struct {
	baseMapper
	prgRAM   prgRAMAccess
	prgBanks *BankMap
}

func newMapper2(c *Cartridge) *mapper2 {
	bm := NewBankMap(prgBankSize, 2)
	bm.Resize(len(c.PRGROM))
	bm.Select(0, 0)
	bm.Select(1, -1)
	return &mapper2{
		baseMapper: baseMapper{cart: c, mirror: c.mirror},
		prgRAM:     prgRAMAccess{ram: c.PRGRAM},
		prgBanks:   bm,
	}
}

func (m *mapper2) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM.read(addr)
	case addr >= 0x8000:
		return m.cart.PRGROM[m.prgBanks.Map(int(addr-0x8000))]
	default:
		return 0xFF
	}
}

func (m *mapper2) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.prgRAM.write(addr, value)
	case addr >= 0x8000:
		m.prgBanks.Select(0, int(value&0x0F))
	}
}

func (m *mapper2) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.cart.CHRROM) {
		return m.cart.CHRROM[addr]
	}
	return 0xFF
}

func (m *mapper2) WriteCHR(addr uint16, value uint8) {
	if int(addr) < len(m.cart.CHRROM) {
		m.cart.CHRROM[addr] = value
	}
}

func (m *mapper2) serializeMapper(ar *state.Archive) {
	m.prgBanks.Serialize(ar, "mapper2.prg_banks")
}
