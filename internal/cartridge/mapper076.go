package cartridge

import "gones/internal/state"

// mapper76 implements Namcot-3446 (aka Namco 108 with CHR granularity of
// 2KB): 4 switchable 2KB CHR windows, 2 switchable 8KB PRG windows at
// $8000/$A000, and 2 fixed windows at $C000/$E000 tied to the last two
// 8KB banks. Registers follow the MMC3 bank-select/bank-data pair at
// $8000/$8001 but only drive indices 2-7 (0/1 select 1KB CHR halves on
// real MMC3 and don't exist on this board).
type mapper76 struct {
	baseMapper
	prgRAM prgRAMAccess

	bankSelect uint8

	chrBanks *BankMap
	prgBanks *BankMap

	prgBankCount int
}

func newMapper76(c *Cartridge) *mapper76 {
	chrBM := NewBankMap(0x800, 4)
	chrBM.Resize(len(c.CHRROM))

	prgBankCount := maxInt(len(c.PRGROM)/0x2000, 1)
	prgBM := NewBankMap(0x2000, 4)
	prgBM.Resize(len(c.PRGROM))
	prgBM.Select(2, -2)
	prgBM.Select(3, -1)

	return &mapper76{
		baseMapper:   baseMapper{cart: c, mirror: c.mirror},
		prgRAM:       prgRAMAccess{ram: c.PRGRAM},
		chrBanks:     chrBM,
		prgBanks:     prgBM,
		prgBankCount: prgBankCount,
	}
}

func (m *mapper76) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM.read(addr)
	case addr >= 0x8000:
		return m.cart.PRGROM[m.prgBanks.Map(int(addr-0x8000))]
	default:
		return 0xFF
	}
}

func (m *mapper76) WritePRG(addr uint16, value uint8) {
	even := addr%2 == 0
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.prgRAM.write(addr, value)
	case addr >= 0x8000 && addr < 0xA000:
		if even {
			m.bankSelect = value & 0x07
		} else {
			m.setBankData(value)
		}
	}
}

func (m *mapper76) setBankData(value uint8) {
	switch m.bankSelect {
	case 2:
		m.chrBanks.Select(0, int(value&0x3F))
	case 3:
		m.chrBanks.Select(1, int(value&0x3F))
	case 4:
		m.chrBanks.Select(2, int(value&0x3F))
	case 5:
		m.chrBanks.Select(3, int(value&0x3F))
	case 6:
		m.prgBanks.Select(0, int(value&0x3F))
	case 7:
		m.prgBanks.Select(1, int(value&0x3F))
	}
}

func (m *mapper76) ReadCHR(addr uint16) uint8 {
	idx := m.chrBanks.Map(int(addr))
	if idx < len(m.cart.CHRROM) {
		return m.cart.CHRROM[idx]
	}
	return 0xFF
}

func (m *mapper76) WriteCHR(addr uint16, value uint8) {
	if !m.cart.chrIsRAM {
		return
	}
	idx := m.chrBanks.Map(int(addr))
	if idx < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *mapper76) serializeMapper(ar *state.Archive) {
	state.Scalar(ar, "mapper76.bank_select", &m.bankSelect)
	m.chrBanks.Serialize(ar, "mapper76.chr_banks")
	m.prgBanks.Serialize(ar, "mapper76.prg_banks")
}
