package cartridge

// baseMapper implements the parts of the Mapper interface that are
// identical for every board unless a specific chip overrides them: fixed
// (or explicitly-set) mirroring resolved against the cartridge's physical
// nametable RAM, and no-op IRQ/clock hooks for mappers that don't drive
// an interrupt line.
type baseMapper struct {
	cart   *Cartridge
	mirror Mirror
}

func (m *baseMapper) Mirroring() Mirror { return m.mirror }

func (m *baseMapper) ReadNametable(addr uint16) uint8 {
	return m.cart.readPhysicalNametable(addr)
}

func (m *baseMapper) WriteNametable(addr uint16, value uint8) {
	m.cart.writePhysicalNametable(addr, value)
}

func (m *baseMapper) CPUTick()                       {}
func (m *baseMapper) PPUTick(cycle, scanline int)     {}
func (m *baseMapper) IRQPending() bool                { return false }
func (m *baseMapper) ClearIRQ()                       {}

// prgRAMAccess covers the $6000-$7FFF PRG RAM window shared by most boards.
type prgRAMAccess struct {
	ram []uint8
}

func (p *prgRAMAccess) read(addr uint16) uint8 {
	if len(p.ram) == 0 {
		return 0xFF
	}
	return p.ram[int(addr-0x6000)%len(p.ram)]
}

func (p *prgRAMAccess) write(addr uint16, value uint8) {
	if len(p.ram) == 0 {
		return
	}
	p.ram[int(addr-0x6000)%len(p.ram)] = value
}
