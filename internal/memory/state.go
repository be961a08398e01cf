package memory

import "gones/internal/state"

// Serialize registers CPU-side internal RAM. Registers and mapper/PPU/APU
// state are archived by their own owning components.
func (m *Memory) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Bytes(ar, "ram", m.ram[:])
	})
}

// Serialize registers the PPU's palette RAM. Nametable and pattern data
// live in the cartridge and are archived there.
func (pm *PPUMemory) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Bytes(ar, "palette", pm.paletteRAM[:])
	})
}
