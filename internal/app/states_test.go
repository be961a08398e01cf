package app

import (
	"path/filepath"
	"testing"

	"gones/internal/bus"
	"gones/internal/cartridge"
)

func newTestBus(t *testing.T) *bus.Bus {
	t.Helper()
	cart, err := cartridge.NewTestROMBuilder().
		WithPRGSize(1).
		WithCHRSize(1).
		WithResetVector(0x8000).
		WithData(0, []uint8{0xA9, 0x42, 0xEA, 0xEA}). // LDA #$42, NOP, NOP
		BuildCartridge()
	if err != nil {
		t.Fatalf("BuildCartridge: %v", err)
	}

	b := bus.New()
	b.LoadCartridge(cart)
	return b
}

func TestStateManagerSaveAndLoadRoundTripsCPURegisters(t *testing.T) {
	b := newTestBus(t)
	b.Step() // executes LDA #$42, A becomes 0x42

	sm := NewStateManager(t.TempDir())
	const slot = 0
	const romPath = "test.nes"

	if err := sm.SaveState(b, slot, romPath); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	fresh := newTestBus(t)
	if err := sm.LoadState(fresh, slot, romPath); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	if fresh.GetCPUState().A != 0x42 {
		t.Errorf("A after load = %#x, want 0x42", fresh.GetCPUState().A)
	}
	if fresh.GetCPUState().PC != b.GetCPUState().PC {
		t.Errorf("PC after load = %#x, want %#x", fresh.GetCPUState().PC, b.GetCPUState().PC)
	}
}

func TestStateManagerLoadRejectsMismatchedROM(t *testing.T) {
	b := newTestBus(t)
	sm := NewStateManager(t.TempDir())

	if err := sm.SaveState(b, 0, "original.nes"); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	if err := sm.LoadState(b, 0, "different.nes"); err == nil {
		t.Error("expected error loading state saved for a different ROM")
	}
}

func TestStateManagerHasSaveStateAndDelete(t *testing.T) {
	b := newTestBus(t)
	sm := NewStateManager(t.TempDir())

	if sm.HasSaveState(0, "rom.nes") {
		t.Error("expected no save state before SaveState")
	}

	if err := sm.SaveState(b, 0, "rom.nes"); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if !sm.HasSaveState(0, "rom.nes") {
		t.Error("expected save state to exist after SaveState")
	}

	if err := sm.DeleteState(0, "rom.nes"); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if sm.HasSaveState(0, "rom.nes") {
		t.Error("expected save state to be gone after DeleteState")
	}
}

func TestStateManagerGetSlotInfoReportsUsedSlots(t *testing.T) {
	b := newTestBus(t)
	sm := NewStateManager(t.TempDir())

	if err := sm.SaveState(b, 2, "rom.nes"); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	slots := sm.GetSlotInfo("rom.nes")
	if !slots[2].Used {
		t.Error("expected slot 2 to be marked used")
	}
	if slots[2].ROMPath != "rom.nes" {
		t.Errorf("slot 2 ROMPath = %q, want rom.nes", slots[2].ROMPath)
	}
	if slots[0].Used {
		t.Error("expected slot 0 to be unused")
	}
}

func TestStateManagerExportImportRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.Step()

	sm := NewStateManager(t.TempDir())
	exportPath := filepath.Join(t.TempDir(), "export.nesstate")

	if err := sm.ExportState(b, exportPath, "rom.nes"); err != nil {
		t.Fatalf("ExportState: %v", err)
	}

	fresh := newTestBus(t)
	if err := sm.ImportState(fresh, exportPath, "rom.nes"); err != nil {
		t.Fatalf("ImportState: %v", err)
	}

	if fresh.GetCPUState().A != b.GetCPUState().A {
		t.Errorf("A after import = %#x, want %#x", fresh.GetCPUState().A, b.GetCPUState().A)
	}
}
