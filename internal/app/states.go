// Package app provides save state functionality for the NES emulator.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gones/internal/bus"
)

// StateManager manages save state slots on disk. Each slot is a dotted-
// namespace hex archive written by bus.SaveState, plus a small metadata
// sidecar so slot listings don't have to re-parse the archive.
type StateManager struct {
	saveDirectory string
	maxSlots      int
	initialized   bool
}

// StateSlotInfo describes one save state slot.
type StateSlotInfo struct {
	SlotNumber  int
	Used        bool
	Timestamp   time.Time
	ROMPath     string
	Description string
	FilePath    string
	FileSize    int64
}

// StateManagerStats summarizes slot usage for a ROM.
type StateManagerStats struct {
	MaxSlots      int
	UsedSlots     int
	FreeSlots     int
	TotalSize     int64
	SaveDirectory string
	Initialized   bool
}

// NewStateManager creates a state manager rooted at saveDirectory.
func NewStateManager(saveDirectory string) *StateManager {
	manager := &StateManager{
		saveDirectory: saveDirectory,
		maxSlots:      10,
	}
	if err := manager.initialize(); err != nil {
		fmt.Printf("Warning: state manager initialization failed: %v\n", err)
	}
	return manager
}

func (sm *StateManager) initialize() error {
	if err := os.MkdirAll(sm.saveDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	sm.initialized = true
	return nil
}

// SaveState archives the bus's full state to the given slot.
func (sm *StateManager) SaveState(b *bus.Bus, slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}
	if b == nil {
		return fmt.Errorf("bus cannot be nil")
	}

	filePath := sm.getSlotFilePath(slot, romPath)
	if err := b.SaveState(filePath); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return sm.writeSidecar(filePath, romPath)
}

// LoadState restores the bus's full state from the given slot.
func (sm *StateManager) LoadState(b *bus.Bus, slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}
	if b == nil {
		return fmt.Errorf("bus cannot be nil")
	}

	filePath := sm.getSlotFilePath(slot, romPath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	if err := sm.checkSidecarROM(filePath, romPath); err != nil {
		return err
	}

	if err := b.LoadState(filePath); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	return nil
}

// ExportState archives the bus's state to an arbitrary file path.
func (sm *StateManager) ExportState(b *bus.Bus, filePath string, romPath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := b.SaveState(filePath); err != nil {
		return fmt.Errorf("failed to export state: %w", err)
	}
	return sm.writeSidecar(filePath, romPath)
}

// ImportState restores the bus's state from an arbitrary file path.
func (sm *StateManager) ImportState(b *bus.Bus, filePath string, romPath string) error {
	if err := sm.checkSidecarROM(filePath, romPath); err != nil {
		return err
	}
	if err := b.LoadState(filePath); err != nil {
		return fmt.Errorf("failed to import state: %w", err)
	}
	return nil
}

// sidecarPath returns the metadata file path for a given archive path.
func sidecarPath(filePath string) string {
	return filePath + ".meta"
}

// writeSidecar records the ROM path and save time next to the archive, so
// GetSlotInfo can list slots without parsing the full archive.
func (sm *StateManager) writeSidecar(filePath, romPath string) error {
	line := fmt.Sprintf("%s\n%s\n", romPath, time.Now().Format(time.RFC3339))
	return os.WriteFile(sidecarPath(filePath), []byte(line), 0644)
}

func (sm *StateManager) readSidecar(filePath string) (romPath string, savedAt time.Time, err error) {
	data, err := os.ReadFile(sidecarPath(filePath))
	if err != nil {
		return "", time.Time{}, err
	}
	var lines [2]string
	n := 0
	start := 0
	for i := 0; i < len(data) && n < 2; i++ {
		if data[i] == '\n' {
			lines[n] = string(data[start:i])
			n++
			start = i + 1
		}
	}
	if n < 1 {
		return "", time.Time{}, fmt.Errorf("malformed sidecar %s", sidecarPath(filePath))
	}
	savedAt, _ = time.Parse(time.RFC3339, lines[1])
	return lines[0], savedAt, nil
}

// checkSidecarROM rejects loading a state saved against a different ROM.
// A missing sidecar (e.g. a hand-placed archive) is allowed through.
func (sm *StateManager) checkSidecarROM(filePath, romPath string) error {
	savedROM, _, err := sm.readSidecar(filePath)
	if err != nil {
		return nil
	}
	if savedROM != romPath {
		return fmt.Errorf("save state is for a different ROM (%s)", savedROM)
	}
	return nil
}

// getSlotFilePath generates the file path for a save slot.
func (sm *StateManager) getSlotFilePath(slot int, romPath string) string {
	romName := filepath.Base(romPath)
	romNameWithoutExt := romName[:len(romName)-len(filepath.Ext(romName))]
	fileName := fmt.Sprintf("%s_slot_%d.nesstate", romNameWithoutExt, slot)
	return filepath.Join(sm.saveDirectory, fileName)
}

// GetSlotInfo returns information about all save slots for a ROM.
func (sm *StateManager) GetSlotInfo(romPath string) []StateSlotInfo {
	slots := make([]StateSlotInfo, sm.maxSlots)

	for i := 0; i < sm.maxSlots; i++ {
		slotInfo := StateSlotInfo{SlotNumber: i}

		filePath := sm.getSlotFilePath(i, romPath)
		if stat, err := os.Stat(filePath); err == nil {
			slotInfo.Used = true
			slotInfo.FilePath = filePath
			slotInfo.FileSize = stat.Size()
			slotInfo.Timestamp = stat.ModTime()

			if rom, savedAt, err := sm.readSidecar(filePath); err == nil {
				slotInfo.ROMPath = rom
				slotInfo.Timestamp = savedAt
				slotInfo.Description = fmt.Sprintf("Saved %s", savedAt.Format("2006-01-02 15:04:05"))
			}
		}

		slots[i] = slotInfo
	}

	return slots
}

// DeleteState deletes a save state and its sidecar from a slot.
func (sm *StateManager) DeleteState(slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d", slot)
	}

	filePath := sm.getSlotFilePath(slot, romPath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete save state: %w", err)
	}
	os.Remove(sidecarPath(filePath))
	return nil
}

// HasSaveState checks if a save state exists in a slot.
func (sm *StateManager) HasSaveState(slot int, romPath string) bool {
	if slot < 0 || slot >= sm.maxSlots {
		return false
	}
	_, err := os.Stat(sm.getSlotFilePath(slot, romPath))
	return err == nil
}

// GetMaxSlots returns the maximum number of save slots.
func (sm *StateManager) GetMaxSlots() int { return sm.maxSlots }

// SetMaxSlots sets the maximum number of save slots.
func (sm *StateManager) SetMaxSlots(slots int) {
	if slots > 0 {
		sm.maxSlots = slots
	}
}

// GetSaveDirectory returns the save directory path.
func (sm *StateManager) GetSaveDirectory() string { return sm.saveDirectory }

// SetSaveDirectory changes the save directory, creating it if needed.
func (sm *StateManager) SetSaveDirectory(directory string) error {
	sm.saveDirectory = directory
	return sm.initialize()
}

// Cleanup releases state manager resources.
func (sm *StateManager) Cleanup() error {
	sm.initialized = false
	return nil
}

// GetStateManagerStats returns usage statistics for a ROM's save slots.
func (sm *StateManager) GetStateManagerStats(romPath string) StateManagerStats {
	slots := sm.GetSlotInfo(romPath)

	var usedSlots int
	var totalSize int64
	for _, slot := range slots {
		if slot.Used {
			usedSlots++
			totalSize += slot.FileSize
		}
	}

	return StateManagerStats{
		MaxSlots:      sm.maxSlots,
		UsedSlots:     usedSlots,
		FreeSlots:     sm.maxSlots - usedSlots,
		TotalSize:     totalSize,
		SaveDirectory: sm.saveDirectory,
		Initialized:   sm.initialized,
	}
}
