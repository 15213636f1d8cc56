package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gones/internal/cartridge"
)

// savePathFor derives the battery-RAM save file path for a ROM: the
// same basename under the configured save-data directory with a .sav
// extension, matching the common "ROM name + .sav" convention spec.md
// §6's "Save file" leaves as a host-layer detail.
func savePathFor(saveDir, romPath string) string {
	base := filepath.Base(romPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)] + ".sav"
	return filepath.Join(saveDir, name)
}

// loadSaveData reads a .sav file into prog's battery-backed PRG-RAM, if
// one exists and prog is battery-backed; a missing file is not an error.
func loadSaveData(prog *cartridge.Program, path string) error {
	if !prog.BatteryBacked() {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read save file: %w", err)
	}
	copy(prog.PRGRAM(), data)
	return nil
}

// saveSaveData writes prog's battery-backed PRG-RAM to path, creating
// its parent directory if necessary. A no-op for non-battery cartridges.
func saveSaveData(prog *cartridge.Program, path string) error {
	if !prog.BatteryBacked() {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create save directory: %w", err)
		}
	}
	if err := os.WriteFile(path, prog.PRGRAM(), 0o644); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	return nil
}
