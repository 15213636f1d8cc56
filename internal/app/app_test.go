package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gones/internal/cartridge"
)

const (
	prgUnit = 16 * 1024
	chrUnit = 8 * 1024
)

// writeNROM builds a minimal 32KB NROM iNES file at path, filled with
// NOPs and a reset vector at $8000, optionally battery-backed.
func writeNROM(t *testing.T, path string, battery bool) {
	t.Helper()
	header := make([]byte, 16)
	copy(header, []byte("NES\x1A"))
	header[4] = 2
	header[5] = 1
	if battery {
		header[6] = 0x02
	}

	prg := make([]byte, 2*prgUnit)
	for i := range prg {
		prg[i] = 0xEA
	}
	prg[0x7FFC] = 0x00
	prg[0x7FFD] = 0x80

	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(prg)
	buf.Write(make([]byte, chrUnit))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func newTestApp(t *testing.T, saveDir string) *Application {
	t.Helper()
	cfg := NewConfig()
	cfg.Video.Backend = "headless"
	cfg.Audio.Enabled = false
	cfg.Paths.SaveData = saveDir
	app := &Application{config: cfg}
	require.NoError(t, app.initGraphics())
	return app
}

func TestLoadROMBuildsRunnableSystem(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "game.nes")
	writeNROM(t, romPath, false)

	app := newTestApp(t, filepath.Join(dir, "saves"))
	require.NoError(t, app.LoadROM(romPath))
	require.NotNil(t, app.System())

	cycles := app.System().Step()
	require.NotZero(t, cycles)
}

func TestCleanupPersistsBatteryBackedSave(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "game.nes")
	writeNROM(t, romPath, true)

	saveDir := filepath.Join(dir, "saves")
	app := newTestApp(t, saveDir)
	require.NoError(t, app.LoadROM(romPath))

	copy(app.prog.PRGRAM(), []byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, app.Cleanup())

	data, err := os.ReadFile(filepath.Join(saveDir, "game.sav"))
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, data[:4])
}

func TestRunHeadlessLoopStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "game.nes")
	writeNROM(t, romPath, false)

	app := newTestApp(t, filepath.Join(dir, "saves"))
	require.NoError(t, app.LoadROM(romPath))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := app.Run(ctx)
	require.NoError(t, err)
}
