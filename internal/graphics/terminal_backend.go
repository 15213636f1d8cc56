package graphics

import "fmt"

// TerminalBackend implements Backend as coarse ASCII-art output, useful
// for a quick visual check over SSH with no GPU available.
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow implements Window for terminal rendering.
type TerminalWindow struct {
	title   string
	width   int
	height  int
	running bool
}

func NewTerminalBackend() Backend { return &TerminalBackend{} }

func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	return &TerminalWindow{title: title, width: width, height: height, running: true}, nil
}

func (b *TerminalBackend) Cleanup() error  { b.initialized = false; return nil }
func (b *TerminalBackend) IsHeadless() bool { return false }
func (b *TerminalBackend) GetName() string  { return "Terminal" }

func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Printf("\033]0;%s\007", title)
}

func (w *TerminalWindow) GetSize() (int, int)      { return w.width, w.height }
func (w *TerminalWindow) ShouldClose() bool        { return !w.running }
func (w *TerminalWindow) SwapBuffers()             {}
func (w *TerminalWindow) PollEvents() []InputEvent { return nil }

// RenderFrame downsamples the framebuffer to a block-character grid.
func (w *TerminalWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	fmt.Print("\033[2J\033[H")
	for y := 0; y < 240; y += 8 {
		for x := 0; x < 256; x += 4 {
			if frameBuffer[y*256+x] == 0 {
				fmt.Print(" ")
			} else {
				fmt.Print("#")
			}
		}
		fmt.Println()
	}
	return nil
}

func (w *TerminalWindow) Cleanup() error { w.running = false; return nil }
