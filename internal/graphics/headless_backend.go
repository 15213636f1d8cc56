package graphics

import "fmt"

// HeadlessBackend implements Backend with no visible output, for
// scripted test ROM runs and CI.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow implements Window for headless operation.
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int
	lastFrame  [256 * 240]uint32
}

func NewHeadlessBackend() Backend { return &HeadlessBackend{} }

func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	return &HeadlessWindow{title: title, width: width, height: height, running: true}, nil
}

func (b *HeadlessBackend) Cleanup() error  { b.initialized = false; return nil }
func (b *HeadlessBackend) IsHeadless() bool { return true }
func (b *HeadlessBackend) GetName() string  { return "Headless" }

func (w *HeadlessWindow) SetTitle(title string)        { w.title = title }
func (w *HeadlessWindow) GetSize() (int, int)          { return w.width, w.height }
func (w *HeadlessWindow) ShouldClose() bool            { return !w.running }
func (w *HeadlessWindow) SwapBuffers()                 {}
func (w *HeadlessWindow) PollEvents() []InputEvent     { return nil }

// RenderFrame just counts frames and retains the most recent one, so
// tests can assert on frame content without a real display.
func (w *HeadlessWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	w.frameCount++
	w.lastFrame = frameBuffer
	return nil
}

func (w *HeadlessWindow) Cleanup() error { w.running = false; return nil }

// FrameCount returns how many frames RenderFrame has received.
func (w *HeadlessWindow) FrameCount() int { return w.frameCount }

// LastFrame returns the most recently rendered framebuffer.
func (w *HeadlessWindow) LastFrame() [256 * 240]uint32 { return w.lastFrame }
