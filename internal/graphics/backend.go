// Package graphics abstracts the presentation layer: turning a PPU
// framebuffer and host input events into pixels on screen (or nowhere,
// for headless/CI runs), per spec.md §9's backend-selection design note.
package graphics

// Backend represents a graphics rendering backend.
type Backend interface {
	// Initialize prepares the backend for use.
	Initialize(config Config) error

	// CreateWindow creates a window for rendering (headless backends
	// still return a Window, just one that renders nowhere).
	CreateWindow(title string, width, height int) (Window, error)

	// Cleanup releases all resources.
	Cleanup() error

	// IsHeadless reports whether this backend produces no visible output.
	IsHeadless() bool

	// GetName returns the backend name for identification/logging.
	GetName() string
}

// Window represents a rendering surface plus its input source.
type Window interface {
	SetTitle(title string)
	GetSize() (width, height int)
	ShouldClose() bool
	SwapBuffers()

	// PollEvents drains and returns input events accumulated since the
	// last call.
	PollEvents() []InputEvent

	// RenderFrame presents one completed PPU frame (spec.md §4.3's
	// 256x240 ARGB framebuffer).
	RenderFrame(frameBuffer [256 * 240]uint32) error

	Cleanup() error
}

// Config configures a Backend at Initialize time.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	Filter      string // "nearest", "linear"
	AspectRatio string // "4:3", "stretch"

	Headless bool
	Debug    bool
}

// InputEvent represents an input event from the window.
type InputEvent struct {
	Type      InputEventType
	Key       Key
	Button    Button
	Pressed   bool
	Modifiers ModifierKey
}

// InputEventType categorizes an InputEvent.
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeButton
	InputEventTypeQuit
)

// Key represents a keyboard key the backend recognizes.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyJ
	KeyK
	KeyX
	KeyZ
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
)

// Button represents an NES controller button on either port, mirroring
// input.Button's bitmask but kept as its own enum since the backend
// must distinguish port 1 from port 2 as separate symbols.
type Button int

const (
	ButtonUnknown Button = iota
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	Button2A
	Button2B
	Button2Select
	Button2Start
	Button2Up
	Button2Down
	Button2Left
	Button2Right
)

// ModifierKey represents held modifier keys.
type ModifierKey int

const (
	ModifierNone  ModifierKey = 0
	ModifierShift ModifierKey = 1 << iota
	ModifierCtrl
	ModifierAlt
	ModifierSuper
)

// BackendType selects a Backend implementation.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend builds the named Backend, defaulting to Ebitengine for
// any unrecognized type so a typo in config falls back to a usable GUI.
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine:
		return NewEbitengineBackend(), nil
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		return NewEbitengineBackend(), nil
	}
}

// AsEbitengineWindow tries to cast a Window to *EbitengineWindow.
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	ebitengineWindow, ok := window.(*EbitengineWindow)
	return ebitengineWindow, ok
}
