package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/viewcell/engine-bridge/bridge"
	"github.com/viewcell/engine-bridge/canvas"
	"github.com/viewcell/engine-bridge/cartridge"
	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/remote"
	"github.com/viewcell/engine-bridge/sim"
	"github.com/viewcell/engine-bridge/surface"
	"github.com/viewcell/engine-bridge/wire"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	matrixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type simModel struct {
	cfg      sim.Config
	viewAddr string

	handle bridge.Handle
	px     *surface.Pixels
	events map[uint64][]sim.Event

	frame      uint64
	sent       int
	received   int
	lastMatrix *wire.Matrix
	status     bridge.Status
	lastErr    string

	dragging bool
	dragX    float32
	dragY    float32

	colorInput textinput.Model
	entering   bool

	stopViewer context.CancelFunc
	err        error
}

type createdMsg struct {
	err    error
	handle bridge.Handle
	px     *surface.Pixels
}

type frameMsg struct{}

func newSimModel(cfg sim.Config, viewAddr string) *simModel {
	ti := textinput.New()
	ti.Placeholder = "r,g,b,a"
	ti.Prompt = "color: "
	ti.Width = 24

	events := make(map[uint64][]sim.Event, len(cfg.Events))
	for _, ev := range cfg.Events {
		events[ev.Frame] = append(events[ev.Frame], ev)
	}

	return &simModel{
		cfg:        cfg,
		viewAddr:   viewAddr,
		events:     events,
		colorInput: ti,
	}
}

func (m *simModel) Init() tea.Cmd {
	return m.createInstance
}

func (m *simModel) createInstance() tea.Msg {
	var factory func() engine.Engine
	switch m.cfg.Engine.Kind {
	case sim.EngineCartridge:
		eng, err := cartridge.Load(m.cfg.Engine.Module)
		if err != nil {
			return createdMsg{err: err}
		}
		factory = func() engine.Engine { return eng }
	default:
		factory = func() engine.Engine { return canvas.New(canvas.DemoScene()) }
	}
	bridge.Bind(factory)

	px := surface.NewPixels(m.cfg.View.Width, m.cfg.View.Height)
	h := bridge.Create(px, m.cfg.View.Width, m.cfg.View.Height, m.cfg.View.Scale)
	if h == 0 {
		return createdMsg{err: fmt.Errorf("create instance: %w", bridge.CreateError())}
	}
	return createdMsg{handle: h, px: px}
}

func (m *simModel) tick() tea.Cmd {
	period := time.Second / time.Duration(m.cfg.Rate)
	return tea.Tick(period, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *simModel) teardown() {
	if m.stopViewer != nil {
		m.stopViewer()
		m.stopViewer = nil
	}
	if m.handle != 0 {
		// The tea loop is the frame driver; it is not mid-frame here, so
		// destroying directly honors the stop-then-destroy discipline.
		bridge.Destroy(m.handle)
		m.handle = 0
	}
}

func (m *simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.handle = msg.handle
		m.px = msg.px
		if m.viewAddr != "" {
			ctx, cancel := context.WithCancel(context.Background())
			m.stopViewer = cancel
			viewer := remote.New(remote.Config{
				Addr:     m.viewAddr,
				Handle:   m.handle,
				Pixels:   m.px,
				FPS:      15,
				MaxWidth: 480,
			})
			go viewer.Start(ctx)
		}
		return m, m.tick()

	case frameMsg:
		if m.handle == 0 || m.status != bridge.StatusOK {
			return m, nil
		}
		m.driveFrame()
		if m.status != bridge.StatusOK {
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.entering {
		var cmd tea.Cmd
		m.colorInput, cmd = m.colorInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// driveFrame is one loop iteration: scenario events, injected drag,
// Update, one message poll.
func (m *simModel) driveFrame() {
	for _, ev := range m.events[m.frame] {
		m.applyEvent(ev)
	}

	if m.dragging {
		m.dragX += 2
		m.dragY += 1
		bridge.TouchEvent(m.handle, input.PhaseMoved, m.dragX, m.dragY, 1)
	}

	if st := bridge.Update(m.handle); st != bridge.StatusOK {
		m.status = st
		m.lastErr = bridge.LastError(m.handle)
		return
	}
	m.frame++

	if payload, ok := bridge.ReceiveMessage(m.handle); ok {
		m.received++
		if mat, err := wire.DecodeMatrix(payload); err == nil {
			m.lastMatrix = &mat
		}
	}
}

func (m *simModel) applyEvent(ev sim.Event) {
	switch {
	case ev.Touch != nil:
		if phase, ok := input.PhaseFromByte(ev.Touch.Phase); ok {
			bridge.TouchEvent(m.handle, phase, ev.Touch.X, ev.Touch.Y, ev.Touch.ID)
		}
	case ev.Send != nil:
		if payload, err := ev.Send.Payload(); err == nil {
			bridge.SendMessage(m.handle, payload)
			m.sent++
		}
	case ev.Resize != nil:
		scale := ev.Resize.Scale
		if scale == 0 {
			scale = m.cfg.View.Scale
		}
		bridge.Resize(m.handle, ev.Resize.Width, ev.Resize.Height, scale)
	}
}

func (m *simModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entering {
		switch msg.String() {
		case "enter":
			m.sendColor(m.colorInput.Value())
			m.entering = false
			m.colorInput.Blur()
			m.colorInput.SetValue("")
		case "esc":
			m.entering = false
			m.colorInput.Blur()
			m.colorInput.SetValue("")
		default:
			var cmd tea.Cmd
			m.colorInput, cmd = m.colorInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.teardown()
		return m, tea.Quit

	case "d":
		if m.handle == 0 {
			return m, nil
		}
		if m.dragging {
			bridge.TouchEvent(m.handle, input.PhaseEnded, m.dragX, m.dragY, 1)
			m.dragging = false
		} else {
			m.dragX = float32(m.cfg.View.Width) / 2
			m.dragY = float32(m.cfg.View.Height) / 2
			bridge.TouchEvent(m.handle, input.PhaseStarted, m.dragX, m.dragY, 1)
			m.dragging = true
		}

	case "c":
		m.entering = true
		m.colorInput.Focus()
		return m, textinput.Blink

	case "j":
		if m.handle != 0 {
			bridge.SendMessage(m.handle, []byte{0xde, 0xad, 0xbe, 0xef, 0x01})
			m.sent++
		}
	}
	return m, nil
}

func (m *simModel) sendColor(value string) {
	if m.handle == 0 {
		return
	}
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return
	}
	var c wire.Color
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return
		}
		c[i] = float32(f)
	}
	bridge.SendMessage(m.handle, wire.EncodeColor(c))
	m.sent++
}

func (m *simModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.handle == 0 {
		return "Starting engine..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("bridge-sim"))
	b.WriteString(fmt.Sprintf(" %s engine, %dx%d@%g\n\n",
		m.cfg.Engine.Kind, m.cfg.View.Width, m.cfg.View.Height, m.cfg.View.Scale))

	b.WriteString(statStyle.Render(fmt.Sprintf("frame     %d", m.frame)))
	b.WriteString("\n")
	b.WriteString(statStyle.Render(fmt.Sprintf("sent      %d", m.sent)))
	b.WriteString("\n")
	b.WriteString(statStyle.Render(fmt.Sprintf("received  %d", m.received)))
	b.WriteString("\n")
	if m.dragging {
		b.WriteString(statStyle.Render(fmt.Sprintf("dragging  (%.0f, %.0f)", m.dragX, m.dragY)))
		b.WriteString("\n")
	}
	if m.viewAddr != "" {
		b.WriteString(statStyle.Render("viewer    ws://" + m.viewAddr + "/view"))
		b.WriteString("\n")
	}

	if m.status != bridge.StatusOK {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("stopped: %s (%s)", m.status, m.lastErr)))
		b.WriteString("\n")
	}

	if m.lastMatrix != nil {
		b.WriteString("\nlast camera matrix:\n")
		mat := *m.lastMatrix
		for row := 0; row < 4; row++ {
			b.WriteString(matrixStyle.Render(fmt.Sprintf("  %8.3f %8.3f %8.3f %8.3f",
				mat[row*4], mat[row*4+1], mat[row*4+2], mat[row*4+3])))
			b.WriteString("\n")
		}
	}

	if m.entering {
		b.WriteString("\n")
		b.WriteString(m.colorInput.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter send • esc cancel"))
	} else {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("d drag • c color • j junk payload • q quit"))
	}
	return b.String()
}

func runInteractive(cfg sim.Config, viewAddr string) error {
	p := tea.NewProgram(newSimModel(cfg, viewAddr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
