package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/arcanaland/cardtags/internal/ansiart"
	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/catalog"
	"github.com/arcanaland/cardtags/internal/colors"
	"github.com/arcanaland/cardtags/internal/search"
	"github.com/arcanaland/cardtags/internal/tags"
)

const (
	headerHeight = 4 // bordered search box plus status line
	previewWidth = 20
	previewRows  = 26
	minListWidth = 30
)

// LoadFunc performs the one catalog load at startup
type LoadFunc func(ctx context.Context) (*catalog.Catalog, error)

// Options configures a gallery model
type Options struct {
	Load     LoadFunc
	Renderer *ansiart.Renderer // nil disables image previews
	Matcher  search.Matcher
	Logger   *zap.Logger
}

// artRendered carries a finished preview render
type artRendered struct {
	Location string
	Art      string
	Err      error
}

// Model is the bubbletea model for the gallery
type Model struct {
	state    State
	input    textinput.Model
	load     LoadFunc
	renderer *ansiart.Renderer
	logger   *zap.Logger
	styles   Styles

	art    map[string]artRendered // preview renders by image location
	offset int                    // first visible card shown
	width  int
	height int
}

// NewModel creates the gallery
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search creatures, colors ('blue', 'white', ...) or tags..."
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Focus()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		state:    NewState(opts.Matcher),
		input:    ti,
		load:     opts.Load,
		renderer: opts.Renderer,
		logger:   logger,
		styles:   DefaultStyles(),
		art:      make(map[string]artRendered),
		width:    80,
		height:   24,
	}
}

// State returns the current gallery state
func (m Model) State() State {
	return m.state
}

// Init starts the catalog load
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	return func() tea.Msg {
		cat, err := load(context.Background())
		if err != nil {
			return CatalogFailed{Err: err}
		}
		return CatalogLoaded{Catalog: cat}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.listWidth() - 6
		cmds = append(cmds, m.syncHover())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.scroll(-1)
			return m, m.syncHover()
		case tea.KeyDown:
			m.scroll(1)
			return m, m.syncHover()
		case tea.KeyPgUp:
			m.scroll(-5)
			return m, m.syncHover()
		case tea.KeyPgDown:
			m.scroll(5)
			return m, m.syncHover()
		}

		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		if m.input.Value() != before {
			m.state = Reduce(m.state, QueryChanged{Query: m.input.Value()})
			m.offset = 0
			cmds = append(cmds, m.syncHover())
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(-1)
		case tea.MouseButtonWheelDown:
			m.scroll(1)
		}
		m.state = Reduce(m.state, PointerMoved{X: msg.X, Y: msg.Y})
		cmds = append(cmds, m.syncHover())

	case artRendered:
		if msg.Err != nil {
			m.logger.Debug("preview render failed", zap.String("image", msg.Location), zap.Error(msg.Err))
		}
		m.art[msg.Location] = msg

	case Event:
		m.state = Reduce(m.state, msg)
		if failed, ok := msg.(CatalogFailed); ok {
			m.logger.Error("catalog load failed", zap.Error(failed.Err))
		}
		m.offset = 0
		cmds = append(cmds, m.syncHover())

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) scroll(delta int) {
	m.offset += delta
	if last := len(m.state.Visible) - 1; m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// syncHover turns the pointer position into enter/leave events and starts a
// preview render for a newly hovered card
func (m *Model) syncHover() tea.Cmd {
	hit := m.cardAt(m.state.Pointer.X, m.state.Pointer.Y)
	if hit == m.state.Hovered {
		return nil
	}
	if m.state.Previewing() {
		m.state = Reduce(m.state, PointerLeft{Index: m.state.Hovered})
	}
	if hit < 0 {
		return nil
	}
	m.state = Reduce(m.state, PointerEntered{Index: hit})
	if c, ok := m.state.HoveredCard(); ok {
		return m.renderArt(c)
	}
	return nil
}

func (m Model) imageLocation(c card.Card) string {
	if m.state.Load.Catalog == nil {
		return c.ImageURL
	}
	return m.state.Load.Catalog.ResolveImage(c.ImageURL)
}

func (m Model) renderArt(c card.Card) tea.Cmd {
	location := m.imageLocation(c)
	if m.renderer == nil || location == "" {
		return nil
	}
	if _, ok := m.art[location]; ok {
		return nil
	}
	renderer := m.renderer
	return func() tea.Msg {
		art, err := renderer.Render(context.Background(), location, previewWidth, previewRows/2)
		return artRendered{Location: location, Art: art, Err: err}
	}
}

func (m Model) previewShown() bool {
	return m.width-previewWidth-4 >= minListWidth
}

func (m Model) listWidth() int {
	if m.previewShown() {
		return m.width - previewWidth - 4
	}
	return m.width
}

// cardAt returns the catalog index of the card drawn at cell (x, y), or -1
func (m Model) cardAt(x, y int) int {
	if x < 0 || x >= m.listWidth() || y < headerHeight {
		return -1
	}
	cards := m.state.Cards()
	top := headerHeight
	for i := m.offset; i < len(m.state.Visible) && top < m.height; i++ {
		idx := m.state.Visible[i]
		h := lipgloss.Height(m.renderCard(cards[idx], false))
		if y < top+h {
			return idx
		}
		top += h
	}
	return -1
}

func (m Model) renderCard(c card.Card, hovered bool) string {
	width := m.listWidth() - 4 // border and padding
	if width < 10 {
		width = 10
	}

	var parts []string
	parts = append(parts, m.styles.Name.Render(truncate(c.Name, width)))
	if c.Caption != "" {
		parts = append(parts, m.styles.Caption.Width(width).Render(c.Caption))
	}
	if names := colors.Names(c.Colors); len(names) > 0 {
		parts = append(parts, m.styles.GroupTitle.Render("Colors: "+strings.Join(names, ", ")))
	}
	for _, group := range tags.Groups(c) {
		chipStyle := m.styles.Chip(group.Style)
		chips := make([]string, len(group.Chips))
		for i, chip := range group.Chips {
			chips[i] = chipStyle.Render(chip.Label)
		}
		parts = append(parts, m.styles.GroupTitle.Render(group.Title), flow(chips, width))
	}

	style := m.styles.Card
	if hovered {
		style = m.styles.CardHover
	}
	return style.Width(width + 2).Render(strings.Join(parts, "\n"))
}

func (m Model) statusLine() string {
	if msg := m.state.Load.Message(); msg != "" {
		if m.state.Load.Status == catalog.Failed {
			return m.styles.Error.Render(msg)
		}
		return m.styles.Status.Render(msg)
	}
	total := len(m.state.Cards())
	shown := len(m.state.Visible)
	if shown == 0 {
		return m.styles.Status.Render(fmt.Sprintf("No cards match (%d in catalog)", total))
	}
	return m.styles.Status.Render(fmt.Sprintf("%d of %d cards", shown, total))
}

func (m Model) renderList() string {
	cards := m.state.Cards()
	var blocks []string
	used := 0
	for i := m.offset; i < len(m.state.Visible); i++ {
		idx := m.state.Visible[i]
		block := m.renderCard(cards[idx], idx == m.state.Hovered)
		blocks = append(blocks, block)
		used += lipgloss.Height(block)
		if used >= m.height-headerHeight {
			break
		}
	}
	list := strings.Join(blocks, "\n")
	lines := strings.Split(list, "\n")
	if rows := m.height - headerHeight; rows > 0 && len(lines) > rows {
		lines = lines[:rows]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPreview() string {
	c, ok := m.state.HoveredCard()
	if !ok {
		return ""
	}

	var body string
	location := m.imageLocation(c)
	switch r, done := m.art[location]; {
	case m.renderer == nil:
		body = truncate(c.Name, previewWidth)
	case !done:
		body = "Loading preview..."
	case r.Err != nil:
		body = "No preview available"
	default:
		body = strings.TrimSuffix(r.Art, "\n")
	}
	box := m.styles.Preview.Width(previewWidth).Render(body)

	// anchor the box next to the pointer row, kept inside the list area
	top := m.state.Pointer.Y - headerHeight + 1
	if limit := m.height - headerHeight - lipgloss.Height(box); top > limit {
		top = limit
	}
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + box
}

// View renders the gallery
func (m Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Search.Width(m.listWidth()-4).Render(m.input.View()),
		m.statusLine(),
	)

	body := m.renderList()
	if m.previewShown() {
		if preview := m.renderPreview(); preview != "" {
			body = lipgloss.JoinHorizontal(lipgloss.Top,
				lipgloss.NewStyle().Width(m.listWidth()).Render(body),
				"  ",
				preview,
			)
		}
	}

	return header + "\n" + body
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// Run starts the gallery on the terminal and blocks until the user quits
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
