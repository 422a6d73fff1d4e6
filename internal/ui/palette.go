package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aman-CERP/vaultsearch/internal/search"
)

// Searcher runs the two search modes. *search.Engine implements it.
type Searcher interface {
	SearchContent(vaultPath, query string, opts search.QueryOptions, buffers []search.OpenBuffer) ([]search.ContentMatch, error)
	SearchTitles(vaultPath, query string, opts search.QueryOptions) ([]search.TitleMatch, error)
}

// Mode selects what the palette searches.
type Mode int

const (
	// ModeContent searches file contents.
	ModeContent Mode = iota
	// ModeTitles searches titles and paths.
	ModeTitles
)

// String returns the label shown next to the prompt.
func (m Mode) String() string {
	if m == ModeTitles {
		return "titles"
	}
	return "content"
}

// PaletteConfig configures RunPalette and NewPalette.
type PaletteConfig struct {
	Searcher Searcher
	Vault    string
	Options  search.QueryOptions
	Mode     Mode
	Styles   Styles

	// Input and Output default to the process terminal when nil.
	Input  io.Reader
	Output io.Writer
}

// Row is one rendered result.
type Row struct {
	Path    string
	Line    int
	Column  int
	Text    string
	Score   int
	Buffer  bool
	MtimeMs int64
}

// resultsMsg carries the outcome of one search request.
type resultsMsg struct {
	id   uint64
	rows []Row
	err  error
}

// Palette is a type-ahead search model. Every edit of the query issues a
// new request with a higher id; results whose id is not the latest are
// dropped, so a slow early search never overwrites a newer one.
type Palette struct {
	cfg     PaletteConfig
	input   textinput.Model
	spinner spinner.Model

	mode      Mode
	requestID uint64
	query     string
	searching bool

	rows   []Row
	err    error
	cursor int

	width    int
	height   int
	selected string
	quitting bool
}

// NewPalette builds the palette model.
func NewPalette(cfg PaletteConfig) *Palette {
	in := textinput.New()
	in.Placeholder = "type to search"
	in.Prompt = "› "
	in.PromptStyle = cfg.Styles.Prompt
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cfg.Styles.Mode

	return &Palette{
		cfg:     cfg,
		input:   in,
		spinner: s,
		mode:    cfg.Mode,
		width:   80,
		height:  24,
	}
}

// Selected returns the path chosen with enter, or "".
func (p *Palette) Selected() string {
	return p.selected
}

// Init implements tea.Model.
func (p *Palette) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p *Palette) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.quitting = true
			return p, tea.Quit
		case tea.KeyEnter:
			if p.cursor < len(p.rows) {
				p.selected = p.rows[p.cursor].Path
			}
			p.quitting = true
			return p, tea.Quit
		case tea.KeyTab:
			if p.mode == ModeContent {
				p.mode = ModeTitles
			} else {
				p.mode = ModeContent
			}
			return p, p.issue()
		case tea.KeyUp, tea.KeyCtrlP:
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if p.cursor < len(p.rows)-1 {
				p.cursor++
			}
			return p, nil
		}

		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		if strings.TrimSpace(p.input.Value()) != p.query {
			return p, tea.Batch(cmd, p.issue())
		}
		return p, cmd

	case resultsMsg:
		if msg.id != p.requestID {
			return p, nil
		}
		p.searching = false
		p.rows = msg.rows
		p.err = msg.err
		p.cursor = 0
		return p, nil

	case spinner.TickMsg:
		if !p.searching {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.input.Width = msg.Width - 16
		return p, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// issue starts a search for the current query and mode under a fresh
// request id. An empty query clears the results without searching.
func (p *Palette) issue() tea.Cmd {
	p.requestID++
	p.query = strings.TrimSpace(p.input.Value())

	if p.query == "" {
		p.searching = false
		p.rows = nil
		p.err = nil
		p.cursor = 0
		return nil
	}

	p.searching = true
	return tea.Batch(p.search(p.requestID, p.mode, p.query), p.spinner.Tick)
}

// search returns a command running one request off the UI goroutine.
func (p *Palette) search(id uint64, mode Mode, query string) tea.Cmd {
	cfg := p.cfg
	return func() tea.Msg {
		if mode == ModeTitles {
			matches, err := cfg.Searcher.SearchTitles(cfg.Vault, query, cfg.Options)
			return resultsMsg{id: id, rows: titleRows(matches), err: err}
		}
		matches, err := cfg.Searcher.SearchContent(cfg.Vault, query, cfg.Options, nil)
		return resultsMsg{id: id, rows: contentRows(matches), err: err}
	}
}

func contentRows(matches []search.ContentMatch) []Row {
	rows := make([]Row, len(matches))
	for i, m := range matches {
		rows[i] = Row{
			Path:    m.RelativePath,
			Line:    m.Line,
			Column:  m.Column,
			Text:    m.Snippet,
			Buffer:  m.Source == search.SourceBuffer,
			MtimeMs: m.MtimeMs,
		}
	}
	return rows
}

func titleRows(matches []search.TitleMatch) []Row {
	rows := make([]Row, len(matches))
	for i, m := range matches {
		rows[i] = Row{
			Path:    m.RelativePath,
			Text:    m.Title,
			Score:   m.Score,
			MtimeMs: m.MtimeMs,
		}
	}
	return rows
}

// View implements tea.Model.
func (p *Palette) View() string {
	if p.quitting {
		return ""
	}
	st := p.cfg.Styles

	var b strings.Builder
	b.WriteString(st.Mode.Render("["+p.mode.String()+"]") + " " + p.input.View())
	b.WriteString("\n")
	b.WriteString(p.status())
	b.WriteString("\n")
	b.WriteString(st.Border.Render(strings.Repeat("─", max(p.width-2, 10))))
	b.WriteString("\n")

	// prompt, status, divider and hint lines
	visible := p.height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	for i := start; i < len(p.rows) && i < start+visible; i++ {
		b.WriteString(p.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString(st.Dim.Render("tab: content/titles  ↑/↓: move  enter: open  esc: quit"))
	return b.String()
}

func (p *Palette) status() string {
	st := p.cfg.Styles
	switch {
	case p.searching:
		return p.spinner.View() + st.Label.Render(" searching…")
	case p.err != nil:
		return st.Error.Render(p.err.Error())
	case p.query == "":
		return st.Dim.Render(fmt.Sprintf("vault: %s", p.cfg.Vault))
	case len(p.rows) == 1:
		return st.Label.Render("1 result")
	default:
		return st.Label.Render(fmt.Sprintf("%d results", len(p.rows)))
	}
}

func (p *Palette) renderRow(i int) string {
	st := p.cfg.Styles
	r := p.rows[i]

	marker := "  "
	path := st.Path.Render(truncateFilePath(r.Path, p.width/2))
	if i == p.cursor {
		marker = st.Selected.Render("▸ ")
	}

	var loc string
	if r.Line > 0 {
		loc = st.Location.Render(fmt.Sprintf(":%d:%d", r.Line, r.Column))
	}
	if r.Buffer {
		loc += st.Buffer.Render(" [unsaved]")
	}

	room := p.width - len(r.Path) - 16
	if room < 10 {
		room = 10
	}
	return marker + path + loc + "  " + st.Snippet.Render(truncateText(r.Text, room))
}

// truncateText cuts s to at most n runes, marking the cut with an ellipsis.
func truncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// truncateFilePath shortens path to maxLen, keeping the file name and as
// much of the directory tail as fits.
func truncateFilePath(path string, maxLen int) string {
	if path == "" || len(path) <= maxLen {
		return path
	}

	parts := strings.Split(path, "/")
	if len(parts) == 1 {
		if maxLen < 4 {
			return "..."
		}
		return "..." + path[len(path)-maxLen+3:]
	}

	filename := parts[len(parts)-1]
	if len(filename)+4 > maxLen {
		if maxLen < 4 {
			return "..."
		}
		return "..." + filename[len(filename)-maxLen+3:]
	}

	remaining := maxLen - len(filename) - 4 // ".../"
	if remaining <= 0 {
		return ".../" + filename
	}

	prefix := strings.Join(parts[:len(parts)-1], "/")
	return "..." + prefix[len(prefix)-remaining:] + "/" + filename
}

// RunPalette runs the palette until the user quits and returns the chosen
// path ("" when nothing was chosen).
func RunPalette(ctx context.Context, cfg PaletteConfig) (string, error) {
	model := NewPalette(cfg)

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return "", fmt.Errorf("palette: %w", err)
	}
	if p, ok := final.(*Palette); ok {
		return p.Selected(), nil
	}
	return "", nil
}
