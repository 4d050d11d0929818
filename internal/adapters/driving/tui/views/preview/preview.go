// Package preview provides the document preview view: the enriched
// content list grouped by page, navigable page by page.
package preview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/keymap"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/messages"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/styles"
	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// View shows the enriched document one page at a time.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	body   viewport.Model

	// pages holds the page numbers present in the corpus, ascending.
	pages   []int
	byPage  map[int][]domain.ContentItem
	current int // index into pages

	width  int
	height int
	ready  bool
}

// NewView creates a new preview view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles: s,
		keymap: km,
		body:   viewport.New(80, 16),
		byPage: map[int][]domain.ContentItem{},
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetReferences loads the corpus content. Items are grouped by page and
// ordered by their chunk position within each page.
func (v *View) SetReferences(refs domain.ReferenceMap) {
	v.byPage = map[int][]domain.ContentItem{}
	for _, item := range refs {
		v.byPage[item.PageIdx] = append(v.byPage[item.PageIdx], item)
	}

	v.pages = v.pages[:0]
	for page, items := range v.byPage {
		sort.Slice(items, func(i, j int) bool {
			return chunkPosition(items[i].ChunkID) < chunkPosition(items[j].ChunkID)
		})
		v.pages = append(v.pages, page)
	}
	sort.Ints(v.pages)

	if v.current >= len(v.pages) {
		v.current = 0
	}
	v.refresh()
}

// chunkPosition extracts the numeric position from a "chunk_<i>" ID.
// Malformed IDs sort first.
func chunkPosition(chunkID string) int {
	var n int
	if _, err := fmt.Sscanf(chunkID, "chunk_%d", &n); err != nil {
		return -1
	}
	return n
}

// JumpToPage shows the given page if it exists in the corpus.
func (v *View) JumpToPage(page int) bool {
	for i, p := range v.pages {
		if p == page {
			v.current = i
			v.refresh()
			return true
		}
	}
	return false
}

// Update handles messages for the preview view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ReferencesLoaded:
		if msg.Err == nil {
			v.SetReferences(msg.Refs)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.body, cmd = v.body.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyLeft:
		v.prevPage()
		return v, nil
	case tea.KeyRight:
		v.nextPage()
		return v, nil
	}

	switch msg.String() {
	case "h":
		v.prevPage()
		return v, nil
	case "l":
		v.nextPage()
		return v, nil
	}

	var cmd tea.Cmd
	v.body, cmd = v.body.Update(msg)
	return v, cmd
}

func (v *View) prevPage() {
	if v.current > 0 {
		v.current--
		v.refresh()
	}
}

func (v *View) nextPage() {
	if v.current < len(v.pages)-1 {
		v.current++
		v.refresh()
	}
}

// refresh re-renders the current page into the viewport.
func (v *View) refresh() {
	v.body.SetContent(v.renderPage())
	v.body.GotoTop()
}

// renderPage formats the items of the current page.
func (v *View) renderPage() string {
	if len(v.pages) == 0 {
		return v.styles.Muted.Render("No document content. Run enrichment first.")
	}

	page := v.pages[v.current]
	items := v.byPage[page]

	lines := make([]string, 0, len(items)*2)
	for _, item := range items {
		id := v.styles.Muted.Render("(" + item.ChunkID + ")")
		switch {
		case item.TextLevel > 0:
			lines = append(lines, v.styles.Subtitle.Render(item.Text)+" "+id)
		case item.Type != domain.ContentTypeText:
			lines = append(lines, v.styles.Muted.Render("["+item.Type.String()+"]")+" "+id)
		default:
			lines = append(lines, v.styles.Normal.Render(item.Text)+" "+id)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// View renders the preview view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 6)

	title := v.styles.Title.Render("Document Preview")
	sections = append(sections, title)

	if len(v.pages) > 0 {
		badge := v.styles.Selected.Render(fmt.Sprintf(" Page %d ", v.pages[v.current]))
		position := v.styles.Muted.Render(fmt.Sprintf(" %d of %d", v.current+1, len(v.pages)))
		sections = append(sections, badge+position)
	}
	sections = append(sections, "")

	sections = append(sections, v.styles.Border.Render(v.body.View()), "")

	hints := v.styles.Help.Render("←/h prev page | →/l next page | ↑/↓ scroll | esc: back")
	sections = append(sections, hints)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// The border frame costs two columns and two rows.
	bodyWidth := width - 2
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	v.body.Width = bodyWidth
	bodyHeight := height - 8
	if bodyHeight < 4 {
		bodyHeight = 4
	}
	v.body.Height = bodyHeight
}

// CurrentPage returns the page number on display. ok is false when the
// corpus is empty.
func (v *View) CurrentPage() (int, bool) {
	if len(v.pages) == 0 {
		return 0, false
	}
	return v.pages[v.current], true
}

// PageCount returns the number of pages in the corpus.
func (v *View) PageCount() int {
	return len(v.pages)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
