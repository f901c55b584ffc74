// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jlaurila/stayscout/internal/hotels"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
	loadMoreCount     = 4
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// Browser supplies the result data behind the interactive view. Snapshot is
// re-invoked on every re-sort so the view always reflects live enrichment;
// LoadMore may be nil when no more candidates exist.
type Browser struct {
	Title    string
	Snapshot func(opts hotels.SnapshotOptions) []hotels.Record
	LoadMore func(n int) error
}

type hotelItem struct {
	hotels.Record
}

func (i hotelItem) Title() string       { return i.Offer.Name }
func (i hotelItem) FilterValue() string { return i.Offer.Name }

func (i hotelItem) Description() string {
	if i.Offer.PriceTotal == "" {
		return "no price"
	}
	return i.Offer.PriceTotal + " " + i.Offer.Currency
}

type itemStyles struct {
	normal       lipgloss.Style
	selected     lipgloss.Style
	nameStyle    lipgloss.Style
	priceStyle   lipgloss.Style
	ratingStyle  lipgloss.Style
	addressStyle lipgloss.Style
	roomStyle    lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		nameStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		priceStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		ratingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		addressStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		roomStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
	}
}

type hotelDelegate struct {
	styles itemStyles
}

func newDelegate() hotelDelegate {
	return hotelDelegate{styles: newItemStyles()}
}

func (d hotelDelegate) Height() int                         { return 5 }
func (d hotelDelegate) Spacing() int                        { return 1 }
func (d hotelDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d hotelDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	rec, ok := item.(hotelItem)
	if !ok {
		return
	}

	nameLine := d.styles.nameStyle.Render(strings.ToUpper(rec.Offer.Name))
	priceLine := d.styles.priceStyle.Render(formatPrice(rec.Record))
	ratingLine := d.styles.ratingStyle.Render(formatRating(rec.Record))
	addressLine := d.styles.addressStyle.Render(formatAddress(rec.Record))
	roomLine := d.styles.roomStyle.Render(truncate(rec.Offer.RoomDescription, m.Width()-4))

	content := lipgloss.JoinVertical(lipgloss.Left, nameLine, priceLine, ratingLine, addressLine, roomLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

// loadedMsg reports the outcome of a load-more round trip.
type loadedMsg struct {
	err error
}

type model struct {
	list    list.Model
	browser Browser
	opts    hotels.SnapshotOptions
	status  string
	loading bool
}

func newModel(browser Browser) *model {
	m := &model{
		browser: browser,
		opts:    hotels.SnapshotOptions{Sort: hotels.SortPriceAsc},
	}

	delegate := newDelegate()
	l := list.New(nil, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	m.list = l
	m.refresh()
	return m
}

// refresh re-snapshots the accumulator with the current sort and filter.
func (m *model) refresh() {
	records := m.browser.Snapshot(m.opts)
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = hotelItem{Record: rec}
	}
	m.list.SetItems(items)
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			m.opts.Sort = hotels.SortPriceAsc
			m.refresh()
			return m, nil
		case "r":
			m.opts.Sort = hotels.SortRatingDesc
			m.refresh()
			return m, nil
		case "n":
			m.opts.Sort = hotels.SortNameAsc
			m.refresh()
			return m, nil
		case "N":
			m.opts.Sort = hotels.SortNameDesc
			m.refresh()
			return m, nil
		case "m":
			if m.browser.LoadMore == nil || m.loading {
				return m, nil
			}
			m.loading = true
			m.status = "loading more..."
			return m, func() tea.Msg {
				return loadedMsg{err: m.browser.LoadMore(loadMoreCount)}
			}
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "load failed: " + msg.err.Error()
		} else {
			m.status = ""
		}
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(m.browser.Title)
	listView := m.list.View()
	status := statusStyle.Render(m.status)
	help := helpStyle.Render("Up/Down navigate | p price | r rating | n/N name | m load more | q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, status, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("178"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Browse runs the interactive result viewer until the user quits.
func Browse(browser Browser) error {
	if browser.Snapshot == nil {
		return fmt.Errorf("browser needs a snapshot source")
	}
	_, err := runProgram(newModel(browser))
	return err
}

func formatPrice(rec hotels.Record) string {
	if rec.Offer.PriceTotal == "" {
		return "price unavailable"
	}
	return fmt.Sprintf("%s %s", rec.Offer.PriceTotal, rec.Offer.Currency)
}

func formatRating(rec hotels.Record) string {
	if rec.Enrichment.Rating == nil {
		return "unrated"
	}
	return fmt.Sprintf("%.1f/5", *rec.Enrichment.Rating)
}

func formatAddress(rec hotels.Record) string {
	if rec.Enrichment.StreetAddress == nil {
		return ""
	}
	return *rec.Enrichment.StreetAddress
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
