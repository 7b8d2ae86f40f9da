// Package tui is a terminal browser for the car catalog. It drives the
// same list controller as the web frontend, so search debouncing, page
// navigation and sorting behave identically in both clients.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plexcars/catalog/internal/domain"
	"github.com/plexcars/catalog/internal/module/catalog"
)

// StateMsg carries a list state snapshot from the controller into the
// Bubble Tea event loop. The controller's OnChange callback runs on its
// own goroutines; forwarding snapshots as messages keeps the model
// single-threaded.
type StateMsg catalog.ListState

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("25")).Padding(0, 1)
	carStyle    = lipgloss.NewStyle().Bold(true)
	priceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// Model is the root Bubble Tea model for the catalog browser.
type Model struct {
	ctrl    *catalog.ListController
	perPage int

	state catalog.ListState

	search       textinput.Model
	searchActive bool
	spin         spinner.Model

	width  int
	height int
}

// New creates a Model around the given controller. perPage is the fixed
// catalog page size and is only used to derive the page count shown in
// the footer.
func New(ctrl *catalog.ListController, perPage int) Model {
	ti := textinput.New()
	ti.Placeholder = "Поиск..."
	ti.CharLimit = 100
	ti.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if perPage < 1 {
		perPage = catalog.DefaultPerPage
	}

	return Model{
		ctrl:    ctrl,
		perPage: perPage,
		search:  ti,
		spin:    s,
		state:   ctrl.Snapshot(),
	}
}

// Init kicks off the first fetch and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			m.ctrl.Refresh()
			return nil
		},
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StateMsg:
		m.state = catalog.ListState(msg)
		// Keep the input in sync when the controller changes the search
		// text itself (clearing).
		if !m.searchActive && m.search.Value() != m.state.Search {
			m.search.SetValue(m.state.Search)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searchActive {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

// updateSearch handles keys while the search input has focus. Every
// edit is forwarded to the controller, which debounces the fetch.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchActive = false
		m.search.Blur()
		m.ctrl.SubmitSearch()
		return m, nil
	case "esc":
		m.searchActive = false
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.ClearSearch()
		return m, nil
	case "ctrl+c":
		return m.quit()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearch(m.search.Value())
	return m, cmd
}

// updateBrowse handles keys in browse mode.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "/":
		m.searchActive = true
		m.search.Focus()
		return m, textinput.Blink
	case "left", "h":
		if m.state.Page > 1 {
			m.ctrl.SelectPage(m.state.Page - 2)
		}
		return m, nil
	case "right", "l":
		if m.state.Page < m.state.PageCount(m.perPage) {
			m.ctrl.SelectPage(m.state.Page)
		}
		return m, nil
	case "a":
		m.ctrl.Sort(domain.SortPriceAsc)
		return m, nil
	case "d":
		m.ctrl.Sort(domain.SortPriceDesc)
		return m, nil
	case "n":
		m.ctrl.Sort(domain.SortNone)
		return m, nil
	case "r":
		m.ctrl.Refresh()
		return m, nil
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Close()
	return m, tea.Quit
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Каталог автомобилей"))
	b.WriteString("\n\n")

	if m.searchActive {
		b.WriteString(m.search.View())
	} else if m.state.Search != "" {
		b.WriteString(fmt.Sprintf("Поиск: %s", activeStyle.Render(m.state.Search)))
	} else {
		b.WriteString(helpStyle.Render("/ поиск"))
	}
	b.WriteString("\n\n")

	switch {
	case m.state.Loading:
		b.WriteString(m.spin.View() + " загрузка...")
	case m.state.Err != "":
		b.WriteString(errorStyle.Render("Ошибка: " + m.state.Err))
	case len(m.state.Items) == 0:
		b.WriteString(emptyStyle.Render("Ничего не найдено. Попробуйте изменить параметры поиска."))
	default:
		for _, car := range m.state.Items {
			b.WriteString(carStyle.Render(car.Title()))
			b.WriteString("  ")
			b.WriteString(priceStyle.Render(formatPrice(car.Price)))
			b.WriteString("\n")
			b.WriteString(detailStyle.Render(carDetails(car)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(m.footer())
	return b.String()
}

func (m Model) footer() string {
	pages := m.state.PageCount(m.perPage)
	var status string
	if pages > 0 {
		status = fmt.Sprintf("стр. %d/%d · %d шт.", m.state.Page, pages, m.state.Total)
	}
	if m.state.Sort != domain.SortNone {
		label := "дешевле"
		if m.state.Sort == domain.SortPriceDesc {
			label = "дороже"
		}
		status += " · сортировка: " + label
	}

	help := "←/→ страницы · a/d/n сортировка · r обновить · q выход"
	if status == "" {
		return helpStyle.Render(help)
	}
	return status + "\n" + helpStyle.Render(help)
}

// carDetails renders the secondary line of a list entry.
func carDetails(car domain.Car) string {
	parts := make([]string, 0, 5)
	if car.ModificationID != "" {
		parts = append(parts, car.ModificationID)
	}
	if car.Run > 0 {
		parts = append(parts, formatNumber(car.Run)+" км")
	}
	if car.Gearbox != "" {
		parts = append(parts, car.Gearbox)
	}
	if car.EngineType != "" {
		parts = append(parts, car.EngineType)
	}
	if car.Year > 0 {
		parts = append(parts, strconv.Itoa(car.Year))
	}
	return "  " + strings.Join(parts, " · ")
}

func formatPrice(v int64) string {
	return formatNumber(v) + " ₽"
}

// formatNumber groups digits in threes with spaces.
func formatNumber(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
