package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plexcars/catalog/internal/domain"
	"github.com/plexcars/catalog/internal/module/catalog"
	"github.com/plexcars/catalog/internal/pkg"
)

// recordingService is a canned domain.CatalogService that records every
// query it receives.
type recordingService struct {
	queries chan domain.ListQuery
	items   []domain.Car
	total   int64
}

func (s *recordingService) ListCars(_ context.Context, q domain.ListQuery, order domain.SortOrder) (*domain.CarPage, error) {
	select {
	case s.queries <- q:
	default:
	}
	return pkg.NewCarPage(s.items, s.total, q.Normalize(12), order), nil
}

func (s *recordingService) PerPage() int { return 12 }

func newTestModel(svc domain.CatalogService) Model {
	ctrl := catalog.NewListController(svc, catalog.WithDebounce(10*time.Millisecond))
	return New(ctrl, 12)
}

func waitForQuery(t *testing.T, ch chan domain.ListQuery) domain.ListQuery {
	t.Helper()
	select {
	case q := <-ch:
		return q
	case <-time.After(2 * time.Second):
		t.Fatal("no fetch observed in time")
		return domain.ListQuery{}
	}
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes}
	}
}

func TestModel_StateMsgUpdatesView(t *testing.T) {
	m := newTestModel(&recordingService{queries: make(chan domain.ListQuery, 8)})

	next, _ := m.Update(StateMsg(catalog.ListState{
		Items: []domain.Car{{MarkID: "BMW", FolderID: "X5", Price: 2000000, Year: 2020}},
		Total: 1,
		Page:  1,
	}))
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "BMW X5") {
		t.Errorf("view missing car title:\n%s", view)
	}
	if !strings.Contains(view, "2 000 000 ₽") {
		t.Errorf("view missing formatted price:\n%s", view)
	}
}

func TestModel_EmptyStateMessage(t *testing.T) {
	m := newTestModel(&recordingService{queries: make(chan domain.ListQuery, 8)})

	next, _ := m.Update(StateMsg(catalog.ListState{Page: 1}))
	m = next.(Model)

	if !strings.Contains(m.View(), "Ничего не найдено") {
		t.Errorf("view missing empty state:\n%s", m.View())
	}
}

func TestModel_ErrorState(t *testing.T) {
	m := newTestModel(&recordingService{queries: make(chan domain.ListQuery, 8)})

	next, _ := m.Update(StateMsg(catalog.ListState{Page: 1, Err: "boom"}))
	m = next.(Model)

	if !strings.Contains(m.View(), "boom") {
		t.Errorf("view missing error text:\n%s", m.View())
	}
}

func TestModel_SearchKeysForwardToController(t *testing.T) {
	svc := &recordingService{queries: make(chan domain.ListQuery, 8)}
	m := newTestModel(svc)

	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	if !m.searchActive {
		t.Fatal("expected search mode after /")
	}

	next, _ = m.Update(keyMsg("b"))
	m = next.(Model)

	// The edit is echoed immediately, the fetch follows the debounce.
	if got := m.ctrl.Snapshot().Search; got != "b" {
		t.Fatalf("controller search = %q; want %q", got, "b")
	}
	q := waitForQuery(t, svc.queries)
	if q.Search != "b" || q.Page != 1 {
		t.Errorf("fetch = %+v; want search b on page 1", q)
	}
}

func TestModel_EscClearsSearch(t *testing.T) {
	svc := &recordingService{queries: make(chan domain.ListQuery, 8)}
	m := newTestModel(svc)

	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("b"))
	m = next.(Model)
	waitForQuery(t, svc.queries)

	next, _ = m.Update(keyMsg("esc"))
	m = next.(Model)
	if m.searchActive {
		t.Error("expected search mode to end on esc")
	}

	q := waitForQuery(t, svc.queries)
	if q.Search != "" || q.Page != 1 {
		t.Errorf("fetch after clear = %+v; want empty search on page 1", q)
	}
}

func TestModel_PageNavigation(t *testing.T) {
	svc := &recordingService{queries: make(chan domain.ListQuery, 8), total: 30}
	m := newTestModel(svc)

	// Two pages of 12 plus a remainder: three pages total.
	next, _ := m.Update(StateMsg(catalog.ListState{Page: 1, Total: 30}))
	m = next.(Model)

	next, _ = m.Update(keyMsg("right"))
	m = next.(Model)
	q := waitForQuery(t, svc.queries)
	if q.Page != 2 {
		t.Errorf("fetch page = %d; want 2", q.Page)
	}

	// Already on page 1 per model state until a StateMsg arrives, but
	// the controller tracks its own page. Jumping left from page 1 is a
	// no-op.
	next, _ = m.Update(StateMsg(catalog.ListState{Page: 1, Total: 30}))
	m = next.(Model)
	next, _ = m.Update(keyMsg("left"))
	m = next.(Model)
	select {
	case q := <-svc.queries:
		t.Errorf("unexpected fetch %+v after left on first page", q)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestModel_QuitClosesController(t *testing.T) {
	svc := &recordingService{queries: make(chan domain.ListQuery, 8)}
	m := newTestModel(svc)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("expected tea.Quit message")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{45000, "45 000"},
		{2000000, "2 000 000"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
