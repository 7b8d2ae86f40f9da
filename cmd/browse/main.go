// Command browse is a terminal client for the car catalog. It talks to
// the listings gateway directly (or to a running catalog server's /api
// proxy) and reuses the web frontend's list controller, so search
// debouncing and page navigation behave exactly like the browser UI.
package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plexcars/catalog/internal/gateway"
	"github.com/plexcars/catalog/internal/module/catalog"
	"github.com/plexcars/catalog/internal/tui"
)

func main() {
	baseURL := flag.String("gateway", "https://plex-parser.ru-rating.ru", "listings gateway base URL (use http://127.0.0.1:8080/api to go through a local server)")
	timeout := flag.Duration("timeout", 10*time.Second, "gateway request timeout")
	perPage := flag.Int("per-page", catalog.DefaultPerPage, "items per page")
	debounce := flag.Duration("debounce", catalog.DefaultSearchDebounce, "search debounce interval")
	flag.Parse()

	gw := gateway.NewClient(*baseURL, gateway.WithTimeout(*timeout))
	svc := catalog.NewService(gw, *perPage)

	// The controller notifies from its own goroutines; forward each
	// snapshot into the program's event loop. p is assigned before
	// Run(), and the first fetch is triggered by the model's Init, so
	// no notification can arrive earlier.
	var p *tea.Program
	ctrl := catalog.NewListController(svc,
		catalog.WithDebounce(*debounce),
		catalog.WithOnChange(func(s catalog.ListState) {
			if p != nil {
				p.Send(tui.StateMsg(s))
			}
		}),
	)
	defer ctrl.Close()

	p = tea.NewProgram(tui.New(ctrl, *perPage), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal("browse error: ", err)
	}
}
