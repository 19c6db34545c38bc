package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beocaca/pomo.do/internal/api"
	"github.com/beocaca/pomo.do/internal/chore"
	"github.com/beocaca/pomo.do/internal/storage"
	"github.com/beocaca/pomo.do/internal/timer"
	"github.com/beocaca/pomo.do/internal/tui"
)

func main() {
	dbPath := os.Getenv("POMODO_DB")
	if dbPath == "" {
		var err error
		dbPath, err = storage.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	store, err := storage.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening local storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	baseURL := os.Getenv("POMODO_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000/api"
	}
	token := os.Getenv("POMODO_API_TOKEN")

	var opts []api.Option
	if token != "" {
		opts = append(opts, api.WithToken(token))
	}
	client := api.NewClient(baseURL, opts...)

	sink := tui.NewSink()
	service := chore.NewService(client, store, sink)
	session := timer.NewSession(store, service)

	// Initial fetches; the app keeps working offline on stale state if any
	// of these fail.
	ctx := context.Background()
	service.Refresh(ctx)
	service.FetchStats(ctx)
	if token != "" {
		if user, err := service.LoadProfile(ctx); err == nil {
			session.SetAutoStart(user.AutoStartPomos, user.AutoStartBreaks)
		}
		service.FetchTags(ctx)
		service.FetchModes(ctx)
	}

	app := tui.NewApp(service, session, sink)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
