package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pwnflow/pwnflow-tui/internal/api"
	"github.com/pwnflow/pwnflow-tui/internal/config"
	"github.com/pwnflow/pwnflow-tui/internal/editing"
	"github.com/pwnflow/pwnflow-tui/internal/errors"
	"github.com/pwnflow/pwnflow-tui/internal/event"
	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// App assembles the application: REST client, editing core, event bus,
// notification watcher, and the Bubble Tea program. It owns the watcher
// goroutine's lifecycle.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	client      *api.Client
	bus         *event.Bus
	relay       *ContentRelay
	store       *editing.Store
	coordinator *editing.Coordinator
	reconciler  *editing.Reconciler
	tracker     *editing.FocusTracker
	projectID   string

	mu            sync.Mutex
	program       *tea.Program
	watcherCancel context.CancelFunc
}

// NewApp wires the application together from configuration.
func NewApp(cfg *config.Config, logger *logging.Logger) (*App, error) {
	projectID := cfg.API.Project
	if projectID == "" {
		return nil, errors.NewValidationError("no project configured").
			WithField("api.project")
	}

	app := &App{
		cfg:       cfg,
		logger:    logger,
		projectID: projectID,
	}

	app.client = api.NewClient(cfg.API, logger)
	app.bus = event.NewBus()
	app.relay = NewContentRelay()
	app.store = editing.NewStore(app.relay, logger)
	app.coordinator = editing.NewCoordinator(app.store, api.NewFieldGateway(app.client, projectID), logger)
	app.reconciler = editing.NewReconciler(app.store, app.relay, logger)

	var onBlur editing.BlurFunc
	if cfg.Editing.CommitOnBlur {
		onBlur = func(key editing.Key) {
			app.send(commitRequestMsg{key: key})
		}
	}
	app.tracker = editing.NewFocusTracker(onBlur, logger)

	app.subscribe()
	return app, nil
}

// Login authenticates against the backend and installs the token on the
// client.
func (a *App) Login(ctx context.Context, username, password string) error {
	return a.client.Login(ctx, username, password)
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	model := NewModel(ModelDeps{
		Config:      a.cfg,
		Logger:      a.logger,
		Client:      a.client,
		Store:       a.store,
		Coordinator: a.coordinator,
		Tracker:     a.tracker,
		Reconnect:   a.reconnectCmd,
		ProjectID:   a.projectID,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.mu.Lock()
	a.program = p
	a.mu.Unlock()

	a.relay.Bind(p.Send)
	a.startWatcher()

	_, err := p.Run()
	a.stopWatcher()
	return err
}

// send delivers a message to the running program, dropping it when the
// program is not up yet.
func (a *App) send(msg tea.Msg) {
	a.mu.Lock()
	p := a.program
	a.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// subscribe routes bus events. Field-level changes go through the
// reconciler on the publishing goroutine; everything else is forwarded
// into the update loop.
func (a *App) subscribe() {
	a.bus.Subscribe(event.TypeNodeFieldChanged, func(e event.Event) {
		change, ok := e.(event.NodeFieldChangedEvent)
		if !ok {
			return
		}
		a.reconciler.Apply(editing.NewKey(change.NodeID, change.Field), change.Value)
	})

	a.bus.Subscribe(event.TypeNodesChanged, func(e event.Event) {
		a.send(nodesChangedMsg{})
	})

	a.bus.Subscribe(event.TypeWatcherClosed, func(e event.Event) {
		closed, ok := e.(event.WatcherClosedEvent)
		if !ok {
			return
		}
		a.send(watcherClosedMsg{err: closed.Err})
	})
}

// startWatcher launches a fresh notification watcher goroutine.
func (a *App) startWatcher() {
	watcher, err := api.NewWatcher(a.client, a.projectID, a.bus, a.logger)
	if err != nil {
		a.logger.Warn("notification watcher unavailable", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.watcherCancel = cancel
	a.mu.Unlock()

	go watcher.Run(ctx)
}

// stopWatcher cancels the running watcher, if any.
func (a *App) stopWatcher() {
	a.mu.Lock()
	cancel := a.watcherCancel
	a.watcherCancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// reconnectCmd tears down the current watcher and starts a new one.
// There is deliberately no automatic retry loop behind this.
func (a *App) reconnectCmd() tea.Cmd {
	return func() tea.Msg {
		a.stopWatcher()
		a.startWatcher()
		return nil
	}
}
