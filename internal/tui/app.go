package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/browser"
	"go.uber.org/zap"

	"github.com/wallforfry/harbor/internal/cache"
	"github.com/wallforfry/harbor/internal/config"
	"github.com/wallforfry/harbor/internal/locale"
	"github.com/wallforfry/harbor/internal/model"
	"github.com/wallforfry/harbor/internal/ops"
	"github.com/wallforfry/harbor/internal/tui/detailsview"
	"github.com/wallforfry/harbor/internal/tui/drawer"
	"github.com/wallforfry/harbor/internal/tui/imagesview"
	"github.com/wallforfry/harbor/internal/tui/pages"
	"github.com/wallforfry/harbor/internal/ui"
)

// Registry is the part of the registry client the app needs.
type Registry interface {
	Catalog(ctx context.Context) (model.Catalog, error)
	Tags(ctx context.Context, name string) (model.Repository, error)
	Image(ctx context.Context, name, tag string) (model.Image, error)
	Host() string
}

// View identifies the screen shown in the content pane.
type View int

const (
	ViewImages View = iota
	ViewDetails
	ViewAbout
	ViewSettings
	ViewCredits
	ViewError
)

// App is the root bubbletea model. It owns the drawer and every screen and
// routes messages between them.
type App struct {
	cfg      config.Config
	lang     locale.Language
	client   Registry
	imgCache *cache.ImageCache
	log      *zap.Logger
	version  string
	openURL  func(string) error

	// Views
	drawer      drawer.Model
	imagesView  imagesview.Model
	detailsView detailsview.Model
	errPage     pages.ErrorPage

	// State
	currentView View
	width       int
	height      int
	status      string
	cacheSize   int64
	cacheCount  int
	showHelp    bool
}

// NewApp builds the app. imgCache and log may be nil.
func NewApp(cfg config.Config, lang locale.Language, client Registry, imgCache *cache.ImageCache, log *zap.Logger) App {
	if log == nil {
		log = zap.NewNop()
	}
	b := browser.New("", io.Discard, io.Discard)
	return App{
		cfg:         cfg,
		lang:        lang,
		client:      client,
		imgCache:    imgCache,
		log:         log,
		openURL:     b.Browse,
		drawer:      drawer.New(lang),
		imagesView:  imagesview.New(lang),
		detailsView: detailsview.New(lang),
		currentView: ViewImages,
		status:      lang.Loading,
	}
}

// SetVersion sets the version shown on the About page.
func (a *App) SetVersion(v string) { a.version = v }

func (a App) Init() tea.Cmd {
	return tea.Batch(ready, a.fetchCatalog())
}

func ready() tea.Msg { return ui.ReadyMsg{} }

// drawers returns every navigation drawer the app owns.
func (a *App) drawers() []*drawer.Model {
	return []*drawer.Model{&a.drawer}
}

// --- Data fetching commands ---

func (a App) fetchCatalog() tea.Cmd {
	client, limit, log := a.client, a.cfg.Concurrency, a.log
	return func() tea.Msg {
		ctx := context.Background()
		cat, err := client.Catalog(ctx)
		if err != nil {
			return ui.CatalogLoadedMsg{Err: err}
		}
		repos, err := ops.LoadRepositories(ctx, client, cat.Repositories, limit)
		if err != nil && repos == nil {
			return ui.CatalogLoadedMsg{Err: err}
		}
		if err != nil {
			log.Warn("some repositories could not be listed", zap.Error(err))
		}
		return ui.CatalogLoadedMsg{Repositories: repos, Partial: err}
	}
}

// fetchImage loads the details of name:tag, from the disk cache first
// unless useCache is false.
func (a App) fetchImage(name, tag string, useCache bool) tea.Cmd {
	client, imgCache, log := a.client, a.imgCache, a.log
	host := client.Host()
	return func() tea.Msg {
		if useCache && imgCache != nil {
			if img, ok := imgCache.Get(host, name, tag); ok {
				return ui.ImageLoadedMsg{Name: name, Tag: tag, Image: img, Cached: true}
			}
		}
		img, err := client.Image(context.Background(), name, tag)
		if err != nil {
			return ui.ImageLoadedMsg{Name: name, Tag: tag, Err: err}
		}
		if imgCache != nil {
			if err := imgCache.Put(img); err != nil {
				log.Warn("cache image", zap.String("image", name+":"+tag), zap.Error(err))
			}
		}
		return ui.ImageLoadedMsg{Name: name, Tag: tag, Image: &img}
	}
}

func (a App) openHomepage() tea.Cmd {
	open := a.openURL
	return func() tea.Msg {
		return ui.ActionResultMsg{Action: "open homepage", Err: open(pages.Homepage)}
	}
}

func (a App) clearCache() tea.Cmd {
	imgCache := a.imgCache
	return func() tea.Msg {
		if imgCache == nil {
			return ui.ActionResultMsg{Action: "clear cache"}
		}
		return ui.ActionResultMsg{Action: "clear cache", Err: imgCache.DeleteAll()}
	}
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.ReadyMsg:
		for _, d := range a.drawers() {
			d.Activate()
		}
		return &a, nil

	case drawer.NavigateMsg:
		a.navigate(msg.Page)
		return &a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil

	case ui.CatalogLoadedMsg:
		if msg.Err != nil {
			a.log.Error("load catalog", zap.Error(msg.Err))
			a.showError(msg.Err)
			return &a, nil
		}
		a.imagesView, _ = a.imagesView.Update(msg)
		visible, total := a.imagesView.Counts()
		a.status = fmt.Sprintf("%d / %d %s", visible, total, a.lang.Images)
		if msg.Partial != nil {
			a.status += " " + ui.StyleWarning.Render("(partial)")
		}
		return &a, nil

	case ui.OpenImageMsg:
		a.currentView = ViewDetails
		a.detailsView.SetLoading(msg.Name, msg.Tag)
		a.status = fmt.Sprintf("%s %s:%s", a.lang.Loading, msg.Name, msg.Tag)
		return &a, a.fetchImage(msg.Name, msg.Tag, true)

	case ui.ImageLoadedMsg:
		name, tag := a.detailsView.Ref()
		if a.currentView != ViewDetails || msg.Name != name || msg.Tag != tag {
			return &a, nil
		}
		if msg.Err != nil {
			a.log.Error("load image", zap.String("image", msg.Name+":"+msg.Tag), zap.Error(msg.Err))
			a.showError(msg.Err)
			return &a, nil
		}
		a.detailsView, _ = a.detailsView.Update(msg)
		a.status = fmt.Sprintf("%s:%s", msg.Name, msg.Tag)
		if msg.Cached {
			a.status += " (cached)"
		}
		return &a, nil

	case ui.ActionResultMsg:
		if msg.Err != nil {
			a.log.Error(msg.Action, zap.Error(msg.Err))
			a.status = ui.StyleFailure.Render(fmt.Sprintf("%s: %v", msg.Action, msg.Err))
		} else {
			a.status = ui.StyleSuccess.Render(msg.Action + ": done")
		}
		if msg.Action == "clear cache" {
			a.refreshCacheSize()
		}
		return &a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewImages:
		a.imagesView, cmd = a.imagesView.Update(msg)
	case ViewDetails:
		a.detailsView, cmd = a.detailsView.Update(msg)
	}
	return &a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay dismisses on any key
	if a.showHelp {
		a.showHelp = false
		return &a, nil
	}

	var cmd tea.Cmd
	if a.drawer.IsOpen() {
		a.drawer, cmd = a.drawer.Update(msg)
		a.propagateSize()
		return &a, cmd
	}

	// Typed characters belong to the search input while it has focus.
	if a.currentView == ViewImages && a.imagesView.IsSearching() {
		a.imagesView, cmd = a.imagesView.Update(msg)
		a.updateImagesStatus()
		return &a, cmd
	}

	switch {
	case key.Matches(msg, ui.Keys.Quit):
		return &a, tea.Quit

	case key.Matches(msg, ui.Keys.Help):
		a.showHelp = true
		return &a, nil

	case key.Matches(msg, ui.Keys.Menu):
		a.drawer, cmd = a.drawer.Update(msg)
		a.propagateSize()
		return &a, cmd

	case key.Matches(msg, ui.Keys.Back) && a.currentView != ViewImages:
		a.currentView = ViewImages
		a.updateImagesStatus()
		return &a, nil

	case key.Matches(msg, ui.Keys.Refresh):
		switch a.currentView {
		case ViewImages, ViewError:
			a.currentView = ViewImages
			a.status = a.lang.Loading
			return &a, a.fetchCatalog()
		case ViewDetails:
			name, tag := a.detailsView.Ref()
			a.detailsView.SetLoading(name, tag)
			return &a, a.fetchImage(name, tag, false)
		case ViewSettings:
			a.refreshCacheSize()
			return &a, nil
		}

	case key.Matches(msg, ui.Keys.Open) && a.currentView == ViewAbout:
		return &a, a.openHomepage()

	case key.Matches(msg, ui.Keys.ClearCache) && a.currentView == ViewSettings:
		return &a, a.clearCache()
	}

	switch a.currentView {
	case ViewImages:
		a.imagesView, cmd = a.imagesView.Update(msg)
	case ViewDetails:
		a.detailsView, cmd = a.detailsView.Update(msg)
	}
	return &a, cmd
}

func (a *App) navigate(page drawer.Page) {
	switch page {
	case drawer.PageImages:
		a.currentView = ViewImages
		a.updateImagesStatus()
	case drawer.PageAbout:
		a.currentView = ViewAbout
		a.status = a.lang.About
	case drawer.PageSettings:
		a.currentView = ViewSettings
		a.status = a.lang.Settings
		a.refreshCacheSize()
	case drawer.PageCredits:
		a.currentView = ViewCredits
		a.status = a.lang.Credits
	}
	a.propagateSize()
}

func (a *App) showError(err error) {
	a.errPage = pages.FromError(a.lang, err)
	a.currentView = ViewError
	a.status = ui.StyleFailure.Render(a.lang.ErrorString)
}

func (a *App) updateImagesStatus() {
	visible, total := a.imagesView.Counts()
	a.status = fmt.Sprintf("%d / %d %s", visible, total, a.lang.Images)
}

func (a *App) refreshCacheSize() {
	a.cacheSize, a.cacheCount = 0, 0
	if a.imgCache == nil {
		return
	}
	size, err := a.imgCache.TotalSize()
	if err != nil {
		a.log.Warn("cache size", zap.Error(err))
	}
	entries, err := a.imgCache.ListEntries()
	if err != nil {
		a.log.Warn("list cache entries", zap.Error(err))
	}
	a.cacheSize = size
	a.cacheCount = len(entries)
}

func (a App) contentWidth() int {
	w := a.width - 4
	if a.drawer.IsOpen() {
		w -= drawer.Width
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (a App) contentHeight() int {
	// header(1) + status(1) + pane border(2)
	h := a.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) propagateSize() {
	w, h := a.contentWidth(), a.contentHeight()
	a.drawer, _ = a.drawer.Update(tea.WindowSizeMsg{Width: drawer.Width, Height: h})
	a.imagesView, _ = a.imagesView.Update(tea.WindowSizeMsg{Width: w, Height: h})
	a.detailsView, _ = a.detailsView.Update(tea.WindowSizeMsg{Width: w, Height: h})
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.cfg.Title(), a.lang.AppSubTitle, a.client.Host(), a.width)

	var body string
	switch a.currentView {
	case ViewImages:
		body = a.imagesView.View()
	case ViewDetails:
		body = a.detailsView.View()
	case ViewAbout:
		body = pages.About(a.lang, a.cfg.Title(), a.version)
	case ViewSettings:
		body = pages.Settings(a.lang, a.cfg, a.cacheSize, a.cacheCount)
	case ViewCredits:
		body = pages.Credits(a.lang)
	case ViewError:
		body = a.errPage.Render(a.lang)
	}
	if a.showHelp {
		body = a.renderHelp()
	}

	style := ui.StylePaneFocused.Width(a.contentWidth() + 2).Height(a.contentHeight())
	if a.drawer.IsOpen() {
		style = ui.StylePane.Width(a.contentWidth() + 2).Height(a.contentHeight())
	}
	content := style.Render(body)
	if a.drawer.IsOpen() {
		content = lipgloss.JoinHorizontal(lipgloss.Top, a.drawer.View(), content)
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.width)

	// header(1) + statusbar(1) = 2 lines of chrome.
	maxContentLines := a.height - 2
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + content + "\n" + statusBar
}

func (a App) contextHints() string {
	k := ui.Keys
	if a.drawer.IsOpen() {
		return RenderHints(k.Down, k.Up, k.Enter, k.Back)
	}
	switch a.currentView {
	case ViewImages:
		if a.imagesView.IsSearching() {
			return RenderHints(k.Done)
		}
		return RenderHints(append(a.imagesView.ShortHelp(), k.Help, k.Quit)...)
	case ViewDetails:
		return RenderHints(append(a.detailsView.ShortHelp(), k.Menu, k.Quit)...)
	case ViewAbout:
		return RenderHints(k.Open, k.Back, k.Menu, k.Quit)
	case ViewSettings:
		return RenderHints(k.ClearCache, k.Refresh, k.Back, k.Menu, k.Quit)
	default:
		return RenderHints(k.Back, k.Menu, k.Quit)
	}
}

func (a App) renderHelp() string {
	bold := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	l := a.lang

	row := func(k, d string) string {
		return "  " + keyStyle.Render(k) + desc.Render(d) + "\n"
	}
	section := func(title string) string {
		return "\n" + bold.Render("  "+title) + "\n\n"
	}

	var b strings.Builder
	b.WriteString(section(l.HelpNavigation))
	b.WriteString(row("m", l.HelpMenu))
	b.WriteString(row("j / k", l.HelpMove))
	b.WriteString(row("enter", l.HelpSelect))
	b.WriteString(row("esc", l.HelpBack))
	b.WriteString(row("q", l.HelpQuit))

	b.WriteString(section(l.Images))
	b.WriteString(row("/", l.Search))
	b.WriteString(row("enter", l.HelpShowDetails))
	b.WriteString(row("r", l.HelpReloadCatalog))

	b.WriteString(section(l.HelpDetails))
	b.WriteString(row("r", l.HelpReloadImage))
	b.WriteString(row("PgUp/PgDn", l.HelpPage))

	b.WriteString(section(l.Settings))
	b.WriteString(row("x", l.HelpClearCache))

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  "+l.HelpClose) + "\n")
	return b.String()
}
