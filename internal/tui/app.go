package tui

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sadopc/plantcare/internal/export"
	"github.com/sadopc/plantcare/internal/registry"
	"github.com/sadopc/plantcare/internal/schedule"
	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/view"
)

// Entries of the export/import menu.
const (
	dataExportJSON = iota
	dataExportCSV
	dataImportJSON
	dataClearAll
)

var dataActions = []string{"Export JSON", "Export CSV", "Import JSON", "Clear all data"}

// Options tune an App. Zero values pick sensible defaults.
type Options struct {
	Now           func() time.Time
	ExportDir     string
	MaxPhotoBytes int64
}

// App is the root Bubble Tea model.
type App struct {
	reg       *registry.Registry
	store     *store.Store
	log       zerolog.Logger
	now       func() time.Time
	exportDir string

	width  int
	height int

	activeView viewState
	showHelp   bool

	// Export/import menu and its follow-up forms
	dataPicking  bool
	dataCursor   int
	dataForm     *huh.Form
	dataAction   int
	importPath   *string
	clearConfirm *bool
	dataPending  bool

	today    todayModel
	plants   plantsModel
	calendar calendarModel
	settings settingsModel

	day    time.Time
	banner bannerModel
	help   help.Model
}

func NewApp(reg *registry.Registry, s *store.Store, log zerolog.Logger, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		opts.ExportDir = home
	}

	defaultFreq := s.GetIntSetting(store.SettingDefaultFrequency, settingRanges[store.SettingDefaultFrequency].fallback)
	calendarDays := s.GetIntSetting(store.SettingCalendarDays, schedule.DefaultWindowDays)
	noticeSecs := s.GetIntSetting(store.SettingNoticeSeconds, settingRanges[store.SettingNoticeSeconds].fallback)

	path := filepath.Join(opts.ExportDir, export.DefaultFilename)
	confirm := false

	return App{
		reg:          reg,
		store:        s,
		log:          log.With().Str("component", "tui").Logger(),
		now:          opts.Now,
		exportDir:    opts.ExportDir,
		activeView:   viewToday,
		importPath:   &path,
		clearConfirm: &confirm,
		today:        newTodayModel(),
		plants:       newPlantsModel(reg, defaultFreq, opts.MaxPhotoBytes),
		calendar:     newCalendarModel(calendarDays),
		settings:     newSettingsModel(s),
		banner:       newBannerModel(time.Duration(noticeSecs) * time.Second),
		help:         h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadPlants(),
		a.settings.refresh(),
		tickCmd(),
	)
}

// tickCmd wakes the app once a minute so the views roll over at midnight.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) loadPlants() tea.Cmd {
	reg := a.reg
	now := a.now
	return func() tea.Msg {
		return plantsDataMsg{plants: reg.Plants(), today: now()}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 5 // header + banner + footer
		a.today.setSize(a.width, contentHeight)
		a.plants.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.dataForm != nil {
			return a.updateDataForm(msg)
		}
		if a.dataPicking {
			return a.updateDataPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Data):
			if a.dataPending {
				return a, a.banner.show(view.Info("Still working on the previous request…"))
			}
			a.dataPicking = true
			a.dataCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewPlants
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewCalendar
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewSettings {
				return a, a.settings.refresh()
			}
			return a, nil
		case key.Matches(msg, keys.New):
			// Adding a plant works from any view.
			if a.activeView != viewSettings {
				a.activeView = viewPlants
			}
		}

	case tickMsg:
		if !schedule.Day(a.now()).Equal(a.day) {
			return a, tea.Batch(tickCmd(), a.loadPlants())
		}
		return a, tickCmd()

	case plantsDataMsg:
		a.day = schedule.Day(msg.today)
		a.today.setData(msg.plants, msg.today)
		a.plants.setData(msg.plants, msg.today)
		a.calendar.setData(msg.plants, msg.today)
		return a, nil

	case settingsDataMsg:
		a.applySettings(msg.settings)
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case plantAddedMsg:
		var cmd tea.Cmd
		a.plants, cmd = a.plants.update(msg)
		var notice view.Notice
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("add plant failed")
			notice = errorNotice(msg.err)
		} else {
			notice = view.Added(msg.plant.Name)
		}
		return a, tea.Batch(cmd, a.banner.show(notice), a.loadPlants())

	case plantDeletedMsg:
		var cmd tea.Cmd
		a.plants, cmd = a.plants.update(msg)
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("remove plant failed")
			return a, tea.Batch(cmd, a.banner.show(errorNotice(msg.err)), a.loadPlants())
		}
		if !msg.removed {
			return a, tea.Batch(cmd, a.loadPlants())
		}
		return a, tea.Batch(cmd, a.banner.show(view.Removed(msg.plant.Name)), a.loadPlants())

	case dataDoneMsg:
		a.dataPending = false
		cmds := []tea.Cmd{a.banner.show(msg.notice)}
		if msg.changed {
			cmds = append(cmds, a.loadPlants())
		}
		return a, tea.Batch(cmds...)

	case noticeMsg:
		return a, a.banner.show(msg.notice)

	case bannerExpiredMsg:
		a.banner.expire(msg.seq)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) applySettings(settings []store.Setting) {
	a.calendar.setDays(intValue(settings, store.SettingCalendarDays))
	a.banner.setDuration(time.Duration(intValue(settings, store.SettingNoticeSeconds)) * time.Second)
	a.plants.defaultFrequency = intValue(settings, store.SettingDefaultFrequency)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewPlants:
		a.plants, cmd = a.plants.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewPlants:
		return a.plants.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	banner := a.banner.view()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewPlants:
		content = a.plants.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header) + 1
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	switch {
	case a.dataForm != nil:
		content = a.renderDataForm()
	case a.dataPicking:
		content = a.renderDataPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	bannerLine := lipgloss.NewStyle().Width(a.width).Padding(0, 1).Render(banner)

	return lipgloss.JoinVertical(lipgloss.Left, header, bannerLine, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := brandStyle.Render("🌱 plantcare")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	count := len(a.plants.plants)
	label := strconv.Itoa(count) + " plants"
	if count == 1 {
		label = "1 plant"
	}
	right := mutedStyle.Render(" " + label)
	if a.dataPending {
		right = warningStyle.Render(" working…") + right
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderDataPicker() string {
	title := titleStyle.Render("Your Data")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range dataActions {
		cursor := "  "
		style := normalItemStyle
		if i == a.dataCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		if i == dataClearAll && i != a.dataCursor {
			style = errorStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  files go to "+a.exportDir))
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) renderDataForm() string {
	title := titleStyle.Render(dataActions[a.dataAction])
	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", a.dataForm.View()))
}

func (a App) updateDataPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.dataCursor > 0 {
			a.dataCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.dataCursor < len(dataActions)-1 {
			a.dataCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.dataPicking = false
		a.dataAction = a.dataCursor
		switch a.dataAction {
		case dataExportJSON, dataExportCSV:
			a.dataPending = true
			return a, a.doExport(a.dataAction)
		case dataImportJSON:
			return a.showImportForm()
		case dataClearAll:
			return a.showClearConfirm()
		}
	case key.Matches(msg, keys.Back):
		a.dataPicking = false
	}
	return a, nil
}

func (a App) showImportForm() (tea.Model, tea.Cmd) {
	a.dataForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Import file").
				Description("Replaces your whole collection").
				Value(a.importPath),
		),
	).WithShowHelp(true)
	return a, a.dataForm.Init()
}

func (a App) showClearConfirm() (tea.Model, tea.Cmd) {
	*a.clearConfirm = false
	a.dataForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Are you sure you want to clear all plant data? This cannot be undone.").
				Affirmative("Clear all").
				Negative("Cancel").
				Value(a.clearConfirm),
		),
	).WithShowHelp(true)
	return a, a.dataForm.Init()
}

func (a App) updateDataForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		a.dataForm = nil
		return a, nil
	}

	form, cmd := a.dataForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.dataForm = f
	}

	switch a.dataForm.State {
	case huh.StateCompleted:
		a.dataForm = nil
		switch a.dataAction {
		case dataImportJSON:
			a.dataPending = true
			return a, a.doImport(*a.importPath)
		case dataClearAll:
			if *a.clearConfirm {
				a.dataPending = true
				return a, a.doClear()
			}
		}
		return a, nil
	case huh.StateAborted:
		a.dataForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) doExport(format int) tea.Cmd {
	reg := a.reg
	dir := a.exportDir
	now := a.now
	log := a.log
	return func() tea.Msg {
		plants := reg.Plants()

		var path string
		if format == dataExportCSV {
			path = filepath.Join(dir, "plant-care-data.csv")
			if err := export.ToCSV(plants, now(), path); err != nil {
				log.Error().Err(err).Str("path", path).Msg("csv export failed")
				return dataDoneMsg{notice: view.Failure("CSV error: " + err.Error())}
			}
		} else {
			path = filepath.Join(dir, export.DefaultFilename)
			if err := export.ToJSON(plants, path); err != nil {
				log.Error().Err(err).Str("path", path).Msg("json export failed")
				return dataDoneMsg{notice: view.Failure("JSON error: " + err.Error())}
			}
		}

		log.Info().Str("path", path).Int("plants", len(plants)).Msg("exported")
		return dataDoneMsg{notice: view.Exported(path)}
	}
}

func (a App) doImport(path string) tea.Cmd {
	reg := a.reg
	log := a.log
	return func() tea.Msg {
		data, err := export.ReadFile(path)
		if err != nil {
			return dataDoneMsg{notice: view.Failure(err.Error())}
		}
		if err := reg.Import(data); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("import rejected")
			return dataDoneMsg{notice: errorNotice(err), changed: registry.IsStorageWrite(err)}
		}
		return dataDoneMsg{notice: view.Imported(reg.Len()), changed: true}
	}
}

func (a App) doClear() tea.Cmd {
	reg := a.reg
	return func() tea.Msg {
		if err := reg.Clear(); err != nil {
			return dataDoneMsg{notice: errorNotice(err)}
		}
		return dataDoneMsg{notice: view.Cleared(), changed: true}
	}
}
