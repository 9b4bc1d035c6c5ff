package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/view"
)

// settingRange bounds an integer setting.
type settingRange struct {
	label    string
	min, max int
	fallback int
}

var settingRanges = map[string]settingRange{
	store.SettingCalendarDays:     {label: "Calendar days", min: 1, max: 366, fallback: 30},
	store.SettingNoticeSeconds:    {label: "Banner seconds", min: 1, max: 60, fallback: 3},
	store.SettingDefaultFrequency: {label: "Default interval (days)", min: 1, max: 365, fallback: 7},
}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	calendarDays     *string
	noticeSeconds    *string
	defaultFrequency *string
}

func newSettingsModel(s *store.Store) settingsModel {
	cd, ns, df := "", "", ""
	return settingsModel{
		store:            s,
		calendarDays:     &cd,
		noticeSeconds:    &ns,
		defaultFrequency: &df,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.calendarDays = s.getVal(store.SettingCalendarDays)
	*s.noticeSeconds = s.getVal(store.SettingNoticeSeconds)
	*s.defaultFrequency = s.getVal(store.SettingDefaultFrequency)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Calendar days").
				Description("How many days the calendar shows, starting today").
				Validate(validateSetting(store.SettingCalendarDays)).
				Value(s.calendarDays),
			huh.NewInput().Title("Default watering interval (days)").
				Validate(validateSetting(store.SettingDefaultFrequency)).
				Value(s.defaultFrequency),
		).Title("Plants"),
		huh.NewGroup(
			huh.NewInput().Title("Banner duration (seconds)").
				Validate(validateSetting(store.SettingNoticeSeconds)).
				Value(s.noticeSeconds),
		).Title("Display"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateSetting(k string) func(string) error {
	r := settingRanges[k]
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		if n < r.min || n > r.max {
			return fmt.Errorf("must be between %d and %d", r.min, r.max)
		}
		return nil
	}
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg {
				return noticeMsg{notice: view.Failure("Could not save settings: " + err.Error())}
			}
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg {
			return noticeMsg{notice: view.Info("Settings saved.")}
		})
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := map[string]string{
		store.SettingCalendarDays:     *s.calendarDays,
		store.SettingNoticeSeconds:    *s.noticeSeconds,
		store.SettingDefaultFrequency: *s.defaultFrequency,
	}
	for k, v := range values {
		if err := validateSetting(k)(v); err != nil {
			return fmt.Errorf("%s: %w", settingRanges[k].label, err)
		}
		if err := s.store.SetSetting(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) getVal(k string) string {
	return strconv.Itoa(s.store.GetIntSetting(k, settingRanges[k].fallback))
}

// intValue reads k from a settings snapshot, clamped to its range.
func intValue(settings []store.Setting, k string) int {
	r := settingRanges[k]
	for _, st := range settings {
		if st.Key != k {
			continue
		}
		n, err := strconv.Atoi(st.Value)
		if err != nil || n < r.min || n > r.max {
			return r.fallback
		}
		return n
	}
	return r.fallback
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := setting.Key
		if r, ok := settingRanges[setting.Key]; ok {
			label = r.label
		}
		labelView := lipgloss.NewStyle().Width(26).Render(label)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", labelView, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	n, err := strconv.Atoi(v)
	if err != nil {
		return v
	}
	switch k {
	case store.SettingCalendarDays:
		return fmt.Sprintf("%d days", n)
	case store.SettingNoticeSeconds:
		return fmt.Sprintf("%d s", n)
	case store.SettingDefaultFrequency:
		return view.FormatFrequency(n)
	}
	return v
}
