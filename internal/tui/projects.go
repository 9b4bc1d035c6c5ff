package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantcare/internal/registry"
	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/view"
)

// Suggestions offered in the type field; any text is accepted.
var plantTypeSuggestions = []string{"Tropical", "Succulent", "Cactus", "Fern", "Herb", "Flowering", "Palm", "Vine"}

const (
	formAdd    = "add"
	formDelete = "delete"
)

type plantsModel struct {
	reg    *registry.Registry
	width  int
	height int

	plants []store.Plant
	cards  view.CardList
	today  time.Time
	cursor int

	formActive bool
	form       *huh.Form
	formKind   string

	// Form field pointers (survive value copies)
	formName      *string
	formType      *string
	formFrequency *string
	formPhoto     *string
	formConfirm   *bool

	deletingID   string
	deletingName string

	// pending is set while an add is in flight; a second submit is refused.
	pending bool

	defaultFrequency int
	maxPhotoBytes    int64
}

func newPlantsModel(reg *registry.Registry, defaultFrequency int, maxPhotoBytes int64) plantsModel {
	name, typ, freq, photo := "", "", "", ""
	confirm := false
	return plantsModel{
		reg:              reg,
		formName:         &name,
		formType:         &typ,
		formFrequency:    &freq,
		formPhoto:        &photo,
		formConfirm:      &confirm,
		defaultFrequency: defaultFrequency,
		maxPhotoBytes:    maxPhotoBytes,
	}
}

func (p *plantsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *plantsModel) setData(plants []store.Plant, today time.Time) {
	p.plants = plants
	p.today = today
	p.cards = view.BuildCards(plants, today)
	if p.cursor >= len(p.plants) {
		p.cursor = max(0, len(p.plants)-1)
	}
}

func (p plantsModel) selected() (view.Card, bool) {
	if p.cursor < 0 || p.cursor >= len(p.cards.Cards) {
		return view.Card{}, false
	}
	return p.cards.Cards[p.cursor], true
}

func (p plantsModel) update(msg tea.Msg) (plantsModel, tea.Cmd) {
	formOpen := p.formActive && p.form != nil

	// Results arrive even while another form is open.
	switch msg := msg.(type) {
	case plantAddedMsg:
		p.pending = false
		if msg.err == nil {
			if !formOpen {
				p.resetForm()
				p.cursor = len(p.plants)
			}
			return p, nil
		}
		if registry.IsValidation(msg.err) && !formOpen {
			// Keep what the user typed and let them fix it.
			return p.openAddForm()
		}
		return p, nil

	case plantDeletedMsg:
		if !formOpen || p.formKind != formDelete {
			p.deletingID = ""
			p.deletingName = ""
		}
		return p, nil
	}

	if formOpen {
		return p.updateForm(msg)
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		return p.updateList(msg)
	}
	return p, nil
}

func (p plantsModel) updateList(msg tea.KeyMsg) (plantsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.plants)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.New):
		return p.showAddForm()
	case key.Matches(msg, keys.Delete):
		if card, ok := p.selected(); ok {
			return p.showDeleteConfirm(card)
		}
	}
	return p, nil
}

func (p plantsModel) showAddForm() (plantsModel, tea.Cmd) {
	if p.pending {
		return p, func() tea.Msg {
			return noticeMsg{notice: view.Info("Still saving the previous plant…")}
		}
	}
	p.resetForm()
	return p.openAddForm()
}

func (p *plantsModel) resetForm() {
	*p.formName = ""
	*p.formType = ""
	*p.formFrequency = strconv.Itoa(max(1, p.defaultFrequency))
	*p.formPhoto = ""
}

func (p plantsModel) openAddForm() (plantsModel, tea.Cmd) {
	p.formKind = formAdd
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Plant Name").Placeholder("e.g. Monstera").Value(p.formName),
			huh.NewInput().Title("Plant Type").
				Placeholder("e.g. Tropical").
				Suggestions(plantTypeSuggestions).
				Value(p.formType),
			huh.NewInput().Title("Water every (days)").Value(p.formFrequency),
			huh.NewInput().Title("Photo file (optional)").
				Placeholder("/path/to/photo.jpg").
				Value(p.formPhoto),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plantsModel) showDeleteConfirm(card view.Card) (plantsModel, tea.Cmd) {
	*p.formConfirm = false
	p.formKind = formDelete
	p.deletingID = card.ID
	p.deletingName = card.Name

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove %s from your collection?", card.Name)).
				Affirmative("Remove").
				Negative("Cancel").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plantsModel) updateForm(msg tea.Msg) (plantsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			p.deletingID = ""
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		p.formActive = false
		switch p.formKind {
		case formAdd:
			if p.pending {
				return p, nil
			}
			p.pending = true
			return p, p.addPlant(*p.formName, *p.formType, *p.formFrequency, *p.formPhoto)
		case formDelete:
			if !*p.formConfirm || p.deletingID == "" {
				p.deletingID = ""
				return p, nil
			}
			return p, p.deletePlant(p.deletingID)
		}
	case huh.StateAborted:
		p.formActive = false
		p.deletingID = ""
		return p, nil
	}

	return p, cmd
}

func (p plantsModel) addPlant(name, plantType, frequency, photoPath string) tea.Cmd {
	reg := p.reg
	maxBytes := p.maxPhotoBytes
	return func() tea.Msg {
		var photo []byte
		if path := strings.TrimSpace(photoPath); path != "" {
			data, err := readPhoto(path, maxBytes)
			if err != nil {
				return plantAddedMsg{err: err}
			}
			photo = data
		}
		in := registry.InputFromForm(name, plantType, frequency, photo)
		plant, err := reg.Add(context.Background(), in)
		return plantAddedMsg{plant: plant, err: err}
	}
}

func (p plantsModel) deletePlant(id string) tea.Cmd {
	reg := p.reg
	return func() tea.Msg {
		plant, removed, err := reg.Delete(id)
		return plantDeletedMsg{plant: plant, removed: removed, err: err}
	}
}

// readPhoto reads at most maxBytes+1 bytes so the registry can reject
// oversized files without loading them whole.
func readPhoto(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()
	if maxBytes <= 0 {
		maxBytes = registry.DefaultMaxPhotoBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	return data, nil
}

func (p plantsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("Add New Plant")
		if p.formKind == formDelete {
			title = titleStyle.Render("Remove Plant")
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}

	return p.renderPlantList()
}

func (p plantsModel) renderPlantList() string {
	w := p.width - 4
	title := titleStyle.Render(fmt.Sprintf("My Plants (%d)", len(p.cards.Cards)))
	if p.pending {
		title += mutedStyle.Render("  saving…")
	}

	if p.cards.Empty {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No plants yet. Press n to add your first plant!"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-2s %-22s %-14s %-16s %s", "", "Name", "Type", "Watering", "Next"))
	rows = append(rows, header)

	for i, c := range p.cards.Cards {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		icon := view.PlaceholderPhoto
		if !c.Placeholder {
			icon = "📷"
		}
		next := daysUntil(p.today, c.NextDue)
		if c.DueToday {
			next = waterStyle.Render("today 💧")
		}
		row := style.Render(fmt.Sprintf("%s%s %-22s %-14s %-16s", cursor, icon,
			truncate(c.Name, 22), truncate(c.Type, 14), "💧 "+c.FrequencyLabel)) + " " + next
		rows = append(rows, row)
	}

	if card, ok := p.selected(); ok {
		rows = append(rows, "")
		rows = append(rows, p.renderDetail(card))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: add plant  d: remove  ↑/↓: select"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p plantsModel) renderDetail(c view.Card) string {
	photo := "none"
	if !c.Placeholder {
		if info, ok := registry.DescribePhoto(c.PhotoURL); ok {
			photo = fmt.Sprintf("%s, %d KB", info.MIME, (info.Bytes+1023)/1024)
		}
	}
	lines := []string{
		highlightStyle.Render("  " + c.Name),
		mutedStyle.Render(fmt.Sprintf("  Added %s · next watering %s · photo: %s",
			c.DateAdded.Local().Format("Jan 2, 2006"), formatDay(c.NextDue), photo)),
	}
	return strings.Join(lines, "\n")
}
