package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/plantcare/internal/view"
)

// bannerModel shows one notice at a time and hides it after duration.
// Every show bumps seq, so the expiry of an older notice never hides a
// newer one.
type bannerModel struct {
	notice   view.Notice
	seq      int
	duration time.Duration
}

func newBannerModel(d time.Duration) bannerModel {
	if d <= 0 {
		d = view.DefaultNoticeDuration
	}
	return bannerModel{duration: d}
}

func (b *bannerModel) show(n view.Notice) tea.Cmd {
	b.seq++
	b.notice = n
	seq := b.seq
	return tea.Tick(b.duration, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}

func (b *bannerModel) expire(seq int) {
	if seq == b.seq {
		b.notice = view.Notice{}
	}
}

func (b *bannerModel) setDuration(d time.Duration) {
	if d > 0 {
		b.duration = d
	}
}

func (b bannerModel) visible() bool {
	return !b.notice.IsZero()
}

func (b bannerModel) view() string {
	if !b.visible() {
		return ""
	}
	switch b.notice.Kind {
	case view.NoticeSuccess:
		return bannerSuccessStyle.Render(b.notice.Message)
	case view.NoticeError:
		return bannerErrorStyle.Render(b.notice.Message)
	}
	return bannerInfoStyle.Render(b.notice.Message)
}
