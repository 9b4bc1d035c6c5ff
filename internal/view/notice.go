package view

import (
	"fmt"
	"time"
)

// DefaultNoticeDuration is how long a banner stays on screen.
const DefaultNoticeDuration = 3 * time.Second

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient banner message.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func (n Notice) IsZero() bool { return n.Message == "" }

func Added(name string) Notice {
	return Notice{Kind: NoticeSuccess, Message: "🌱 " + name + " has been added to your collection!"}
}

func Removed(name string) Notice {
	return Notice{Kind: NoticeInfo, Message: name + " has been removed from your collection."}
}

func Info(msg string) Notice {
	return Notice{Kind: NoticeInfo, Message: msg}
}

// Failure wraps an error message for display.
func Failure(msg string) Notice {
	return Notice{Kind: NoticeError, Message: msg}
}

func Imported(n int) Notice {
	if n == 1 {
		return Info("Imported 1 plant.")
	}
	return Info(fmt.Sprintf("Imported %d plants.", n))
}

func Exported(path string) Notice {
	return Info("Exported plant data to " + path)
}

func Cleared() Notice {
	return Info("All plant data has been cleared.")
}
