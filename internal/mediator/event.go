package mediator

import "fmt"

// Event is a lifecycle notification exchanged between components
type Event int

const (
	EventStart Event = iota
	EventShow
	EventQuit
)

// String returns the wire name of the event (START, SHOW, QUIT)
func (e Event) String() string {
	switch e {
	case EventStart:
		return "START"
	case EventShow:
		return "SHOW"
	case EventQuit:
		return "QUIT"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Sender identifies who issued a notification
type Sender int

const (
	// SenderEntry is the process entry point
	SenderEntry Sender = iota
	SenderMediator
	SenderTray
)

func (s Sender) String() string {
	switch s {
	case SenderEntry:
		return "entry"
	case SenderMediator:
		return "mediator"
	case SenderTray:
		return "tray"
	default:
		return fmt.Sprintf("Sender(%d)", int(s))
	}
}
