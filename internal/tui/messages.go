package tui

import "github.com/andy/invoicer/internal/service"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// sessionChangeMsg relays a session notification into the program loop
type sessionChangeMsg struct {
	change service.Change
}
