// Package screens holds one bubbletea model per check-in page. Screens
// never move the wizard themselves: they post a Nav that the wizard
// reads after each delegated Update.
package screens

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/components"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
)

// NavKind is the navigation a screen asks for.
type NavKind int

const (
	NavNone NavKind = iota
	NavNext
	NavBack
	NavJump
	NavHelp
	NavReturn
	NavRestart
	NavAdmin
)

// Nav is a navigation request. Step is only used by NavJump.
type Nav struct {
	Kind NavKind
	Step int
}

// Screen is a wizard page.
type Screen interface {
	tea.Model
	// Nav returns and clears the pending navigation.
	Nav() Nav
}

// Context is the session state every screen renders with. The wizard owns
// it and updates it when the accessibility toolbar changes.
type Context struct {
	Theme  components.Theme
	Access components.Accessibility
	Width  int
	Height int
}

// NewContext builds a context for the given accessibility state.
func NewContext(a components.Accessibility) *Context {
	return &Context{Theme: components.ThemeFor(a), Access: a}
}

// SetAccessibility refreshes the theme.
func (c *Context) SetAccessibility(a components.Accessibility) {
	c.Access = a
	c.Theme = components.ThemeFor(a)
}

// Backend is what the success and assistance screens persist through.
type Backend interface {
	Submit(ctx context.Context, draft patient.Draft) (patient.Record, error)
	CreateAssistance(ctx context.Context, kioskID string) (kiosk.AssistanceRequest, error)
	FindAssistance(ctx context.Context, id string) (kiosk.AssistanceRequest, error)
}

type navigator struct {
	nav Nav
}

func (n *navigator) Nav() Nav {
	v := n.nav
	n.nav = Nav{}
	return v
}

func (n *navigator) navigate(kind NavKind) { n.nav = Nav{Kind: kind} }

var screenSeq atomic.Int64

// nextID tags timer messages so a tick addressed to a replaced screen is dropped.
func nextID() int64 { return screenSeq.Add(1) }
