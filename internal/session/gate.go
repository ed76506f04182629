package session

import (
	"context"

	"github.com/garage-vn/storefront/internal/ui"
	"github.com/garage-vn/storefront/pkg/logger"
)

// Diversion selects what the gate does with an unauthenticated attempt:
// divert to the login page or reload the current one. Call sites choose.
type Diversion int

const (
	DivertToLogin Diversion = iota
	DivertToReload
)

// Notifier queues the flash login prompt server-side. Exactly one
// notification is sent per intercepted attempt; a failed notification is not
// retried because the diversion proceeds regardless.
type Notifier interface {
	NotifyLoginRequired(ctx context.Context) error
}

// Gate intercepts cart-affecting actions for unauthenticated sessions. It
// must run before any cart network call is issued.
type Gate struct {
	session   Session
	notifier  Notifier
	navigator ui.Navigator
	loginURL  string
	logg      *logger.Logger
}

func NewGate(sess Session, notifier Notifier, navigator ui.Navigator, loginURL string, logg *logger.Logger) *Gate {
	return &Gate{
		session:   sess,
		notifier:  notifier,
		navigator: navigator,
		loginURL:  loginURL,
		logg:      logg,
	}
}

// Guard returns true when the action may proceed. Otherwise it queues the
// flash prompt, diverts the page, and returns false so the caller issues no
// cart request.
func (g *Gate) Guard(ctx context.Context, diversion Diversion) bool {
	if g == nil {
		return false
	}
	if g.session.Authenticated {
		return true
	}

	if g.notifier != nil {
		if err := g.notifier.NotifyLoginRequired(ctx); err != nil && g.logg != nil {
			g.logg.Debug(ctx, "flash login notice failed: "+err.Error())
		}
	}

	if g.navigator != nil {
		switch diversion {
		case DivertToReload:
			g.navigator.Reload()
		default:
			g.navigator.Redirect(g.loginURL)
		}
	}
	return false
}

// Session exposes the injected session state.
func (g *Gate) Session() Session {
	if g == nil {
		return Anonymous()
	}
	return g.session
}
