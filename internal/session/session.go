// Package session defines the boundary between the layout engine and
// whatever actually opens connections. The engine only ever holds opaque
// session identities; instantiation and teardown go through a Launcher.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zjrosen/connmux/internal/split"
)

// Protocol names a connection protocol.
type Protocol string

const (
	ProtocolSSH   Protocol = "ssh"
	ProtocolRDP   Protocol = "rdp"
	ProtocolVNC   Protocol = "vnc"
	ProtocolSPICE Protocol = "spice"
	ProtocolLocal Protocol = "local"
)

// ConnectionSpec describes a saved connection, the thing a sidebar entry
// points at. Dropping a spec onto a panel instantiates a live session
// from it.
type ConnectionSpec struct {
	Label    string   `yaml:"label"`
	Protocol Protocol `yaml:"protocol"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
}

func (s ConnectionSpec) String() string {
	if s.Protocol == ProtocolLocal {
		return s.Label
	}
	return fmt.Sprintf("%s://%s@%s:%d", s.Protocol, s.Username, s.Host, s.Port)
}

// ErrUnknownSession is returned when terminating a session the launcher
// does not own.
var ErrUnknownSession = errors.New("session: unknown session")

// Launcher instantiates and tears down sessions. Implementations own the
// actual connection lifecycle; the engine only calls these at the edges
// of layout mutations.
type Launcher interface {
	// Instantiate opens a session for the spec and returns its identity.
	Instantiate(ctx context.Context, spec ConnectionSpec) (split.SessionID, error)

	// Terminate closes a session that the layout has discarded.
	Terminate(ctx context.Context, id split.SessionID) error
}

// LocalLauncher is the playground Launcher: it mints identities without
// opening anything, tracking the live set so tests and the UI can assert
// on lifecycle.
type LocalLauncher struct {
	mu    sync.Mutex
	live  map[split.SessionID]ConnectionSpec
	fail  error
}

// NewLocalLauncher creates an empty launcher.
func NewLocalLauncher() *LocalLauncher {
	return &LocalLauncher{live: make(map[split.SessionID]ConnectionSpec)}
}

// FailWith makes every subsequent Instantiate return err. Passing nil
// restores normal behavior.
func (l *LocalLauncher) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail = err
}

// Instantiate mints a fresh session identity for the spec.
func (l *LocalLauncher) Instantiate(_ context.Context, spec ConnectionSpec) (split.SessionID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return split.SessionID{}, l.fail
	}
	id := split.NewSessionID()
	l.live[id] = spec
	return id, nil
}

// Terminate drops the session from the live set.
func (l *LocalLauncher) Terminate(_ context.Context, id split.SessionID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.live[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	delete(l.live, id)
	return nil
}

// IsLive reports whether the launcher still owns the session.
func (l *LocalLauncher) IsLive(id split.SessionID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.live[id]
	return ok
}

// SpecOf returns the spec a live session was opened from.
func (l *LocalLauncher) SpecOf(id split.SessionID) (ConnectionSpec, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	spec, ok := l.live[id]
	return spec, ok
}

// LiveCount returns the number of live sessions.
func (l *LocalLauncher) LiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}
