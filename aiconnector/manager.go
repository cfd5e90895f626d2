package aiconnector

import (
	"context"
	"sync"

	"github.com/coldwire/mediacore/mediaerr"
	"github.com/coldwire/mediacore/mlog"
)

// Manager routes capability calls to the default Connector and offers a
// separate lookup by name (Get), mirroring AIServiceManager's routing (add,
// set_default, get_available_connectors). Routed calls do not fall back to
// another connector: with no default set they fail with KindConfigError.
type Manager struct {
	mu         sync.RWMutex
	connectors []Connector
	byName     map[string]Connector
	def        Connector
	log        *mlog.Logger
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		byName: make(map[string]Connector),
		log:    mlog.New("aiconnector", "NewManager"),
	}
}

// AddConnector registers c. The first available connector added becomes the
// default.
func (m *Manager) AddConnector(c Connector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectors = append(m.connectors, c)
	m.byName[c.Name()] = c
	if m.def == nil && c.Available() {
		m.def = c
	}
	m.log.WithField("connector", c.Name()).Info("AI connector added")
}

// SetDefault makes the named, available connector the default. Returns
// false if the connector is unknown or unavailable.
func (m *Manager) SetDefault(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byName[name]
	if !ok || !c.Available() {
		return false
	}
	m.def = c
	return true
}

// Default returns the current default connector, or nil if none is set.
func (m *Manager) Default() Connector {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// Get returns the connector registered under name, or nil.
func (m *Manager) Get(name string) Connector {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byName[name]
}

// Available returns every registered connector that currently reports
// itself usable.
func (m *Manager) Available() []Connector {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Connector, 0, len(m.connectors))
	for _, c := range m.connectors {
		if c.Available() {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) defaultOrErr(op string) (Connector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.def == nil {
		return nil, mediaerr.New(mediaerr.KindConfigError, op, "no AI connector available")
	}
	return m.def, nil
}

func (m *Manager) Transcribe(ctx context.Context, audio []byte, language string) (Transcription, error) {
	c, err := m.defaultOrErr("aiconnector.Transcribe")
	if err != nil {
		return Transcription{}, err
	}
	return c.Transcribe(ctx, audio, language)
}

func (m *Manager) GenerateCaptions(ctx context.Context, t Transcription, language string) (Captions, error) {
	c, err := m.defaultOrErr("aiconnector.GenerateCaptions")
	if err != nil {
		return Captions{}, err
	}
	return c.GenerateCaptions(ctx, t, language)
}

func (m *Manager) Moderate(ctx context.Context, content, contentType string) (Moderation, error) {
	c, err := m.defaultOrErr("aiconnector.Moderate")
	if err != nil {
		return Moderation{}, err
	}
	return c.Moderate(ctx, content, contentType)
}

func (m *Manager) GenerateText(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (Generation, error) {
	c, err := m.defaultOrErr("aiconnector.GenerateText")
	if err != nil {
		return Generation{}, err
	}
	return c.GenerateText(ctx, prompt, maxTokens, temperature)
}

func (m *Manager) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	c, err := m.defaultOrErr("aiconnector.Summarize")
	if err != nil {
		return "", err
	}
	return c.Summarize(ctx, text, maxLength)
}

func (m *Manager) Translate(ctx context.Context, text, fromLanguage, toLanguage string) (string, error) {
	c, err := m.defaultOrErr("aiconnector.Translate")
	if err != nil {
		return "", err
	}
	return c.Translate(ctx, text, fromLanguage, toLanguage)
}
