package config

import "sync"

// LiveSettings holds the settings in effect. Readers always see the most
// recently saved value.
type LiveSettings struct {
	mu      sync.RWMutex
	current Settings
	store   *SettingsStore
}

// NewLiveSettings starts from initial and persists updates to store
func NewLiveSettings(store *SettingsStore, initial Settings) *LiveSettings {
	return &LiveSettings{store: store, current: initial}
}

// Get returns the current settings
func (l *LiveSettings) Get() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Update saves s and makes it current. The in-memory value is only replaced
// after the file is written.
func (l *LiveSettings) Update(s Settings) error {
	s = s.withDefaults()
	if l.store != nil {
		if err := l.store.Save(s); err != nil {
			return err
		}
	}
	l.mu.Lock()
	l.current = s
	l.mu.Unlock()
	return nil
}

// MergeSecret keeps the current secret when s carries none or the masked
// placeholder, so a form showing Masked() can be saved back unchanged.
// Callers that need to remove the secret pass s to Update directly.
func (l *LiveSettings) MergeSecret(s Settings) Settings {
	if s.MailSecret == "" || s.MailSecret == maskedSecret {
		s.MailSecret = l.Get().MailSecret
	}
	return s
}
