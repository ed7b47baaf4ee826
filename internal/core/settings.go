package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ThresholdName identifies a GPA reporting threshold.
type ThresholdName string

const (
	ThresholdAtRisk  ThresholdName = "at_risk"
	ThresholdAverage ThresholdName = "average"
	ThresholdTop     ThresholdName = "top"
)

// ThresholdNames lists every known threshold in display order.
var ThresholdNames = []ThresholdName{ThresholdAtRisk, ThresholdAverage, ThresholdTop}

// ErrUnknownThreshold is returned for a threshold name that is not defined.
var ErrUnknownThreshold = errors.New("unknown threshold")

// Thresholds holds the three GPA band cutoffs. No ordering between them is
// enforced here.
type Thresholds struct {
	AtRisk  float64 `json:"atRisk"`
	Average float64 `json:"average"`
	Top     float64 `json:"top"`
}

// DefaultThresholds apply to any threshold that has never been saved.
var DefaultThresholds = Thresholds{AtRisk: 2.0, Average: 3.0, Top: 3.5}

// Get returns the value for name.
func (t Thresholds) Get(name ThresholdName) (float64, error) {
	switch name {
	case ThresholdAtRisk:
		return t.AtRisk, nil
	case ThresholdAverage:
		return t.Average, nil
	case ThresholdTop:
		return t.Top, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownThreshold, name)
	}
}

// Set assigns the value for name.
func (t *Thresholds) Set(name ThresholdName, v float64) error {
	switch name {
	case ThresholdAtRisk:
		t.AtRisk = v
	case ThresholdAverage:
		t.Average = v
	case ThresholdTop:
		t.Top = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownThreshold, name)
	}
	return nil
}

// DefaultThreshold returns the built-in default for name.
func DefaultThreshold(name ThresholdName) (float64, error) {
	return DefaultThresholds.Get(name)
}

// ValidateThreshold checks that name is known and value lies in the GPA range.
func ValidateThreshold(name ThresholdName, value float64) error {
	if _, err := DefaultThreshold(name); err != nil {
		return err
	}
	if !(value >= MinGPA && value <= MaxGPA) {
		return newValidationError(string(name), fmt.Sprintf("Threshold %s must be between 0.0 and 5.0.", name))
	}
	return nil
}

// SettingsStore persists named thresholds. GetThreshold returns the default
// for a threshold that has never been set. SetThresholds writes all three
// at once: either every value is stored or none is.
type SettingsStore interface {
	GetThreshold(ctx context.Context, name ThresholdName) (float64, error)
	SetThreshold(ctx context.Context, name ThresholdName, value float64) error
	SetThresholds(ctx context.Context, t Thresholds) error
}

// Settings is the read/write facade over a SettingsStore used by reporting.
// Reads never fail: a store error falls back to the default and is logged.
type Settings struct {
	store SettingsStore
}

// NewSettings creates a Settings facade.
func NewSettings(store SettingsStore) *Settings {
	return &Settings{store: store}
}

// Get returns the stored value for name, or its default.
func (s *Settings) Get(ctx context.Context, name ThresholdName) float64 {
	def, err := DefaultThreshold(name)
	if err != nil {
		slog.Warn("threshold lookup", "name", name, "error", err)
		return 0
	}

	v, err := s.store.GetThreshold(ctx, name)
	if err != nil {
		slog.Warn("threshold read failed, using default", "name", name, "default", def, "error", err)
		return def
	}
	return v
}

// Thresholds returns all three thresholds.
func (s *Settings) Thresholds(ctx context.Context) Thresholds {
	return Thresholds{
		AtRisk:  s.Get(ctx, ThresholdAtRisk),
		Average: s.Get(ctx, ThresholdAverage),
		Top:     s.Get(ctx, ThresholdTop),
	}
}

// Set validates and persists a single threshold.
func (s *Settings) Set(ctx context.Context, name ThresholdName, value float64) error {
	if err := ValidateThreshold(name, value); err != nil {
		return err
	}
	return s.store.SetThreshold(ctx, name, value)
}

// Save validates every threshold before persisting any of them.
func (s *Settings) Save(ctx context.Context, t Thresholds) error {
	for _, name := range ThresholdNames {
		v, _ := t.Get(name)
		if err := ValidateThreshold(name, v); err != nil {
			return err
		}
	}
	return s.store.SetThresholds(ctx, t)
}

// MemSettings is an in-memory SettingsStore.
type MemSettings struct {
	mu     sync.RWMutex
	values map[ThresholdName]float64

	// FailWith, when set, is returned (wrapped as a StorageError) by every call.
	FailWith error
}

// NewMemSettings creates an empty MemSettings.
func NewMemSettings() *MemSettings {
	return &MemSettings{values: make(map[ThresholdName]float64)}
}

func (m *MemSettings) GetThreshold(ctx context.Context, name ThresholdName) (float64, error) {
	if m.FailWith != nil {
		return 0, NewStorageError("get_threshold", m.FailWith)
	}
	def, err := DefaultThreshold(name)
	if err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[name]; ok {
		return v, nil
	}
	return def, nil
}

func (m *MemSettings) SetThreshold(ctx context.Context, name ThresholdName, value float64) error {
	if m.FailWith != nil {
		return NewStorageError("set_threshold", m.FailWith)
	}
	if _, err := DefaultThreshold(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
	return nil
}

func (m *MemSettings) SetThresholds(ctx context.Context, t Thresholds) error {
	if m.FailWith != nil {
		return NewStorageError("set_thresholds", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range ThresholdNames {
		m.values[name], _ = t.Get(name)
	}
	return nil
}
