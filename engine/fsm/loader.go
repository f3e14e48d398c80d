package fsm

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// LoadConfig parses a JSON transition table and replaces the allowed transitions
// Every state named in the file must be registered, and every registered state
// must appear in the file, so a table never silently allows nothing
func (t *Table[S, T]) LoadConfig(data []byte) error {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to read transition table: %w", err)
	}
	var cfg RootConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal transition table: %w", err)
	}
	return t.Apply(cfg)
}

// Apply validates a decoded table and installs it
func (t *Table[S, T]) Apply(cfg RootConfig) error {
	var errs []error

	initial, ok := t.Lookup(cfg.Initial)
	if !ok {
		errs = append(errs, fmt.Errorf("initial state %q: %w", cfg.Initial, ErrUnknownState))
	}

	// Sorted for deterministic error order
	names := make([]string, 0, len(cfg.States))
	for name := range cfg.States {
		names = append(names, name)
	}
	sort.Strings(names)

	allowed := make([][]bool, len(t.handlers))
	for i := range allowed {
		allowed[i] = make([]bool, len(t.handlers))
	}
	for _, name := range names {
		from, ok := t.Lookup(name)
		if !ok {
			errs = append(errs, fmt.Errorf("state %q: %w", name, ErrUnknownState))
			continue
		}
		sc := cfg.States[name]
		if sc == nil {
			continue
		}
		for _, target := range sc.Transitions {
			to, ok := t.Lookup(target)
			if !ok {
				errs = append(errs, fmt.Errorf("state %q targets %q: %w", name, target, ErrUnknownState))
				continue
			}
			allowed[from][to] = true
		}
	}

	for i, h := range t.handlers {
		if h == nil {
			continue
		}
		if _, ok := cfg.States[h.Name]; !ok {
			errs = append(errs, fmt.Errorf("state %q (%d) missing from transition table", h.Name, i))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	t.allowed = allowed
	t.Initial = initial
	t.loaded = true
	return nil
}
