package fsm

import (
	"fmt"
	"os"
)

// LoadConfigAuto loads the transition table with priority: customPath > embedded
func LoadConfigAuto[S State, T any](t *Table[S, T], customPath string, embedded []byte) error {
	if customPath == "" {
		return t.LoadConfig(embedded)
	}
	data, err := os.ReadFile(customPath)
	if err != nil {
		return fmt.Errorf("failed to load transition table from %s: %w", customPath, err)
	}
	if err := t.LoadConfig(data); err != nil {
		return fmt.Errorf("%s: %w", customPath, err)
	}
	return nil
}
