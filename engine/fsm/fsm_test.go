package fsm

import (
	"errors"
	"testing"
)

type light uint8

const (
	red light = iota
	green
	amber
	lightCount
)

type junction struct {
	state   light
	ticks   int
	entered []light
	exited  []light
}

func newLights() *Table[light, *junction] {
	t := NewTable[light, *junction](int(lightCount))
	t.Register(red, Handler[*junction]{
		Name:    "red",
		Update:  func(j *junction) { j.ticks++; j.state = green },
		OnEnter: func(j *junction) { j.entered = append(j.entered, red) },
		OnExit:  func(j *junction) { j.exited = append(j.exited, red) },
	})
	t.Register(green, Handler[*junction]{
		Name:    "green",
		Update:  func(j *junction) { j.ticks++; j.state = amber },
		OnEnter: func(j *junction) { j.entered = append(j.entered, green) },
	})
	t.Register(amber, Handler[*junction]{
		Name:   "amber",
		Update: func(j *junction) { j.ticks++; j.state = green },
	})
	return t
}

const lightsJSON = `{
	"initial": "red",
	"states": {
		"red":   {"transitions": ["green"]},
		"green": {"transitions": ["amber"]},
		"amber": {"transitions": ["red"]}
	}
}`

// TestRunEntryExit verifies exit and entry actions run once per state change
func TestRunEntryExit(t *testing.T) {
	tbl := newLights()
	if err := tbl.LoadConfig([]byte(lightsJSON)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if tbl.Initial != red {
		t.Errorf("Initial = %d, want red", tbl.Initial)
	}

	j := &junction{state: red}
	tr, err := tbl.Run(j, func() light { return j.state })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !tr.Changed() || tr.From != red || tr.To != green {
		t.Errorf("transition = %+v, want red -> green", tr)
	}
	if len(j.exited) != 1 || j.exited[0] != red {
		t.Errorf("exited = %v", j.exited)
	}
	if len(j.entered) != 1 || j.entered[0] != green {
		t.Errorf("entered = %v", j.entered)
	}
}

// TestRunIllegalTransition verifies a move outside the table is reported but still applied
func TestRunIllegalTransition(t *testing.T) {
	tbl := newLights()
	if err := tbl.LoadConfig([]byte(lightsJSON)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	j := &junction{state: amber}
	tr, err := tbl.Run(j, func() light { return j.state })
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("err = %v, want ErrIllegalTransition", err)
	}
	if tr.To != green || j.state != green {
		t.Errorf("state = %d, want green", j.state)
	}
	if len(j.entered) != 1 {
		t.Errorf("entry action skipped on illegal transition")
	}
}

// TestRunUnknownState verifies a state without handler is rejected without running anything
func TestRunUnknownState(t *testing.T) {
	tbl := newLights()
	j := &junction{state: lightCount}
	if _, err := tbl.Run(j, func() light { return j.state }); !errors.Is(err, ErrUnknownState) {
		t.Errorf("err = %v, want ErrUnknownState", err)
	}
	if j.ticks != 0 {
		t.Errorf("ticks = %d, want 0", j.ticks)
	}
}

// TestLoadConfigErrors verifies every unresolved name is reported
func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"unknown initial", `{"initial": "blue", "states": {"red": {}, "green": {}, "amber": {}}}`},
		{"unknown target", `{"initial": "red", "states": {"red": {"transitions": ["blue"]}, "green": {}, "amber": {}}}`},
		{"missing state", `{"initial": "red", "states": {"red": {}, "green": {}}}`},
		{"bad json", `{"initial": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl := newLights()
			if err := tbl.LoadConfig([]byte(tc.json)); err == nil {
				t.Errorf("LoadConfig accepted %s", tc.json)
			}
		})
	}
}

// TestAllowAndTargets verifies programmatic transitions
func TestAllowAndTargets(t *testing.T) {
	tbl := newLights()
	tbl.Allow(red, green, amber)
	if !tbl.Allowed(red, amber) || tbl.Allowed(green, red) {
		t.Errorf("Allowed mismatch")
	}
	if !tbl.Allowed(green, green) {
		t.Errorf("staying in a state must be allowed")
	}
	got := tbl.Targets(red)
	if len(got) != 2 || got[0] != green || got[1] != amber {
		t.Errorf("Targets(red) = %v", got)
	}
	if s, ok := tbl.Lookup("amber"); !ok || s != amber {
		t.Errorf("Lookup(amber) = %d, %v", s, ok)
	}
}
