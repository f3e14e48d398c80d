package main

import (
	"testing"

	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/rider"
)

// TestBuildPark verifies every demo ride passes validation and gets its trains
func TestBuildPark(t *testing.T) {
	e, err := engine.New(engine.Options{Seed: 11})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	if err := buildPark(e); err != nil {
		t.Fatalf("buildPark: %v", err)
	}
	rides := e.Rides()
	if len(rides) != len(demoRides) {
		t.Fatalf("admitted %d rides, want %d", len(rides), len(demoRides))
	}
	for i, r := range rides {
		if len(r.Trains) != demoRides[i].trains.Trains {
			t.Errorf("%s: %d trains, want %d", r.Name, len(r.Trains), demoRides[i].trains.Trains)
		}
	}
}

// TestFeedQueuesCapsDemand verifies queues stop growing at twice the demand
func TestFeedQueuesCapsDemand(t *testing.T) {
	roster := rider.NewRoster()
	for i := 0; i < 5; i++ {
		feedQueues(roster)
	}
	for _, d := range demoRides {
		if got, want := roster.Waiting(d.id, 0), d.demand*2; got != want {
			t.Errorf("%s: %d waiting, want %d", d.name, got, want)
		}
	}
}
