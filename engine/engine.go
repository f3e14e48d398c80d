// Package engine runs the vehicle status machine of every ride once per tick
//
// An Engine owns no vehicles itself: trains live in a shared vehicle.Pool and
// rides are added with AddRide after construction-time validation. Each call
// to AdvanceAll updates every train head of every ride in insertion order,
// then the wreckage, then the sound pass. The engine is safe for concurrent
// use by the tick loop and read-only callers such as the HTTP API.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/coaster/audio"
	"github.com/lixenwraith/coaster/crash"
	"github.com/lixenwraith/coaster/engine/fsm"
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/motion"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/rider"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

var (
	ErrDuplicateRide = errors.New("ride already added")
	ErrUnknownRide   = errors.New("unknown ride")
	ErrUnknownTrain  = errors.New("unknown train")
	ErrNoTrains      = errors.New("ride has no trains")
)

// Options configures a new Engine, zero fields get defaults
type Options struct {
	Pool    *vehicle.Pool
	Types   *vehicle.Registry
	Riders  rider.Service
	Sink    event.Sink
	Terrain track.Terrain
	Seed    uint64
	Logger  *zerolog.Logger
	// Now stamps finished test results
	Now func() time.Time
	// TransitionsPath and CableTransitionsPath override the embedded transition tables
	TransitionsPath      string
	CableTransitionsPath string
}

// TrainSpec describes the trains AddRide builds for a ride
type TrainSpec struct {
	// Type names the vehicle type of every car
	Type string
	// Trains is the number of trains, or of free-roaming cars on bumper and boat rides
	Trains int
	// Cars is the number of cars per train
	Cars int
}

// Report summarizes one AdvanceAll call
type Report struct {
	Tick        uint32
	Trains      int
	Transitions int
	Crashes     int
	Derailments int
	Collisions  int
	Breakdowns  int
	Tests       int
	Illegal     int
	Sound       audio.Stats
}

// Engine is the vehicle status machine driver
type Engine struct {
	mu sync.Mutex

	pool   *vehicle.Pool
	types  *vehicle.Registry
	riders rider.Service
	sink   event.Sink
	rng    *vmath.FastRand
	log    zerolog.Logger
	now    func() time.Time

	motion *motion.Context
	crash  *crash.Resolver
	sounds audio.Selector
	synth  *audio.Synthesizer

	rides  map[ride.ID]*ride.Ride
	order  []ride.ID
	wrecks map[ride.ID][]vehicle.ID

	train *fsm.Table[vehicle.Status, *step]
	cable *fsm.Table[vehicle.Status, *step]

	// st is the step of the vehicle being updated, other is used for the partner of a cable lift
	st    step
	other step

	tick   uint32
	report Report
	heads  []uint16
	cars   []vehicle.ID
	thrown []vehicle.ID
}

// New creates an engine and loads its transition tables
func New(opts Options) (*Engine, error) {
	if opts.Pool == nil {
		opts.Pool = vehicle.NewPool(parameter.VehiclePoolSize)
	}
	if opts.Types == nil {
		opts.Types = vehicle.DefaultRegistry()
	}
	if opts.Riders == nil {
		opts.Riders = rider.Nobody{}
	}
	if opts.Sink == nil {
		opts.Sink = event.Discard{}
	}
	if opts.Seed == 0 {
		opts.Seed = parameter.DefaultSeed
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "engine").Logger()
	}

	rng := vmath.NewFastRand(opts.Seed)
	e := &Engine{
		pool:   opts.Pool,
		types:  opts.Types,
		riders: opts.Riders,
		sink:   opts.Sink,
		rng:    rng,
		log:    log,
		now:    opts.Now,
		motion: motion.NewContext(opts.Pool, opts.Types, opts.Sink, rng),
		crash:  crash.NewResolver(opts.Pool, opts.Sink, rng, opts.Terrain),
		sounds: audio.Selector{Pool: opts.Pool, Types: opts.Types, Rand: rng},
		rides:  make(map[ride.ID]*ride.Ride),
		wrecks: make(map[ride.ID][]vehicle.ID),
		cars:   make([]vehicle.ID, 0, 32),
	}
	e.st.e = e
	e.other.e = e

	var err error
	if e.train, err = newTrainTable(opts.TransitionsPath); err != nil {
		return nil, fmt.Errorf("train transitions: %w", err)
	}
	if e.cable, err = newCableTable(opts.CableTransitionsPath); err != nil {
		return nil, fmt.Errorf("cable lift transitions: %w", err)
	}
	return e, nil
}

// AttachSound drives a synthesizer after every tick, nil detaches it
func (e *Engine) AttachSound(s *audio.Synthesizer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.synth = s
}

// Pool returns the vehicle pool the engine updates
func (e *Engine) Pool() *vehicle.Pool {
	return e.pool
}

// Types returns the vehicle type registry
func (e *Engine) Types() *vehicle.Registry {
	return e.types
}

// AddRide validates a ride, builds its trains and admits it to the tick loop
// Every configuration violation is reported, joined into one error.
func (e *Engine) AddRide(r *ride.Ride, spec TrainSpec) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.rides[r.ID]; ok {
		return fmt.Errorf("ride %d: %w", r.ID, ErrDuplicateRide)
	}

	var errs []error
	typeID, err := e.types.Lookup(spec.Type)
	if err != nil {
		errs = append(errs, err)
	}
	if spec.Trains < 1 || spec.Cars < 1 {
		errs = append(errs, ErrNoTrains)
	}
	if len(r.Stations) == 0 {
		if l, ok := r.Track.(*track.Layout); ok {
			for i := 0; ; i++ {
				seg, ok := l.StationEnd(i)
				if !ok {
					break
				}
				r.AddStation(seg)
			}
		}
	}
	if err == nil {
		var segments []track.Segment
		if l, ok := r.Track.(*track.Layout); ok {
			segments = l.Segments()
		}
		if verr := r.Validate(e.types.Get(typeID).Caps, segments); verr != nil {
			errs = append(errs, verr)
		}
	}
	if err := errors.Join(errs...); err != nil {
		e.log.Warn().Err(err).Uint16("ride", uint16(r.ID)).Str("name", r.Name).Msg("ride rejected")
		return err
	}

	if err := e.spawnTrains(r, typeID, spec); err != nil {
		e.discardTrains(r)
		return err
	}
	if r.Is(ride.LifecycleCableLift) {
		if err := e.createCableLift(r); err != nil {
			e.discardTrains(r)
			return err
		}
	}

	e.rides[r.ID] = r
	e.order = append(e.order, r.ID)
	e.log.Info().Uint16("ride", uint16(r.ID)).Str("name", r.Name).Stringer("mode", r.Config.Mode).
		Int("trains", len(r.Trains)).Msg("ride added")
	return nil
}

// Ride returns an admitted ride
func (e *Engine) Ride(id ride.ID) (*ride.Ride, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rides[id]
	return r, ok
}

// Rides returns the admitted rides in update order
func (e *Engine) Rides() []*ride.Ride {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*ride.Ride, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.rides[id])
	}
	return out
}

// Do runs fn with the engine locked, used to change ride settings between ticks
func (e *Engine) Do(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// AdvanceAll updates every vehicle of every ride for one tick, then the sound pass
func (e *Engine) AdvanceAll(tick uint32) Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick = tick
	e.report = Report{Tick: tick}
	for _, id := range e.order {
		e.advanceRide(e.rides[id])
	}
	e.soundPass()
	return e.report
}

// Snapshot returns the caller-visible state of one vehicle
func (e *Engine) Snapshot(id vehicle.ID) (vehicle.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.pool.Get(id)
	if v == nil {
		return vehicle.Snapshot{}, false
	}
	return v.Snapshot(), true
}

// Snapshots appends the state of every vehicle of a ride, trains first
func (e *Engine) Snapshots(id ride.ID, buf []vehicle.Snapshot) ([]vehicle.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rides[id]
	if !ok {
		return buf, fmt.Errorf("ride %d: %w", id, ErrUnknownRide)
	}
	for _, h := range r.Trains {
		e.cars = e.pool.Cars(vehicle.ID(h), e.cars)
		for _, c := range e.cars {
			buf = append(buf, e.pool.Get(c).Snapshot())
		}
	}
	for _, w := range e.wrecks[id] {
		if v := e.pool.Get(w); v != nil {
			buf = append(buf, v.Snapshot())
		}
	}
	return buf, nil
}

// TotalRiders counts riders aboard the train led by head
func (e *Engine) TotalRiders(head vehicle.ID) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.pool.Get(head)
	if v == nil || !v.IsHead() {
		return 0, fmt.Errorf("vehicle %d: %w", head, ErrUnknownTrain)
	}
	return e.pool.TotalRiders(head), nil
}

// ClearWreckage frees every wrecked car of a ride and lifts its crashed state
func (e *Engine) ClearWreckage(id ride.ID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rides[id]
	if !ok {
		return 0
	}
	n := len(e.wrecks[id])
	for _, w := range e.wrecks[id] {
		e.pool.Free(w)
	}
	delete(e.wrecks, id)
	r.Clear(ride.LifecycleCrashed)
	return n
}

// advanceRide runs one tick of a single ride
func (e *Engine) advanceRide(r *ride.Ride) {
	e.motion.Bind(r, e.tick)
	r.UpdateStations(e.tick, e.ridersAboard(r))
	e.updateSessions(r)

	// trains wrecked this tick start flying on the next one
	wrecked := len(e.wrecks[r.ID])
	e.heads = append(e.heads[:0], r.Trains...)
	for _, h := range e.heads {
		v := e.pool.Get(vehicle.ID(h))
		if v == nil || v.Ride != r.ID || !v.IsHead() {
			continue
		}
		if v.Status == vehicle.StatusCrashing || v.Status == vehicle.StatusCrashed {
			continue
		}
		e.report.Trains++
		e.runTrain(r, v)
	}

	if r.CableLift != ride.NoTrain {
		if v := e.pool.Get(vehicle.ID(r.CableLift)); v != nil {
			e.runCable(r, v)
		}
	}

	for _, id := range e.wrecks[r.ID][:wrecked] {
		if v := e.pool.Get(id); v != nil {
			e.runTrain(r, v)
		}
	}
}

// runTrain dispatches one head to the handler of its status
func (e *Engine) runTrain(r *ride.Ride, v *vehicle.Vehicle) {
	s := e.st.bind(r, v)
	s.prepare()
	tr, err := e.train.Run(s, func() vehicle.Status { return v.Status })
	e.record(r, v, tr, err)
	if v.Status != vehicle.StatusCrashing && v.Status != vehicle.StatusCrashed {
		e.syncCars(v)
	}
}

func (e *Engine) record(r *ride.Ride, v *vehicle.Vehicle, tr fsm.Transition[vehicle.Status], err error) {
	if err != nil {
		e.report.Illegal++
		e.log.Warn().Err(err).Uint16("ride", uint16(r.ID)).Uint16("vehicle", uint16(v.ID)).Msg("vehicle transition")
	}
	if !tr.Changed() {
		return
	}
	e.report.Transitions++
	e.sink.Invalidate(uint16(v.ID))
	e.log.Trace().Uint16("ride", uint16(r.ID)).Uint16("vehicle", uint16(v.ID)).
		Stringer("from", tr.From).Stringer("to", tr.To).Uint8("sub", v.SubState).Msg("status")
}

// syncCars copies the head status onto the trailing cars so snapshots agree
func (e *Engine) syncCars(head *vehicle.Vehicle) {
	for id := head.Next; id != vehicle.NoVehicle; {
		car := e.pool.Get(id)
		if car == nil {
			return
		}
		car.Status, car.SubState = head.Status, head.SubState
		id = car.Next
	}
}

func (e *Engine) ridersAboard(r *ride.Ride) int {
	n := 0
	for _, h := range r.Trains {
		n += e.pool.TotalRiders(vehicle.ID(h))
	}
	return n
}

// spawnTrains builds the trains of a new ride and parks them at the first station
func (e *Engine) spawnTrains(r *ride.Ride, typeID vehicle.TypeID, spec TrainSpec) error {
	typ := e.types.Get(typeID)
	e.motion.Bind(r, e.tick)

	if r.Config.Mode == ride.ModeBumperCar || r.Config.Mode == ride.ModeBoatHire || typ.Has(vehicle.TypeBumper) {
		return e.spawnRoaming(r, typeID, spec)
	}

	st := r.Station(0)
	if st == nil {
		return fmt.Errorf("ride %d: %w", r.ID, ride.ErrNoStation)
	}
	seg, err := r.Track.Segment(st.Start)
	if err != nil {
		return fmt.Errorf("ride %d station start: %w", r.ID, err)
	}
	at, progress := seg.ID, seg.Length()-1
	for t := 0; t < spec.Trains; t++ {
		head, err := e.spawnTrain(r, typeID, int(typ.Seats), spec.Cars)
		if err != nil {
			return err
		}
		if err := e.motion.Place(head, at, progress); err != nil {
			return fmt.Errorf("ride %d train %d: %w", r.ID, t, err)
		}
		e.initialise(head, int8(seg.Station))
		r.AddTrain(uint16(head.ID))
		// the next train waits one piece further back
		prev, err := r.Track.Previous(at)
		if err != nil {
			break
		}
		at, progress = prev.ID, prev.Length()-1
	}
	return nil
}

// spawnRoaming places single-car bumper cars or boats on a grid over the arena
func (e *Engine) spawnRoaming(r *ride.Ride, typeID vehicle.TypeID, spec TrainSpec) error {
	typ := e.types.Get(typeID)
	var origin track.Point
	if st := r.Station(0); st != nil {
		if seg, err := r.Track.Segment(st.Start); err == nil {
			origin = seg.Origin
		}
	}
	if r.Arena.Empty() {
		span := int32(parameter.ArenaTiles * track.TileSize)
		r.Arena = ride.Bounds{MinX: origin.X - span, MinY: origin.Y - span, MaxX: origin.X + span, MaxY: origin.Y + span}
	}

	step := int32(track.TileSize)
	x, y := r.Arena.MinX+step/2, r.Arena.MinY+step/2
	for i := 0; i < spec.Trains; i++ {
		car, err := e.pool.Spawn(r.ID, typeID, int(typ.Seats))
		if err != nil {
			return fmt.Errorf("ride %d car %d: %w", r.ID, i, err)
		}
		car.Pos = vmath.Vec3{X: x, Y: y, Z: origin.Z}
		car.Direction = uint8(i*8) & 0x1F
		e.initialise(car, 0)
		r.AddTrain(uint16(car.ID))

		x += step
		if x > r.Arena.MaxX-step/2 {
			x = r.Arena.MinX + step/2
			y += step
		}
	}
	return nil
}

func (e *Engine) spawnTrain(r *ride.Ride, typeID vehicle.TypeID, seats, cars int) (*vehicle.Vehicle, error) {
	var head, prev *vehicle.Vehicle
	for c := 0; c < cars; c++ {
		car, err := e.pool.Spawn(r.ID, typeID, seats)
		if err != nil {
			if head != nil {
				e.freeChain(head.ID)
			}
			return nil, fmt.Errorf("ride %d: %w", r.ID, err)
		}
		if head == nil {
			head = car
		} else if err := e.pool.Link(prev.ID, car.ID); err != nil {
			e.freeChain(head.ID)
			return nil, err
		}
		prev = car
	}
	return head, nil
}

// initialise gives a fresh train its starting status and closed restraints
func (e *Engine) initialise(head *vehicle.Vehicle, station int8) {
	head.SetStatus(e.train.Initial, 0)
	head.Station = station
	head.Stop()
	head.Timer = 0xFFFF
	e.syncCars(head)
}

func (e *Engine) freeChain(head vehicle.ID) {
	e.cars = e.pool.Cars(head, e.cars)
	for _, c := range e.cars {
		e.pool.Free(c)
	}
}

// discardTrains frees everything a failed AddRide built
func (e *Engine) discardTrains(r *ride.Ride) {
	for _, h := range r.Trains {
		e.freeChain(vehicle.ID(h))
	}
	r.Trains = r.Trains[:0]
	if r.CableLift != ride.NoTrain {
		e.freeChain(vehicle.ID(r.CableLift))
		r.CableLift = ride.NoTrain
	}
}
