package ride

// BreakdownKind names a mechanical failure
type BreakdownKind uint8

const (
	BreakdownSafetyCutOut BreakdownKind = iota
	BreakdownRestraintsStuckClosed
	BreakdownRestraintsStuckOpen
	BreakdownDoorsStuckClosed
	BreakdownDoorsStuckOpen
	BreakdownVehicleMalfunction
	BreakdownBrakesFailure
	BreakdownControlFailure
	BreakdownCount

	BreakdownNone BreakdownKind = 0xFF
)

var breakdownName = [BreakdownCount]string{
	"safety cut-out", "restraints stuck closed", "restraints stuck open",
	"doors stuck closed", "doors stuck open", "vehicle malfunction",
	"brakes failure", "control failure",
}

func (k BreakdownKind) String() string {
	if k < BreakdownCount {
		return breakdownName[k]
	}
	return "none"
}

// Restraint reports breakdowns of the restraint or door mechanism
func (k BreakdownKind) Restraint() bool {
	return k >= BreakdownRestraintsStuckClosed && k <= BreakdownDoorsStuckOpen
}

// StuckOpen reports restraints or doors that will not close
func (k BreakdownKind) StuckOpen() bool {
	return k == BreakdownRestraintsStuckOpen || k == BreakdownDoorsStuckOpen
}

// StuckClosed reports restraints or doors that will not open
func (k BreakdownKind) StuckClosed() bool {
	return k == BreakdownRestraintsStuckClosed || k == BreakdownDoorsStuckClosed
}

// MechanicStatus tracks the maintenance response to a breakdown
type MechanicStatus uint8

const (
	MechanicIdle MechanicStatus = iota
	MechanicCalling
	MechanicHeading
	MechanicFixing
	// MechanicFixedStationBrakes means the station brakes work again while the rest is repaired
	MechanicFixedStationBrakes
)

// Breakdown is the failure state of a ride
type Breakdown struct {
	Pending           BreakdownKind
	Current           BreakdownKind
	Mechanic          MechanicStatus
	InspectionStation int8
}

// RequestBreakdown schedules a failure that vehicles act on at the next opportunity
func (r *Ride) RequestBreakdown(kind BreakdownKind) {
	r.Breakdown.Pending = kind
	r.Set(LifecycleBreakdownPending)
}

// BreakDown turns the pending failure into an active one
// It returns false when the ride was already broken down so callers raise the news once
func (r *Ride) BreakDown(station int8) bool {
	if r.Is(LifecycleBrokenDown) {
		return false
	}
	r.Clear(LifecycleBreakdownPending)
	r.Set(LifecycleBrokenDown)
	r.Breakdown.Current = r.Breakdown.Pending
	r.Breakdown.Mechanic = MechanicCalling
	r.Breakdown.InspectionStation = station
	return true
}

// Fix clears every breakdown
func (r *Ride) Fix() {
	r.Clear(LifecycleBreakdownPending | LifecycleBrokenDown)
	r.Breakdown = Breakdown{Pending: BreakdownNone, Current: BreakdownNone}
}

// ActiveBreakdown is the failure vehicles act on this tick, BreakdownNone when healthy
func (r *Ride) ActiveBreakdown() BreakdownKind {
	if !r.Any(LifecycleBreakdownPending | LifecycleBrokenDown) {
		return BreakdownNone
	}
	if r.Breakdown.Pending == BreakdownBrakesFailure && r.Breakdown.Mechanic == MechanicFixedStationBrakes {
		return BreakdownNone
	}
	return r.Breakdown.Pending
}

// BrakesFailed reports whether station and track brakes are out of action
func (r *Ride) BrakesFailed() bool {
	return r.ActiveBreakdown() == BreakdownBrakesFailure
}

// SafetyCutOut reports a pending cut-out that freezes the ride in place
func (r *Ride) SafetyCutOut() bool {
	return r.ActiveBreakdown() == BreakdownSafetyCutOut
}
