package engine

import (
	_ "embed"

	"github.com/lixenwraith/coaster/engine/fsm"
	"github.com/lixenwraith/coaster/vehicle"
)

//go:embed transitions.json
var trainTransitions []byte

//go:embed cable_transitions.json
var cableTransitions []byte

type table = fsm.Table[vehicle.Status, *step]

type handler = fsm.Handler[*step]

// newTrainTable registers the handler of every train status and loads the allowed transitions
func newTrainTable(path string) (*table, error) {
	t := fsm.NewTable[vehicle.Status, *step](int(vehicle.StatusCount))

	t.Register(vehicle.StatusMovingToEndOfStation, handler{Name: "moving_to_end_of_station", Update: (*step).movingToEndOfStation})
	t.Register(vehicle.StatusWaitingForPassengers, handler{
		Name:   "waiting_for_passengers",
		Update: (*step).waitingForPassengers,
		OnExit: (*step).leavePlatform,
	})
	t.Register(vehicle.StatusWaitingToDepart, handler{Name: "waiting_to_depart", Update: (*step).waitingToDepart})
	t.Register(vehicle.StatusDeparting, handler{Name: "departing", Update: (*step).departing})
	t.Register(vehicle.StatusTravelling, handler{
		Name:    "travelling",
		Update:  (*step).travelling,
		OnEnter: func(s *step) { s.v.LostTicks = 0 },
	})
	t.Register(vehicle.StatusArriving, handler{Name: "arriving", Update: (*step).arriving})
	t.Register(vehicle.StatusUnloadingPassengers, handler{Name: "unloading_passengers", Update: (*step).unloading})
	t.Register(vehicle.StatusTravellingBoat, handler{Name: "travelling_boat", Update: (*step).travellingBoat})
	t.Register(vehicle.StatusCrashing, handler{Name: "crashing", Update: (*step).crashing})
	t.Register(vehicle.StatusCrashed, handler{Name: "crashed", Update: (*step).crashing})

	t.Register(vehicle.StatusTravellingBumperCars, handler{Name: "travelling_bumper_cars", Update: (*step).bumperCars})
	t.Register(vehicle.StatusSwinging, handler{Name: "swinging", Update: (*step).swinging})
	t.Register(vehicle.StatusSimulatorOperating, handler{Name: "simulator_operating", Update: (*step).simulator})
	t.Register(vehicle.StatusRotating, handler{Name: "rotating", Update: (*step).rotating})
	t.Register(vehicle.StatusFerrisWheelRotating, handler{Name: "ferris_wheel_rotating", Update: (*step).ferrisWheel})
	t.Register(vehicle.StatusSpaceRingsOperating, handler{Name: "space_rings_operating", Update: (*step).spaceRings})
	t.Register(vehicle.StatusTopSpinOperating, handler{Name: "top_spin_operating", Update: (*step).topSpin})
	t.Register(vehicle.StatusHauntedHouseOperating, handler{Name: "haunted_house_operating", Update: (*step).hauntedHouse})
	t.Register(vehicle.StatusCrookedHouseOperating, handler{Name: "crooked_house_operating", Update: (*step).crookedHouse})
	t.Register(vehicle.StatusShowingFilm, handler{Name: "showing_film", Update: (*step).showingFilm})
	t.Register(vehicle.StatusDoingCircusShow, handler{Name: "doing_circus_show", Update: (*step).circusShow})

	t.Register(vehicle.StatusWaitingForCableLift, handler{Name: "waiting_for_cable_lift", Update: (*step).waitingForCableLift})
	t.Register(vehicle.StatusTravellingCableLift, handler{Name: "travelling_cable_lift", Update: (*step).travellingCableLift})

	if err := fsm.LoadConfigAuto(t, path, trainTransitions); err != nil {
		return nil, err
	}
	return t, nil
}

// newCableTable registers the five-state machine of a cable lift chain
func newCableTable(path string) (*table, error) {
	t := fsm.NewTable[vehicle.Status, *step](int(vehicle.StatusCount))

	t.Register(vehicle.StatusMovingToEndOfStation, handler{Name: "moving_to_end_of_station", Update: (*step).cableReturning})
	t.Register(vehicle.StatusWaitingForPassengers, handler{Name: "waiting_for_passengers", Update: func(*step) {}})
	t.Register(vehicle.StatusWaitingToDepart, handler{Name: "waiting_to_depart", Update: (*step).cableAttaching})
	t.Register(vehicle.StatusDeparting, handler{Name: "departing", Update: (*step).cableDeparting})
	t.Register(vehicle.StatusTravelling, handler{Name: "travelling", Update: (*step).cableHauling})
	t.Register(vehicle.StatusArriving, handler{Name: "arriving", Update: (*step).cableArriving})

	if err := fsm.LoadConfigAuto(t, path, cableTransitions); err != nil {
		return nil, err
	}
	return t, nil
}
