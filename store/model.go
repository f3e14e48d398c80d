package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/lixenwraith/coaster/ride"
)

// TestRun is one finished ride test
// The headline figures are columns, the full result is kept as JSON.
type TestRun struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`

	RideID       uint16    `json:"rideId" gorm:"index"`
	Name         string    `json:"name"`
	Finished     time.Time `json:"finished" gorm:"index"`
	MaxSpeed     int32     `json:"maxSpeed"`
	AverageSpeed int32     `json:"averageSpeed"`
	Length       int32     `json:"length"`
	RideTime     uint32    `json:"rideTime"`
	MaxVerticalG int32     `json:"maxVerticalG"`
	MaxLateralG  int32     `json:"maxLateralG"`
	Drops        uint8     `json:"drops"`
	Inversions   uint8     `json:"inversions"`

	Measurements datatypes.JSON `json:"measurements"`
}

// NewTestRun builds a row from a test result
func NewTestRun(res ride.TestResult) (TestRun, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return TestRun{}, err
	}
	return TestRun{
		RideID:       uint16(res.Ride),
		Name:         res.Name,
		Finished:     res.Finished,
		MaxSpeed:     res.MaxSpeed,
		AverageSpeed: res.AverageSpeed,
		Length:       res.Length,
		RideTime:     res.RideTime,
		MaxVerticalG: res.MaxVerticalG,
		MaxLateralG:  res.MaxLateralG,
		Drops:        res.Drops,
		Inversions:   res.Inversions,
		Measurements: datatypes.JSON(raw),
	}, nil
}

// Result decodes the stored measurements
func (t TestRun) Result() (ride.TestResult, error) {
	var res ride.TestResult
	err := json.Unmarshal(t.Measurements, &res)
	return res, err
}

// Models lists every table AutoMigrate creates
var Models = []any{
	&TestRun{},
}
