package engine

import "math"

const (
	// timelineEnd terminates a frame table
	timelineEnd = 0xFF
	// swingEnd marks a completed swing
	swingEnd = 0x80
)

// Frame tables of the flat rides, built once at start-up
var (
	// swingFrames holds one full swing per amplitude step, signed angle frames
	swingFrames [4][]uint8
	// rotationFrames holds spin-up, one full turn and slow-down over 32 positions
	rotationFrames [3][]uint8
	// simulatorFrames holds one motion-base timeline per film
	simulatorFrames [][]uint8
	// topSpinFrames holds arm and seat frame pairs per intensity
	topSpinFrames [][]uint8
	// spaceRingsFrames holds the ring timeline
	spaceRingsFrames [][]uint8
)

const (
	rotationPositions = 32
	topSpinArm        = 64
	topSpinSeat       = 32
)

func init() {
	for i := range swingFrames {
		swingFrames[i] = swingTable(6*(i+1), 48+16*i)
	}

	up := make([]uint8, 0, 4*rotationPositions)
	for p := 0; p < rotationPositions; p++ {
		for n := 4 - p/8; n > 0; n-- {
			up = append(up, uint8(p))
		}
	}
	full := make([]uint8, 0, rotationPositions)
	for p := 0; p < rotationPositions; p++ {
		full = append(full, uint8(p))
	}
	down := make([]uint8, 0, len(up))
	for p := 0; p < rotationPositions; p++ {
		for n := 1 + p/8; n > 0; n-- {
			down = append(down, uint8(p))
		}
	}
	rotationFrames = [3][]uint8{terminate(up), terminate(full), terminate(down)}

	simulatorFrames = [][]uint8{
		waveTable(8, 1200, 40),
		waveTable(8, 1600, 28),
	}
	spaceRingsFrames = [][]uint8{
		ringTable(rotationPositions, 12),
	}
	topSpinFrames = [][]uint8{
		topSpinTable(1),
		topSpinTable(2),
		topSpinTable(3),
	}
}

func terminate(frames []uint8) []uint8 {
	return append(frames, timelineEnd)
}

// swingTable samples one pendulum period of the given amplitude and length
func swingTable(amplitude, period int) []uint8 {
	out := make([]uint8, 0, period+1)
	for t := 0; t < period; t++ {
		a := math.Round(float64(amplitude) * math.Sin(2*math.Pi*float64(t)/float64(period)))
		out = append(out, uint8(int8(a)))
	}
	return append(out, swingEnd)
}

// waveTable moves a motion base over positions frames with two overlaid waves
func waveTable(positions, length, period int) []uint8 {
	out := make([]uint8, 0, length+1)
	half := float64(positions-1) / 2
	for t := 0; t < length; t++ {
		x := math.Sin(2*math.Pi*float64(t)/float64(period)) * 0.7
		x += math.Sin(2*math.Pi*float64(t)/float64(period*5)) * 0.3
		out = append(out, uint8(math.Round(half+half*x)))
	}
	return terminate(out)
}

// ringTable turns the rings through every position for the given number of turns
func ringTable(positions, turns int) []uint8 {
	out := make([]uint8, 0, positions*turns*2+1)
	for t := 0; t < turns; t++ {
		for p := 0; p < positions; p++ {
			out = append(out, uint8(p), uint8(p))
		}
	}
	return terminate(out)
}

// topSpinTable swings the arm with rising then falling amplitude while the seat tumbles
func topSpinTable(intensity int) []uint8 {
	length := 600 + 200*intensity
	out := make([]uint8, 0, 2*length+2)
	for t := 0; t < length; t++ {
		env := math.Sin(math.Pi * float64(t) / float64(length))
		arm := float64(topSpinArm/2) * env * math.Sin(2*math.Pi*float64(t)/80) * float64(intensity) / 3
		seat := t * intensity / 6
		out = append(out,
			uint8(int(math.Round(arm))+topSpinArm)%topSpinArm,
			uint8(seat%topSpinSeat))
	}
	return append(out, timelineEnd, timelineEnd)
}
