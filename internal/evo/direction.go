package evo

import "math/rand/v2"

// Direction is one of the eight compass moves. Screen coordinates are used,
// so North decreases y.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	NumDirections
)

var displacement = [NumDirections]Point{
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

var directionNames = [NumDirections]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Delta returns the unit displacement of d. Invalid codes do not move.
func (d Direction) Delta() Point {
	if !d.Valid() {
		return Point{}
	}
	return displacement[d]
}

func (d Direction) Valid() bool { return d < NumDirections }

func (d Direction) String() string {
	if !d.Valid() {
		return "?"
	}
	return directionNames[d]
}

func randomDirection(rng *rand.Rand) Direction {
	return Direction(rng.IntN(int(NumDirections)))
}
