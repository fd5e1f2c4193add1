package domain

import (
	"fmt"
	"math/rand"
)

const (
	// StudentsPerColor is the number of students of each color in the game box.
	StudentsPerColor = 26
	// IslandCount is the number of islands on the ring at setup.
	IslandCount = 12
	// setupStudentsPerColor students of each color go on the islands before the bag is used.
	setupStudentsPerColor = 2
	// HallCapacity is the number of seats per color in a hall.
	HallCapacity = 10
	// TotalCoins is the size of the coin bank in expert matches.
	TotalCoins = 20
	// NoEntryTiles is the number of no-entry tiles available to the herbalist.
	NoEntryTiles = 4
)

// drawStudents removes n random students from bag. It fails without touching the bag
// when fewer than n students are left.
func drawStudents(bag *Students, rng *rand.Rand, n int) (Students, error) {
	var drawn Students
	if bag.Total() < n {
		return drawn, fmt.Errorf("%w: need %d, have %d", ErrBagEmpty, n, bag.Total())
	}
	for k := 0; k < n; k++ {
		r := rng.Intn(bag.Total())
		for c := range bag {
			if r < bag[c] {
				bag[c]--
				drawn[c]++
				break
			}
			r -= bag[c]
		}
	}
	return drawn, nil
}

// setupStudents returns the shuffled students placed on islands during preparation.
func setupStudents(rng *rand.Rand) []Color {
	out := make([]Color, 0, NumColors*setupStudentsPerColor)
	for _, c := range AllColors() {
		for i := 0; i < setupStudentsPerColor; i++ {
			out = append(out, c)
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
