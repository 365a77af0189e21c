package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitBelowFloor = 1 // analysis ran but scored under --min-score
	ExitError      = 2
)

// BelowFloorError reports a completed analysis that scored under the
// requested minimum.
type BelowFloorError struct {
	Score float64
	Floor float64
}

func (e *BelowFloorError) Error() string {
	return fmt.Sprintf("score %.2f is below the minimum %.2f", e.Score, e.Floor)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var floorErr *BelowFloorError
		if errors.As(err, &floorErr) {
			os.Exit(ExitBelowFloor)
		}
		os.Exit(ExitError)
	}
}
