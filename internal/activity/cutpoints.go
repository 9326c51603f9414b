package activity

import (
	"errors"
	"fmt"
)

// Band is an activity-intensity band.
type Band int

const (
	Sedentary Band = iota
	Light
	Moderate
	Vigorous
)

func (b Band) String() string {
	switch b {
	case Sedentary:
		return "sedentary"
	case Light:
		return "low"
	case Moderate:
		return "moderate"
	case Vigorous:
		return "vigorous"
	}
	return fmt.Sprintf("band(%d)", int(b))
}

// ErrCutpointOrder is returned when cutpoints are not strictly ascending.
var ErrCutpointOrder = errors.New("cutpoints must satisfy low < moderate < vigorous")

// Cutpoints partitions the magnitude axis into four half-open bands:
// sedentary (-inf, Low), low [Low, Moderate), moderate [Moderate, Vigorous), vigorous [Vigorous, +inf).
type Cutpoints struct {
	Low      int
	Moderate int
	Vigorous int
}

// NewCutpoints validates the ordering and returns the cutpoints.
func NewCutpoints(low, moderate, vigorous int) (Cutpoints, error) {
	c := Cutpoints{Low: low, Moderate: moderate, Vigorous: vigorous}
	if err := c.Validate(); err != nil {
		return Cutpoints{}, err
	}
	return c, nil
}

// Validate reports ErrCutpointOrder unless Low < Moderate < Vigorous.
func (c Cutpoints) Validate() error {
	if c.Low < c.Moderate && c.Moderate < c.Vigorous {
		return nil
	}
	return fmt.Errorf("%w (got %d, %d, %d)", ErrCutpointOrder, c.Low, c.Moderate, c.Vigorous)
}

// Classify returns the band a magnitude falls in. The no-reading sentinel is below
// any positive low cutpoint and so lands in Sedentary.
func (c Cutpoints) Classify(magnitude int) Band {
	switch {
	case magnitude < c.Low:
		return Sedentary
	case magnitude < c.Moderate:
		return Light
	case magnitude < c.Vigorous:
		return Moderate
	}
	return Vigorous
}
