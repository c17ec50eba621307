package duct

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Calculator runs ComputeAll against its own time source. The zero value
// stamps results with the real clock.
type Calculator struct {
	Clock clockwork.Clock
}

func (c Calculator) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}
