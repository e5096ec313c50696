package runstore

import (
	"time"

	"github.com/yyyoichi/gengroups"
)

// Run describes one archived run. Result is only filled by LoadRun.
type Run struct {
	ID        string
	CreatedAt time.Time
	Label     string

	Elements int
	Seed     int64
	Params   gengroups.Params

	Iterations int
	State      gengroups.State

	Result *gengroups.Result
}
