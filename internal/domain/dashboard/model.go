package dashboard

import (
	"errors"

	"github.com/pratik-mahalle/missioncontrol/internal/pkg/validator"
	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

// EnvStatus describes one deployment environment
type EnvStatus struct {
	Status  string `json:"status" yaml:"status"`
	Version string `json:"version" yaml:"version"`
	Uptime  string `json:"uptime" yaml:"uptime"`
}

// Snapshot is a complete stats reading. It is never partially populated.
type Snapshot struct {
	Production       EnvStatus `json:"production" yaml:"production"`
	Staging          EnvStatus `json:"staging" yaml:"staging"`
	BuildSuccessRate float64   `json:"build_success_rate" yaml:"build_success_rate"`
}

// View is what the host renders. While Loading is set every other field is zero.
type View struct {
	Loading         bool      `json:"loading" yaml:"loading"`
	Snapshot        *Snapshot `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	Logs            []string  `json:"logs" yaml:"logs"`
	TriggerInFlight bool      `json:"trigger_in_flight" yaml:"trigger_in_flight"`
}

// SnapshotFromStats converts a wire reading, rejecting incomplete ones
func SnapshotFromStats(stats *client.DashboardStats) (*Snapshot, error) {
	if stats == nil {
		return nil, errors.New("empty stats response")
	}
	if errs := validator.Validate(stats); len(errs) > 0 {
		return nil, errors.New("incomplete stats: " + validator.Join(errs))
	}

	return &Snapshot{
		Production:       envFromWire(stats.Production),
		Staging:          envFromWire(stats.Staging),
		BuildSuccessRate: *stats.BuildSuccessRate,
	}, nil
}

func envFromWire(e *client.EnvStatus) EnvStatus {
	return EnvStatus{Status: e.Status, Version: e.Version, Uptime: e.Uptime}
}
