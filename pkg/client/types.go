package client

// DashboardStats is the wire shape of GET /api/dashboard/stats.
// Pointer fields let callers tell a missing section from a zero value.
type DashboardStats struct {
	Production       *EnvStatus `json:"production" yaml:"production" validate:"required"`
	Staging          *EnvStatus `json:"staging" yaml:"staging" validate:"required"`
	BuildSuccessRate *float64   `json:"build_success_rate" yaml:"build_success_rate" validate:"required,gte=0,lte=100"`
}

// EnvStatus describes one deployment environment
type EnvStatus struct {
	Status  string `json:"status" yaml:"status" validate:"required"`
	Version string `json:"version" yaml:"version"`
	Uptime  string `json:"uptime" yaml:"uptime"`
}

// LogsResponse is the wire shape of GET /api/dashboard/logs
type LogsResponse struct {
	Logs *[]string `json:"logs"`
}
