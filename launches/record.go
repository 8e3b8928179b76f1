package launches

// Outcome is the binary launch result stored in the Class column.
type Outcome int

const (
	Failure Outcome = 0
	Success Outcome = 1
)

// Label returns the pie chart label for the outcome.
func (o Outcome) Label() string {
	if o == Success {
		return "Success"
	}
	return "Failure"
}

// LaunchRecord is one row of the launch table. Records are never modified after load.
type LaunchRecord struct {
	FlightNumber   int     `json:"flight_number,omitempty"`
	PayloadMass    float64 `json:"payload_mass"`
	LaunchSite     string  `json:"launch_site"`
	BoosterVersion string  `json:"booster_version"`
	Orbit          string  `json:"orbit,omitempty"`
	Class          Outcome `json:"class"`
}
