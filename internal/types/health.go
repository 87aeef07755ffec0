package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// HealthState is the coarse condition of a collaborator such as the graph
// store or the name index.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)

// severity orders states from best to worst. Unknown states rank as healthy.
var severity = map[HealthState]int{
	HealthStateHealthy:   0,
	HealthStateDegraded:  1,
	HealthStateUnhealthy: 2,
}

func (s HealthState) String() string { return string(s) }

// IsValid reports whether s is one of the three known states.
func (s HealthState) IsValid() bool {
	_, ok := severity[s]
	return ok
}

// WorseThan reports whether s is a more severe state than other.
func (s HealthState) WorseThan(other HealthState) bool {
	return severity[s] > severity[other]
}

func (s *HealthState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if st := HealthState(raw); st.IsValid() {
		*s = st
		return nil
	}
	return fmt.Errorf("invalid health state: %s", raw)
}

// HealthStatus is one observation of a collaborator's health.
type HealthStatus struct {
	State     HealthState `json:"state" yaml:"state"`
	Message   string      `json:"message,omitempty" yaml:"message,omitempty"`
	CheckedAt time.Time   `json:"checked_at" yaml:"checked_at"`
}

// NewHealthStatus stamps an observation with the current time.
func NewHealthStatus(state HealthState, message string) HealthStatus {
	return HealthStatus{State: state, Message: message, CheckedAt: time.Now()}
}

func Healthy(message string) HealthStatus   { return NewHealthStatus(HealthStateHealthy, message) }
func Degraded(message string) HealthStatus  { return NewHealthStatus(HealthStateDegraded, message) }
func Unhealthy(message string) HealthStatus { return NewHealthStatus(HealthStateUnhealthy, message) }

func (h HealthStatus) IsHealthy() bool   { return h.State == HealthStateHealthy }
func (h HealthStatus) IsUnhealthy() bool { return h.State == HealthStateUnhealthy }
