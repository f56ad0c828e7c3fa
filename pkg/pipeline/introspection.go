package pipeline

import (
	"github.com/aretw0/introspection"
)

// DriverState exposes internal state for observability.
type DriverState struct {
	Runs      int    `json:"runs"`
	LastRunID string `json:"last_run_id,omitempty"`
	Current   string `json:"current,omitempty"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Locale    string `json:"locale"`
	Service   any    `json:"service"`
}

// State implements introspection.Introspectable.
func (d *Driver) State() any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return DriverState{
		Runs:      d.runs,
		LastRunID: d.lastRunID,
		Current:   d.current,
		Processed: d.processed,
		Failed:    d.failed,
		Locale:    d.bilingual.Locale().String(),
		Service:   d.service.State(),
	}
}

// ComponentType implements introspection.Component.
func (d *Driver) ComponentType() string {
	return "pipeline"
}

var _ introspection.Introspectable = (*Driver)(nil)
var _ introspection.Component = (*Driver)(nil)
