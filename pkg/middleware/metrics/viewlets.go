package metrics

import "time"

// Viewlets records manager and render activity. It satisfies both
// manager.Observer and expr.RenderObserver.
type Viewlets struct{}

func (Viewlets) Lookup(op, outcome string)           { viewletLookups.WithLabelValues(op, outcome).Inc() }
func (Viewlets) Excluded(region string)              { viewletExcluded.WithLabelValues(region).Inc() }
func (Viewlets) Rendered(op string, d time.Duration) { viewletRender.WithLabelValues(op).Observe(d.Seconds()) }

// ProvideViewlets is the Fx provider for the viewlet observer.
func ProvideViewlets() Viewlets { return Viewlets{} }
