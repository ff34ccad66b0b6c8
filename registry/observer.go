package registry

import "github.com/teranos/starmatch/galaxy"

// Observers fans every call out to each non-nil member in order.
type Observers []Observer

func (all Observers) ObserveResolve(outcome Outcome) {
	for _, o := range all {
		if o != nil {
			o.ObserveResolve(outcome)
		}
	}
}

func (all Observers) ObserveRegionLearned(name string, region galaxy.RegionCoord) {
	for _, o := range all {
		if o != nil {
			o.ObserveRegionLearned(name, region)
		}
	}
}
