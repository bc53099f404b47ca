// Package interaction drives marker selection from pointer events.
//
// A [Session] owns the two marker populations and two explicit state
// machines:
//
//	Hover:  NoHover <-> Hovering(marker)          (every pointer move)
//	Click:  Idle -> MarkerLocked(marker)           (click on a quake or city)
//	        Idle -> CityGroupLocked                (click on empty map area)
//	        MarkerLocked | CityGroupLocked -> Idle (any click)
//
// Invariants after every event: at most one marker is Selected and at most
// one marker is Clicked. The hover target and the click target share the
// Selected flag, so locking a marker also makes it the hover target.
//
// Sessions are not safe for concurrent use. Callers deliver events one at a
// time, in order.
package interaction
