// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps features in registration order. LoadAll loads the enabled ones and
// reports which were loaded, so that features like 'spellcount' and 'integrity' can be
// developed and tested in isolation.
package loader
