// Package events provides the in-process event bus that feeds the synchronizer.
//
// The bus keeps exactly one callback per event name. Emit invokes that callback
// synchronously on the caller's goroutine, so callbacks for one name observe
// occurrences in emission order.
//
// # Usage
//
//	bus := events.NewBus()
//	bus.Subscribe(events.NameA, func() { handled++ })
//	bus.Emit(events.NameA)
package events
