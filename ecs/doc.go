// Package ecs provides ECS adapters for orrery's input listeners.
//
// The primary adapter is [NewDonburiBridge], which forwards every key, mouse
// button and mouse motion event dispatched by an [orrery.Engine] into a
// [Donburi] world as typed events. Subscribe to [InputEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	bridge := ecs.NewDonburiBridge(world)
//	bridge.Attach(engine)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
