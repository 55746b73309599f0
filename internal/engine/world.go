// Package engine is a small entity-component-system runtime.
// Games are composed from plugins that register systems against the
// enter/update/exit hooks of a finite state machine and share data through
// resources and entity/component queries.
//
// Storage, queries and resources are backed by an arche world; the package
// adds the plugin and state machine layer plus per-frame events.
package engine

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/generic"
)

// Entity identifies a spawned entity. The zero value is never issued.
type Entity = ecs.Entity

// Time holds frame timing. It is always present as a resource.
type Time struct {
	Delta   float64 // Seconds since the previous frame
	Elapsed float64 // Seconds since the app started
	Frame   uint64  // Frames run so far
}

// World owns resources, entities and their components, and frame events.
type World struct {
	ecs      ecs.World
	clearers []func()
}

// NewWorld creates an empty world with a Time resource.
func NewWorld() *World {
	w := &World{ecs: ecs.NewWorld()}
	Insert(w, &Time{})
	return w
}

// Insert stores a resource, replacing any previous value of the same type.
func Insert[T any](w *World, v *T) {
	res := generic.NewResource[T](&w.ecs)
	if res.Has() {
		res.Remove()
	}
	res.Add(v)
}

// Resource returns the resource of type T.
func Resource[T any](w *World) (*T, bool) {
	res := generic.NewResource[T](&w.ecs)
	if !res.Has() {
		return nil, false
	}
	return res.Get(), true
}

// MustResource returns the resource of type T and panics if it is missing.
// Systems use it for resources their plugin is responsible for inserting.
func MustResource[T any](w *World) *T {
	v, ok := Resource[T](w)
	if !ok {
		panic(fmt.Sprintf("engine: missing resource %T", *new(T)))
	}
	return v
}

// Defaulter is implemented by resources that have a non-zero initial value.
type Defaulter[T any] interface {
	Default() T
}

// InitResource inserts T if absent, using Default() when T provides one.
func InitResource[T any](w *World) *T {
	if v, ok := Resource[T](w); ok {
		return v
	}
	v := new(T)
	if d, ok := any(*v).(Defaulter[T]); ok {
		*v = d.Default()
	}
	Insert(w, v)
	return v
}

// Remove deletes the resource of type T.
func Remove[T any](w *World) {
	res := generic.NewResource[T](&w.ecs)
	if res.Has() {
		res.Remove()
	}
}

// Spawn creates an entity with the given components.
// Components are passed by value and copied into the world's storage.
func (w *World) Spawn(components ...any) Entity {
	if len(components) == 0 {
		return w.ecs.NewEntity()
	}
	comps := make([]ecs.Component, len(components))
	for i, c := range components {
		t := reflect.TypeOf(c)
		ptr := reflect.New(t)
		ptr.Elem().Set(reflect.ValueOf(c))
		comps[i] = ecs.Component{ID: ecs.TypeID(&w.ecs, t), Comp: ptr.Interface()}
	}
	return w.ecs.NewEntityWith(comps...)
}

// Alive reports whether the entity exists.
func (w *World) Alive(e Entity) bool {
	return !e.IsZero() && w.ecs.Alive(e)
}

// Despawn removes an entity and all its components. Unknown entities are ignored.
func (w *World) Despawn(e Entity) {
	if w.Alive(e) {
		w.ecs.RemoveEntity(e)
	}
}

// Len returns the number of live entities.
func (w *World) Len() int {
	q := w.ecs.Query(ecs.All())
	n := q.Count()
	q.Close()
	return n
}

// Attach adds or replaces a component on a live entity.
func Attach[T any](w *World, e Entity, c T) {
	if !w.Alive(e) {
		return
	}
	m := generic.NewMap[T](&w.ecs)
	if m.Has(e) {
		*m.Get(e) = c
		return
	}
	m1 := generic.NewMap1[T](&w.ecs)
	m1.Assign(e, &c)
}

// Detach removes a component from an entity.
func Detach[T any](w *World, e Entity) {
	if !w.Alive(e) {
		return
	}
	m := generic.NewMap[T](&w.ecs)
	if m.Has(e) {
		m1 := generic.NewMap1[T](&w.ecs)
		m1.Remove(e)
	}
}

// Get returns the component T of an entity. The pointer is valid until the
// next spawn, despawn, attach or detach.
func Get[T any](w *World, e Entity) (*T, bool) {
	if !w.Alive(e) {
		return nil, false
	}
	m := generic.NewMap[T](&w.ecs)
	if !m.Has(e) {
		return nil, false
	}
	return m.Get(e), true
}

// Has reports whether the entity carries component T.
func Has[T any](w *World, e Entity) bool {
	if !w.Alive(e) {
		return false
	}
	m := generic.NewMap[T](&w.ecs)
	return m.Has(e)
}

// Query returns the entities holding component T in ascending id order.
// The result is a snapshot, so callers may despawn while ranging over it.
func Query[T any](w *World) []Entity {
	q := generic.NewFilter1[T]().Query(&w.ecs)
	out := make([]Entity, 0, q.Count())
	for q.Next() {
		out = append(out, q.Entity())
	}
	slices.SortFunc(out, func(a, b Entity) int {
		return int(a.ID()) - int(b.ID())
	})
	return out
}

// Single returns the only entity holding T. ok is false when there are zero or several.
func Single[T any](w *World) (Entity, bool) {
	all := Query[T](w)
	if len(all) != 1 {
		return Entity{}, false
	}
	return all[0], true
}

type eventQueue[E any] struct{ items []E }

// Send publishes an event for the rest of the current frame.
func Send[E any](w *World, ev E) {
	q, ok := Resource[eventQueue[E]](w)
	if !ok {
		q = &eventQueue[E]{}
		Insert(w, q)
		w.clearers = append(w.clearers, func() { q.items = q.items[:0] })
	}
	q.items = append(q.items, ev)
}

// Read returns the events of type E sent so far this frame.
func Read[E any](w *World) []E {
	q, ok := Resource[eventQueue[E]](w)
	if !ok {
		return nil
	}
	return slices.Clone(q.items)
}

func (w *World) clearEvents() {
	for _, reset := range w.clearers {
		reset()
	}
}
