package engine

import (
	"errors"
	"reflect"
	"testing"
)

type phase int

const (
	phaseBoot phase = iota
	phaseMenu
	phaseRestart
	phasePlay
)

type position struct{ X, Y float64 }
type marker struct{}

type counter struct{ N int }

type tuned struct{ Speed float64 }

func (tuned) Default() tuned { return tuned{Speed: 200} }

func TestResources(t *testing.T) {
	w := NewWorld()

	if _, ok := Resource[counter](w); ok {
		t.Fatal("resource should be absent before insert")
	}
	Insert(w, &counter{N: 3})
	c := MustResource[counter](w)
	c.N++
	if MustResource[counter](w).N != 4 {
		t.Error("resource pointer should be shared")
	}

	if InitResource[tuned](w).Speed != 200 {
		t.Error("InitResource should use Default()")
	}
	if InitResource[counter](w).N != 4 {
		t.Error("InitResource should keep an existing resource")
	}

	Remove[counter](w)
	if _, ok := Resource[counter](w); ok {
		t.Error("resource should be removed")
	}
	if MustResource[Time](w) == nil {
		t.Error("Time resource should always exist")
	}
}

func TestMustResourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustResource should panic on a missing resource")
		}
	}()
	MustResource[counter](NewWorld())
}

func TestEntities(t *testing.T) {
	w := NewWorld()
	a := w.Spawn(position{X: 1}, marker{})
	b := w.Spawn(position{X: 2})

	if got := Query[position](w); !reflect.DeepEqual(got, []Entity{a, b}) {
		t.Errorf("Query[position] = %v", got)
	}
	if got, ok := Single[marker](w); !ok || got != a {
		t.Errorf("Single[marker] = %v, %v", got, ok)
	}

	p, ok := Get[position](w, b)
	if !ok {
		t.Fatal("component missing")
	}
	p.Y = 7
	if p2, _ := Get[position](w, b); p2.Y != 7 {
		t.Error("components should be mutable in place")
	}

	Attach(w, b, marker{})
	if _, ok := Single[marker](w); ok {
		t.Error("Single should fail with two matches")
	}
	Detach[marker](w, b)
	if Has[marker](w, b) {
		t.Error("Detach should remove the component")
	}

	w.Despawn(a)
	if w.Alive(a) || Has[position](w, a) || w.Len() != 1 {
		t.Error("despawned entity should lose all components")
	}
	Attach(w, a, marker{})
	if Has[marker](w, a) {
		t.Error("Attach on a dead entity should be ignored")
	}
	w.Despawn(a) // no-op

	c := w.Spawn(position{X: 3})
	if w.Alive(a) || !w.Alive(c) {
		t.Error("a recycled slot should not revive the stale handle")
	}
	if w.Alive(Entity{}) || Has[position](w, Entity{}) {
		t.Error("the zero entity should never be alive")
	}
	for _, e := range Query[position](w) {
		w.Despawn(e)
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d after despawning every query result", w.Len())
	}
}

func TestSpawnWithoutComponents(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	if !w.Alive(e) || w.Len() != 1 {
		t.Error("bare entity should be alive")
	}
	Attach(w, e, position{X: 5})
	Attach(w, e, position{X: 6})
	if p, ok := Get[position](w, e); !ok || p.X != 6 {
		t.Errorf("Attach should replace an existing component, got %+v", p)
	}
}

func TestEventsForUnsentType(t *testing.T) {
	w := NewWorld()
	if got := Read[string](w); len(got) != 0 {
		t.Errorf("Read before any Send = %v", got)
	}
}

func TestEventsLiveForOneFrame(t *testing.T) {
	app := NewApp(phaseBoot)
	var seen []int
	app.AddSystem(
		func(w *World) { Send(w, 42) },
		func(w *World) { seen = append(seen, Read[int](w)...) },
	)

	if err := app.Update(0.1); err != nil {
		t.Fatal(err)
	}
	if err := app.Update(0.1); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seen, []int{42, 42}) {
		t.Errorf("each frame should see only its own event, got %v", seen)
	}
}

func TestStateHooksOrder(t *testing.T) {
	app := NewApp(phaseBoot)
	var log []string
	rec := func(s string) System { return func(*World) { log = append(log, s) } }

	app.OnEnter(phaseBoot, rec("enter boot"))
	app.OnUpdate(phaseBoot, rec("update boot"), func(w *World) {
		if err := MustResource[State[phase]](w).SetNext(phaseMenu); err != nil {
			t.Error(err)
		}
	})
	app.OnExit(phaseBoot, rec("exit boot"))
	app.OnEnter(phaseMenu, rec("enter menu"))
	app.OnUpdate(phaseMenu, rec("update menu"))

	if err := app.Update(0.016); err != nil {
		t.Fatal(err)
	}
	if err := app.Update(0.016); err != nil {
		t.Fatal(err)
	}

	expected := []string{"enter boot", "update boot", "exit boot", "enter menu", "update menu"}
	if !reflect.DeepEqual(log, expected) {
		t.Errorf("hook order = %v, expected %v", log, expected)
	}
	if app.State() != phaseMenu {
		t.Errorf("state = %v, expected menu", app.State())
	}

	tm := MustResource[Time](app.World())
	if tm.Frame != 2 || tm.Delta != 0.016 {
		t.Errorf("time = %+v", tm)
	}
}

func TestChainedTransitions(t *testing.T) {
	app := NewApp(phaseMenu)
	app.OnUpdate(phaseMenu, func(w *World) {
		MustResource[State[phase]](w).Set(phaseRestart)
	})
	app.OnEnter(phaseRestart, func(w *World) {
		MustResource[State[phase]](w).Set(phasePlay)
	})

	if err := app.Update(0.1); err != nil {
		t.Fatal(err)
	}
	if app.State() != phasePlay {
		t.Errorf("restart should chain into play within the frame, got %v", app.State())
	}
}

func TestSetNextTwice(t *testing.T) {
	st := &State[phase]{current: phaseBoot}
	if err := st.SetNext(phaseMenu); err != nil {
		t.Fatal(err)
	}
	if err := st.SetNext(phasePlay); !errors.Is(err, ErrTransitionQueued) {
		t.Errorf("second SetNext error = %v, expected ErrTransitionQueued", err)
	}
	if next, ok := st.Pending(); !ok || next != phaseMenu {
		t.Errorf("pending = %v, %v", next, ok)
	}
}

func TestTransitionLoop(t *testing.T) {
	app := NewApp(phaseMenu)
	bounce := func(to phase) System {
		return func(w *World) { MustResource[State[phase]](w).Set(to) }
	}
	app.OnEnter(phaseMenu, bounce(phasePlay))
	app.OnEnter(phasePlay, bounce(phaseMenu))

	if err := app.Update(0.1); !errors.Is(err, ErrTransitionLoop) {
		t.Errorf("Update error = %v, expected ErrTransitionLoop", err)
	}
}

func TestPluginFunc(t *testing.T) {
	app := NewApp(phaseBoot)
	app.AddPlugin(PluginFunc[phase](func(a *App[phase]) {
		InitResource[counter](a.World())
		a.AddSystem(func(w *World) { MustResource[counter](w).N++ })
	}))
	for i := 0; i < 3; i++ {
		if err := app.Update(0.1); err != nil {
			t.Fatal(err)
		}
	}
	if MustResource[counter](app.World()).N != 3 {
		t.Error("plugin system should run every frame")
	}
}
