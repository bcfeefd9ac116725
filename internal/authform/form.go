package authform

import "sync"

// Form is the mutable form state. Every setter stores the value as given and then calls each
// subscriber with the new snapshot; that callback is where views re-render.
type Form struct {
	mu          sync.Mutex
	state       State
	nextID      int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn func(State)
}

func NewForm() *Form {
	return Restore(DefaultState())
}

// Restore builds a form holding s, e.g. from fields posted back by the browser.
func Restore(s State) *Form {
	return &Form{state: s}
}

// Subscribe registers fn to run after every mutation. The returned func removes it.
func (f *Form) Subscribe(fn func(State)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.subscribers = append(f.subscribers, subscriber{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, s := range f.subscribers {
			if s.id == id {
				f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Email() string    { return f.State().Email }
func (f *Form) Password() string { return f.State().Password }
func (f *Form) Name() string     { return f.State().Name }
func (f *Form) Role() Role       { return f.State().Role }
func (f *Form) Mode() Mode       { return f.State().Mode }

func (f *Form) SetEmail(v string)    { f.update(func(s *State) { s.Email = v }) }
func (f *Form) SetPassword(v string) { f.update(func(s *State) { s.Password = v }) }
func (f *Form) SetName(v string)     { f.update(func(s *State) { s.Name = v }) }
func (f *Form) SetRole(v Role)       { f.update(func(s *State) { s.Role = v }) }
func (f *Form) SetMode(v Mode)       { f.update(func(s *State) { s.Mode = v }) }

// ToggleMode flips between login and register. Entered values are kept.
func (f *Form) ToggleMode() {
	f.update(func(s *State) { s.Mode = s.Mode.Toggle() })
}

func (f *Form) update(apply func(*State)) {
	f.mu.Lock()
	apply(&f.state)
	snapshot := f.state
	subs := make([]subscriber, len(f.subscribers))
	copy(subs, f.subscribers)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(snapshot)
	}
}
