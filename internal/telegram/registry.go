package telegram

import "sync"

// Event is one user input delivered to a suspended prompt: either a
// callback selection or a free-text message.
type Event struct {
	Data       string
	Text       string
	CallbackID string
}

type msgKey struct {
	chatID    int64
	messageID int64
}

type waiter struct {
	userID int64
	ch     chan Event
}

// Registry holds the resumption handles for suspended prompts. Callback
// prompts are keyed by the message carrying the keyboard, text prompts by
// chat (one outstanding text prompt per chat). Registering over an existing
// handle cancels it: a prompt instance never has two outstanding waits.
//
// Dispatch only delivers events from the user who opened the prompt; that is
// the whole of the response authorization.
type Registry struct {
	mu        sync.Mutex
	callbacks map[msgKey]*waiter
	texts     map[int64]*waiter
}

func NewRegistry() *Registry {
	return &Registry{
		callbacks: make(map[msgKey]*waiter),
		texts:     make(map[int64]*waiter),
	}
}

// AwaitCallback registers a handle for callback events on one message.
// The returned cancel must be called when the prompt resolves or times out.
func (r *Registry) AwaitCallback(chatID, messageID, userID int64) (<-chan Event, func()) {
	key := msgKey{chatID, messageID}
	w := &waiter{userID: userID, ch: make(chan Event, 8)}

	r.mu.Lock()
	if old, ok := r.callbacks[key]; ok {
		close(old.ch)
	}
	r.callbacks[key] = w
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if r.callbacks[key] == w {
			delete(r.callbacks, key)
		}
		r.mu.Unlock()
	}
	return w.ch, cancel
}

// AwaitText registers a handle for the next text message in a chat.
func (r *Registry) AwaitText(chatID, userID int64) (<-chan Event, func()) {
	w := &waiter{userID: userID, ch: make(chan Event, 1)}

	r.mu.Lock()
	if old, ok := r.texts[chatID]; ok {
		close(old.ch)
	}
	r.texts[chatID] = w
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if r.texts[chatID] == w {
			delete(r.texts, chatID)
		}
		r.mu.Unlock()
	}
	return w.ch, cancel
}

// DispatchCallback routes a callback event to the waiter for its message.
// Returns false when no prompt is waiting or the sender is not the prompt
// owner.
func (r *Registry) DispatchCallback(chatID, messageID, fromID int64, ev Event) bool {
	r.mu.Lock()
	w, ok := r.callbacks[msgKey{chatID, messageID}]
	r.mu.Unlock()

	if !ok || w.userID != fromID {
		return false
	}

	select {
	case w.ch <- ev:
		return true
	default:
		return false
	}
}

// DispatchText routes a plain message to the chat's text waiter, if any.
func (r *Registry) DispatchText(chatID, fromID int64, ev Event) bool {
	r.mu.Lock()
	w, ok := r.texts[chatID]
	r.mu.Unlock()

	if !ok || w.userID != fromID {
		return false
	}

	select {
	case w.ch <- ev:
		return true
	default:
		return false
	}
}
