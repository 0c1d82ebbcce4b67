package webserver

// Toast is a one-shot flash message shown on the next rendered page.
type Toast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Toast levels map onto the frontend alert classes.
const (
	ToastSuccess = "success"
	ToastInfo    = "info"
	ToastWarning = "warning"
	ToastError   = "danger"
)

// EnqueueToast appends a flash message to the session.
func (s *Session) EnqueueToast(level, message string) {
	s.mu.Lock()
	s.Toasts = append(s.Toasts, Toast{Level: level, Message: message})
	s.mu.Unlock()
}

// PopToasts drains the queue. Messages survive until a page render
// consumes them, so a POST-redirect-GET keeps its toast exactly once,
// even when two requests carrying the same cookie race to render.
func (s *Session) PopToasts() []Toast {
	s.mu.Lock()
	toasts := s.Toasts
	s.Toasts = nil
	s.mu.Unlock()
	return toasts
}
