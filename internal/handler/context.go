package handler

import "github.com/calmkit/beacon/internal/models"

// SetContext shallow-merges partial into the process-wide context attached to
// every subsequent report. Last write wins per field. Typically called on
// screen navigation, before errors occur.
func (s *Service) SetContext(partial models.ErrorContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentContext = s.currentContext.Merge(partial)
}

// ClearContext resets the process-wide context to empty.
func (s *Service) ClearContext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentContext = models.ErrorContext{}
}

// CurrentContext returns a copy of the process-wide context.
func (s *Service) CurrentContext() models.ErrorContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.currentContext
	if len(out.Metadata) > 0 {
		meta := make(map[string]any, len(out.Metadata))
		for k, v := range out.Metadata {
			meta[k] = v
		}
		out.Metadata = meta
	}
	return out
}
