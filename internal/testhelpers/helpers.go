// Package testhelpers provides shared test utilities for the breakdown
// service.
package testhelpers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jonesrussell/script-breakdown/internal/analysis"
)

// SampleScript is a short Arabic scene used across package tests: a cast
// member, a prop (فنجان قهوة), a vehicle, and emotional cues.
const SampleScript = "مشهد 1 - داخلي نهار مقهى\n" +
	"يجلس أحمد في المقهى ويحمل فنجان قهوة ساخن.\n" +
	"يضحك أحمد بصوت عال ثم يصرخ فجأة.\n" +
	"تتوقف سيارة حمراء أمام المقهى.\n"

// StubCollaborator implements the pipeline's collaborator dependency with
// canned per-task responses. The zero value fails every call, driving all
// stages to their fallbacks.
type StubCollaborator struct {
	mu        sync.Mutex
	Responses map[string]json.RawMessage
	Errs      map[string]error
	Calls     []string
}

// Run returns the canned response for the task type.
func (s *StubCollaborator) Run(_ context.Context, _ string, taskType string, _ map[string]any) (json.RawMessage, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, taskType)
	s.mu.Unlock()

	if err, ok := s.Errs[taskType]; ok {
		return nil, err
	}
	if resp, ok := s.Responses[taskType]; ok {
		return resp, nil
	}
	return nil, analysis.ErrUnavailable
}

// CallCount reports how many collaborator calls were made.
func (s *StubCollaborator) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}
