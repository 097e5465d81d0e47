// Package supervisor arbitrates conflicts raised by the detector against an
// ordered, data-driven rule set.
package supervisor

import (
	"fmt"
	"sort"

	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/logging"
	"github.com/jonesrussell/script-breakdown/internal/telemetry"
)

// Defaults applied when no rule matches a conflict. Preserved exactly: the
// conservative fallback determines human_review_required outcomes downstream.
const (
	defaultConfidence = 0.5
)

// Supervisor resolves conflicts by first-match over its rule list. The rule
// set is validated once at construction and read-only afterwards; per-run
// decision state lives in Session instances, never on the Supervisor itself.
type Supervisor struct {
	rules     []Rule
	logger    logging.Logger
	telemetry *telemetry.Provider
}

// New creates a supervisor over the given rules. Returns ErrInvalidRules if
// any rule references an unknown condition or action type.
func New(rules []Rule, logger logging.Logger, tp *telemetry.Provider) (*Supervisor, error) {
	if err := validateRules(rules); err != nil {
		return nil, err
	}

	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	return &Supervisor{
		rules:     ordered,
		logger:    logger,
		telemetry: tp,
	}, nil
}

// Session is one pipeline run's decision history, keyed by conflict id. Each
// run owns its own session so concurrent scripts never share state.
type Session struct {
	supervisor *Supervisor
	decisions  map[string]domain.SupervisorDecision
	order      []string
}

// NewSession starts an empty decision history for one pipeline run.
func (s *Supervisor) NewSession() *Session {
	return &Session{
		supervisor: s,
		decisions:  make(map[string]domain.SupervisorDecision),
	}
}

// Resolve arbitrates one conflict and records the decision. Resolving the
// same conflict twice overwrites the entry with the identical result, since
// resolution is a pure function of the conflict and the rule set.
func (sess *Session) Resolve(conflict domain.Conflict) domain.SupervisorDecision {
	decision := sess.supervisor.decide(conflict)
	if _, seen := sess.decisions[conflict.ConflictID]; !seen {
		sess.order = append(sess.order, conflict.ConflictID)
	}
	sess.decisions[conflict.ConflictID] = decision

	if sess.supervisor.telemetry != nil {
		sess.supervisor.telemetry.RecordDecision(string(decision.Resolution))
	}
	return decision
}

// ResolveAll arbitrates every conflict in order and returns the decisions.
func (sess *Session) ResolveAll(conflicts []domain.Conflict) []domain.SupervisorDecision {
	decisions := make([]domain.SupervisorDecision, 0, len(conflicts))
	for _, c := range conflicts {
		decisions = append(decisions, sess.Resolve(c))
	}
	return decisions
}

// Decisions returns the session history in resolution order.
func (sess *Session) Decisions() []domain.SupervisorDecision {
	out := make([]domain.SupervisorDecision, 0, len(sess.order))
	for _, id := range sess.order {
		out = append(out, sess.decisions[id])
	}
	return out
}

// Decision looks up the decision for a conflict id.
func (sess *Session) Decision(conflictID string) (domain.SupervisorDecision, bool) {
	d, ok := sess.decisions[conflictID]
	return d, ok
}

// decide applies the first rule whose condition type matches and whose agents
// are a subset of the conflict's agents. No match yields the conservative
// default: request human review at confidence 0.5.
func (s *Supervisor) decide(conflict domain.Conflict) domain.SupervisorDecision {
	for _, rule := range s.rules {
		if rule.Condition.Type != conflict.Type {
			continue
		}
		if !isSubset(rule.Condition.AgentsInvolved, conflict.AgentsInvolved) {
			continue
		}

		s.logger.Debug("conflict resolved by rule",
			logging.String("conflict_id", conflict.ConflictID),
			logging.Int("rule_priority", rule.Priority),
			logging.String("resolution", string(rule.Action.Type)),
		)
		return domain.SupervisorDecision{
			ConflictID:     conflict.ConflictID,
			AgentsInvolved: conflict.AgentsInvolved,
			ConflictType:   conflict.Type,
			Resolution:     rule.Action.Type,
			FinalDecision:  finalDecision(rule, conflict),
			Confidence:     rule.ConfidenceThreshold,
			Reasoning: []string{
				fmt.Sprintf("matched rule with priority %d for %s", rule.Priority, conflict.Type),
				fmt.Sprintf("applying %s", rule.Action.Type),
			},
		}
	}

	s.logger.Warn("no supervisor rule matched",
		logging.String("conflict_id", conflict.ConflictID),
		logging.String("type", string(conflict.Type)),
	)
	return domain.SupervisorDecision{
		ConflictID:     conflict.ConflictID,
		AgentsInvolved: conflict.AgentsInvolved,
		ConflictType:   conflict.Type,
		Resolution:     domain.ResolutionHumanReview,
		FinalDecision:  map[string]any{"conflict": conflict.Description},
		Confidence:     defaultConfidence,
		Reasoning:      []string{"no matching rule", "human review required"},
	}
}

func finalDecision(rule Rule, conflict domain.Conflict) map[string]any {
	decision := map[string]any{"conflict": conflict.Description}
	for k, v := range rule.Action.Parameters {
		decision[k] = v
	}
	return decision
}

// isSubset reports whether every element of needle appears in haystack.
func isSubset(needle, haystack []string) bool {
	set := make(map[string]bool, len(haystack))
	for _, h := range haystack {
		set[h] = true
	}
	for _, n := range needle {
		if !set[n] {
			return false
		}
	}
	return true
}
