package match

import "github.com/matchday/platform/internal/domain"

// AdvanceClock adds seconds of play to the match. The call is a no-op unless
// the match is in a live-equivalent state with the clock running, which is
// how a late-arriving tick racing a pause command is resolved: the check
// happens at apply time, and the caller logs a warning instead of failing.
func AdvanceClock(m *domain.Match, seconds int) (applied bool) {
	if seconds <= 0 {
		return false
	}
	if !m.Status.IsLive() || !m.ClockRunning {
		return false
	}
	m.ElapsedSeconds += seconds
	return true
}
