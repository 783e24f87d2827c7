package session

import (
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/chat"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/planner"
)

// ActiveSession is the transient working state for one interacting user. It
// is never persisted; the stores are the durable side. Cached plan and
// transcript data always belong to the active profile id; loads replace the
// caches wholesale, never merge.
type ActiveSession struct {
	ProfileID    string           `json:"profile_id"`
	Plans        planner.PlanPair `json:"plans"`
	PlansReady   bool             `json:"plans_ready"`
	Transcript   chat.Transcript  `json:"transcript"`
	Backend      string           `json:"backend"`
	ViewProfiles bool             `json:"view_profiles"`
}

// reset clears everything except the selected backend, which survives every
// transition.
func (s *ActiveSession) reset() {
	s.ProfileID = ""
	s.Plans = planner.PlanPair{}
	s.PlansReady = false
	s.Transcript = nil
	s.ViewProfiles = false
}
