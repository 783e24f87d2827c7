package planner

// DietPlan is the dietary half of a generated plan pair. MealPlan carries the
// model output; the other fields are fixed framing text.
type DietPlan struct {
	WhyThisPlanWorks        string `json:"why_this_plan_works"`
	MealPlan                string `json:"meal_plan"`
	ImportantConsiderations string `json:"important_considerations"`
}

// FitnessPlan is the fitness half of a generated plan pair. Routine carries
// the model output.
type FitnessPlan struct {
	Goals   string `json:"goals"`
	Routine string `json:"routine"`
	Tips    string `json:"tips"`
}

// PlanPair bundles the diet and fitness plans generated for one profile.
// At most one pair exists per profile id; regeneration overwrites it.
type PlanPair struct {
	Diet    DietPlan    `json:"dietary_plan"`
	Fitness FitnessPlan `json:"fitness_plan"`
}

// Empty reports whether the pair holds no generated content.
func (p PlanPair) Empty() bool {
	return p.Diet.MealPlan == "" && p.Fitness.Routine == ""
}
