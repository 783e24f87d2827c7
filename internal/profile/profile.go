package profile

import (
	"fmt"
	"strings"
)

// Sex options accepted on profile intake.
var Sexes = []string{"Male", "Female", "Other"}

// ActivityLevels, least to most active.
var ActivityLevels = []string{"Sedentary", "Lightly Active", "Moderately Active", "Very Active", "Extremely Active"}

// DietaryPreferences supported by the planner.
var DietaryPreferences = []string{"No Restrictions", "Vegetarian", "Vegan", "Keto", "Gluten Free", "Low Carb", "Dairy Free"}

// FitnessGoals supported by the planner.
var FitnessGoals = []string{"Lose Weight", "Gain Muscle", "Endurance", "Stay Fit", "Strength Training"}

// HealthConditions selectable on intake.
var HealthConditions = []string{"None", "Diabetes", "Hypertension", "Heart Disease", "Joint Pain", "Obesity", "Other"}

// Profile is a user's health and fitness intake data. A profile is immutable
// once stored; the only update path is full replacement under the same id.
type Profile struct {
	ID                string   `json:"id"`
	Age               int      `json:"age"`
	Weight            float64  `json:"weight"`
	Height            float64  `json:"height"`
	Sex               string   `json:"sex"`
	ActivityLevel     string   `json:"activity_level"`
	DietaryPreference string   `json:"dietary_preferences"`
	FitnessGoal       string   `json:"fitness_goals"`
	HealthConditions  []string `json:"health_conditions"`
	TimeAvailable     int      `json:"time_available"`
}

// Validate checks every field against its intake range. The session core
// assumes it never sees an invalid profile, so the surface must call this
// before anything else does.
func (p Profile) Validate() error {
	if p.Age < 10 || p.Age > 100 {
		return fmt.Errorf("age must be between 10 and 100, got %d", p.Age)
	}
	if p.Weight < 20 || p.Weight > 300 {
		return fmt.Errorf("weight must be between 20 and 300 kg, got %.1f", p.Weight)
	}
	if p.Height < 100 || p.Height > 250 {
		return fmt.Errorf("height must be between 100 and 250 cm, got %.1f", p.Height)
	}
	if !contains(Sexes, p.Sex) {
		return fmt.Errorf("invalid sex %q", p.Sex)
	}
	if !contains(ActivityLevels, p.ActivityLevel) {
		return fmt.Errorf("invalid activity level %q", p.ActivityLevel)
	}
	if !contains(DietaryPreferences, p.DietaryPreference) {
		return fmt.Errorf("invalid dietary preference %q", p.DietaryPreference)
	}
	if !contains(FitnessGoals, p.FitnessGoal) {
		return fmt.Errorf("invalid fitness goal %q", p.FitnessGoal)
	}
	if len(p.HealthConditions) == 0 {
		return fmt.Errorf("at least one health condition is required (use \"None\")")
	}
	for _, c := range p.HealthConditions {
		if !contains(HealthConditions, c) {
			return fmt.Errorf("invalid health condition %q", c)
		}
	}
	if p.TimeAvailable < 15 || p.TimeAvailable > 120 {
		return fmt.Errorf("time available must be between 15 and 120 minutes, got %d", p.TimeAvailable)
	}
	if p.TimeAvailable%15 != 0 {
		return fmt.Errorf("time available must be a multiple of 15 minutes, got %d", p.TimeAvailable)
	}
	return nil
}

// Summary renders the profile as the textual block shared by both plan
// generation prompts.
func (p Profile) Summary() string {
	return fmt.Sprintf(`Age: %d
Weight: %.1fkg
Height: %.1fcm
Sex: %s
Activity Level: %s
Dietary Preferences: %s
Fitness Goals: %s
Health Conditions: %s
Time Available: %d minutes per day`,
		p.Age, p.Weight, p.Height, p.Sex, p.ActivityLevel,
		p.DietaryPreference, p.FitnessGoal,
		strings.Join(p.HealthConditions, ", "), p.TimeAvailable)
}

// Label is the short one-line description used in profile listings.
func (p Profile) Label() string {
	return fmt.Sprintf("%dyo, %s, %.0fkg | Goals: %s | Diet: %s",
		p.Age, p.Sex, p.Weight, p.FitnessGoal, p.DietaryPreference)
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
