package profiles

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("agent profile not found")
	ErrInvalidProfile  = errors.New("invalid agent profile")
)

type Profile struct {
	PK                     string   `json:"pk"`
	FirstName              string   `json:"first_name"`
	LastName               string   `json:"last_name"`
	Age                    int      `json:"age"`
	Occupation             string   `json:"occupation"`
	Gender                 string   `json:"gender"`
	GenderPronoun          string   `json:"gender_pronoun"`
	PublicInfo             string   `json:"public_info"`
	BigFive                string   `json:"big_five"`
	MoralValues            []string `json:"moral_values"`
	SchwartzPersonalValues []string `json:"schwartz_personal_values"`
	PersonalityAndValues   string   `json:"personality_and_values"`
	DecisionMakingStyle    string   `json:"decision_making_style"`
	Secret                 string   `json:"secret"`
	ModelID                string   `json:"model_id"`
	MBTI                   string   `json:"mbti"`
	Tag                    string   `json:"tag"`
}

// DisplayName is "first last", the form returned by GET /agents/:id.
func (p Profile) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// normalize fills defaults and validates a profile before it is saved.
func normalize(p Profile) (Profile, error) {
	p.PK = strings.TrimSpace(p.PK)
	if p.PK == "" {
		p.PK = uuid.NewString()
	}
	if strings.ContainsAny(p.PK, " \t\r\n") {
		return Profile{}, ErrInvalidProfile
	}
	if p.MoralValues == nil {
		p.MoralValues = []string{}
	}
	if p.SchwartzPersonalValues == nil {
		p.SchwartzPersonalValues = []string{}
	}
	return p, nil
}
