package dto

import "github.com/EternisAI/kvgate/internal/profiles"

type CreateAgentRequest struct {
	PK                     string   `json:"pk"`
	FirstName              string   `json:"first_name" binding:"required"`
	LastName               string   `json:"last_name" binding:"required"`
	Age                    int      `json:"age" binding:"gte=0"`
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

func (r CreateAgentRequest) ToProfile() profiles.Profile {
	return profiles.Profile{
		PK:                     r.PK,
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Age:                    r.Age,
		Occupation:             r.Occupation,
		Gender:                 r.Gender,
		GenderPronoun:          r.GenderPronoun,
		PublicInfo:             r.PublicInfo,
		BigFive:                r.BigFive,
		MoralValues:            r.MoralValues,
		SchwartzPersonalValues: r.SchwartzPersonalValues,
		PersonalityAndValues:   r.PersonalityAndValues,
		DecisionMakingStyle:    r.DecisionMakingStyle,
		Secret:                 r.Secret,
		ModelID:                r.ModelID,
		MBTI:                   r.MBTI,
		Tag:                    r.Tag,
	}
}
