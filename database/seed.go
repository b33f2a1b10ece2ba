package database

import (
	"encoding/json"
	"fmt"

	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoSurveys returns the surveys installed by SeedDemo.
func DemoSurveys() []model.Survey {
	chairQuestion := "If the National Convention was today, who would you vote for in the First Ballot of the LNC Chair Race?"
	maxThree := 3

	return []model.Survey{
		{
			ID:          "lnc-chair-2025",
			Title:       "LNC Chair Race Poll",
			Description: chairQuestion,
			Active:      true,
			Questions: []model.Question{
				{
					ID:           "lnc-chair-q1",
					QuestionText: chairQuestion,
					QuestionType: model.QuestionSingleChoiceWithOther,
					Options:      jsonOptions("Evan McMahon", "Rob Yates", "Wes Benedict", "Jim Ostrowski"),
					Required:     true,
					OrderIndex:   1,
				},
			},
		},
		{
			ID:          "field-canvass-demo",
			Title:       "Field Canvass Check-in",
			Description: "Contact check and issue priorities collected at the door.",
			Active:      true,
			Questions: []model.Question{
				{
					ID:           "canvass-contact",
					QuestionText: "Is the contact information we have for you correct?",
					QuestionType: model.QuestionContactVerification,
					Required:     true,
					OrderIndex:   1,
				},
				{
					ID:           "canvass-registered",
					QuestionText: "Are you registered to vote at this address?",
					QuestionType: model.QuestionSingleChoice,
					Options:      jsonOptions("Yes", "No"),
					Required:     true,
					OrderIndex:   2,
					FixedOrder:   true,
				},
				{
					ID:            "canvass-issues",
					QuestionText:  "Which issues matter most to you? Pick up to three.",
					QuestionType:  model.QuestionMultiSelectWithOther,
					Options:       jsonOptions("Taxes", "Housing", "Education", "Public safety", "Civil liberties"),
					Required:      true,
					OrderIndex:    3,
					MaxSelections: &maxThree,
				},
				{
					ID:           "canvass-comments",
					QuestionText: "Anything else you would like the campaign to know?",
					QuestionType: model.QuestionFreeText,
					Required:     false,
					OrderIndex:   4,
				},
			},
		},
	}
}

func jsonOptions(labels ...string) datatypes.JSON {
	raw, _ := json.Marshal(labels)
	return datatypes.JSON(raw)
}

// SeedDemo inserts the demo surveys. Existing rows are left untouched.
func SeedDemo(db *gorm.DB) error {
	for _, survey := range DemoSurveys() {
		questions := survey.Questions
		survey.Questions = nil
		for i := range questions {
			questions[i].SurveyID = survey.ID
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&survey)
			if res.Error != nil {
				return fmt.Errorf("failed to seed survey %s: %w", survey.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				log.Info().Str("surveyID", survey.ID).Msg("Demo survey already exists")
				return nil
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&questions).Error; err != nil {
				return fmt.Errorf("failed to seed questions for survey %s: %w", survey.ID, err)
			}
			log.Info().Str("surveyID", survey.ID).Int("questions", len(questions)).Msg("Demo survey seeded")
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
