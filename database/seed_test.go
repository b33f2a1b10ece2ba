package database

import (
	"testing"

	"github.com/lshigami/fieldsurvey/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSurveysAreWellFormed(t *testing.T) {
	surveys := DemoSurveys()
	require.Len(t, surveys, 2)

	chair := surveys[0]
	assert.Equal(t, "lnc-chair-2025", chair.ID)
	require.Len(t, chair.Questions, 1)
	opts, err := chair.Questions[0].OptionList()
	require.NoError(t, err)
	assert.Equal(t, []string{"Evan McMahon", "Rob Yates", "Wes Benedict", "Jim Ostrowski"}, opts)
	assert.True(t, chair.Questions[0].QuestionType.AllowsOther())

	for _, s := range surveys {
		seen := map[int]bool{}
		for _, q := range s.Questions {
			assert.True(t, q.QuestionType.Valid(), q.ID)
			assert.False(t, seen[q.OrderIndex], "duplicate order index in %s", s.ID)
			seen[q.OrderIndex] = true
			if q.QuestionType.IsChoice() {
				opts, err := q.OptionList()
				require.NoError(t, err)
				assert.NotEmpty(t, opts, q.ID)
			}
		}
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Database{Host: "db", Port: "5432", User: "survey", Password: "pw", Name: "surveys", SSLMode: "disable"})
	assert.Equal(t, "host=db user=survey password=pw dbname=surveys port=5432 sslmode=disable TimeZone=UTC", dsn)
}
