package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-preview/internal/types"
)

func TestValidateResumeJSON_ValidDocument(t *testing.T) {
	doc := []byte(`{
		"personal": {"full_name": "Ada Lovelace", "email": "ada@example.com"},
		"summary": "Engineer.",
		"experience": [
			{"company": "Acme", "role": "Engineer", "start_date": "2020-01", "end_date": "present", "bullets": ["Did things"]}
		],
		"skills": ["Go"],
		"template_id": "classic"
	}`)

	assert.NoError(t, ValidateResumeJSON(doc))
}

func TestValidateResumeJSON_TypesRoundTrip(t *testing.T) {
	// The schema must accept whatever the canonical Go types serialize to.
	content := types.ResumeContent{
		Title:    "My Resume",
		Personal: types.PersonalInfo{FullName: "Ada Lovelace"},
		Experience: []types.Experience{
			{Company: "Acme", Role: "Engineer", StartDate: "2019-03", EndDate: "2021-07"},
		},
		Education:  []types.Education{{School: "Yale"}},
		Projects:   []types.Project{{Name: "Engine", Tech: []string{"Go"}}},
		Skills:     []string{"Go", "SQL"},
		TemplateID: "modern",
	}

	data, err := json.Marshal(content)
	require.NoError(t, err)
	assert.NoError(t, ValidateResumeJSON(data))
}

func TestValidateResumeJSON_MissingPersonal(t *testing.T) {
	err := ValidateResumeJSON([]byte(`{"summary": "no personal section"}`))
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Errors)
	assert.Contains(t, vErr.Error(), "personal")
}

func TestValidateResumeJSON_ExperienceMissingCompany(t *testing.T) {
	doc := []byte(`{
		"personal": {"full_name": "Ada"},
		"experience": [{"role": "Engineer"}]
	}`)

	err := ValidateResumeJSON(doc)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestValidateResumeJSON_BadDateFormat(t *testing.T) {
	doc := []byte(`{
		"personal": {"full_name": "Ada"},
		"experience": [{"company": "Acme", "role": "Engineer", "start_date": "January 2020"}]
	}`)

	assert.Error(t, ValidateResumeJSON(doc))
}

func TestValidateResumeJSON_UnknownTemplate(t *testing.T) {
	doc := []byte(`{"personal": {"full_name": "Ada"}, "template_id": "funky"}`)
	assert.Error(t, ValidateResumeJSON(doc))
}

func TestValidateResumeJSON_UnknownTopLevelField(t *testing.T) {
	doc := []byte(`{"personal": {"full_name": "Ada"}, "favourite_color": "mauve"}`)
	assert.Error(t, ValidateResumeJSON(doc))
}

func TestValidateResumeJSON_NotJSON(t *testing.T) {
	err := ValidateResumeJSON([]byte(`{broken`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
