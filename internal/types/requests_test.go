package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validContent() ResumeContent {
	return ResumeContent{
		Personal: PersonalInfo{
			FullName: "Jordan Rivera",
			Email:    "jordan@example.com",
		},
	}
}

func TestCreateSessionRequestValid(t *testing.T) {
	req := CreateSessionRequest{Content: validContent()}
	assert.NoError(t, req.Validate())
}

func TestCreateSessionRequestBadEmail(t *testing.T) {
	content := validContent()
	content.Personal.Email = "not-an-email"
	req := CreateSessionRequest{Content: content}
	assert.Error(t, req.Validate())
}

func TestUpdateContentRequestSettingsRange(t *testing.T) {
	req := UpdateContentRequest{
		Content:  validContent(),
		Settings: RenderSettings{FontSize: 7},
	}
	assert.Error(t, req.Validate(), "font size below 8pt must fail")

	req.Settings.FontSize = 12
	assert.NoError(t, req.Validate())
}

func TestUpdateContentRequestBadAccent(t *testing.T) {
	req := UpdateContentRequest{
		Content:  validContent(),
		Settings: RenderSettings{AccentColor: "blue-ish"},
	}
	assert.Error(t, req.Validate())
}

func TestLoginRequestRequiresPassword(t *testing.T) {
	req := LoginRequest{}
	assert.Error(t, req.Validate())

	req.Password = "hunter2"
	assert.NoError(t, req.Validate())
}

func TestDefaultRenderSettings(t *testing.T) {
	settings := DefaultRenderSettings()
	assert.Equal(t, 11, settings.FontSize)
	assert.Equal(t, "#1a3c6e", settings.AccentColor)
}
