package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-preview/internal/types"
)

func fullContent() *types.ResumeContent {
	return &types.ResumeContent{
		Title: "Staff Engineer Resume",
		Personal: types.PersonalInfo{
			FullName: "Grace Hopper",
			JobTitle: "Staff Engineer",
			Email:    "grace@example.com",
			Phone:    "555-0100",
			Location: "Arlington, VA",
		},
		Summary: "Systems engineer focused on compilers and reliability.",
		Experience: []types.Experience{
			{Company: "Eckert-Mauchly", Role: "Engineer", StartDate: "2018-06", EndDate: "2020-08", Bullets: []string{"Shipped the linker", "Cut build times 40%"}},
			{Company: "Remington Rand", Role: "Senior Engineer", StartDate: "2020-09", EndDate: "present", Bullets: []string{"Led compiler team"}},
		},
		Education: []types.Education{
			{School: "Yale University", Degree: "PhD", Field: "Mathematics", EndDate: "1934-06"},
		},
		Projects: []types.Project{
			{Name: "FLOW-MATIC", Description: "English-like data processing language."},
		},
		Skills:     []string{"Go", "Compilers", "Distributed Systems"},
		TemplateID: "classic",
	}
}

func TestRenderHTML_ContainsAllSections(t *testing.T) {
	html, err := RenderHTML(fullContent(), types.DefaultRenderSettings())
	require.NoError(t, err)

	assert.Contains(t, html, "Grace Hopper")
	assert.Contains(t, html, "grace@example.com")
	assert.Contains(t, html, "Systems engineer focused on compilers")
	assert.Contains(t, html, "Shipped the linker")
	assert.Contains(t, html, "Yale University")
	assert.Contains(t, html, "FLOW-MATIC")
	assert.Contains(t, html, "Distributed Systems")
	assert.Contains(t, html, `id="resume-preview"`)
}

func TestRenderHTML_SettingsApplied(t *testing.T) {
	html, err := RenderHTML(fullContent(), types.RenderSettings{FontSize: 13, AccentColor: "#aa0000"})
	require.NoError(t, err)

	assert.Contains(t, html, "13pt")
	assert.Contains(t, html, "#aa0000")
}

func TestRenderHTML_InvalidAccentFallsBackToDefault(t *testing.T) {
	html, err := RenderHTML(fullContent(), types.RenderSettings{FontSize: 11, AccentColor: "red; } body { display: none"})
	require.NoError(t, err)

	assert.NotContains(t, html, "display: none")
	assert.Contains(t, html, types.DefaultRenderSettings().AccentColor)
}

func TestRenderHTML_EscapesUserContent(t *testing.T) {
	content := fullContent()
	content.Summary = `<script>alert("xss")</script>`

	html, err := RenderHTML(content, types.DefaultRenderSettings())
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
}

func TestRenderHTML_UnknownTemplate(t *testing.T) {
	content := fullContent()
	content.TemplateID = "nonexistent"

	_, err := RenderHTML(content, types.DefaultRenderSettings())
	require.Error(t, err)

	var tmplErr *TemplateError
	assert.ErrorAs(t, err, &tmplErr)
}

func TestRenderHTML_DefaultTemplateWhenUnset(t *testing.T) {
	content := fullContent()
	content.TemplateID = ""

	html, err := RenderHTML(content, types.DefaultRenderSettings())
	require.NoError(t, err)
	assert.Contains(t, html, `id="resume-preview"`)
}

func TestRenderHTML_ModernTemplate(t *testing.T) {
	content := fullContent()
	content.TemplateID = "modern"

	html, err := RenderHTML(content, types.DefaultRenderSettings())
	require.NoError(t, err)
	assert.Contains(t, html, "Grace Hopper")
	assert.Contains(t, html, "banner")
}

func TestRenderHTML_NilContent(t *testing.T) {
	_, err := RenderHTML(nil, types.DefaultRenderSettings())
	assert.Error(t, err)
}

func TestGroupByCompanyAndRole_MergesRolesPerCompany(t *testing.T) {
	entries := []types.Experience{
		{Company: "Acme", Role: "Engineer", StartDate: "2019-01", EndDate: "2020-01", Bullets: []string{"a"}},
		{Company: "Acme", Role: "Senior Engineer", StartDate: "2020-02", EndDate: "2021-01", Bullets: []string{"b"}},
		{Company: "Globex", Role: "Lead", StartDate: "2021-02", EndDate: "present", Bullets: []string{"c"}},
	}

	sections := groupByCompanyAndRole(entries)
	require.Len(t, sections, 2)

	// Globex is current, so it sorts first.
	assert.Equal(t, "Globex", sections[0].Company)
	assert.Equal(t, "Acme", sections[1].Company)
	assert.Len(t, sections[1].Roles, 2)
}

func TestGroupByCompanyAndRole_MergesDateRangesForRepeatedRole(t *testing.T) {
	entries := []types.Experience{
		{Company: "Acme", Role: "Engineer", StartDate: "2018-01", EndDate: "2019-01", Bullets: []string{"first stint"}},
		{Company: "Acme", Role: "Engineer", StartDate: "2021-01", EndDate: "2022-01", Bullets: []string{"second stint"}},
	}

	sections := groupByCompanyAndRole(entries)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Roles, 1)

	role := sections[0].Roles[0]
	assert.Equal(t, "2018-01 – 2019-01, 2021-01 – 2022-01", role.DateRanges)
	assert.Equal(t, []string{"first stint", "second stint"}, role.Bullets)
}

func TestMergeDateRanges_PresentFormatting(t *testing.T) {
	got := mergeDateRanges([]types.Experience{
		{StartDate: "2020-01", EndDate: "present"},
	})
	assert.Equal(t, "2020-01 – Present", got)
}

func TestMergeDateRanges_EmptyEntries(t *testing.T) {
	assert.Empty(t, mergeDateRanges([]types.Experience{{}, {}}))
}

func TestVerifyPreviewRoot_Valid(t *testing.T) {
	html, err := RenderHTML(fullContent(), types.DefaultRenderSettings())
	require.NoError(t, err)
	assert.NoError(t, VerifyPreviewRoot(html))
}

func TestVerifyPreviewRoot_Missing(t *testing.T) {
	err := VerifyPreviewRoot("<html><body><div>no root</div></body></html>")
	assert.Error(t, err)
}

func TestVerifyPreviewRoot_EmptyRoot(t *testing.T) {
	err := VerifyPreviewRoot(`<html><body><div id="resume-preview">   </div></body></html>`)
	assert.Error(t, err)
}

func TestExtractFullName_FromHeading(t *testing.T) {
	html, err := RenderHTML(fullContent(), types.DefaultRenderSettings())
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", ExtractFullName(html))
}

func TestExtractFullName_FallsBackToTitle(t *testing.T) {
	name := ExtractFullName("<html><head><title>My Resume</title></head><body></body></html>")
	assert.Equal(t, "My Resume", name)
}

func TestRenderHTML_MinimalContent(t *testing.T) {
	content := &types.ResumeContent{Personal: types.PersonalInfo{FullName: "Solo Name"}}

	html, err := RenderHTML(content, types.RenderSettings{})
	require.NoError(t, err)
	assert.Contains(t, html, "Solo Name")
	assert.True(t, strings.Contains(html, "Summary") == false, "empty sections should be omitted")
}
