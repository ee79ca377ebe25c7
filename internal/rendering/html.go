// Package rendering renders résumé content into a self-contained HTML
// document ready for capture.
package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-preview/internal/types"
)

// PreviewRootSelector is the CSS selector of the capture root in every
// built-in template. The rasterizer captures this element, not the page.
const PreviewRootSelector = "#resume-preview"

// PreviewWidthPx is the fixed content width of the rendered document,
// matching a Letter page at 96 DPI.
const PreviewWidthPx = 816

// DefaultTemplateID is used when the content does not select a template.
const DefaultTemplateID = "classic"

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// TemplateData represents the data structure passed to the HTML template
type TemplateData struct {
	Title       string
	Personal    types.PersonalInfo
	Summary     string
	Companies   []CompanySection
	Education   []types.Education
	Projects    []types.Project
	Skills      []string
	FontSizePt  int
	AccentColor template.CSS
	WidthPx     int
}

// CompanySection represents a company with one or more roles
type CompanySection struct {
	Company string
	Roles   []RoleSection
}

// RoleSection represents a role within a company with merged date ranges
type RoleSection struct {
	Role       string
	Location   string
	DateRanges string // e.g., "08/2020 - 10/2021, 07/2023 - 10/2023"
	Bullets    []string
}

// dateRange represents a single date range for sorting
type dateRange struct {
	StartDate string
	EndDate   string
}

// RenderHTML renders résumé content into a complete HTML document using the
// template selected by content.TemplateID. The output embeds all styling, so
// a headless browser can load it without further assets.
func RenderHTML(content *types.ResumeContent, settings types.RenderSettings) (string, error) {
	if content == nil {
		return "", &RenderError{Message: "content is nil"}
	}

	tmpl, err := parseTemplate(templateID(content))
	if err != nil {
		return "", err
	}

	data := buildTemplateData(content, settings)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return result.String(), nil
}

// templateID resolves the effective template identifier for the content.
func templateID(content *types.ResumeContent) string {
	if content.TemplateID == "" {
		return DefaultTemplateID
	}
	return content.TemplateID
}

// parseTemplate loads and parses a built-in template by identifier
func parseTemplate(id string) (*template.Template, error) {
	name := id + ".html.tmpl"
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, &TemplateError{
			Message: fmt.Sprintf("unknown template: %s", id),
			Cause:   err,
		}
	}

	tmpl, err := template.New(name).Parse(string(raw))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}

// buildTemplateData constructs the template data structure from inputs
func buildTemplateData(content *types.ResumeContent, settings types.RenderSettings) *TemplateData {
	defaults := types.DefaultRenderSettings()

	fontSize := settings.FontSize
	if fontSize <= 0 {
		fontSize = defaults.FontSize
	}

	accent := settings.AccentColor
	if !hexColorRe.MatchString(accent) {
		accent = defaults.AccentColor
	}

	return &TemplateData{
		Title:       content.Title,
		Personal:    content.Personal,
		Summary:     content.Summary,
		Companies:   groupByCompanyAndRole(content.Experience),
		Education:   content.Education,
		Projects:    content.Projects,
		Skills:      content.Skills,
		FontSizePt:  fontSize,
		AccentColor: template.CSS(accent),
		WidthPx:     PreviewWidthPx,
	}
}

// roleKey is used for grouping entries by company and role
type roleKey struct {
	Company string
	Role    string
}

// groupByCompanyAndRole groups experience entries by Company, then by Role,
// merging date ranges, and orders companies by most recent end date first.
func groupByCompanyAndRole(entries []types.Experience) []CompanySection {
	if len(entries) == 0 {
		return []CompanySection{}
	}

	roleEntries := make(map[roleKey][]types.Experience)
	companyOrder := []string{}
	companyRoleOrder := make(map[string][]string)
	seenCompanies := make(map[string]bool)
	seenRoles := make(map[roleKey]bool)

	for _, entry := range entries {
		key := roleKey{Company: entry.Company, Role: entry.Role}

		if !seenCompanies[entry.Company] {
			seenCompanies[entry.Company] = true
			companyOrder = append(companyOrder, entry.Company)
		}

		if !seenRoles[key] {
			seenRoles[key] = true
			companyRoleOrder[entry.Company] = append(companyRoleOrder[entry.Company], entry.Role)
		}

		roleEntries[key] = append(roleEntries[key], entry)
	}

	companies := make([]CompanySection, 0, len(companyOrder))
	companyEndDates := make(map[string]string)

	for _, companyName := range companyOrder {
		roles := make([]RoleSection, 0)
		latestEndDate := ""

		for _, roleName := range companyRoleOrder[companyName] {
			key := roleKey{Company: companyName, Role: roleName}
			grouped := roleEntries[key]

			var bullets []string
			location := ""
			for _, e := range grouped {
				bullets = append(bullets, e.Bullets...)
				if location == "" {
					location = e.Location
				}
				if e.EndDate > latestEndDate || e.EndDate == "present" {
					latestEndDate = e.EndDate
				}
			}

			roles = append(roles, RoleSection{
				Role:       roleName,
				Location:   location,
				DateRanges: mergeDateRanges(grouped),
				Bullets:    bullets,
			})
		}

		companyEndDates[companyName] = latestEndDate
		companies = append(companies, CompanySection{
			Company: companyName,
			Roles:   roles,
		})
	}

	// Sort companies by end date (most recent first); "present" or empty
	// is treated as the latest possible date.
	sort.SliceStable(companies, func(i, j int) bool {
		endI := companyEndDates[companies[i].Company]
		endJ := companyEndDates[companies[j].Company]

		if endI == "present" || endI == "" {
			return true
		}
		if endJ == "present" || endJ == "" {
			return false
		}

		// YYYY-MM format, lexicographic comparison works
		return endI > endJ
	})

	return companies
}

// mergeDateRanges collects unique date ranges from grouped entries, sorts
// them chronologically, and formats them as a comma-separated string
func mergeDateRanges(entries []types.Experience) string {
	seen := make(map[string]bool)
	ranges := []dateRange{}
	for _, e := range entries {
		if e.StartDate == "" && e.EndDate == "" {
			continue
		}
		key := e.StartDate + "-" + e.EndDate
		if !seen[key] {
			seen[key] = true
			ranges = append(ranges, dateRange{StartDate: e.StartDate, EndDate: e.EndDate})
		}
	}

	if len(ranges) == 0 {
		return ""
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].StartDate < ranges[j].StartDate
	})

	parts := make([]string, len(ranges))
	for i, r := range ranges {
		switch {
		case r.EndDate == "present":
			parts[i] = r.StartDate + " – Present"
		case r.EndDate == "":
			parts[i] = r.StartDate
		default:
			parts[i] = r.StartDate + " – " + r.EndDate
		}
	}

	return strings.Join(parts, ", ")
}
