// Package fingerprint derives short cache keys from the rendering-relevant
// subset of résumé content.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/jonathan/resume-preview/internal/types"
)

// payload is the canonical serialization shape. Field order is fixed by the
// struct definition, so equal inputs always produce identical bytes.
// Volatile editor metadata (UpdatedAt) is deliberately absent.
type payload struct {
	Title      string             `json:"t"`
	Personal   types.PersonalInfo `json:"p"`
	Summary    string             `json:"s"`
	Experience []types.Experience `json:"x"`
	Education  []types.Education  `json:"e"`
	Projects   []types.Project    `json:"j"`
	Skills     []string           `json:"k"`
	TemplateID string             `json:"tpl"`
	FontSize   int                `json:"fs"`
	Accent     string             `json:"ac"`
}

// Fingerprint returns a deterministic short key for the given content and
// presentation settings. Deep-equal inputs always produce equal keys; any
// difference in a rendering-relevant field produces a different key.
//
// The hash is FNV-32a over the canonical JSON. It is a cache key for
// duplicate-render avoidance, not a security boundary, so a fast
// non-cryptographic hash is sufficient.
func Fingerprint(content *types.ResumeContent, settings types.RenderSettings) string {
	if content == nil {
		content = &types.ResumeContent{}
	}

	p := payload{
		Title:      content.Title,
		Personal:   content.Personal,
		Summary:    content.Summary,
		Experience: content.Experience,
		Education:  content.Education,
		Projects:   content.Projects,
		Skills:     content.Skills,
		TemplateID: content.TemplateID,
		FontSize:   settings.FontSize,
		Accent:     settings.AccentColor,
	}

	// Marshaling a tree of plain structs, slices, and strings cannot fail.
	data, err := json.Marshal(p)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", p))
	}

	h := fnv.New32a()
	_, _ = h.Write(data)
	return fmt.Sprintf("%08x", h.Sum32())
}
