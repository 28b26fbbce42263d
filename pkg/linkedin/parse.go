package linkedin

import (
	"encoding/json"

	"github.com/root-daemon/auto-resume/pkg/schema"
)

// DefaultEmploymentType is used for positions that do not state one.
const DefaultEmploymentType = "Full-time"

// Defaulting table for the profile payload. Anything not listed as Required is optional.
//
//nolint:gochecknoglobals // Schema table
var (
	dateFields = []schema.Field{
		{Name: "year", Required: true},
		{Name: "month", Required: true},
		{Name: "day", Default: schema.Zero},
	}

	positionFields = []schema.Field{
		{Name: "title", Required: true},
		{Name: "companyName", Required: true},
		{Name: "location", Default: schema.EmptyString},
		{Name: "description", Default: schema.EmptyString},
		{Name: "employmentType", Default: json.RawMessage(`"` + DefaultEmploymentType + `"`)},
		{Name: "start", Required: true, Nested: dateFields},
		{Name: "end", Default: schema.Null, Nested: dateFields},
	}

	languageFields = []schema.Field{
		{Name: "name", Required: true},
		{Name: "proficiency", Default: schema.EmptyString},
	}

	skillFields = []schema.Field{
		{Name: "name", Required: true},
		{Name: "proficiency", Default: schema.EmptyString},
		{Name: "hasSkillAssessment", Default: schema.Null},
	}

	certificationFields = []schema.Field{
		{Name: "name", Required: true},
	}

	projectFields = []schema.Field{
		{Name: "title", Required: true},
		{Name: "description", Default: schema.EmptyString},
		{Name: "start", Default: schema.Null, Nested: dateFields},
		{Name: "end", Default: schema.Null, Nested: dateFields},
	}

	projectsFields = []schema.Field{
		{Name: "total", Default: schema.Zero},
		{Name: "items", Default: schema.EmptyList, List: true, Nested: projectFields},
	}

	profileFields = []schema.Field{
		{Name: "id", Default: schema.Zero},
		{Name: "urn", Default: schema.EmptyString},
		{Name: "firstName", Required: true},
		{Name: "lastName", Required: true},
		{Name: "username", Default: schema.EmptyString},
		{Name: "summary", Default: schema.EmptyString},
		{Name: "headline", Default: schema.EmptyString},
		{Name: "isOpenToWork", Default: schema.Null},
		{Name: "isHiring", Default: schema.Null},
		{Name: "languages", Default: schema.EmptyList, List: true, Nested: languageFields},
		{Name: "skills", Default: schema.EmptyList, List: true, Nested: skillFields},
		{Name: "position", Default: schema.EmptyList, List: true, Nested: positionFields},
		{Name: "certifications", Default: schema.EmptyList, List: true, Nested: certificationFields},
		{Name: "projects", Default: schema.Null, Lenient: true, Nested: projectsFields},
	}
)

// ParseProfile validates a profile payload and applies the defaulting table.
func ParseProfile(raw []byte) (profile Profile, err error) {
	var normalized json.RawMessage
	normalized, err = schema.Normalize(raw, profileFields, "profile")
	if err != nil {
		return profile, err
	}

	err = schema.Decode(normalized, &profile, "profile")
	if err != nil {
		return profile, err
	}

	return profile, err
}
