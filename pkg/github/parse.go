package github

import (
	"encoding/json"
	"fmt"

	"github.com/root-daemon/auto-resume/pkg/schema"
)

// Defaulting table for the GraphQL `data` object.
//
//nolint:gochecknoglobals // Schema table
var (
	languageFields = []schema.Field{
		{Name: "name", Required: true},
	}

	repositoryFields = []schema.Field{
		{Name: "name", Required: true},
		{Name: "url", Required: true},
		{Name: "stargazerCount", Required: true},
		{Name: "description", Default: schema.Null},
		{Name: "languages", Default: json.RawMessage(`{"nodes":[]}`), Nested: []schema.Field{
			{Name: "nodes", Default: schema.EmptyList, List: true, Nested: languageFields},
		}},
	}

	viewerFields = []schema.Field{
		{Name: "login", Default: schema.EmptyString},
		{Name: "name", Default: schema.EmptyString},
		{Name: "location", Default: schema.EmptyString},
		{Name: "websiteUrl", Default: schema.EmptyString},
		{Name: "email", Default: schema.EmptyString},
		{Name: "repositories", Default: json.RawMessage(`{"nodes":[]}`), Nested: []schema.Field{
			{Name: "nodes", Default: schema.EmptyList, List: true, Nested: repositoryFields},
		}},
	}

	responseFields = []schema.Field{
		{Name: "viewer", Required: true, Nested: viewerFields},
	}
)

// ParseProfile validates the GraphQL `data` object and flattens its connections.
func ParseProfile(raw []byte) (profile Profile, err error) {
	var normalized json.RawMessage
	normalized, err = schema.Normalize(raw, responseFields, "data")
	if err != nil {
		return profile, err
	}

	var resp response
	err = schema.Decode(normalized, &resp, "data")
	if err != nil {
		return profile, err
	}

	v := resp.Viewer
	profile = Profile{
		Login:        v.Login,
		Name:         v.Name,
		Location:     v.Location,
		Email:        v.Email,
		WebsiteURL:   v.WebsiteURL,
		Repositories: make([]Repository, 0, len(v.Repositories.Nodes)),
	}

	for i, node := range v.Repositories.Nodes {
		if node.StargazerCount < 0 {
			err = &schema.ValidationError{
				Path:    fmt.Sprintf("data.viewer.repositories.nodes[%d].stargazerCount", i),
				Message: "star count must not be negative",
			}
			return profile, err
		}

		languages := make([]string, 0, len(node.Languages.Nodes))
		for _, lang := range node.Languages.Nodes {
			languages = append(languages, lang.Name)
		}

		profile.Repositories = append(profile.Repositories, Repository{
			Name:        node.Name,
			URL:         node.URL,
			StarCount:   node.StargazerCount,
			Languages:   languages,
			Description: node.Description,
		})
	}

	return profile, err
}
