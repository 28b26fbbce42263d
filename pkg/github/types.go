package github

// Profile is the viewer's profile with repositories ranked by star count.
type Profile struct {
	Login        string
	Name         string
	Location     string
	Email        string
	WebsiteURL   string
	Repositories []Repository
}

// Repository is one repository with its languages flattened out of the GraphQL connection.
type Repository struct {
	Name        string
	URL         string
	StarCount   int
	Languages   []string
	Description *string
}

// Generated from the GraphQL response shape of DefaultQuery.
type (
	response struct {
		Viewer viewer `json:"viewer"`
	}

	viewer struct {
		Login        string `json:"login"`
		Name         string `json:"name"`
		Location     string `json:"location"`
		WebsiteURL   string `json:"websiteUrl"`
		Email        string `json:"email"`
		Repositories struct {
			Nodes []repository `json:"nodes"`
		} `json:"repositories"`
	}

	repository struct {
		Name           string  `json:"name"`
		URL            string  `json:"url"`
		Description    *string `json:"description"`
		StargazerCount int     `json:"stargazerCount"`
		Languages      struct {
			Nodes []language `json:"nodes"`
		} `json:"languages"`
	}

	language struct {
		Name string `json:"name"`
	}
)
