package linkedin

import "golang.org/x/text/cases"

// Date is a LinkedIn year/month/day triple. Year 0 marks an ongoing end date.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Position is one experience entry.
type Position struct {
	Title          string `json:"title"`
	CompanyName    string `json:"companyName"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	EmploymentType string `json:"employmentType"`
	Start          Date   `json:"start"`
	End            *Date  `json:"end"`
}

// Ongoing reports whether the position has no end date.
func (p Position) Ongoing() (ongoing bool) {
	ongoing = p.End == nil || p.End.Year == 0
	return ongoing
}

// Language is a spoken language with its proficiency code.
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Skill is an endorsed skill.
type Skill struct {
	Name               string `json:"name"`
	Proficiency        string `json:"proficiency"`
	HasSkillAssessment *bool  `json:"hasSkillAssessment"`
}

// Certification is a license or certificate.
type Certification struct {
	Name string `json:"name"`
}

// Project is a LinkedIn project whose description may use the "- " bullet convention.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       *Date  `json:"start"`
	End         *Date  `json:"end"`
}

// Projects is the projects section. It is nil on a profile without one.
type Projects struct {
	Total int       `json:"total"`
	Items []Project `json:"items"`
}

// Profile is the validated LinkedIn profile.
type Profile struct {
	ID             int64           `json:"id"`
	URN            string          `json:"urn"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Username       string          `json:"username"`
	Summary        string          `json:"summary"`
	Headline       string          `json:"headline"`
	IsOpenToWork   *bool           `json:"isOpenToWork"`
	IsHiring       *bool           `json:"isHiring"`
	Languages      []Language      `json:"languages"`
	Skills         []Skill         `json:"skills"`
	Positions      []Position      `json:"position"`
	Certifications []Certification `json:"certifications"`
	Projects       *Projects       `json:"projects"`
}

// FullName joins the first and last name.
func (p Profile) FullName() (name string) {
	name = p.FirstName + " " + p.LastName
	return name
}

// FindProject returns the project whose title matches name case-insensitively.
func (p Profile) FindProject(name string) (project Project, ok bool) {
	if p.Projects == nil {
		return project, false
	}
	for _, item := range p.Projects.Items {
		if equalFold(item.Title, name) {
			project = item
			ok = true
			return project, ok
		}
	}
	return project, ok
}

func equalFold(a, b string) (equal bool) {
	fold := cases.Fold()
	equal = fold.String(a) == fold.String(b)
	return equal
}
