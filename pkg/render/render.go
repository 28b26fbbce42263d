package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/root-daemon/auto-resume/pkg/github"
	"github.com/root-daemon/auto-resume/pkg/linkedin"
)

// Template placeholders.
const (
	PlaceholderRepositories   = "<REPOSITORIES>"
	PlaceholderExperiences    = "<EXPERIENCES>"
	PlaceholderCertifications = "<CERTIFICATIONS>"
	PlaceholderLanguages      = "<GITHUB_LANGS>"
	PlaceholderSpeaks         = "<SPEAKS>"
	PlaceholderSkills         = "<SKILLS>"
	PlaceholderName           = "<NAME>"
	PlaceholderHeadline       = "<HEADLINE>"
	PlaceholderLocation       = "<LOCATION>"
	PlaceholderEmail          = "<EMAIL>"
	PlaceholderLinkedIn       = "<LINKEDIN>"
	PlaceholderURL            = "<URL>"
	PlaceholderSummary        = "<SUMMARY>"
)

// NoDescription is rendered for repositories without a matching LinkedIn project.
const NoDescription = "No description available."

// BulletMarker separates the summary line and the bullet points of a description.
const BulletMarker = "- "

// List styles for certifications, spoken languages and skills.
const (
	ListComma   = "comma"
	ListBullets = "bullets"
)

// Style selects between the rendering variants the template may expect.
type Style struct {
	TopRepositories int    `json:"top_repositories" yaml:"top_repositories"`
	ShowStars       bool   `json:"show_stars" yaml:"show_stars"`
	ListStyle       string `json:"list_style" yaml:"list_style"`
}

// DefaultStyle returns three starred repositories and comma separated lists.
func DefaultStyle() (style Style) {
	style = Style{
		TopRepositories: 3,
		ShowStars:       true,
		ListStyle:       ListComma,
	}
	return style
}

//nolint:gochecknoglobals // Display labels for LinkedIn proficiency codes
var proficiencyLabels = map[string]string{
	"ELEMENTARY":           "Elementary",
	"PROFESSIONAL_WORKING": "Professional",
	"NATIVE_OR_BILINGUAL":  "Native",
}

// ProficiencyLabel maps a proficiency code to its display label. Unknown codes pass through.
func ProficiencyLabel(code string) (label string) {
	label, ok := proficiencyLabels[code]
	if !ok {
		label = code
	}
	return label
}

// Render substitutes every placeholder in template with content built from both profiles.
func Render(template string, gh github.Profile, li linkedin.Profile, style Style) (output string, err error) {
	var experiences string
	experiences, err = renderExperiences(li.Positions)
	if err != nil {
		return output, err
	}

	replacer := strings.NewReplacer(
		PlaceholderRepositories, renderRepositories(gh.Repositories, li, style),
		PlaceholderExperiences, experiences,
		PlaceholderCertifications, renderList(certificationNames(li.Certifications), style),
		PlaceholderLanguages, strings.Join(languageUnion(gh.Repositories), ", "),
		PlaceholderSpeaks, renderList(spokenLanguages(li.Languages), style),
		PlaceholderSkills, renderList(skillNames(li.Skills), style),
		PlaceholderName, li.FullName(),
		PlaceholderHeadline, clean(li.Headline),
		PlaceholderLocation, gh.Location,
		PlaceholderEmail, gh.Email,
		PlaceholderLinkedIn, linkedInHandle(li.Username),
		PlaceholderURL, stripScheme(gh.WebsiteURL),
		PlaceholderSummary, clean(li.Summary),
	)

	output = Sanitize(replacer.Replace(template))
	return output, err
}

// SplitDescription splits a description at its first bullet marker. The text before it is
// the summary; each following segment is one trimmed bullet.
func SplitDescription(description string) (summary string, bullets []string) {
	parts := strings.Split(description, BulletMarker)
	summary = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		bullets = append(bullets, strings.TrimSpace(part))
	}
	return summary, bullets
}

// renderDescription renders a summary paragraph followed by an itemize block when bullets exist.
func renderDescription(description string) (block string) {
	summary, bullets := SplitDescription(description)

	var b strings.Builder
	b.WriteString("\n" + clean(summary) + "\n")
	if len(bullets) == 0 {
		b.WriteString("\n")
		block = b.String()
		return block
	}

	b.WriteString("\\begin{itemize}\n")
	for _, bullet := range bullets {
		b.WriteString("\\item " + clean(bullet) + "\n")
	}
	b.WriteString("\\end{itemize}\n")

	block = b.String()
	return block
}

func renderRepositories(repos []github.Repository, li linkedin.Profile, style Style) (block string) {
	top := repos
	if style.TopRepositories >= 0 && len(top) > style.TopRepositories {
		top = top[:style.TopRepositories]
	}

	var b strings.Builder
	for _, repo := range top {
		b.WriteString(fmt.Sprintf("\\item \\textbf{\\href{%s}{%s}}", repo.URL, clean(repo.Name)))
		if style.ShowStars {
			b.WriteString(fmt.Sprintf(" | \\textbf{%d} stars", repo.StarCount))
		}
		b.WriteString("\n")

		description := NoDescription
		project, ok := li.FindProject(repo.Name)
		if ok {
			description = project.Description
		}
		b.WriteString(renderDescription(description))
	}

	block = b.String()
	return block
}

func renderExperiences(positions []linkedin.Position) (block string, err error) {
	var b strings.Builder
	for i, position := range positions {
		var dates string
		dates, err = dateRange(position)
		if err != nil {
			err = &RenderError{Op: fmt.Sprintf("format position %d (%s)", i, position.Title), Err: err}
			return block, err
		}

		b.WriteString(fmt.Sprintf("\\textbf{%s} \\hfill %s\\\\\n", clean(position.Title), dates))
		b.WriteString(fmt.Sprintf("%s \\hfill \\textit{%s}\n", clean(position.CompanyName), clean(position.Location)))
		b.WriteString(renderDescription(position.Description))
	}

	block = b.String()
	return block, err
}

// dateRange renders "Mar 2020 - Present" style ranges.
func dateRange(position linkedin.Position) (dates string, err error) {
	var start string
	start, err = FormatDate(position.Start)
	if err != nil {
		err = errors.Wrap(err, "start date")
		return dates, err
	}

	end := "Present"
	if !position.Ongoing() {
		end, err = FormatDate(*position.End)
		if err != nil {
			err = errors.Wrap(err, "end date")
			return dates, err
		}
	}

	dates = start + " - " + end
	return dates, err
}

// FormatDate renders a date as abbreviated month and year, e.g. "Jan 2020".
func FormatDate(date linkedin.Date) (formatted string, err error) {
	if date.Month < 1 || date.Month > 12 {
		err = errors.Errorf("month %d out of range", date.Month)
		return formatted, err
	}

	formatted = time.Month(date.Month).String()[:3] + " " + strconv.Itoa(date.Year)
	return formatted, err
}

func renderList(items []string, style Style) (list string) {
	if style.ListStyle != ListBullets {
		list = strings.Join(items, ", ")
		return list
	}

	if len(items) == 0 {
		return list
	}

	var b strings.Builder
	b.WriteString("\\begin{itemize}\n")
	for _, item := range items {
		b.WriteString("\\item " + item + "\n")
	}
	b.WriteString("\\end{itemize}\n")

	list = b.String()
	return list
}

func certificationNames(certs []linkedin.Certification) (names []string) {
	names = make([]string, 0, len(certs))
	for _, cert := range certs {
		names = append(names, clean(cert.Name))
	}
	return names
}

func skillNames(skills []linkedin.Skill) (names []string) {
	names = make([]string, 0, len(skills))
	for _, skill := range skills {
		names = append(names, clean(skill.Name))
	}
	return names
}

// spokenLanguages renders "English (Native)", or just the name without a proficiency.
func spokenLanguages(languages []linkedin.Language) (entries []string) {
	entries = make([]string, 0, len(languages))
	for _, lang := range languages {
		entry := clean(lang.Name)
		if lang.Proficiency != "" {
			entry += " (" + clean(ProficiencyLabel(lang.Proficiency)) + ")"
		}
		entries = append(entries, entry)
	}
	return entries
}

// languageUnion collects the distinct languages of all repositories in first-seen order.
func languageUnion(repos []github.Repository) (languages []string) {
	seen := make(map[string]bool)
	for _, repo := range repos {
		for _, lang := range repo.Languages {
			if seen[lang] {
				continue
			}
			seen[lang] = true
			languages = append(languages, lang)
		}
	}
	return languages
}

func linkedInHandle(username string) (handle string) {
	if username != "" {
		handle = "linkedin.com/in/" + username
	}
	return handle
}

func stripScheme(url string) (stripped string) {
	stripped = strings.TrimPrefix(url, "https://")
	stripped = strings.TrimPrefix(stripped, "http://")
	return stripped
}

// clean prepares free text for insertion into LaTeX.
func clean(s string) (cleaned string) {
	cleaned = Sanitize(EscapePercent(s))
	return cleaned
}
