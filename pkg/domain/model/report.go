package model

import (
	"fmt"

	"github.com/kensho-lab/acwatch/pkg/domain/types"
)

// MaxPageEntries is the field-count ceiling of one notification attachment
const MaxPageEntries = 25

// ProblemDetail is one accepted problem of one account, joined against the
// catalog and the difficulty model. It exists only for the duration of a
// single report run.
type ProblemDetail struct {
	Title         string
	Difficulty    *int64 // raw model difficulty, nil when the model has no entry
	Language      string
	SubmissionURL string
}

// Color returns the difficulty tier of the problem, ColorBlack when the
// model carries no difficulty for it.
func (d *ProblemDetail) Color() types.Color {
	if d.Difficulty == nil {
		return types.ColorBlack
	}
	return types.ColorForDifficulty(types.NormalizeDifficulty(*d.Difficulty))
}

// FieldValue renders the detail line placed under the problem title:
// normalized difficulty with its tier label, the submission language and a
// link to the submission.
func (d *ProblemDetail) FieldValue() string {
	diff := types.ColorBlack.Label()
	if d.Difficulty != nil {
		n := types.NormalizeDifficulty(*d.Difficulty)
		diff = fmt.Sprintf("%d(%s)", n, types.ColorForDifficulty(n).Label())
	}
	return fmt.Sprintf("%s | %s | <%s|提出>", diff, d.Language, d.SubmissionURL)
}

// ReportPage is a bounded chunk of one account's solved problems, sized to
// what a single notification attachment can render.
type ReportPage struct {
	User    string
	Details []ProblemDetail
}

// Title returns the attachment title for the page
func (p *ReportPage) Title() string {
	return fmt.Sprintf("%s さんが昨日ACした問題", p.User)
}

// UserURL returns the account page on atcoder.jp
func (p *ReportPage) UserURL() string {
	return fmt.Sprintf("https://atcoder.jp/users/%s", p.User)
}

// Color returns the page accent: the maximum tier across the page's entries.
// A page whose entries all lack difficulty data reports ColorBlack.
func (p *ReportPage) Color() types.Color {
	c := types.ColorBlack
	for i := range p.Details {
		c = types.MaxColor(c, p.Details[i].Color())
	}
	return c
}

// BuildPages splits details into consecutive pages of at most MaxPageEntries
// entries, preserving order. An empty detail list yields no pages.
func BuildPages(user string, details []ProblemDetail) []ReportPage {
	var pages []ReportPage
	for len(details) > 0 {
		n := len(details)
		if n > MaxPageEntries {
			n = MaxPageEntries
		}
		pages = append(pages, ReportPage{
			User:    user,
			Details: details[:n],
		})
		details = details[n:]
	}
	return pages
}
