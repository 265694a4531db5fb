package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/rewired-gh/jackpotoracle/internal/models"
)

// NoResultsText is posted when the week has no published draws.
const NoResultsText = "Tuloksia ei saatu Veikkaukselta :("

const blockSeparator = "\n--\n"

// DrawReport pairs a draw with its reconciliation outcome.
type DrawReport struct {
	Draw   models.DrawRecord
	Result models.Reconciliation
}

// Composer turns reconciliation results into a chat message.
type Composer struct {
	markup Markup
	loc    *time.Location
}

// NewComposer creates a Composer. Draw weeks are computed in loc.
func NewComposer(markup Markup, loc *time.Location) *Composer {
	if markup == nil {
		markup = DiscordMarkup{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Composer{markup: markup, loc: loc}
}

// NoResults returns the empty-week message.
func (c *Composer) NoResults() string {
	return c.markup.Text(NoResultsText)
}

// Compose formats one block per draw. nextJackpot is nil when it could not be fetched.
func (c *Composer) Compose(reports []DrawReport, nextJackpot *int64) string {
	if len(reports) == 0 {
		return c.NoResults()
	}
	blocks := make([]string, 0, len(reports))
	for _, r := range reports {
		blocks = append(blocks, c.block(r, nextJackpot))
	}
	return strings.Join(blocks, c.markup.Text(blockSeparator))
}

func (c *Composer) block(r DrawReport, nextJackpot *int64) string {
	m := c.markup
	_, week := r.Draw.Week(c.loc)

	var b strings.Builder
	b.WriteString(m.Text(fmt.Sprintf("W%d/%s %s, voittoa ", week, r.Draw.Weekday(), r.Result.Hits.Label())))
	b.WriteString(m.Code(FormatCents(r.Result.MoneyWon)))
	b.WriteString(m.Text("€, sijoituksen tuotto "))
	b.WriteString(m.Spoiler(FormatCents(r.Result.LedgerAfter)))
	b.WriteString(m.Text("€\n"))

	if tier, ok := r.Draw.BiggestPrizeTier(); ok {
		b.WriteString(m.Text(fmt.Sprintf("\nIsoin voitto tuloksella %s ", tier.Name)))
		b.WriteString(m.Code(FormatCents(tier.ShareAmount)))
		b.WriteString(m.Text("€"))
	}

	if nextJackpot != nil {
		b.WriteString(m.Text("\nSeuraava päävoitto "))
		b.WriteString(m.Code(FormatCents(*nextJackpot)))
		b.WriteString(m.Text("€"))
	} else {
		b.WriteString(m.Text("\nSeuraava päävoitto ei saatavilla"))
	}
	return b.String()
}

// Failure formats an operator alert for a failed run.
func (c *Composer) Failure(err error) string {
	return c.markup.Text("⚠️ Tulosten tarkistus epäonnistui: ") + c.markup.Code(err.Error())
}
