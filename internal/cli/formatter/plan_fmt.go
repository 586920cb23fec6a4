package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/raghavn86/TaskBuddy/internal/domain"
	"github.com/raghavn86/TaskBuddy/internal/metrics"
)

var dayNames = [domain.DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DayName returns the label for a day index, or the index itself when out of
// range.
func DayName(day int) string {
	if day < 0 || day >= domain.DaysPerWeek {
		return fmt.Sprintf("day %d", day)
	}
	return dayNames[day]
}

// FormatMinutes renders a minute count as "1h30m" style text.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h, m := min/60, min%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// TruncID shortens an identifier for display.
func TruncID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// FormatPlanList renders one line per plan.
func FormatPlanList(plans []*domain.Plan) string {
	if len(plans) == 0 {
		return Dim("No plans found.") + "\n"
	}
	var b strings.Builder
	for _, p := range plans {
		kind := "plan"
		if p.IsTemplate {
			kind = "template"
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			Dim(TruncID(p.ID)), Bold(p.Name), Dim(kind)))
	}
	return b.String()
}

// FormatPlanWeek renders the plan's populated days in day order, each bucket's
// items in their stored order.
func FormatPlanWeek(p *domain.Plan) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleHeader.Render(p.Name), Dim(TruncID(p.ID))))
	if p.WeekStart != nil {
		b.WriteString(Dim(fmt.Sprintf("Week of %s", p.WeekStart.Format("2006-01-02"))) + "\n")
	}

	days := make([]int, 0, len(p.Days))
	for day := range p.Days {
		days = append(days, day)
	}
	sort.Ints(days)

	for _, day := range days {
		bucket := p.Days[day]
		b.WriteString("\n" + StyleBold.Render(DayName(day)) + "\n")
		for _, it := range bucket.SortedItems() {
			b.WriteString(formatItem(it) + "\n")
		}
	}
	if len(days) == 0 {
		b.WriteString(Dim("\nNothing planned.") + "\n")
	}
	return b.String()
}

func formatItem(it *domain.Item) string {
	if it.Kind == domain.ItemSection {
		return fmt.Sprintf("  %s %s", StyleBlue.Render("──"), StyleBlue.Render(it.Title))
	}

	check := "[ ]"
	title := it.Title
	if it.Done {
		check = StyleGreen.Render("[x]")
		title = Dim(title)
	}
	line := fmt.Sprintf("  %s %s  %s", check, title, Dim(FormatMinutes(it.DurationMin)))
	if it.Assignee != "" {
		line += "  " + StyleYellow.Render("@"+it.Assignee)
	}
	if it.Note != "" {
		line += "  " + Dim(it.Note)
	}
	return line
}

// FormatMetrics renders per-owner totals, one block per group.
func FormatMetrics(s *metrics.Summary) string {
	var b strings.Builder
	writeOwner := func(label string, t metrics.OwnerTotals) {
		if t.Owner != "" {
			label = t.Owner
		}
		b.WriteString(StyleBold.Render(label) + "\n")
		b.WriteString(fmt.Sprintf("  %s %d/%d done\n", Dim("TASKS    "), t.CompletedCount, t.TaskCount))
		b.WriteString(fmt.Sprintf("  %s %s (%.1fh)\n", Dim("PLANNED  "), FormatMinutes(t.TotalMin), t.TotalHours))
		b.WriteString(fmt.Sprintf("  %s %s (%.1fh)\n", Dim("REMAINING"), FormatMinutes(t.RemainingMin), t.RemainingHours))
	}
	writeOwner("Owner A", s.OwnerA)
	writeOwner("Owner B", s.OwnerB)
	writeOwner("Unassigned", s.Unassigned)
	return b.String()
}
