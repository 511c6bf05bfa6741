package tui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/session"
	"github.com/vovakirdan/tui-lander/internal/storage"
	"github.com/vovakirdan/tui-lander/internal/terrain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// outcomeColors maps outcomes to terminal colors.
var outcomeColors = map[core.Outcome]lipgloss.Color{
	core.InFlight: lipgloss.Color("245"),
	core.Landed:   lipgloss.Color("10"),
	core.Collided: lipgloss.Color("9"),
	core.Escaped:  lipgloss.Color("11"),
}

// OutcomeStyle returns the style used to print an outcome.
func OutcomeStyle(o core.Outcome) lipgloss.Style {
	c, ok := outcomeColors[o]
	if !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}

// newTable builds a table with the shared look. Columns listed in color get
// the style returned for their cell text.
func newTable(headers []string, rows [][]string, color map[int]func(string) lipgloss.Style) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if f, ok := color[col]; ok && row >= 0 && row < len(rows) {
				return f(rows[row][col]).Padding(0, 1)
			}
			return cellStyle
		})
}

func outcomeColumn(s string) lipgloss.Style {
	o, ok := core.ParseOutcome(s)
	if !ok {
		return lipgloss.NewStyle()
	}
	return OutcomeStyle(o)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func pct(f float64) string { return fmt.Sprintf("%.1f%%", f*100) }

// EpisodeTable renders one row per finished episode.
func EpisodeTable(infos []session.EpisodeInfo) string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			strconv.Itoa(info.Number),
			strconv.FormatInt(info.Seed, 10),
			info.Outcome.String(),
			yesNo(info.PadContact),
			strconv.Itoa(info.Steps),
			fmt.Sprintf("%.1f", info.Reward.Total()),
			pct(info.FuelLeft),
			fmt.Sprintf("%.2f", info.VY.Final),
			fmt.Sprintf("%.1f", info.PadDX.Final),
			fmt.Sprintf("%d/5", info.Criteria.Count()),
		})
	}
	headers := []string{"#", "Seed", "Outcome", "Pad", "Steps", "Reward", "Fuel", "VY", "Pad dx", "Criteria"}
	return newTable(headers, rows, map[int]func(string) lipgloss.Style{2: outcomeColumn}).String()
}

// RollingSummary renders window rates as a key/value table.
func RollingSummary(title string, s session.RollingStats) string {
	rows := [][]string{
		{"Episodes", strconv.Itoa(s.Episodes)},
		{"Landed", pct(s.LandingRate)},
		{"Collided", pct(s.CollisionRate)},
		{"Escaped", pct(s.EscapeRate)},
		{"Pad contact", pct(s.PadContactRate)},
		{"Success", pct(s.SuccessRate)},
		{"Mean reward", fmt.Sprintf("%.1f", s.MeanReward)},
		{"Mean steps", fmt.Sprintf("%.1f", s.MeanSteps)},
		{"Idle share", pct(s.NothingShare)},
	}
	return titleStyle.Render(title) + "\n" + newTable([]string{"Metric", "Value"}, rows, nil).String()
}

// EvalReport renders an evaluation: every episode followed by the aggregate.
func EvalReport(r session.EvalReport) string {
	summary := fmt.Sprintf("%s: %d/%d successful (%s)",
		r.Controller, r.Successes, len(r.Results), pct(r.SuccessRate))
	return EpisodeTable(r.Results) + "\n" + titleStyle.Render(summary) + "\n" +
		RollingSummary("Outcome rates", r.Rolling)
}

// StatsTable renders stored per-controller aggregates, sorted by controller.
func StatsTable(stats map[string]*storage.ControllerStats) string {
	if len(stats) == 0 {
		return dimStyle.Render("No episodes recorded yet.")
	}
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		s := stats[id]
		last := "-"
		if !s.LastPlayed.IsZero() {
			last = s.LastPlayed.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			id,
			strconv.Itoa(s.Episodes),
			strconv.Itoa(s.Landed),
			strconv.Itoa(s.Collided),
			strconv.Itoa(s.Escaped),
			strconv.Itoa(s.PadContacts),
			pct(s.LandingRate()),
			pct(s.SuccessRate()),
			fmt.Sprintf("%.1f", s.AvgReward),
			fmt.Sprintf("%.1f", s.BestReward),
			last,
		})
	}
	headers := []string{"Controller", "Episodes", "Landed", "Collided", "Escaped", "Pad", "Land %", "Success %", "Avg reward", "Best", "Last played"}
	return newTable(headers, rows, nil).String()
}

// RecordTable renders stored episodes, newest first.
func RecordTable(records []storage.EpisodeRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		when := "-"
		if !r.CreatedAt.IsZero() {
			when = r.CreatedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.Seed, 10),
			r.Outcome,
			yesNo(r.PadContact),
			strconv.Itoa(r.Steps),
			fmt.Sprintf("%.1f", r.Reward),
			pct(r.FuelLeft),
			when,
		})
	}
	headers := []string{"ID", "Seed", "Outcome", "Pad", "Steps", "Reward", "Fuel", "Played"}
	return newTable(headers, rows, map[int]func(string) lipgloss.Style{2: outcomeColumn}).String()
}

// ControllerTable lists registered controllers.
func ControllerTable(infos []registry.ControllerInfo) string {
	rows := make([][]string, 0, len(infos))
	for _, c := range infos {
		rows = append(rows, []string{c.ID, c.Title})
	}
	return newTable([]string{"ID", "Title"}, rows, nil).String()
}

// TerrainStats summarizes a heightmap.
type TerrainStats struct {
	Min, Max, Mean, StdDev float64
}

// TerrainStatsOf computes height statistics over every column.
func TerrainStatsOf(t *terrain.Terrain) TerrainStats {
	h := t.Heights()
	mean, std := stat.MeanStdDev(h, nil)
	return TerrainStats{
		Min:    floats.Min(h),
		Max:    floats.Max(h),
		Mean:   mean,
		StdDev: std,
	}
}

// TerrainTable renders level placement and height statistics.
func TerrainTable(t *terrain.Terrain) string {
	s := TerrainStatsOf(t)
	pad := t.PadCenter()
	start := t.Start()
	rows := [][]string{
		{"Seed", strconv.FormatInt(t.Seed(), 10)},
		{"Size", fmt.Sprintf("%d x %d", t.Width(), t.Height())},
		{"Pad center", fmt.Sprintf("(%.0f, %.1f)", pad.X, pad.Y)},
		{"Pad span", fmt.Sprintf("%.0f .. %.0f (width %d)", t.PadLeft(), t.PadRight(), t.PadWidth())},
		{"Start", fmt.Sprintf("(%.1f, %.1f)", start.X, start.Y)},
		{"Height min", fmt.Sprintf("%.1f", s.Min)},
		{"Height max", fmt.Sprintf("%.1f", s.Max)},
		{"Height mean", fmt.Sprintf("%.1f", s.Mean)},
		{"Height stddev", fmt.Sprintf("%.1f", s.StdDev)},
	}
	return newTable([]string{"Level", "Value"}, rows, nil).String()
}
