package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colKey      = 16 // detail key: "Package:", "Hotspot:", etc.
	maxBoxInner = 52 // max inner width for KV boxes
	minBoxInner = 30
	barWidth    = 12
)

type kv struct {
	Key string
	Val string
}

// styledPad pads a styled string to the given visual width using spaces.
// Unlike fmt.Sprintf("%-Xs"), this accounts for ANSI escape codes.
func styledPad(styled string, width int) string {
	visW := lipgloss.Width(styled)
	if visW >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-visW)
}

// boxTop renders the top border of a rounded box with a title.
func boxTop(title string, innerW int) string {
	label := " " + titleStyle.Render(title) + " "
	rest := innerW + 2 - 1 - lipgloss.Width(label)
	if rest < 0 {
		rest = 0
	}
	return " " + dimStyle.Render("╭─") + label + dimStyle.Render(strings.Repeat("─", rest)+"╮")
}

// boxBot renders the bottom border of a rounded box.
func boxBot(innerW int) string {
	return " " + dimStyle.Render("╰"+strings.Repeat("─", innerW+2)+"╯")
}

// boxRow renders one content line inside a box, padded to innerW.
func boxRow(content string, innerW int) string {
	visW := lipgloss.Width(content)
	pad := innerW - visW
	if pad < 0 {
		pad = 0
	}
	return " " + dimStyle.Render("│") + " " + content + strings.Repeat(" ", pad) + " " + dimStyle.Render("│")
}

// renderKVBox renders key-value pairs inside a titled, bordered box. Values
// are already styled.
func renderKVBox(title string, details []kv, innerW int) string {
	var sb strings.Builder
	sb.WriteString(boxTop(title, innerW) + "\n")
	for _, d := range details {
		key := d.Key
		if len(key) > colKey-2 {
			key = key[:colKey-2]
		}
		content := fmt.Sprintf("%s %s", styledPad(dimStyle.Render(key+":"), colKey), d.Val)
		sb.WriteString(boxRow(content, innerW) + "\n")
	}
	sb.WriteString(boxBot(innerW) + "\n")
	return sb.String()
}

// bar renders a percentage bar of given width.
func bar(pct float64, width int) string {
	if width < 1 {
		width = 10
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	b := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case pct >= 90:
		return critStyle.Render(b)
	case pct >= 70:
		return warnStyle.Render(b)
	default:
		return okStyle.Render(b)
	}
}

// dash is shown for metrics the publisher did not report.
const dash = "—"

func num(v *float64, unit string, prec int) string {
	if v == nil {
		return dimStyle.Render(dash)
	}
	return valueStyle.Render(strconv.FormatFloat(*v, 'f', prec, 64) + unit)
}

func temp(v *float64) string {
	if v == nil {
		return dimStyle.Render(dash)
	}
	return tempColor(*v).Render(strconv.FormatFloat(*v, 'f', 1, 64) + " °C")
}

func percent(v *float64) string {
	if v == nil {
		return dimStyle.Render(dash)
	}
	return bar(*v, barWidth) + " " + valueStyle.Render(strconv.FormatFloat(*v, 'f', 0, 64)+"%")
}

func text(s string) string {
	if s == "" {
		return dimStyle.Render(dash)
	}
	return valueStyle.Render(s)
}

func formatUptime(secs uint64) string {
	d := secs / 86400
	h := secs % 86400 / 3600
	m := secs % 3600 / 60
	if d > 0 {
		return fmt.Sprintf("%dd %dh %dm", d, h, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
