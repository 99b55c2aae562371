package dashboard

import (
	"fmt"
	"strings"
)

// View renders the contract list on the left and the selected contract's
// detail on the right.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("extrt — extension runtime dashboard"))
	b.WriteString("\n")

	if len(m.contracts) == 0 {
		b.WriteString(mutedStyle.Render("no contracts declared"))
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("q: quit"))
		return b.String()
	}

	for i, c := range m.contracts {
		line := fmt.Sprintf("%-32s %3d names  adaptive:%s", c.Contract, len(c.Names), yesNo(c.HasAdaptive))
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if sel, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(detailHeaderStyle.Render(sel.Contract))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("default:  %s\n", sel.DefaultName))
		b.WriteString(fmt.Sprintf("names:    %s\n", strings.Join(sel.Names, ", ")))
		b.WriteString(fmt.Sprintf("loaded:   %s\n", strings.Join(sel.LoadedNames, ", ")))
		b.WriteString(fmt.Sprintf("wrappers: %s\n", strings.Join(sel.Wrappers, " -> ")))
		if sel.HasAdaptive {
			b.WriteString(adaptiveYesStyle.Render("adaptive: hand-authored"))
		} else {
			b.WriteString(adaptiveNoStyle.Render("adaptive: synthesized fallback"))
		}
		b.WriteString("\n")
		for _, d := range sel.Diagnostics {
			b.WriteString(mutedStyle.Render("diagnostic: " + d))
			b.WriteString("\n")
		}
	}

	b.WriteString(footerStyle.Render("↑/k ↓/j: move   q: quit"))
	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
