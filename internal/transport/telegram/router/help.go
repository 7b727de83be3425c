package router

import (
	"fmt"
	"html"
	"slices"
	"strings"
)

var helpSections = []struct {
	access Access
	title  string
}{
	{AccessEveryone, ""},
	{AccessOwnerOnly, "👑 <b>Bot owner</b>"},
	{AccessAdmin, "🛡 <b>Admins</b>"},
}

// helpText renders Telegram-friendly help in HTML parse mode.
func (m *CommandManager) helpText(args []string) string {
	m.mu.RLock()
	order := slices.Clone(m.order)
	m.mu.RUnlock()

	if len(args) > 0 {
		word := strings.ToLower(strings.TrimPrefix(args[0], "/"))
		c, ok := m.lookup(word)
		if !ok {
			return helpUnknownHTML()
		}
		return helpCommandHTML(c)
	}
	return helpTopHTML(order)
}

func helpUnknownHTML() string {
	return strings.Join([]string{
		"❓ <b>Unknown command</b>",
		"Send <code>/help</code> to see the command list.",
	}, "\n")
}

func helpTopHTML(order []*Command) string {
	lines := []string{"📚 <b>Commands</b>"}
	for _, sec := range helpSections {
		var rows []string
		for _, c := range order {
			if c.Access != sec.access {
				continue
			}
			rows = append(rows, helpRow(c))
		}
		if len(rows) == 0 {
			continue
		}
		lines = append(lines, "")
		if sec.title != "" {
			lines = append(lines, sec.title)
		}
		lines = append(lines, rows...)
	}
	lines = append(lines, "", "Send <code>/help &lt;command&gt;</code> for details.")
	return strings.Join(lines, "\n")
}

func helpRow(c *Command) string {
	usage := strings.TrimSpace(c.Usage)
	if usage == "" {
		usage = "/" + c.Route
	}
	row := "<code>" + html.EscapeString(usage) + "</code>"
	if d := strings.TrimSpace(c.Description); d != "" {
		row += " - " + html.EscapeString(d)
	}
	return row
}

func helpCommandHTML(c Command) string {
	lines := []string{fmt.Sprintf("📚 <b>Help</b> <code>/%s</code>", html.EscapeString(c.Route))}
	if d := strings.TrimSpace(c.Description); d != "" {
		lines = append(lines, html.EscapeString(d))
	}
	switch c.Access {
	case AccessOwnerOnly:
		lines = append(lines, "🔒 <i>Bot owner only</i>")
	case AccessAdmin:
		lines = append(lines, "🛡 <i>Admins only</i>")
	}
	if u := strings.TrimSpace(c.Usage); u != "" {
		lines = append(lines, "", "<b>Usage</b>", "<code>"+html.EscapeString(u)+"</code>")
	}
	if len(c.Aliases) > 0 {
		lines = append(lines, "", "<b>Aliases</b>")
		for _, a := range c.Aliases {
			lines = append(lines, "• <code>/"+html.EscapeString(a)+"</code>")
		}
	}
	return strings.Join(lines, "\n")
}
