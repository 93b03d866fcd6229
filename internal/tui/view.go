package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	keyHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	statusStyles = map[statusLevel]lipgloss.Style{
		levelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		levelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		levelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		levelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func (m Model) viewWalletList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("solkeep — wallets"))
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		if m.filter != "" {
			b.WriteString(dimStyle.Render("no wallets match \"" + m.filter + "\""))
		} else {
			b.WriteString(dimStyle.Render("no wallets yet — press 'a' to add one or 'v' to grind a vanity address"))
		}
		b.WriteString("\n")
	}

	for pos, idx := range m.filtered {
		e := m.entries[idx]
		balance := m.balances[e.Address]
		if balance == "" {
			balance = "-"
		}
		line := fmt.Sprintf("%-24s %-46s %12s SOL", e.ID, e.Address, balance)
		if pos == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.filter != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("filter: " + m.filter + " (press / to change, Esc in search to clear)"))
	}

	b.WriteString(m.statusBar())
	b.WriteString(m.hints("↑/↓: move | Enter: details | a: add | v: vanity | d: delete | r: refresh | /: search | h: help | q: quit"))
	return b.String()
}

func (m Model) viewWalletDetail() string {
	e := m.detail
	var b strings.Builder
	b.WriteString(titleStyle.Render("wallet: " + e.ID))
	b.WriteString("\n\n")
	b.WriteString("Address:  " + e.Address + "\n")
	if e.CreatedAt != "" {
		b.WriteString("Created:  " + e.CreatedAt + "\n")
	}

	balance := m.balances[e.Address]
	if balance == "" {
		balance = "fetching..."
	}
	b.WriteString("Balance:  " + balance + " SOL")
	if m.solRate != "" {
		b.WriteString(dimStyle.Render("  (1 SOL ≈ $" + m.solRate + ")"))
	}
	b.WriteString("\n\n")

	if qr, err := qrcode.New(e.Address, qrcode.Low); err == nil {
		b.WriteString(qr.ToSmallString(false))
	}

	b.WriteString(m.statusBar())
	b.WriteString(m.hints("Esc: back | r: refresh | c: copy address | e: export | b: batch"))
	return b.String()
}

func (m Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("help"))
	b.WriteString(`

Wallet list
  up/down      move selection
  Enter        open wallet details
  a            add a wallet from a keypair .json file
  v            grind a vanity address
  d            delete the selected wallet (asks to confirm)
  r            refresh balances from the RPC endpoint
  /            filter wallets by name
  q            quit

Wallet details
  c            copy the address to the clipboard
  e            export the wallet to a password-protected file
  r            refresh this wallet's balance

Secrets live encrypted in the wallet store; the encryption key sits in
the operating system keychain and is unlocked on demand.
`)
	b.WriteString(m.hints("Esc: back"))
	return b.String()
}

func (m Model) viewAddWallet() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("add wallet"))
	b.WriteString("\n\nKeypair file (JSON array of 64 bytes):\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString(m.hints("Enter: import | Esc: cancel"))
	return b.String()
}

func (m Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("search wallets"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d wallets match", len(m.filtered), len(m.entries))))
	b.WriteString("\n")
	b.WriteString(m.hints("Enter: apply | Esc: clear filter"))
	return b.String()
}

func (m Model) viewVanityInput() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("vanity wallet"))
	if m.vanityStep == vanityPhaseID {
		b.WriteString("\n\nWallet name:\n\n")
	} else {
		b.WriteString("\n\nName: " + displayOr(m.vanityID, "(auto)") + "\n\nAddress prefix:\n\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString(m.hints("Enter: next | Esc: cancel"))
	return b.String()
}

func (m Model) viewVanityProgress() string {
	p := m.vanityLast
	var b strings.Builder
	b.WriteString(titleStyle.Render("grinding for prefix \"" + m.vanityPrefix + "\""))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("attempts: %s\n", formatAttempts(p.Attempts)))
	b.WriteString(fmt.Sprintf("rate:     %s/s\n", formatAttempts(uint64(p.Rate))))
	b.WriteString(fmt.Sprintf("elapsed:  %s\n", p.Elapsed.Round(100*time.Millisecond)))
	b.WriteString(m.hints("Esc: cancel"))
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("delete wallet"))
	b.WriteString("\n\nDelete \"" + m.confirmID + "\"? The encrypted secret is removed from the store and cannot be recovered without a backup.\n")
	b.WriteString(m.hints("y: delete | any other key: keep"))
	return b.String()
}

func (m Model) viewBatchMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("batch operations (simulation)"))
	b.WriteString(`

This screen plans batch transfers without executing anything. Building
and submitting batches runs through the external chain client and is
not wired into this build.

  source:  ` + m.detail.ID + `
  status:  simulation only — no transaction will be sent
`)
	b.WriteString(m.hints("Esc: back"))
	return b.String()
}

func (m Model) viewExportPassword() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("export wallet: " + m.detail.ID))
	b.WriteString("\n\nThe seed is written to " + m.detail.ID + ".export.json, encrypted with this password:\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString(m.hints("Enter: export | Esc: cancel"))
	return b.String()
}

func (m Model) statusBar() string {
	if m.status.level == levelNone || m.status.text == "" {
		return "\n"
	}
	style, ok := statusStyles[m.status.level]
	if !ok {
		style = dimStyle
	}
	return "\n" + style.Render(m.status.text) + "\n"
}

func (m Model) hints(text string) string {
	return "\n" + keyHintStyle.Render(text) + "\n"
}

func displayOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
