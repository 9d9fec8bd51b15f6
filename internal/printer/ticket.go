package printer

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultLineWidth = 42
	ticketHeadline   = "CIUDAD DE LA SUERTE"
	emptyField       = "-"
)

// Ticket 抽奖券票面内容
type Ticket struct {
	CouponID    uint
	Code        string
	FullName    string
	IDNumber    string
	Phone       string
	RoomName    string
	IssuedAt    time.Time
	CompanyName string
	Legend      string
	Reprint     bool
}

// Lines 按行宽排版票面文本
func (t Ticket) Lines(width int) []string {
	if width <= 0 {
		width = defaultLineWidth
	}
	separator := strings.Repeat("=", width)
	issued := emptyField
	if !t.IssuedAt.IsZero() {
		issued = t.IssuedAt.Format("02/01/2006 15:04")
	}

	lines := []string{
		"",
		separator,
		center(strings.ToUpper(orDash(t.CompanyName)), width),
		center(ticketHeadline, width),
		separator,
		field("Nombre", t.FullName, width),
		field("DNI", t.IDNumber, width),
		field("Teléfono", t.Phone, width),
		"",
		field("Código cupón", t.Code, width),
		field("Fecha", issued, width),
		field("Sala", t.RoomName, width),
	}
	if t.Reprint {
		lines = append(lines, center("*** REIMPRESIÓN ***", width))
	}
	lines = append(lines, "", separator)
	lines = append(lines, wrap(t.Legend, width)...)
	lines = append(lines, separator, "", "")
	return lines
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return emptyField
	}
	return strings.TrimSpace(value)
}

func field(label, value string, width int) string {
	line := label + ": " + orDash(value)
	return truncate(line, width)
}

func center(text string, width int) string {
	text = truncate(text, width)
	pad := (width - utf8.RuneCountInString(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

func truncate(text string, width int) string {
	if utf8.RuneCountInString(text) <= width {
		return text
	}
	return string([]rune(text)[:width])
}

// wrap 按词折行
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := ""
	for _, word := range words {
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
		for utf8.RuneCountInString(current) > width {
			runes := []rune(current)
			lines = append(lines, string(runes[:width]))
			current = string(runes[width:])
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
