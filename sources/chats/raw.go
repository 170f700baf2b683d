package chats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RawMessage is one item as produced by the chat downloader, before any filtering.
type RawMessage struct {
	MessageID   string    `json:"message_id"`
	MessageType string    `json:"message_type,omitempty"`
	Message     *string   `json:"message"`
	TimeSeconds float64   `json:"time_in_seconds"`
	Money       *RawMoney `json:"money,omitempty"`
	Author      Author    `json:"author"`
}

type RawMoney struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency"`
	Text     string           `json:"text,omitempty"`
}

type Author struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name,omitempty"`
	Badges []Badge `json:"badges,omitempty"`
}

type Badge struct {
	Title string `json:"title"`
}

// Membership reports the badge period of the author's first badge.
func (m RawMessage) Membership() (int, bool) {
	if len(m.Author.Badges) == 0 {
		return 0, false
	}
	return ParseBadge(m.Author.Badges[0].Title)
}

// ParseBadge turns a membership badge title into months of membership.
// "New member" counts as one month, "Member (2 months)" as two, "Member (1 year)" as twelve.
// Titles that are not membership badges, or whose period cannot be read, report false.
func ParseBadge(title string) (int, bool) {
	if !strings.Contains(title, "ember") {
		return 0, false
	}
	if strings.Contains(title, "New") {
		return 1, true
	}

	open, closing := strings.Index(title, "("), strings.Index(title, ")")
	if open < 0 || closing <= open {
		return 0, false
	}
	return parsePeriod(title[open+1 : closing])
}

func parsePeriod(period string) (int, bool) {
	fields := strings.Fields(period)
	if len(fields) < 2 {
		return 0, false
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, false
	}

	switch {
	case strings.HasPrefix(fields[1], "month"):
		return n, true
	case strings.HasPrefix(fields[1], "year"):
		return n * 12, true
	default:
		return 0, false
	}
}

// Dedupe drops messages repeating the id of the message right before them; the downloader emits
// such repeats when a paid message is also echoed as a ticker item.
func Dedupe(messages []RawMessage) []RawMessage {
	out := make([]RawMessage, 0, len(messages))
	last := ""
	for i, m := range messages {
		if i > 0 && m.MessageID == last {
			continue
		}
		last = m.MessageID
		out = append(out, m)
	}
	return out
}

// PaidMessages keeps deduplicated messages that carry money, converted to the unit format. A money
// object without amount or currency fails with ErrMalformedRecord.
func PaidMessages(raw []RawMessage) ([]Message, error) {
	var messages []Message
	for _, m := range Dedupe(raw) {
		if m.Money == nil {
			continue
		}
		if m.Money.Amount == nil || strings.TrimSpace(m.Money.Currency) == "" {
			return nil, fmt.Errorf("%w: message %s money needs amount and currency", ErrMalformedRecord, m.MessageID)
		}

		months, _ := m.Membership()
		messages = append(messages, Message{
			Index:            len(messages),
			TimeSeconds:      m.TimeSeconds,
			Money:            &Money{Amount: *m.Money.Amount, Currency: m.Money.Currency, Text: m.Money.Text},
			Text:             m.Message,
			MembershipMonths: months,
		})
	}
	return messages, nil
}
