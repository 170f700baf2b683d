// Package chats reads and writes the per-video chat unit files the analyzer consumes.
//
// A unit file is a JSON object keyed by message index plus one "metadata" entry:
//
//	{
//	  "0": {"time": 12.5, "money": {"amount": 5, "currency": "EUR"}, "msg": "hi", "membership": 2},
//	  "metadata": {"publish_date": "2023-04-01", "title": "...", "msg_count": 1}
//	}
package chats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const metadataKey = "metadata"

var ErrMalformedRecord = errors.New("malformed chat record")

type MessageKind string

const (
	KindPaid       MessageKind = "paid"
	KindText       MessageKind = "text"
	KindMembership MessageKind = "membership"
	KindEmpty      MessageKind = "empty"
)

type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Text     string          `json:"text,omitempty"`
}

type Message struct {
	Index            int
	TimeSeconds      float64
	Money            *Money
	Text             *string
	MembershipMonths int
}

func (m Message) Kind() MessageKind {
	switch {
	case m.Money != nil:
		return KindPaid
	case m.Text != nil:
		return KindText
	case m.MembershipMonths > 0:
		return KindMembership
	default:
		return KindEmpty
	}
}

type Metadata struct {
	Title       string `json:"title,omitempty"`
	PublishDate string `json:"publish_date"`
	Views       int64  `json:"views,omitempty"`
	Duration    int64  `json:"duration,omitempty"`
	MsgCount    int    `json:"msg_count,omitempty"`
}

type Unit struct {
	Path     string
	Metadata Metadata
	Messages []Message
}

type record struct {
	Time       float64         `json:"time"`
	Money      json.RawMessage `json:"money,omitempty"`
	Msg        *string         `json:"msg"`
	Membership int             `json:"membership"`
}

type moneyRecord struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency *string          `json:"currency"`
	Text     string           `json:"text,omitempty"`
}

type outRecord struct {
	Time       float64   `json:"time"`
	Money      *outMoney `json:"money,omitempty"`
	Msg        *string   `json:"msg"`
	Membership int       `json:"membership"`
}

type outMoney struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	Text     string      `json:"text,omitempty"`
}

// ListUnits returns the unit files in dir sorted by file name.
func ListUnits(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list chat units in %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func ReadUnit(path string) (*Unit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chat unit %s: %w", path, err)
	}

	unit, err := ParseUnit(content)
	if err != nil {
		return nil, fmt.Errorf("chat unit %s: %w", path, err)
	}
	unit.Path = path
	return unit, nil
}

// ParseUnit validates every record up front so aggregation never sees a half-formed message.
func ParseUnit(content []byte) (*Unit, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	metaRaw, ok := raw[metadataKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing metadata", ErrMalformedRecord)
	}
	delete(raw, metadataKey)

	var unit Unit
	if err := json.Unmarshal(metaRaw, &unit.Metadata); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrMalformedRecord, err)
	}
	if unit.Metadata.PublishDate == "" {
		return nil, fmt.Errorf("%w: metadata has no publish_date", ErrMalformedRecord)
	}

	unit.Messages = make([]Message, 0, len(raw))
	for key, value := range raw {
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: unexpected key %q", ErrMalformedRecord, key)
		}

		message, err := parseMessage(index, value)
		if err != nil {
			return nil, err
		}
		unit.Messages = append(unit.Messages, message)
	}

	sort.Slice(unit.Messages, func(i, j int) bool {
		return unit.Messages[i].Index < unit.Messages[j].Index
	})
	return &unit, nil
}

func parseMessage(index int, value json.RawMessage) (Message, error) {
	var r record
	if err := json.Unmarshal(value, &r); err != nil {
		return Message{}, fmt.Errorf("%w: message %d: %v", ErrMalformedRecord, index, err)
	}

	message := Message{
		Index:            index,
		TimeSeconds:      r.Time,
		Text:             r.Msg,
		MembershipMonths: r.Membership,
	}
	if message.MembershipMonths < 0 {
		return Message{}, fmt.Errorf("%w: message %d: negative membership", ErrMalformedRecord, index)
	}

	if len(r.Money) == 0 || string(r.Money) == "null" {
		return message, nil
	}

	var m moneyRecord
	if err := json.Unmarshal(r.Money, &m); err != nil {
		return Message{}, fmt.Errorf("%w: message %d money: %v", ErrMalformedRecord, index, err)
	}
	if m.Amount == nil || m.Currency == nil || strings.TrimSpace(*m.Currency) == "" {
		return Message{}, fmt.Errorf("%w: message %d money needs amount and currency", ErrMalformedRecord, index)
	}

	message.Money = &Money{Amount: *m.Amount, Currency: *m.Currency, Text: m.Text}
	return message, nil
}

// WriteUnit stores metadata and messages in the unit file format, indices renumbered from 0.
func WriteUnit(path string, metadata Metadata, messages []Message) error {
	out := make(map[string]any, len(messages)+1)
	for i, m := range messages {
		r := outRecord{Time: m.TimeSeconds, Msg: m.Text, Membership: m.MembershipMonths}
		if m.Money != nil {
			r.Money = &outMoney{Amount: json.Number(m.Money.Amount.String()), Currency: m.Money.Currency, Text: m.Money.Text}
		}
		out[strconv.Itoa(i)] = r
	}
	metadata.MsgCount = len(messages)
	out[metadataKey] = metadata

	content, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode chat unit %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chat unit dir: %w", err)
	}
	return os.WriteFile(path, content, 0o644)
}
