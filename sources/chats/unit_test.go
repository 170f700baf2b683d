package chats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleUnit = `{
  "1": {"time": 30.5, "money": {"amount": 5, "currency": "EUR", "text": "€5.00"}, "msg": null, "membership": 0},
  "0": {"time": 12, "money": {"amount": 10.5, "currency": "USD"}, "msg": "hello", "membership": 3},
  "2": {"time": 40, "msg": "no money here", "membership": 0},
  "metadata": {"title": "Karaoke", "publish_date": "2023-04-01", "views": 100, "duration": 7200, "msg_count": 3}
}`

func TestParseUnit(t *testing.T) {
	unit, err := ParseUnit([]byte(sampleUnit))
	require.NoError(t, err)

	assert.Equal(t, "2023-04-01", unit.Metadata.PublishDate)
	assert.Equal(t, "Karaoke", unit.Metadata.Title)
	require.Len(t, unit.Messages, 3)

	first := unit.Messages[0]
	assert.Equal(t, 0, first.Index)
	require.NotNil(t, first.Money)
	assert.True(t, first.Money.Amount.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, "USD", first.Money.Currency)
	require.NotNil(t, first.Text)
	assert.Equal(t, "hello", *first.Text)
	assert.Equal(t, 3, first.MembershipMonths)
	assert.Equal(t, KindPaid, first.Kind())

	second := unit.Messages[1]
	assert.Nil(t, second.Text)
	assert.Equal(t, "€5.00", second.Money.Text)

	third := unit.Messages[2]
	assert.Nil(t, third.Money)
	assert.Equal(t, KindText, third.Kind())
}

func TestParseUnitMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: `{`},
		{name: "missing metadata", content: `{"0": {"msg": "hi"}}`},
		{name: "missing publish date", content: `{"metadata": {"title": "x"}}`},
		{name: "non numeric key", content: `{"abc": {"msg": "hi"}, "metadata": {"publish_date": "2023-04-01"}}`},
		{name: "money without amount", content: `{"0": {"money": {"currency": "USD"}}, "metadata": {"publish_date": "2023-04-01"}}`},
		{name: "money without currency", content: `{"0": {"money": {"amount": 3}}, "metadata": {"publish_date": "2023-04-01"}}`},
		{name: "money wrong shape", content: `{"0": {"money": 3}, "metadata": {"publish_date": "2023-04-01"}}`},
		{name: "negative membership", content: `{"0": {"membership": -1}, "metadata": {"publish_date": "2023-04-01"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUnit([]byte(tt.content))
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestParseUnitNullMoneyIsAbsent(t *testing.T) {
	unit, err := ParseUnit([]byte(`{"0": {"money": null, "msg": "hi"}, "metadata": {"publish_date": "2023-04-01"}}`))
	require.NoError(t, err)
	require.Len(t, unit.Messages, 1)
	assert.Nil(t, unit.Messages[0].Money)
}

func TestListUnitsAndReadUnit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(sampleUnit), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(sampleUnit), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	paths, err := ListUnits(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, paths)

	unit, err := ReadUnit(paths[0])
	require.NoError(t, err)
	assert.Equal(t, paths[0], unit.Path)
	assert.Len(t, unit.Messages, 3)
}

func TestWriteUnitIsReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "abc.json")
	text := "gg"
	messages := []Message{
		{Index: 7, TimeSeconds: 1, Money: &Money{Amount: decimal.RequireFromString("2.50"), Currency: "GBP"}, Text: &text, MembershipMonths: 12},
		{Index: 9, TimeSeconds: 2, Money: &Money{Amount: decimal.NewFromInt(1000), Currency: "JPY"}},
	}

	require.NoError(t, WriteUnit(path, Metadata{PublishDate: "2023-05-06", Title: "Zatsudan"}, messages))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"amount": 2.5`)

	unit, err := ReadUnit(path)
	require.NoError(t, err)
	assert.Equal(t, 2, unit.Metadata.MsgCount)
	require.Len(t, unit.Messages, 2)
	assert.Equal(t, 0, unit.Messages[0].Index)
	assert.Equal(t, "GBP", unit.Messages[0].Money.Currency)
	assert.Equal(t, 12, unit.Messages[0].MembershipMonths)
	assert.True(t, unit.Messages[1].Money.Amount.Equal(decimal.NewFromInt(1000)))
}
