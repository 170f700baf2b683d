package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"chatledger/sources/membership"
	"chatledger/sources/platform"
	"chatledger/sources/texting/format"

	"github.com/shopspring/decimal"
)

type Entry struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

type Report struct {
	Manifest          platform.Manifest   `json:"manifest"`
	ReferenceCurrency string              `json:"reference_currency"`
	Units             int                 `json:"units"`
	PaidMessages      int                 `json:"paid_messages"`
	TextMessages      int                 `json:"text_messages"`
	PaidRevenue       decimal.Decimal     `json:"paid_revenue"`
	ByCurrency        []Entry             `json:"by_currency"`
	ByMonth           []Entry             `json:"by_month"`
	ByUnit            []Entry             `json:"by_unit"`
	Languages         map[string]int      `json:"languages,omitempty"`
	Membership        *membership.Summary `json:"membership,omitempty"`
	TotalIncome       decimal.Decimal     `json:"total_income"`
}

// NewReport snapshots the aggregator: currencies by descending revenue, months and units by key.
func NewReport(a *Aggregator, reference string, members *membership.Summary) *Report {
	report := &Report{
		Manifest:          platform.GetAppManifest(),
		ReferenceCurrency: reference,
		Units:             a.Units,
		PaidMessages:      a.PaidMessages,
		TextMessages:      a.TextMessages,
		PaidRevenue:       a.Total,
		ByCurrency:        entries(a.ByCurrency),
		ByMonth:           entries(a.ByMonth),
		ByUnit:            entries(a.ByUnit),
		Languages:         a.Languages,
		Membership:        members,
		TotalIncome:       a.Total,
	}

	sort.SliceStable(report.ByCurrency, func(i, j int) bool {
		return report.ByCurrency[i].Amount.GreaterThan(report.ByCurrency[j].Amount)
	})

	if members != nil {
		report.TotalIncome = report.TotalIncome.Add(members.Revenue)
	}
	return report
}

func entries(m map[string]decimal.Decimal) []Entry {
	out := make([]Entry, 0, len(m))
	for k, v := range m {
		out = append(out, Entry{Key: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Lines is the human readable digest printed at the end of a run.
func (r *Report) Lines() []string {
	code := r.ReferenceCurrency
	lines := []string{
		fmt.Sprintf("Videos analysed: %s", format.Numberify(int64(r.Units))),
		fmt.Sprintf("Paid messages: %s", format.Numberify(int64(r.PaidMessages))),
		fmt.Sprintf("Total paid message revenue: %s", format.Currencify(r.PaidRevenue, code)),
	}

	if len(r.ByCurrency) > 0 {
		lines = append(lines, "Income by currency:")
		for _, e := range r.ByCurrency {
			lines = append(lines, fmt.Sprintf("  %s: %s", e.Key, format.Currencify(e.Amount, code)))
		}
	}
	if len(r.ByMonth) > 0 {
		lines = append(lines, "Income by month:")
		for _, e := range r.ByMonth {
			lines = append(lines, fmt.Sprintf("  %s: %s", e.Key, format.Currencify(e.Amount, code)))
		}
	}

	if len(r.Languages) > 0 {
		codes := make([]string, 0, len(r.Languages))
		for code := range r.Languages {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool {
			if r.Languages[codes[i]] != r.Languages[codes[j]] {
				return r.Languages[codes[i]] > r.Languages[codes[j]]
			}
			return codes[i] < codes[j]
		})

		lines = append(lines, "Chat languages:")
		for _, code := range codes {
			lines = append(lines, fmt.Sprintf("  %s: %s messages", code, format.Numberify(int64(r.Languages[code]))))
		}
	}

	if m := r.Membership; m != nil {
		lines = append(lines,
			fmt.Sprintf("Total number of unique members: %s", format.Numberify(int64(m.MemberCount))),
			fmt.Sprintf("Total membership revenue: %s", format.Currencify(m.Revenue, code)),
			fmt.Sprintf("Average membership length: %s months", format.DecimalifyFloat(m.MeanMonths, 4)),
		)
		for _, b := range m.Histogram() {
			lines = append(lines, fmt.Sprintf("  %d months: %s members", b.Months, format.Numberify(int64(b.Users))))
		}
	}

	return append(lines, fmt.Sprintf("Total income: %s", format.Currencify(r.TotalIncome, code)))
}

func (r *Report) WriteJSON(path string) error {
	content, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return writeFile(path, content)
}

func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
