package analysis

import (
	"chatledger/sources/configuration"
	"chatledger/sources/platform"

	"github.com/shopspring/decimal"
)

type AnalysisConfig struct {
	ChatsDir       string
	MembershipFile string
	ReportFile     string
	CorpusFile     string
	MonthlyPrice   decimal.Decimal
}

func NewAnalysisConfig(config *configuration.Config) (*AnalysisConfig, error) {
	price, err := decimal.NewFromString(config.Membership.MonthlyPrice)
	if err != nil {
		return nil, err
	}

	c := &AnalysisConfig{
		ChatsDir:       config.Paths.ChatsDir,
		MembershipFile: config.Paths.MembershipFile,
		ReportFile:     config.Paths.ReportFile,
		CorpusFile:     config.Paths.CorpusFile,
		MonthlyPrice:   price,
	}
	if err := platform.ValidateNotEmpty(c.ChatsDir, "chats directory"); err != nil {
		return nil, err
	}
	return c, nil
}
