package membership

import (
	"chatledger/sources/configuration"
	"chatledger/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("membership",
	fx.Provide(
		NewMasterList,
		NewCollector,
	),
)

func NewMasterList(config *configuration.Config, log *tracing.Logger) (*MasterList, error) {
	path := config.Paths.MembershipFile

	list, err := OpenMasterList(path)
	if err != nil {
		log.E("Failed to open membership master list", tracing.InnerError, err, tracing.CachePath, path)
		return nil, err
	}
	return list, nil
}
