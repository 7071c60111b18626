package services

import (
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/journal_draft_app/internal/core/ports/services"
	"github.com/SscSPs/journal_draft_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	drafts portsrepo.DraftRepositoryFacade,
	gateway portsrepo.AccountingGatewayFacade,
	events EventSink,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Reference data first since the draft service derives from it
	container.Reference = NewReferenceDataService(gateway, cfg.ReferenceCacheTTL)

	container.Draft = NewDraftService(
		drafts,
		gateway,
		container.Reference,
		WithBalanceTolerance(cfg.BalanceTolerance),
		WithEventSink(events),
	)

	return container
}
