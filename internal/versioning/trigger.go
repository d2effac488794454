package versioning

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/pulsehq/demosnap/internal/domain"
)

// LogTrigger is a reanalysis hook that only records the notification.
// Deployments without a downstream analysis service use it so the
// change events still land in the logs.
type LogTrigger struct{}

// NewLogTrigger creates a log-only reanalysis trigger.
func NewLogTrigger() *LogTrigger {
	return &LogTrigger{}
}

func (t *LogTrigger) OnDemographicChange(_ context.Context, surveyID, companyID uuid.UUID, changes []domain.Change, triggeredBy string) error {
	log.Printf("[REANALYSIS] survey %s company %s: %d demographic changes by %s",
		surveyID, companyID, len(changes), triggeredBy)
	return nil
}
