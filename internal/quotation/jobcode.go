package quotation

import (
	"fmt"
	"time"

	"github.com/trophydesk/trophydesk/internal/catalog"
)

// GenerateJobCode builds the human-readable job code YYMMDD-NN-FFF:
// the date, the day's sequence number (sequenceIndex is zero-based),
// and the factory's letter code. Unrecognised factories get the XXX
// sentinel rather than failing code generation.
func GenerateJobCode(cat *catalog.Catalog, factoryCode string, sequenceIndex int, at time.Time) string {
	return fmt.Sprintf("%s-%02d-%s", at.Format("060102"), sequenceIndex+1, cat.Letters(factoryCode))
}
