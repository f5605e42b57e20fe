package services

import (
	"fmt"
	"strconv"

	"github.com/terraincognita07/cyclecast/internal/models"
)

// DataHash fingerprints the inputs that change a forecast. It is a change detector,
// not a digest: collisions are tolerated.
func DataHash(data models.CycleData) string {
	lastPeriodStart := "null"
	if data.LastPeriodStart != nil && !data.LastPeriodStart.IsZero() {
		lastPeriodStart = data.LastPeriodStart.String()
	}
	key := fmt.Sprintf("%s-%d-%d-%d", lastPeriodStart, len(data.Entries), data.CycleLength, data.PeriodLength)

	var hash int32
	for _, char := range key {
		hash = (hash << 5) - hash + int32(char)
	}

	magnitude := int64(hash)
	if magnitude < 0 {
		magnitude = -magnitude
	}
	return strconv.FormatInt(magnitude, 36)
}
