package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EmmittRel/zeeno-analytics/internal/models"
)

func TestExtractUniqueProcessors(t *testing.T) {
	t.Parallel()

	payments := []models.NormalizedPayment{
		{Processor: models.ProcessorKhalti},
		{Processor: models.ProcessorEsewa},
		{Processor: models.ProcessorKhalti},
		{Processor: models.ProcessorNQR},
	}

	got := ExtractUniqueProcessors(payments)
	assert.ElementsMatch(t, []models.Processor{
		models.ProcessorKhalti,
		models.ProcessorEsewa,
		models.ProcessorNQR,
	}, got)
}
