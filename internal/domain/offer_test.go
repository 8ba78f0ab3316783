package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleKey(t *testing.T) {
	assert.Equal(t, "dead cells", TitleKey("Dead Cells"))
	assert.Equal(t, "dead cells", TitleKey("  DEAD CELLS  "))
	assert.Equal(t, TitleKey("Dead Cells"), Offer{Title: "dead cells"}.Key())
}

func TestSourceOrder(t *testing.T) {
	assert.Equal(t, []Source{Epic, Steam, GOG, Ubisoft}, Sources)
}

func TestSourceNames(t *testing.T) {
	assert.Equal(t, "epic", Epic.String())
	assert.Equal(t, "GOG.com", GOG.DisplayName())
	assert.Equal(t, "unknown", Source(99).String())
}
