package domain

import "strings"

// Source identifies the storefront an offer was discovered on.
type Source int

const (
	Epic Source = iota
	Steam
	GOG
	Ubisoft
)

// Sources lists every storefront in reconciliation priority order.
var Sources = []Source{Epic, Steam, GOG, Ubisoft}

func (s Source) String() string {
	switch s {
	case Epic:
		return "epic"
	case Steam:
		return "steam"
	case GOG:
		return "gog"
	case Ubisoft:
		return "ubisoft"
	}
	return "unknown"
}

// DisplayName is the storefront name shown to the operator.
func (s Source) DisplayName() string {
	switch s {
	case Epic:
		return "Epic Games"
	case Steam:
		return "Steam"
	case GOG:
		return "GOG.com"
	case Ubisoft:
		return "Ubisoft"
	}
	return "Unknown"
}

// Offer is a single free-game listing discovered from one storefront.
// Title keeps the storefront's casing for display; identity comparisons
// go through TitleKey. Source is provenance only, never identity.
type Offer struct {
	Title  string
	URL    string
	Source Source
}

// Key returns the offer's dedup identity.
func (o Offer) Key() string { return TitleKey(o.Title) }

// TitleKey case-folds a title for ledger membership and dedup checks.
// Title is the sole identity key: two distinct games sharing a name
// collide, which upstream behavior accepts.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
