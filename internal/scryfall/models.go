package scryfall

import (
	"errors"
	"fmt"
)

// Card represents a Magic card as returned by the Scryfall API.
// Cards are immutable once fetched; the quiz never mutates them locally.
type Card struct {
	// Core fields
	ID       string `json:"id"`
	OracleID string `json:"oracle_id,omitempty"`

	// Card details
	Name          string     `json:"name"`
	Lang          string     `json:"lang,omitempty"`
	ReleasedAt    string     `json:"released_at,omitempty"`
	Layout        string     `json:"layout,omitempty"`
	ImageURIs     *ImageURIs `json:"image_uris,omitempty"`
	ColorIdentity []string   `json:"color_identity,omitempty"`

	// Print details
	SetCode         string `json:"set"`
	SetName         string `json:"set_name,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
	Rarity          string `json:"rarity,omitempty"`

	// Card faces (for DFCs, MDFCs, split cards). The first face is
	// canonical for display.
	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name      string     `json:"name"`
	TypeLine  string     `json:"type_line,omitempty"`
	Colors    []string   `json:"colors,omitempty"`
	ImageURIs *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	Large      string `json:"large"`
	PNG        string `json:"png"`
	ArtCrop    string `json:"art_crop"`
	BorderCrop string `json:"border_crop"`
}

// ImageURL returns the display image URL for a card in the given size.
// Multi-faced cards without top-level images use the first face.
func (c *Card) ImageURL(size string) string {
	uris := c.ImageURIs
	if uris == nil && len(c.CardFaces) > 0 {
		uris = c.CardFaces[0].ImageURIs
	}
	if uris == nil {
		return ""
	}
	switch size {
	case "small":
		return uris.Small
	case "large":
		return uris.Large
	case "png":
		return uris.PNG
	case "art_crop":
		return uris.ArtCrop
	case "border_crop":
		return uris.BorderCrop
	default:
		return uris.Normal
	}
}

// Set represents a Magic set from Scryfall.
type Set struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	SetType    string `json:"set_type"`
	ReleasedAt string `json:"released_at,omitempty"`
	CardCount  int    `json:"card_count"`
	Digital    bool   `json:"digital"`
	IconSVGURI string `json:"icon_svg_uri,omitempty"`
}

// SetList represents a list of sets from Scryfall.
type SetList struct {
	Object  string `json:"object"`
	HasMore bool   `json:"has_more"`
	Data    []Set  `json:"data"`
}

// SearchPage is a single page of card search results.
// TotalCards covers the whole query, not just this page.
type SearchPage struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// Catalog represents a list of strings from Scryfall, such as
// autocomplete suggestions.
type Catalog struct {
	Object string   `json:"object"`
	Data   []string `json:"data"`
}

// ServiceError is a structured error object returned by the Scryfall API.
type ServiceError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// TransportError is a network failure or a malformed response body,
// as opposed to a structured error reported by the service itself.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface for TransportError.
func (e *TransportError) Error() string {
	return fmt.Sprintf("scryfall %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsServiceError returns true if the error is a structured API error.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// IsTransportError returns true if the error is a network or parse failure.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
