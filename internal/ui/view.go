package ui

import "github.com/lehigh-university-libraries/letterbox/internal/models"

// ImageLinkText is the label used for every image link
const ImageLinkText = "View Image"

// Card is one rendered word/image pair. Letter is empty when the enclosing
// section already names it.
type Card struct {
	Letter   string
	Word     string
	ImageURL string
}

// Section groups cards under an optional heading
type Section struct {
	Heading string
	Cards   []Card
}

// BuildSections turns results into the layout shared by every renderer.
// Flat results become one untitled section of self-describing cards; grouped
// results become one "Letter X" section per group.
func BuildSections(res models.Results) []Section {
	switch res.Format {
	case models.FormatFlat:
		if len(res.Flat) == 0 {
			return nil
		}
		cards := make([]Card, 0, len(res.Flat))
		for _, item := range res.Flat {
			cards = append(cards, Card{Letter: item.Letter, Word: item.Word, ImageURL: item.ImageURL})
		}
		return []Section{{Cards: cards}}
	case models.FormatGrouped:
		sections := make([]Section, 0, len(res.Grouped))
		for _, group := range res.Grouped {
			section := Section{Heading: "Letter " + group.Letter}
			for _, w := range group.Words {
				section.Cards = append(section.Cards, Card{Word: w.Word, ImageURL: w.ImageURL})
			}
			sections = append(sections, section)
		}
		return sections
	}
	return nil
}
