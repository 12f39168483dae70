// Package schema renders schema.org JSON-LD snippets from form fields.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const schemaContext = "https://schema.org"

// Type is a supported schema.org template
type Type string

const (
	TypeArticle Type = "article"
	TypeProduct Type = "product"
	TypeFAQ     Type = "faq"
	TypeReview  Type = "review"
	TypeEvent   Type = "event"
)

// Types lists every template Generate knows about
var Types = []Type{TypeArticle, TypeProduct, TypeFAQ, TypeReview, TypeEvent}

// Valid reports whether t is a known template
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Number of question/answer pairs read for an FAQ page
const faqPairs = 3

type thing struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type base struct {
	Context string `json:"@context"`
}

type article struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	Author        thing  `json:"author"`
	Publisher     thing  `json:"publisher"`
	DatePublished string `json:"datePublished"`
	Description   string `json:"description"`
}

type offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability"`
}

type product struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Offers      offer  `json:"offers"`
	Brand       *thing `json:"brand,omitempty"`
}

type answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer answer `json:"acceptedAnswer"`
}

type faqPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []question `json:"mainEntity"`
}

type rating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	BestRating  string `json:"bestRating"`
}

type review struct {
	Context      string `json:"@context"`
	Type         string `json:"@type"`
	ItemReviewed thing  `json:"itemReviewed"`
	ReviewRating rating `json:"reviewRating"`
	Author       thing  `json:"author"`
	ReviewBody   string `json:"reviewBody"`
}

type event struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
	Location    thing  `json:"location"`
	Organizer   *thing `json:"organizer,omitempty"`
}

// Generate renders the JSON-LD document for schemaType filled from fields.
// Missing fields become empty strings or documented defaults. An unknown
// type renders only the @context.
func Generate(schemaType Type, fields map[string]string) (string, error) {
	get := func(key, fallback string) string {
		if v := fields[key]; v != "" {
			return v
		}
		return fallback
	}

	var doc any
	switch schemaType {
	case TypeArticle:
		doc = article{
			Context:       schemaContext,
			Type:          "Article",
			Headline:      get("headline", ""),
			Author:        thing{Type: "Person", Name: get("author", "")},
			Publisher:     thing{Type: "Organization", Name: get("publisher", "")},
			DatePublished: get("publishDate", ""),
			Description:   get("description", ""),
		}

	case TypeProduct:
		p := product{
			Context:     schemaContext,
			Type:        "Product",
			Name:        get("name", ""),
			Description: get("description", ""),
			Offers: offer{
				Type:          "Offer",
				Price:         get("price", ""),
				PriceCurrency: get("currency", "USD"),
				Availability:  schemaContext + "/" + get("availability", "InStock"),
			},
		}
		if brand := get("brand", ""); brand != "" {
			p.Brand = &thing{Type: "Brand", Name: brand}
		}
		doc = p

	case TypeFAQ:
		page := faqPage{Context: schemaContext, Type: "FAQPage", MainEntity: []question{}}
		for i := 1; i <= faqPairs; i++ {
			q := get("question"+strconv.Itoa(i), "")
			a := get("answer"+strconv.Itoa(i), "")
			if q == "" || a == "" {
				continue
			}
			page.MainEntity = append(page.MainEntity, question{
				Type:           "Question",
				Name:           q,
				AcceptedAnswer: answer{Type: "Answer", Text: a},
			})
		}
		doc = page

	case TypeReview:
		doc = review{
			Context:      schemaContext,
			Type:         "Review",
			ItemReviewed: thing{Type: "Thing", Name: get("itemReviewed", "")},
			ReviewRating: rating{
				Type:        "Rating",
				RatingValue: get("reviewRating", "5"),
				BestRating:  get("bestRating", "5"),
			},
			Author:     thing{Type: "Person", Name: get("author", "")},
			ReviewBody: get("reviewBody", ""),
		}

	case TypeEvent:
		e := event{
			Context:     schemaContext,
			Type:        "Event",
			Name:        get("name", ""),
			StartDate:   get("startDate", ""),
			EndDate:     get("endDate", ""),
			Description: get("description", ""),
			Location:    thing{Type: "Place", Name: get("location", "")},
		}
		if organizer := get("organizer", ""); organizer != "" {
			e.Organizer = &thing{Type: "Organization", Name: organizer}
		}
		doc = e

	default:
		doc = base{Context: schemaContext}
	}

	return encode(doc)
}

func encode(doc any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode schema markup: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// ScriptTag wraps markup in the script element pages embed it with. "</" is
// written as the equivalent JSON escape "<\/" so field values cannot close
// the element early.
func ScriptTag(markup string) string {
	markup = strings.ReplaceAll(markup, "</", `<\/`)
	return `<script type="application/ld+json">` + "\n" + markup + "\n</script>"
}
