package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, markup string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(markup), &out))
	return out
}

func TestGenerate(t *testing.T) {
	t.Run("Article", func(t *testing.T) {
		markup, err := Generate(TypeArticle, map[string]string{
			"headline": "Ranking in 2024",
			"author":   "Sam",
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(markup, "{\n  \"@context\": \"https://schema.org\",\n  \"@type\": \"Article\""))

		doc := decode(t, markup)
		assert.Equal(t, "Ranking in 2024", doc["headline"])
		assert.Equal(t, map[string]any{"@type": "Person", "name": "Sam"}, doc["author"])
		assert.Equal(t, "", doc["datePublished"])
	})

	t.Run("ProductDefaults", func(t *testing.T) {
		markup, err := Generate(TypeProduct, map[string]string{"name": "Widget", "price": "9.99"})
		require.NoError(t, err)
		doc := decode(t, markup)
		offers := doc["offers"].(map[string]any)
		assert.Equal(t, "USD", offers["priceCurrency"])
		assert.Equal(t, "https://schema.org/InStock", offers["availability"])
		assert.NotContains(t, doc, "brand")

		markup, err = Generate(TypeProduct, map[string]string{"brand": "Acme"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"@type": "Brand", "name": "Acme"}, decode(t, markup)["brand"])
	})

	t.Run("FAQSkipsIncompletePairs", func(t *testing.T) {
		markup, err := Generate(TypeFAQ, map[string]string{
			"question1": "What is SEO?", "answer1": "Search engine optimization.",
			"question2": "Unanswered",
			"question3": "Why?", "answer3": "Traffic.",
		})
		require.NoError(t, err)
		entities := decode(t, markup)["mainEntity"].([]any)
		require.Len(t, entities, 2)
		assert.Equal(t, "Why?", entities[1].(map[string]any)["name"])

		empty, err := Generate(TypeFAQ, nil)
		require.NoError(t, err)
		assert.Contains(t, empty, `"mainEntity": []`)
	})

	t.Run("ReviewAndEvent", func(t *testing.T) {
		markup, err := Generate(TypeReview, nil)
		require.NoError(t, err)
		rating := decode(t, markup)["reviewRating"].(map[string]any)
		assert.Equal(t, "5", rating["ratingValue"])
		assert.Equal(t, "5", rating["bestRating"])

		markup, err = Generate(TypeEvent, map[string]string{"organizer": "Meetup & Co"})
		require.NoError(t, err)
		assert.Contains(t, markup, "Meetup & Co")
		assert.Equal(t, "Place", decode(t, markup)["location"].(map[string]any)["@type"])
	})

	t.Run("UnknownType", func(t *testing.T) {
		markup, err := Generate(Type("recipe"), map[string]string{"name": "Soup"})
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"@context\": \"https://schema.org\"\n}", markup)
	})
}

func TestTypeValid(t *testing.T) {
	assert.True(t, TypeFAQ.Valid())
	assert.False(t, Type("recipe").Valid())
}

func TestScriptTagEscapesClosingTags(t *testing.T) {
	markup, err := Generate(TypeArticle, map[string]string{"headline": "Break </script><script>alert(1)</script>"})
	require.NoError(t, err)
	assert.Contains(t, markup, "</script>", "plain markup stays unescaped")

	tag := ScriptTag(markup)
	body := strings.TrimSuffix(strings.TrimPrefix(tag, `<script type="application/ld+json">`), "</script>")
	assert.NotContains(t, body, "</")
	assert.Equal(t, 1, strings.Count(strings.ToLower(tag), "</script"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "Break </script><script>alert(1)</script>", doc["headline"])
}
