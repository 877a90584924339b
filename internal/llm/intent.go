package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Intent is the structured location-search intent extracted from a chat
// message. QueryType "general" means the message was not a location query
// and only ResponseText is meaningful.
type Intent struct {
	QueryType    string   `json:"query_type"`
	SearchQuery  string   `json:"search_query"`
	LocationHint string   `json:"location_hint"`
	CuisineType  string   `json:"cuisine_type"`
	Preferences  []string `json:"preferences"`
	ResponseText string   `json:"response_text"`
}

// IsLocationQuery reports whether the intent should trigger a place search.
func (i *Intent) IsLocationQuery() bool {
	return i != nil && i.QueryType != "" && i.QueryType != "general" && i.SearchQuery != ""
}

// systemPrompt instructs the model to answer with nothing but the intent
// JSON object. Kept close to the production prompt; changing the field names
// breaks ParseIntent.
const systemPrompt = `You are a helpful location assistant that helps users find places to go, eat, visit, or explore.

When a user asks about finding places, you MUST respond with a valid JSON object containing:
1. "query_type": The type of place (restaurant, cafe, bar, attraction, parking, hotel, shop, etc.)
2. "search_query": A search query optimized for a places search API (e.g., "best sushi restaurant", "coffee shop with wifi")
3. "location_hint": Any specific location mentioned by the user (city, neighborhood, landmark), or null if not specified
4. "cuisine_type": For food places, the specific cuisine (japanese, italian, etc.), or null
5. "preferences": Array of user preferences mentioned (cheap, fancy, romantic, family-friendly, etc.)
6. "response_text": A friendly, helpful response to show the user (2-3 sentences)

IMPORTANT: Always respond with ONLY the JSON object, no additional text before or after.

Example user query: "Where can I find good Italian food near Central Park?"
Example response:
{
    "query_type": "restaurant",
    "search_query": "italian restaurant",
    "location_hint": "Central Park, New York",
    "cuisine_type": "italian",
    "preferences": ["good quality"],
    "response_text": "I'd be happy to help you find great Italian restaurants near Central Park! Let me search for the best options in that area. Here are some highly-rated Italian dining spots for you."
}

If the user's message is NOT about finding places (e.g., just a greeting or unrelated question), respond with:
{
    "query_type": "general",
    "search_query": "",
    "location_hint": null,
    "cuisine_type": null,
    "preferences": [],
    "response_text": "Your helpful response here"
}`

var jsonObjectRE = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseIntent extracts the intent JSON from a raw model reply. Replies
// without a parseable JSON object degrade to a "general" intent carrying the
// raw text, never an error: a chatty model is not a failure condition.
func ParseIntent(raw string) *Intent {
	fallback := &Intent{
		QueryType:    "general",
		ResponseText: strings.TrimSpace(raw),
	}
	if fallback.ResponseText == "" {
		fallback.ResponseText = "I'd be happy to help you find places!"
	}

	match := jsonObjectRE.FindString(raw)
	if match == "" {
		return fallback
	}

	var intent Intent
	if err := json.Unmarshal([]byte(match), &intent); err != nil {
		return fallback
	}

	if intent.QueryType == "" {
		intent.QueryType = "general"
	}
	if strings.TrimSpace(intent.ResponseText) == "" {
		intent.ResponseText = "I can help you find places!"
	}
	return &intent
}

// keywordPlaceTypes backs the no-LLM fallback intent extraction.
var keywordPlaceTypes = []struct {
	placeType string
	keywords  []string
}{
	{"restaurant", []string{"restaurant", "food", "eat", "dinner", "lunch", "breakfast"}},
	{"cafe", []string{"cafe", "coffee", "coffeeshop"}},
	{"bar", []string{"bar", "pub", "drinks", "beer", "cocktail"}},
	{"parking", []string{"parking", "garage"}},
	{"hotel", []string{"hotel", "stay", "accommodation", "lodge"}},
	{"attraction", []string{"visit", "see", "attraction", "museum", "tourist"}},
	{"shop", []string{"shop", "store", "buy", "mall", "shopping"}},
	{"gas_station", []string{"gas", "fuel", "petrol"}},
	{"hospital", []string{"hospital", "clinic", "doctor", "medical"}},
	{"pharmacy", []string{"pharmacy", "drugstore", "medicine"}},
}

// KeywordIntent builds a best-effort intent from keyword matching alone.
// Used when the model is unavailable or as a cheap pre-pass for simple
// queries.
func KeywordIntent(message string) *Intent {
	lower := strings.ToLower(message)

	for _, entry := range keywordPlaceTypes {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return &Intent{
					QueryType:    entry.placeType,
					SearchQuery:  message,
					ResponseText: "Here is what I found nearby.",
				}
			}
		}
	}

	// No place keyword matched; treat the message as conversation.
	return &Intent{QueryType: "general"}
}
