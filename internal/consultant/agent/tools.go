package agent

import (
	"google.golang.org/genai"
)

// toolDeclarations describes the consultant's tool surface. Declarations
// use the genai schema types and are converted to the chat-completions
// wire format by the platform client.
func toolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        toolStartQuote,
			Description: "Start a new quote for a client. Creates the quote with its mandatory foundation feature already included. Use when the client has said what kind of project they want.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"serviceType": {
						Type:        genai.TypeString,
						Enum:        []string{"website", "automation", "starter"},
						Description: "The service the client wants: website (custom website), automation (business workflow automation) or starter (entry-level website package).",
					},
				},
				Required: []string{"serviceType"},
			},
		},
		{
			Name:        toolFindFeatures,
			Description: "Search the pricing catalog for features matching the client's goal, e.g. 'accept mpesa payments' or 'book appointments'. Returns ranked matches with prices.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "What the client wants to achieve, in their own words.",
					},
					"serviceType": {
						Type:        genai.TypeString,
						Enum:        []string{"website", "automation", "starter"},
						Description: "Catalog to search. Optional when a quote is already active.",
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        toolAddFeature,
			Description: "Add a feature to the active quote by its catalog ID. The quote total is updated automatically.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"featureId": {
						Type:        genai.TypeString,
						Description: "Catalog feature ID, e.g. WEB-MPESA.",
					},
				},
				Required: []string{"featureId"},
			},
		},
		{
			Name:        toolGetQuote,
			Description: "Get the active quote: items, mandatory/optional breakdown and the running total. Use before summarising pricing for the client.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		{
			Name:        toolFinalizeQuote,
			Description: "Submit the active quote as a formal quote request once the client confirms and has shared their contact details. Our team follows up with the client afterwards.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"clientName": {
						Type:        genai.TypeString,
						Description: "The client's full name.",
					},
					"clientEmail": {
						Type:        genai.TypeString,
						Description: "The client's email address.",
					},
					"clientPhone": {
						Type:        genai.TypeString,
						Description: "The client's phone number, if shared.",
					},
					"notes": {
						Type:        genai.TypeString,
						Description: "Anything else the team should know about the project.",
					},
				},
				Required: []string{"clientName", "clientEmail"},
			},
		},
	}
}
