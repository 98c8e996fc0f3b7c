package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fieldops/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"github.com/shopspring/decimal"
)

// DrafterService proposes quote lines from a free-text job description.
type DrafterService interface {
	DraftQuoteLines(ctx context.Context, description string) (*Draft, error)
}

// DraftLine is a proposed quote line as returned by the model. Amounts are
// strings so the model cannot introduce float rounding.
type DraftLine struct {
	Description string `json:"description" jsonschema_description:"What is delivered or performed"`
	Quantity    string `json:"quantity" jsonschema_description:"Positive decimal quantity, e.g. \"12\" or \"2.5\""`
	UnitPrice   string `json:"unit_price" jsonschema_description:"Price per unit in CHF as an exact decimal string, e.g. \"85.00\""`
}

// Draft is the structured response of a drafting call.
type Draft struct {
	Lines              []DraftLine `json:"lines"`
	Risks              []string    `json:"risks" jsonschema_description:"Site or execution risks the estimator should check"`
	MissingInformation []string    `json:"missing_information" jsonschema_description:"Facts needed before the quote can be sent"`
	Reasoning          string      `json:"reasoning"`
}

// Inputs converts the draft into validated line inputs and their totals at
// taxRate. Nothing is persisted.
func (d *Draft) Inputs(taxRate decimal.Decimal) ([]core.LineInput, core.Totals, error) {
	if len(d.Lines) == 0 {
		return nil, core.Totals{}, fmt.Errorf("draft contains no lines")
	}
	inputs := make([]core.LineInput, 0, len(d.Lines))
	items := make([]core.LineItem, 0, len(d.Lines))
	for i, l := range d.Lines {
		qty, err := decimal.NewFromString(strings.TrimSpace(l.Quantity))
		if err != nil {
			return nil, core.Totals{}, fmt.Errorf("line %d quantity %q: %w", i+1, l.Quantity, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(l.UnitPrice))
		if err != nil {
			return nil, core.Totals{}, fmt.Errorf("line %d unit price %q: %w", i+1, l.UnitPrice, err)
		}
		in := core.LineInput{Description: strings.TrimSpace(l.Description), Quantity: qty, UnitPrice: price}
		inputs = append(inputs, in)
		items = append(items, core.LineItem{Description: in.Description, Quantity: qty, UnitPrice: price})
	}
	totals, err := core.ComputeAggregateTotals(items, taxRate)
	if err != nil {
		return nil, core.Totals{}, fmt.Errorf("draft validation failed: %w", err)
	}
	return inputs, totals, nil
}

type Agent struct {
	client *openai.Client
	model  shared.ResponsesModel
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client, model: shared.ResponsesModel(shared.ChatModelGPT4o)}
}

func (a *Agent) DraftQuoteLines(ctx context.Context, description string) (*Draft, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description is required")
	}
	prompt := fmt.Sprintf(`You are an estimator for a facility-services contractor.
Break the job below into quote lines a customer can understand.
Rules:
1. Quantities and unit prices must be exact decimal strings (e.g. "3", "85.00").
2. Prices are in CHF, excluding VAT.
3. Separate labor, materials and disposal into their own lines.
4. List risks you can see and information missing for a firm price.

Job: %s`, description)

	schemaMap, err := draftSchema()
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: a.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "quote_draft",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Proposed quote lines for a field-service job"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}
	return parseDraft(resp.OutputText())
}

func parseDraft(content string) (*Draft, error) {
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}
	var draft Draft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	return &draft, nil
}

func draftSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(&Draft{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}
