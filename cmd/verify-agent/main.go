package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"fieldops/internal/ai"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load() // Load .env if present

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	agent := ai.NewAgent(apiKey)
	ctx := context.Background()

	job := "Repaint the stairwell of a four-storey residential building, walls and ceilings, including protection of the handrails."

	fmt.Printf("DRAFTING QUOTE FOR: %s\n", job)
	draft, err := agent.DraftQuoteLines(ctx, job)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	_, totals, err := draft.Inputs(decimal.RequireFromString("0.077"))
	if err != nil {
		log.Fatalf("Draft rejected: %v", err)
	}

	fmt.Printf("\n--- DRAFT ---\n")
	fmt.Printf("Reasoning: %s\n", draft.Reasoning)

	fmt.Printf("\nLines:\n")
	for _, line := range draft.Lines {
		fmt.Printf("- %s: %s x %s\n", line.Description, line.Quantity, line.UnitPrice)
	}
	fmt.Printf("\nSubtotal: %s  Tax: %s  Total: %s\n", totals.Subtotal.StringFixed(2), totals.TaxAmount.StringFixed(2), totals.Total.StringFixed(2))

	for _, r := range draft.Risks {
		fmt.Printf("Risk: %s\n", r)
	}
	for _, m := range draft.MissingInformation {
		fmt.Printf("Missing: %s\n", m)
	}
}
