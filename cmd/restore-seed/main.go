// restore-seed is a one-shot tool to restore the master data seed: the field
// team and the standard suppliers. Existing records with the same ids are
// overwritten; documents are never touched.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"

	"fieldops/internal/app"
	"fieldops/internal/config"
	"fieldops/internal/core"
	"fieldops/internal/db"

	"github.com/shopspring/decimal"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

var team = map[string]app.TeamMemberRequest{
	"tm-anna":   {Name: "Anna Keller", Role: "lead", Skills: []string{"painting", "plaster"}, HourlyRate: decimal.RequireFromString("95"), Availability: weekdays},
	"tm-ben":    {Name: "Ben Moser", Role: "technician", Skills: []string{"electrical"}, HourlyRate: decimal.RequireFromString("88"), Availability: weekdays},
	"tm-chiara": {Name: "Chiara Rossi", Role: "technician", Skills: []string{"plumbing", "tiling"}, HourlyRate: decimal.RequireFromString("88"), Availability: []string{"tuesday", "wednesday", "thursday", "friday", "saturday"}},
}

var suppliers = map[string]app.SupplierRequest{
	"sup-farben":   {Name: "Farben Zentrum AG", ContactPerson: "M. Huber", Categories: []string{"paint"}, LeadTimeDays: 2, PaymentTerms: "NET 30"},
	"sup-elektro":  {Name: "Elektro Grosshandel GmbH", Categories: []string{"electrical"}, LeadTimeDays: 5, PaymentTerms: "NET 45"},
	"sup-sanitaer": {Name: "Sanitär Bedarf AG", Categories: []string{"plumbing", "tiles"}, LeadTimeDays: 7, PaymentTerms: "NET 30"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	repo, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	svc := app.NewAppService(core.NewEngine(repo), cfg.Flags, nil)

	log.Println("Restoring team members...")
	for id, req := range team {
		if _, err := svc.PutTeamMember(ctx, id, req); err != nil {
			log.Fatalf("Failed to restore team member %s: %v", id, err)
		}
	}

	log.Println("Restoring suppliers...")
	for id, req := range suppliers {
		if _, err := svc.PutSupplier(ctx, id, req); err != nil {
			log.Fatalf("Failed to restore supplier %s: %v", id, err)
		}
	}

	log.Printf("Seed data restored: %d team members, %d suppliers.", len(team), len(suppliers))
}
