// verify-db checks that the configured document store is reachable and
// behaves. It writes a probe supplier under a fixed id and draws numbers from
// a VERIFY prefix, so invoice and PO numbering is never consumed.
//
// Usage: go run ./cmd/verify-db
package main

import (
	"context"
	"log"
	"time"

	"fieldops/internal/config"
	"fieldops/internal/core"
	"fieldops/internal/db"
)

const probeID = "verify-db-probe"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[CONNECT] %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()
	log.Printf("[CONNECT] %s store opened", cfg.StoreDriver)

	checkRoundTrip(ctx, repo)
	checkListing(ctx, repo)
	checkSequence(ctx, repo)

	log.Println("[DONE] All checks passed.")
}

func checkRoundTrip(ctx context.Context, repo core.Repository) {
	probe := &core.Supplier{ID: probeID, Name: "verify-db probe", PaymentTerms: "NET 30", UpdatedAt: time.Now().UTC()}
	if err := repo.Put(ctx, probe); err != nil {
		log.Fatalf("[ROUNDTRIP] put: %v", err)
	}
	doc, err := repo.Get(ctx, core.KindSupplier, probeID)
	if err != nil {
		log.Fatalf("[ROUNDTRIP] get: %v", err)
	}
	got, ok := doc.(*core.Supplier)
	if !ok || got.Name != probe.Name {
		log.Fatalf("[ROUNDTRIP] read back %#v", doc)
	}
	log.Println("[ROUNDTRIP] ok")
}

func checkListing(ctx context.Context, repo core.Repository) {
	docs, err := repo.List(ctx, core.KindSupplier, core.Filter{Status: "inactive"})
	if err != nil {
		log.Fatalf("[LIST] %v", err)
	}
	for _, d := range docs {
		if d.Meta().ID == probeID {
			log.Fatalf("[LIST] inactive filter returned the active probe")
		}
	}
	log.Printf("[LIST] ok (%d inactive suppliers)", len(docs))
}

func checkSequence(ctx context.Context, repo core.Repository) {
	first, err := repo.NextSequence(ctx, "VERIFY")
	if err != nil {
		log.Fatalf("[SEQUENCE] %v", err)
	}
	second, err := repo.NextSequence(ctx, "VERIFY")
	if err != nil {
		log.Fatalf("[SEQUENCE] %v", err)
	}
	if first >= second {
		log.Fatalf("[SEQUENCE] not increasing: %s then %s", first, second)
	}
	log.Printf("[SEQUENCE] ok (%s → %s)", first, second)
}
