// questflow-cli runs a questionnaire flow interactively in the terminal:
// it loads flow documents, asks the visible questions one at a time,
// validates answers inline and prints suggestions as they fire.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/goliatone/go-questflow/internal/tui"
	"github.com/goliatone/go-questflow/pkg/analytics"
	"github.com/goliatone/go-questflow/pkg/engine"
	"github.com/goliatone/go-questflow/pkg/flows"
	"github.com/goliatone/go-questflow/pkg/flows/loader"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

func main() {
	flowPath := flag.String("flows", "flows.yaml", "flow document path (YAML or JSON)")
	flowID := flag.String("flow", "", "flow id to run (defaults to the first flow in the document)")
	profilePath := flag.String("profile", "", "optional user profile JSON path")
	userID := flag.String("user", "local", "user id for analytics events")
	verbose := flag.Bool("verbose", false, "log suggestion analytics events")
	flag.Parse()

	docs, err := loader.LoadFile(*flowPath)
	if err != nil {
		log.Fatalf("load flows: %v", err)
	}
	if len(docs) == 0 {
		log.Fatalf("no flows found in %s", *flowPath)
	}

	registry := flows.NewRegistry()
	for _, flow := range docs {
		if err := registry.Register(flow); err != nil {
			log.Fatalf("register flow %q: %v", flow.ID, err)
		}
	}

	id := *flowID
	if id == "" {
		id = docs[0].ID
	}

	profile, err := loadProfile(*profilePath)
	if err != nil {
		log.Fatalf("load profile: %v", err)
	}

	opts := []engine.Option{engine.WithFlowRegistry(registry)}
	if *verbose {
		opts = append(opts, engine.WithAnalytics(analytics.NewLogger(slog.Default())))
	}

	runner := tui.NewRunner(engine.New(opts...), nil, *userID)
	answers, err := runner.Run(context.Background(), id, profile)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(1)
		}
		log.Fatalf("run flow: %v", err)
	}

	encoded, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		log.Fatalf("encode answers: %v", err)
	}
	fmt.Println(string(encoded))
}

func loadProfile(path string) (*questionnaire.UserProfile, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var profile questionnaire.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &profile, nil
}
