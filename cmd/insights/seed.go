package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/card-insights/internal/cli"
	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/fixtures"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the sample cards",
		Long: `Store one card per sample record so that 'insights records list'
and 'insights records show' have data to work with. Running it again
replaces the samples.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}
}

// recordSaver stores one card.
type recordSaver interface {
	SaveRecord(ctx context.Context, id string, moduleType model.ModuleType, record model.ConsumptionRecord) (string, error)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	store, err := openConfiguredStorage(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := seedFixtures(cmd.Context(), store)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Stored %d sample cards", n)))
	return nil
}

// seedFixtures saves every fixture under the ID "sample-<key>".
func seedFixtures(ctx context.Context, saver recordSaver) (int, error) {
	keys, err := fixtures.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to load fixtures: %w", err)
	}
	for _, key := range keys {
		f, err := fixtures.Get(key)
		if err != nil {
			return 0, fmt.Errorf("failed to load fixture %s: %w", key, err)
		}
		if _, err := saver.SaveRecord(ctx, "sample-"+key, fixtureModule(key), f.Record); err != nil {
			return 0, fmt.Errorf("failed to store fixture %s: %w", key, err)
		}
		common.LogDebug(ctx, "Stored sample card", common.Fields{"key": key})
	}
	return len(keys), nil
}

// fixtureModule maps a fixture key to its module type. Keys that are not
// module types are variants of the category card.
func fixtureModule(key string) model.ModuleType {
	if t := model.ModuleType(key); t.Valid() {
		return t
	}
	return model.ModuleCategory
}
