package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"budgetme/internal/cli"
	"budgetme/internal/core"
	applog "budgetme/internal/log"
	"budgetme/internal/report"
)

func main() {
	planName := flag.String("plan", "", "plan to render (defaults to PLAN_NAME)")
	outDir := flag.String("out", "", "output directory (defaults to REPORT_DIR)")
	sample := flag.Bool("sample", false, "seed and render a sample plan")
	list := flag.Bool("list", false, "list saved plans and exit")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentReport)
	cfg := cli.LoadAndValidateConfig(logger)
	if *planName != "" {
		cfg.PlanName = *planName
	}
	if *outDir != "" {
		cfg.ReportDir = *outDir
	}

	store := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer store.Close()

	ctx := context.Background()

	if *list {
		plans, err := store.ListPlans(ctx)
		if err != nil {
			logger.Error("Failed to list plans", "error", err)
			os.Exit(1)
		}
		if len(plans) == 0 {
			fmt.Println("no saved plans")
			return
		}
		for _, p := range plans {
			fmt.Printf("%s\t%d\t%s\n", p.Name, p.Year, p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return
	}

	var budget *core.Budget
	var err error
	if *sample {
		budget, err = samplePlan(cfg.PlanYear)
		if err != nil {
			logger.Error("Failed to build sample plan", "error", err)
			os.Exit(1)
		}
		if err := store.SavePlan(ctx, cfg.PlanName, budget.Snapshot()); err != nil {
			logger.Error("Failed to save sample plan", "error", err, "plan", cfg.PlanName)
			os.Exit(1)
		}
		logger.Info("Seeded sample plan", "plan", cfg.PlanName, "year", cfg.PlanYear)
	} else {
		budget, err = cli.LoadOrSeedPlan(ctx, store, cfg)
		if err != nil {
			logger.Error("Failed to load plan", "error", err, "plan", cfg.PlanName)
			os.Exit(1)
		}
	}

	htmlPath, csvPath, err := report.WriteFiles(ctx, cfg.PlanName, budget, cfg.ReportDir)
	if err != nil {
		logger.Error("Failed to write reports", "error", err)
		os.Exit(1)
	}

	logger.Info("Reports written", "html", htmlPath, "csv", csvPath)
	fmt.Println(htmlPath)
	fmt.Println(csvPath)
}

// samplePlan builds a small household plan demonstrating recurrence,
// parent/child roll-up, banks and optional spending.
func samplePlan(year int) (*core.Budget, error) {
	b := core.NewBudget(year, 2)
	b.DayLabels[0] = "1st"
	b.DayLabels[1] = "15th"
	b.AddBankWithBalance("Checking", core.Cents(250000))

	add := func(p core.AccountParams) error {
		_, err := b.AddAccount(p)
		return err
	}

	if err := add(core.AccountParams{
		Name:     "Payroll",
		Days:     []core.Money{core.Cents(180000), core.Money{}},
		Category: "Income",
		Bank:     "Checking",
	}); err != nil {
		return nil, err
	}
	if err := add(core.AccountParams{
		Name:     "Rent",
		Days:     []core.Money{core.Cents(-95000), core.Money{}},
		Category: "Housing",
	}); err != nil {
		return nil, err
	}
	if err := add(core.AccountParams{
		Name:     "Utilities",
		Days:     []core.Money{{}, {}},
		Category: "Housing",
	}); err != nil {
		return nil, err
	}
	if err := add(core.AccountParams{
		Name:     "Power",
		Days:     []core.Money{{}, core.Cents(-9500)},
		Category: "Housing",
		Parent:   "Utilities",
	}); err != nil {
		return nil, err
	}
	if err := add(core.AccountParams{
		Name:     "Water",
		Days:     []core.Money{{}, core.Cents(-4200)},
		Category: "Housing",
		Parent:   "Utilities",
	}); err != nil {
		return nil, err
	}
	if err := add(core.AccountParams{
		Name:      "Car insurance",
		Days:      []core.Money{core.Cents(-42000), core.Money{}},
		Category:  "Transport",
		Frequency: 6,
		Start:     3,
	}); err != nil {
		return nil, err
	}
	if err := add(core.AccountParams{
		Name:     "Streaming",
		Days:     []core.Money{{}, core.Cents(-3500)},
		Category: "Leisure",
		Mode:     core.ModeOptional,
	}); err != nil {
		return nil, err
	}

	b.RefreshBalances()
	return b, nil
}
