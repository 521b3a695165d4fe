package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagOnboardingComplete bool

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Show or complete onboarding",
	Long: `Print whether onboarding has been completed, or mark it completed
with --complete.`,
	Run: runOnboarding,
}

func init() {
	onboardingCmd.Flags().BoolVar(&flagOnboardingComplete, "complete", false, "Mark onboarding as completed")
}

func runOnboarding(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	store, db := openStats(ctx, newLogger())
	defer db.Close()

	if flagOnboardingComplete {
		if err := store.CompleteOnboarding(ctx); err != nil {
			fatalf("saving onboarding: %v", err)
		}
	}

	if store.OnboardingComplete() {
		fmt.Println("Onboarding: completed")
	} else {
		fmt.Println("Onboarding: not completed")
	}
}
