package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/civicstack/maturity-cli/internal/model"
	"github.com/civicstack/maturity-cli/internal/scoring"
	"github.com/civicstack/maturity-cli/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute maturity results from survey responses",
	Long: `Score completed survey responses into per-organization maturity results.

For each organization, numeric answers are aggregated into stakeholder-weighted
domain scores, combined into an overall score by domain weight, and classified
against the survey's maturity ladder.

Examples:
  # Score every organization with responses
  score --survey digital-maturity-v1 --save

  # Score one organization and print the result
  score --survey digital-maturity-v1 --org org-001

  # Show data warnings (non-numeric answers, silent zero domains)
  score --survey digital-maturity-v1 --org org-001 --warnings`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("survey", "", "survey id (required)")
	f.String("org", "", "score a single organization")
	f.Bool("save", false, "persist results to the result store")
	f.Bool("warnings", false, "print response validation warnings")
	f.Int("concurrency", 4, "organizations scored in parallel")
	_ = scoreCmd.MarkFlagRequired("survey")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	surveyID, _ := cmd.Flags().GetString("survey")
	orgID, _ := cmd.Flags().GetString("org")
	save, _ := cmd.Flags().GetBool("save")
	showWarnings, _ := cmd.Flags().GetBool("warnings")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	survey, err := st.GetSurvey(ctx, surveyID)
	if err != nil {
		return eris.Wrapf(err, "score: load survey %s", surveyID)
	}
	if err := survey.Validate(); err != nil {
		// Advisory: scoring stays fail-open on malformed schemas.
		zap.L().Warn("score: schema validation", zap.Error(err))
	}

	log := zap.L().With(zap.String("command", "score"), zap.String("survey_id", surveyID))

	responses, err := st.ListResponses(ctx, surveyID, store.ResponseFilter{
		OrganizationID: orgID,
		CompletedOnly:  true,
	})
	if err != nil {
		return eris.Wrap(err, "score: list responses")
	}
	if len(responses) == 0 {
		fmt.Println("No completed responses found.")
		return nil
	}

	byOrg := make(map[string][]model.Response)
	for i := range responses {
		byOrg[responses[i].OrganizationID] = append(byOrg[responses[i].OrganizationID], responses[i])
	}

	orgIDs := make([]string, 0, len(byOrg))
	for id := range byOrg {
		orgIDs = append(orgIDs, id)
	}
	sort.Strings(orgIDs)

	log.Info("scoring organizations",
		zap.Int("organizations", len(orgIDs)),
		zap.Int("responses", len(responses)),
	)

	// Scoring is pure, so organizations can run in parallel; only the
	// results slice needs the mutex.
	var mu sync.Mutex
	results := make([]*model.Result, 0, len(orgIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, id := range orgIDs {
		id := id
		g.Go(func() error {
			result := scoring.ScoreOrganization(survey, id, byOrg[id])
			if save {
				if err := st.SaveResult(gctx, result); err != nil {
					return eris.Wrapf(err, "score: save result for %s", id)
				}
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].OrganizationID < results[j].OrganizationID
	})

	if orgID != "" && len(results) == 1 {
		printSingleResult(survey, results[0])
	} else {
		printResultTable(results)
	}

	if showWarnings {
		for _, id := range orgIDs {
			for _, warning := range scoring.ValidateResponses(survey, byOrg[id]) {
				fmt.Fprintf(os.Stderr, "warning [%s] %s: %s\n", id, warning.Code, warning.Detail)
			}
		}
	}

	if save {
		fmt.Printf("Saved %d results\n", len(results))
	}
	return nil
}

func printSingleResult(survey *model.Survey, r *model.Result) {
	fmt.Printf("Organization: %s\n", r.OrganizationID)
	fmt.Printf("Overall:      %.2f / %.0f\n", r.OverallScore, model.MaxScore)
	fmt.Printf("Maturity:     %s\n", r.MaturityLevel.Name)
	fmt.Printf("Responses:    %d\n", r.ResponseCount)
	fmt.Println("\nDomains:")
	for _, d := range survey.Domains {
		fmt.Printf("  %-20s %.2f\n", d.Name, r.DomainScores[d.ID])
	}
	if len(r.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range r.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
}

func printResultTable(results []*model.Result) {
	fmt.Printf("%-12s %8s %-10s %10s\n", "Org", "Score", "Level", "Responses")
	fmt.Println(strings.Repeat("-", 44))
	for _, r := range results {
		fmt.Printf("%-12s %8.2f %-10s %10d\n",
			r.OrganizationID, r.OverallScore, r.MaturityLevel.ID, r.ResponseCount)
	}
}
