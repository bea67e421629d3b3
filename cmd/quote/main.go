// Package main provides a one-shot command line match pricer.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisJamesShevlin/snooker/internal/config"
	"github.com/ChrisJamesShevlin/snooker/internal/engine"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	evaluator  *engine.Evaluator
)

// playerFlags holds one side's season form and live frame statistics.
// Pot success and time on table are entered as percentages, matching
// the score sheet.
type playerFlags struct {
	seasonPoints   float64
	matchesPlayed  int
	winRate        float64
	seasonShotTime float64
	seasonFifties  int
	seasonHundreds int

	potPct       float64
	liveShotTime float64
	liveFifties  int
	liveHundreds int
	highestBreak int
	livePoints   float64
	shotsTaken   int
	tablePct     float64
}

var (
	playerA playerFlags
	playerB playerFlags

	framesA   int
	framesB   int
	bestOf    int
	preOddsA  float64
	preOddsB  float64
	bookOddsA float64
	bookOddsB float64
)

var rootCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a live snooker match from one snapshot",
	Long: `Runs a single pricing cycle from season form, live frame statistics,
the current score and market odds, then prints the fair price sheet and
any value lines. Engine coefficients come from the config file when it
exists, otherwise the tuned defaults apply.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupEvaluator()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuote()
	},
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.Flags().IntVar(&framesA, "frames-a", 0, "Frames won by player A")
	rootCmd.Flags().IntVar(&framesB, "frames-b", 0, "Frames won by player B")
	rootCmd.Flags().IntVar(&bestOf, "best-of", 7, "Match format, e.g. 7 for best of 7")
	rootCmd.Flags().Float64Var(&preOddsA, "pre-odds-a", 0, "Pre-match decimal odds for player A")
	rootCmd.Flags().Float64Var(&preOddsB, "pre-odds-b", 0, "Pre-match decimal odds for player B")
	rootCmd.Flags().Float64Var(&bookOddsA, "book-odds-a", 0, "Current book decimal odds for player A")
	rootCmd.Flags().Float64Var(&bookOddsB, "book-odds-b", 0, "Current book decimal odds for player B")

	registerPlayerFlags(rootCmd, "a", &playerA)
	registerPlayerFlags(rootCmd, "b", &playerB)
}

func registerPlayerFlags(cmd *cobra.Command, side string, target *playerFlags) {
	flags := cmd.Flags()
	label := strings.ToUpper(side)

	flags.Float64Var(&target.seasonPoints, "season-points-"+side, 0, "Season points for player "+label)
	flags.IntVar(&target.matchesPlayed, "season-matches-"+side, 0, "Season matches played by player "+label)
	flags.Float64Var(&target.winRate, "win-rate-"+side, 0, "Season win rate for player "+label+" (0-1)")
	flags.Float64Var(&target.seasonShotTime, "season-shot-time-"+side, 0, "Season average shot time for player "+label+" (seconds)")
	flags.IntVar(&target.seasonFifties, "season-fifties-"+side, 0, "Season 50+ breaks for player "+label)
	flags.IntVar(&target.seasonHundreds, "season-hundreds-"+side, 0, "Season centuries for player "+label)

	flags.Float64Var(&target.potPct, "pot-pct-"+side, 0, "Live pot success for player "+label+" (percent)")
	flags.Float64Var(&target.liveShotTime, "shot-time-"+side, 0, "Live average shot time for player "+label+" (seconds)")
	flags.IntVar(&target.liveFifties, "fifties-"+side, 0, "50+ breaks this match for player "+label)
	flags.IntVar(&target.liveHundreds, "hundreds-"+side, 0, "Centuries this match for player "+label)
	flags.IntVar(&target.highestBreak, "high-break-"+side, 0, "Highest break this match for player "+label)
	flags.Float64Var(&target.livePoints, "points-"+side, 0, "Points scored this match by player "+label)
	flags.IntVar(&target.shotsTaken, "shots-"+side, 0, "Shots taken this match by player "+label)
	flags.Float64Var(&target.tablePct, "table-pct-"+side, 0, "Time at the table for player "+label+" (percent, 0 means unreported)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupEvaluator() error {
	engineCfg := engine.DefaultConfig()

	loaded, err := config.Load(configFile)
	switch {
	case err == nil:
		engineCfg, err = engine.FromConfig(&loaded.Engine)
		if err != nil {
			return fmt.Errorf("invalid engine configuration: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Tuned defaults cover the missing file
	default:
		return err
	}

	evaluator, err = engine.NewEvaluator(engineCfg)
	if err != nil {
		return fmt.Errorf("failed to create evaluator: %w", err)
	}
	return nil
}

func runQuote() error {
	if bestOf < 1 || bestOf%2 == 0 {
		return fmt.Errorf("best-of must be an odd positive number, got %d", bestOf)
	}
	target := engine.TargetFromBestOf(bestOf)
	if framesA < 0 || framesB < 0 || framesA > target || framesB > target {
		return fmt.Errorf("score %d-%d is outside a race to %d", framesA, framesB, target)
	}

	input := engine.EvaluationInput{
		SeasonA:       playerA.season(),
		SeasonB:       playerB.season(),
		LiveA:         playerA.live(),
		LiveB:         playerB.live(),
		Score:         engine.ScoreState{FramesA: framesA, FramesB: framesB, TargetFrames: target},
		PreMatchOddsA: preOddsA,
		PreMatchOddsB: preOddsB,
		BookOddsA:     bookOddsA,
		BookOddsB:     bookOddsB,
	}

	sheet, err := evaluator.Evaluate(input)
	if err != nil {
		return err
	}

	printSheet(input, sheet)
	return nil
}

func (p playerFlags) season() engine.PlayerSeasonStats {
	return engine.PlayerSeasonStats{
		Points:        p.seasonPoints,
		MatchesPlayed: p.matchesPlayed,
		WinRate:       p.winRate,
		AvgShotTime:   p.seasonShotTime,
		Breaks50Plus:  p.seasonFifties,
		Breaks100Plus: p.seasonHundreds,
	}
}

func (p playerFlags) live() engine.PlayerLiveStats {
	// A zero time-on-table reads as unreported and defaults to an
	// even split
	tableShare := p.tablePct / 100
	if p.tablePct == 0 {
		tableShare = 0.5
	}

	return engine.PlayerLiveStats{
		PotPct:           p.potPct / 100,
		AvgShotTime:      p.liveShotTime,
		Breaks50Plus:     p.liveFifties,
		Breaks100Plus:    p.liveHundreds,
		HighestBreak:     p.highestBreak,
		Points:           p.livePoints,
		ShotsTaken:       p.shotsTaken,
		TimeOnTableShare: tableShare,
	}
}

func printSheet(input engine.EvaluationInput, sheet *engine.PriceSheet) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             Snooker Match Price Sheet            ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Score %d-%d, first to %d\n\n", input.Score.FramesA, input.Score.FramesB, input.Score.TargetFrames)

	fmt.Printf("Season strength A:   %+.4f\n", sheet.SeasonStrengthA)
	fmt.Printf("Season strength B:   %+.4f\n", sheet.SeasonStrengthB)
	fmt.Printf("Live boost:          %+.4f\n", sheet.LiveBoost)
	fmt.Printf("Frame prior:         %.4f", sheet.PriorProb)
	if !sheet.PriorConverged {
		fmt.Printf("  (inversion stalled, residual %.2g)", sheet.PriorResidual)
	}
	fmt.Println()
	fmt.Println()

	fmt.Printf("Frame win prob:      %.4f   fair %.2f\n", sheet.FrameProb, sheet.FrameFairOdds)
	fmt.Printf("Match win prob A:    %.4f   fair %.2f\n", sheet.MatchProb, sheet.FairOddsA)
	fmt.Printf("Match win prob B:    %.4f   fair %.2f\n", 1-sheet.MatchProb, sheet.FairOddsB)

	if sheet.ValueA != nil || sheet.ValueB != nil {
		fmt.Println()
		printValueLine("A", input.BookOddsA, sheet.ValueA)
		printValueLine("B", input.BookOddsB, sheet.ValueB)
	}
	fmt.Println()
}

func printValueLine(side string, bookOdds float64, value *engine.ValueResult) {
	if value == nil {
		return
	}

	marker := " "
	switch value.Classification {
	case engine.ClassificationValue:
		marker = "✓"
	case engine.ClassificationMarginal:
		marker = "~"
	}

	fmt.Printf("%s Player %s @ %.2f  edge %+.4f  %s\n", marker, side, bookOdds, value.Edge, value.Classification)
}
