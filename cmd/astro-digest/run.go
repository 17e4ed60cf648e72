package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/internal/ads"
	"github.com/msoaresfurtado/uw-astro-arxiv-digest/internal/digest"
	"github.com/msoaresfurtado/uw-astro-arxiv-digest/internal/faculty"
	"github.com/msoaresfurtado/uw-astro-arxiv-digest/internal/notify"
	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "astro-digest/0.1"
	defaultTitle     = "UW-Madison Astro-ph Digest"
)

func init() {
	// Defaults describe UW-Madison; a config file retargets everything.
	viper.SetDefault("institution.primary_keyword", "wisconsin")
	viper.SetDefault("institution.sibling_campuses", []string{
		"milwaukee", "whitewater", "oshkosh", "eau claire",
		"la crosse", "stevens point", "green bay", "parkside",
	})
	viper.SetDefault("institution.campus_patterns", []string{
		`university of wisconsin.*madison`,
		`uw[- ]?madison`,
		`u\.?w\.?[- ]?madison`,
		`madison.*wi.*53706`,
		`475 n\.? charter`,
		`1150 university ave.*madison`,
	})
	viper.SetDefault("institution.town_name", "madison")

	viper.SetDefault("digest.categories", []string{
		"astro-ph.GA", "astro-ph.CO", "astro-ph.EP",
		"astro-ph.HE", "astro-ph.IM", "astro-ph.SR",
	})
	viper.SetDefault("digest.topic_categories", []string{
		"astro-ph.EP", "astro-ph.SR",
	})
	viper.SetDefault("digest.topic_keywords", []string{
		"gyrochronology",
		"stellar rotation",
		"exoplanet age",
		"planetary engulfment",
		"young stars",
		"TESS photometry",
		"stellar age",
		"rotational evolution",
		"starspot",
		"chromospheric activity",
		"lithium depletion",
	})
	viper.SetDefault("digest.priority_orcids", []string{
		"0000-0001-7493-7419",
		"0000-0001-7246-5438",
		"0000-0003-2558-3102",
		"0000-0003-0381-1039",
	})

	viper.SetDefault("roster.directory_url", "https://astro.wisc.edu/people/faculty/")
	viper.SetDefault("smtp.server", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch recent papers, match them, and assemble the digest",
	Long: `Run queries ADS for recent papers inside the lookback window, applies the
selected matching mode, filters stale re-indexed records, and renders the
digest. By default the plain-text rendering is printed; --send delivers it
over SMTP instead.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("mode", "affiliation", "matching mode: affiliation, roster, or topic")
	runCmd.Flags().Int("days", 7, "lookback window in days")
	runCmd.Flags().Int("chunk-size", 10, "roster names per chunked query")
	runCmd.Flags().Int("max-stale-months", 2, "suppress papers first submitted more than this many months ago")
	runCmd.Flags().Int("rows", 500, "rows requested per query")
	runCmd.Flags().Bool("family-fallback", false, "enable family-name-only roster matching for records the initialed pass missed")
	runCmd.Flags().String("report", "", "write a YAML run report to this path")
	runCmd.Flags().Bool("send", false, "deliver the digest over SMTP instead of printing it")
	runCmd.Flags().String("title", defaultTitle, "digest title used in the subject line")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	days, _ := cmd.Flags().GetInt("days")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	maxStale, _ := cmd.Flags().GetInt("max-stale-months")
	rows, _ := cmd.Flags().GetInt("rows")
	familyFallback, _ := cmd.Flags().GetBool("family-fallback")
	reportPath, _ := cmd.Flags().GetString("report")
	send, _ := cmd.Flags().GetBool("send")
	title, _ := cmd.Flags().GetString("title")

	token := secretDefault("ads-api-key", viper.GetString("ads.token"))
	if token == "" {
		return fmt.Errorf("no ADS API token: put it in .secrets/ads-api-key or set ASTRO_DIGEST_ADS.TOKEN")
	}

	cfg := types.DigestConfig{
		LookbackDays:       days,
		ChunkSize:          chunkSize,
		MaxStalenessMonths: maxStale,
		Rows:               rows,
		Categories:         viper.GetStringSlice("digest.categories"),
		TopicKeywords:      viper.GetStringSlice("digest.topic_keywords"),
		PriorityORCIDs:     viper.GetStringSlice("digest.priority_orcids"),
		FamilyNameFallback: familyFallback,
	}
	if digest.Mode(mode) == digest.ModeTopic {
		cfg.Categories = viper.GetStringSlice("digest.topic_categories")
	}

	matcher, err := digest.NewAffiliationMatcher(types.InstitutionConfig{
		PrimaryKeyword:  viper.GetString("institution.primary_keyword"),
		SiblingCampuses: viper.GetStringSlice("institution.sibling_campuses"),
		CampusPatterns:  viper.GetStringSlice("institution.campus_patterns"),
		TownName:        viper.GetString("institution.town_name"),
	})
	if err != nil {
		return fmt.Errorf("institution config: %w", err)
	}

	client := ads.NewClient(types.ADSConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		Token:             token,
		RequestsPerSecond: viper.GetFloat64("ads.requests_per_second"),
	})

	pipeline := digest.NewPipeline(client, matcher, cfg, os.Stderr)
	ctx := cmd.Context()

	var res digest.RunResult
	switch digest.Mode(mode) {
	case digest.ModeAffiliation:
		res, err = pipeline.RunAffiliation(ctx)
	case digest.ModeRoster:
		roster, lerr := loadRoster(ctx)
		if lerr != nil {
			return lerr
		}
		fmt.Fprintf(os.Stderr, "Roster: %d names\n", len(roster))
		res, err = pipeline.RunRoster(ctx, roster)
	case digest.ModeTopic:
		res, err = pipeline.RunTopic(ctx)
	default:
		return fmt.Errorf("unknown mode %q (want affiliation, roster, or topic)", mode)
	}
	if err != nil {
		return err
	}

	printStats(res)

	if reportPath != "" {
		if err := digest.WriteReport(reportPath, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", reportPath)
	}

	renderer, err := notify.NewRenderer(title)
	if err != nil {
		return fmt.Errorf("building renderer: %w", err)
	}
	msg, err := renderer.Render(res)
	if err != nil {
		return fmt.Errorf("rendering digest: %w", err)
	}

	var sender notify.Sender
	if send {
		sender = notify.NewSMTPSender(types.SMTPConfig{
			Server:     viper.GetString("smtp.server"),
			Port:       viper.GetInt("smtp.port"),
			Sender:     viper.GetString("smtp.sender"),
			Password:   secretDefault("smtp-password", ""),
			Recipients: viper.GetStringSlice("smtp.recipients"),
		})
	} else {
		sender = &notify.WriterSender{W: os.Stdout}
	}
	if err := sender.Send(ctx, msg); err != nil {
		return err
	}
	if send {
		fmt.Fprintln(os.Stderr, "Digest email sent")
	}
	return nil
}

func loadRoster(ctx context.Context) ([]types.RosterEntry, error) {
	src := faculty.NewSource(types.RosterConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		DirectoryURL: viper.GetString("roster.directory_url"),
		FallbackFile: viper.GetString("roster.fallback_file"),
	})
	return src.Load(ctx)
}

func printStats(res digest.RunResult) {
	s := res.Stats
	fmt.Fprintf(os.Stderr, "Window: %s to %s\n",
		res.WindowStart.Format("2006-01-02"), res.WindowEnd.Format("2006-01-02"))
	fmt.Fprintf(os.Stderr, "Fetched %d records (%d duplicates removed, %d malformed)\n",
		s.Fetched, s.DuplicatesRemoved, s.Malformed)
	if s.SiblingRejected > 0 || s.NotAffiliated > 0 {
		fmt.Fprintf(os.Stderr, "Rejected %d sibling-campus, %d unaffiliated\n",
			s.SiblingRejected, s.NotAffiliated)
	}
	if s.Unmatched > 0 {
		fmt.Fprintf(os.Stderr, "Excluded %d records with no roster match\n", s.Unmatched)
	}
	if s.StaleRejected > 0 {
		fmt.Fprintf(os.Stderr, "Suppressed %d stale re-indexed records\n", s.StaleRejected)
	}
	fmt.Fprintf(os.Stderr, "%s\n", res.Summary())
}
