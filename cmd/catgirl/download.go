package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/downloader"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/providers"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/ui"
)

var (
	// Download command flags
	count        int
	themeName    string
	providerName string
	ratingName   string
	randomize    bool
	outputDir    string
	timeoutSecs  int
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download images in one shot",
	Long: `Download a batch of images with the given theme, rating filter and
provider, then exit. Files land under <out>/<sfw|nsfw|unknown>/<theme>/<rating>/.

With --provider auto (the default) each theme has a priority order of
providers that are asked in turn until the requested count is reached.
A provider that returns nothing, or fewer items than asked for, is a
warning, not an error.`,
	Example: `  # One safe catgirl image into ./downloads
  catgirl download

  # Ten random explicit femboy images from e621
  catgirl download -n 10 -t femboy -p e621 --rating explicit -r

  # Five kitsune images into a custom directory
  catgirl download -n 5 -t kitsune -o ~/Pictures/kitsune`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().IntVarP(&count, "count", "n", 1, "number of images to download (1-200)")
	downloadCmd.Flags().StringVarP(&themeName, "theme", "t", "catgirl", "image theme (catgirl, neko, kitsune, femboy)")
	downloadCmd.Flags().StringVarP(&providerName, "provider", "p", providers.AutoProvider, "provider to use, or auto")
	downloadCmd.Flags().StringVar(&ratingName, "rating", "any", "rating filter (any, safe, suggestive, borderline, explicit)")
	downloadCmd.Flags().BoolVarP(&randomize, "randomize", "r", false, "sample random result pages instead of the first")
	downloadCmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory (default from config)")
	downloadCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "per-request timeout in seconds (default from config)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	if count < 1 || count > 200 {
		return fmt.Errorf("count must be between 1 and 200, got %d", count)
	}
	theme, ok := models.ParseTheme(themeName)
	if !ok {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	rating, ok := models.ParseUserRating(ratingName)
	if !ok {
		return fmt.Errorf("unknown rating %q", ratingName)
	}

	if outputDir == "" {
		outputDir = cfg.Output.BaseDirectory
	}
	timeout := cfg.HTTP.Timeout
	if timeoutSecs > 0 {
		if timeoutSecs > 120 {
			return fmt.Errorf("timeout must be between 1 and 120 seconds, got %d", timeoutSecs)
		}
		timeout = time.Duration(timeoutSecs) * time.Second
	}

	log := logger.GetLogger()
	client := providers.NewClient(timeout, cfg.HTTP.UserAgent, log)
	registry := providers.NewRegistry(client, cfg, credManager, log)
	runner := downloader.New(registry, client, log)
	runner.SetShowProgress(term.IsTerminal(int(os.Stderr.Fd())))

	ui.PrintInfo("theme", string(theme))
	ui.PrintInfo("rating", string(rating))
	ui.PrintInfo("provider", providerName)

	results, err := runner.Run(cmd.Context(), downloader.Request{
		Count:     count,
		Provider:  providerName,
		Theme:     theme,
		Rating:    rating,
		Randomize: randomize,
		OutputDir: outputDir,
	})
	if err != nil {
		return err
	}

	for _, warning := range runner.Warnings() {
		ui.PrintWarning(warning)
	}
	summary := downloader.Summarize(count, outputDir, results)
	fmt.Println(ui.RenderSummary(summary))

	// Getting fewer images than asked for is still a successful run.
	return nil
}
