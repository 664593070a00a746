// ABOUTME: Command line tool for querying the FuzzySearch API
// ABOUTME: Supports URL, filename, hash, and reverse image lookups

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	fuzzysearch "github.com/Syfaro/fuzzysearch-go"
	"github.com/Syfaro/fuzzysearch-go/imagehash"
)

const usage = `usage: fuzzysearch [flags] <command> [args]

commands:
  url <image url>          look up an image by URL
  name <filename>          look up an image by original filename
  hashes <h1,h2,...>       look up one or more perceptual hashes
  image <path>             reverse image search an image file
  hash <path>              compute the perceptual hash of a local file

flags:
`

func main() {
	// Optional; environment variables win when both are set.
	_ = godotenv.Load()

	apiKey := flag.String("api-key", os.Getenv("FUZZYSEARCH_API_KEY"), "FuzzySearch API key")
	endpoint := flag.String("endpoint", "", "override the API endpoint")
	matchType := flag.String("type", "close", "image search match type: close, exact, or force")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	verbose := flag.Bool("verbose", false, "enable debug logging")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	command, arg := args[0], args[1]

	// Hashing is local-only; no client or API key needed.
	if command == "hash" {
		hashFile(logger, arg)
		return
	}

	client, err := fuzzysearch.NewClient(
		*apiKey,
		clientOptions(*endpoint, *timeout, logger)...,
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch command {
	case "url":
		files, err := client.LookupURL(ctx, arg)
		if err != nil {
			logger.WithError(err).Fatal("Lookup failed")
		}
		printFiles(logger, files)
	case "name":
		files, err := client.LookupFilename(ctx, arg)
		if err != nil {
			logger.WithError(err).Fatal("Lookup failed")
		}
		printFiles(logger, files)
	case "hashes":
		hashes, err := parseHashes(arg)
		if err != nil {
			logger.WithError(err).Fatal("Invalid hashes")
		}
		files, err := client.LookupHashes(ctx, hashes)
		if err != nil {
			logger.WithError(err).Fatal("Lookup failed")
		}
		printFiles(logger, files)
	case "image":
		data, err := os.ReadFile(arg)
		if err != nil {
			logger.WithError(err).Fatal("Failed to read image")
		}
		matches, err := client.ImageSearch(ctx, data, parseMatchType(*matchType))
		if err != nil {
			logger.WithError(err).Fatal("Image search failed")
		}
		fmt.Printf("searched hash: %d\n", matches.Hash)
		printFiles(logger, matches.Matches)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func clientOptions(endpoint string, timeout time.Duration, logger *logrus.Logger) []fuzzysearch.Option {
	options := []fuzzysearch.Option{
		fuzzysearch.WithTimeout(timeout),
		fuzzysearch.WithLogger(logger),
	}
	if endpoint != "" {
		options = append(options, fuzzysearch.WithBaseURL(endpoint))
	}
	return options
}

func hashFile(logger *logrus.Logger, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to read image")
	}

	hash, err := imagehash.HashBytes(data)
	if err != nil {
		logger.WithError(err).Fatal("Failed to hash image")
	}

	fmt.Println(hash)
}

func parseHashes(arg string) ([]int64, error) {
	parts := strings.Split(arg, ",")
	hashes := make([]int64, 0, len(parts))

	for _, part := range parts {
		hash, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid hash %q: %w", part, err)
		}
		hashes = append(hashes, hash)
	}

	return hashes, nil
}

func parseMatchType(value string) fuzzysearch.MatchType {
	switch value {
	case "exact":
		return fuzzysearch.MatchExact
	case "force":
		return fuzzysearch.MatchForce
	default:
		return fuzzysearch.MatchClose
	}
}

func printFiles(logger *logrus.Logger, files []fuzzysearch.File) {
	if len(files) == 0 {
		fmt.Println("no matches")
		return
	}

	for _, file := range files {
		siteName, err := file.SiteName()
		if err != nil {
			logger.WithField("site_id", file.SiteID).Warn("Match is missing site info")
			siteName = "unknown"
		}

		line := fmt.Sprintf("%s #%d: %s", siteName, file.SiteID, file.Filename)
		if file.Distance != nil {
			line += fmt.Sprintf(" (distance %d)", *file.Distance)
		}
		fmt.Println(line)

		if sourceURL, err := file.SourceURL(); err == nil {
			fmt.Printf("  %s\n", sourceURL)
		}
	}
}
