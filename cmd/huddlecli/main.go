package main

import (
	"flag"
	"fmt"
	"os"
)

const usage = `huddlecli - command line client for the Huddleboard API

Usage:
  huddlecli health
  huddlecli buckets
  huddlecli stats <bucket>
  huddlecli followups [-force] <bucket>
  huddlecli huddle <audio-file>

Environment:
  HUDDLEBOARD_API_URL    API base URL (default http://localhost:8080)
  HUDDLEBOARD_API_TOKEN  Bearer token when the server requires auth
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	client := NewApiClient()

	var err error
	switch flag.Arg(0) {
	case "health":
		err = runHealth(client)
	case "buckets":
		err = runBuckets(client)
	case "stats":
		err = runStats(client, flag.Args()[1:])
	case "followups":
		err = runFollowUps(client, flag.Args()[1:])
	case "huddle":
		err = runHuddle(client, flag.Args()[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runHealth(client *ApiClient) error {
	if _, err := client.CheckHealth(); err != nil {
		return err
	}
	fmt.Println("API is healthy")
	return nil
}

func runBuckets(client *ApiClient) error {
	buckets, err := client.ListBuckets()
	if err != nil {
		return err
	}
	for _, b := range buckets {
		fmt.Println(b)
	}
	return nil
}

func runStats(client *ApiClient, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: huddlecli stats <bucket>")
	}
	stats, err := client.GetStats(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Bucket:              %s\n", stats.Bucket)
	fmt.Printf("Total reservations:  %d\n", stats.TotalReservations)
	fmt.Printf("Total guests:        %d\n", stats.TotalGuests)
	fmt.Printf("Dietary needs:       %d\n", stats.DinersWithDietary)
	fmt.Printf("Special occasions:   %d\n", stats.SpecialOccasions)
	return nil
}

func runFollowUps(client *ApiClient, args []string) error {
	fs := flag.NewFlagSet("followups", flag.ExitOnError)
	force := fs.Bool("force", false, "Regenerate the report instead of using the cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: huddlecli followups [-force] <bucket>")
	}

	resp, err := client.GetFollowUps(fs.Arg(0), *force)
	if err != nil {
		return err
	}
	if resp.Cached {
		fmt.Fprintln(os.Stderr, "(cached)")
	}
	fmt.Println(resp.Formatted)
	return nil
}

func runHuddle(client *ApiClient, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: huddlecli huddle <audio-file>")
	}
	result, err := client.TranscribeHuddle(args[0])
	if err != nil {
		return err
	}
	fmt.Println("Transcript:")
	fmt.Println(result.Transcript)
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Println(result.Analysis.Summary)
	if len(result.Analysis.ActionItems) > 0 {
		fmt.Println()
		fmt.Println("Action items:")
		for _, item := range result.Analysis.ActionItems {
			fmt.Printf("  - %s\n", item)
		}
	}
	return nil
}
