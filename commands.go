package main

import (
	"context"
	"fmt"

	"chatledger/sources/analysis"
	"chatledger/sources/chats"
	"chatledger/sources/configuration"
	"chatledger/sources/membership"
	"chatledger/sources/platform"
	"chatledger/sources/tracing"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Version kong.VersionFlag `help:"Print version and exit."`

	ChatsDir       string `help:"Directory of recorded unit files." env:"CHATS_DIR" type:"path"`
	ExportsDir     string `help:"Directory of raw chat downloads." env:"EXPORTS_DIR" type:"path"`
	MembershipFile string `help:"Membership master list." env:"MEMBERSHIP_FILE" type:"path"`
	MetadataCache  string `help:"Video metadata cache." env:"METADATA_CACHE" type:"path"`
	VideoList      string `help:"File with one video url or id per line." env:"VIDEO_LIST" type:"path"`
	Report         string `help:"Where to write the JSON report." env:"REPORT_FILE" type:"path"`
	Corpus         string `help:"Where to write the chat text corpus." env:"CORPUS_FILE" type:"path"`

	Analyze AnalyzeCmd `cmd:"" default:"1" help:"Aggregate paid message revenue and membership income."`
	Members MembersCmd `cmd:"" help:"Fold member badges from raw chats into the master list."`
	Record  RecordCmd  `cmd:"" help:"Write unit files holding the paid messages of raw chats."`
}

// Apply overrides configured paths with the ones given on the command line.
func (c *CLI) Apply(config *configuration.Config) *configuration.Config {
	override := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}

	override(&config.Paths.ChatsDir, c.ChatsDir)
	override(&config.Paths.ExportsDir, c.ExportsDir)
	override(&config.Paths.MembershipFile, c.MembershipFile)
	override(&config.Paths.MetadataCache, c.MetadataCache)
	override(&config.Paths.VideoList, c.VideoList)
	override(&config.Paths.ReportFile, c.Report)
	override(&config.Paths.CorpusFile, c.Corpus)
	return config
}

type AnalyzeCmd struct{}

func (a *AnalyzeCmd) Run(cli *CLI) error {
	var pipeline *analysis.Pipeline

	return execute(cli, func(ctx context.Context, log *tracing.Logger) error {
		report, err := pipeline.Run(ctx)
		if err != nil {
			return err
		}

		for _, line := range report.Lines() {
			fmt.Println(line)
		}
		return nil
	}, &pipeline)
}

type MembersCmd struct {
	URLs []string `arg:"" optional:"" help:"Video urls or ids. Defaults to the video list."`
}

func (m *MembersCmd) Run(cli *CLI) error {
	var collector *membership.Collector
	var config *configuration.Config

	return execute(cli, func(ctx context.Context, log *tracing.Logger) error {
		urls, err := videoURLs(m.URLs, config.Paths.VideoList)
		if err != nil {
			return err
		}

		result, err := collector.Collect(ctx, urls)
		if err != nil {
			return err
		}

		log.I("Membership collection finished", tracing.Processed, result.Processed, tracing.Skipped, result.Skipped, "changed", result.Changed, "members", result.Members)
		fmt.Printf("Videos processed: %d, skipped: %d, members: %d\n", result.Processed, result.Skipped, result.Members)
		return nil
	}, &collector, &config)
}

type RecordCmd struct {
	URLs []string `arg:"" optional:"" help:"Video urls or ids. Defaults to the video list."`
}

func (r *RecordCmd) Run(cli *CLI) error {
	var recorder *chats.Recorder
	var config *configuration.Config

	return execute(cli, func(ctx context.Context, log *tracing.Logger) error {
		urls, err := videoURLs(r.URLs, config.Paths.VideoList)
		if err != nil {
			return err
		}

		result, err := recorder.RecordAll(ctx, urls)
		if err != nil {
			return err
		}

		log.I("Recording finished", "recorded", result.Recorded, tracing.Skipped, result.Skipped, "messages", result.Messages)
		fmt.Printf("Videos recorded: %d, skipped: %d, paid messages: %d\n", result.Recorded, result.Skipped, result.Messages)
		return nil
	}, &recorder, &config)
}

func videoURLs(args []string, listPath string) ([]string, error) {
	if len(args) == 0 {
		return chats.ReadVideoList(listPath)
	}

	urls := make([]string, 0, len(args))
	for _, arg := range args {
		if platform.VideoIdPattern.MatchString(arg) {
			arg = chats.WatchURL + arg
		}
		urls = append(urls, arg)
	}
	return urls, nil
}
