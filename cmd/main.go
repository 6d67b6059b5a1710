package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jaxxstorm/datever"
	"gopkg.in/yaml.v3"
)

// Version will be set by build process
var Version = "dev"

type CLI struct {
	Path                string `arg:"" optional:"" default:"." help:"Path to git repo."`
	Date                bool   `xor:"date" help:"Output version as major.days.0 (u16.u16.0), where days is number of days since 2000.01.01."`
	DateSplit           bool   `xor:"date" help:"Output version as major.days1.days2 (u16.u8.u8), where ((days1 << 8) | days2) is number of days since 2000.01.01."`
	Revisions           bool   `help:"Add .revisions (.u16) to the output, where revisions is number of commits since last tag."`
	RevisionsPrerelease bool   `help:"Add -revisions (-u16) to the output, where revisions is number of commits since last tag."`
	DropMajor           bool   `help:"Drop the major from the output."`
	DropMinor           bool   `help:"Drop the minor from the output."`
	DropPatch           bool   `help:"Drop the patch from the output."`
	EnforceU8           bool   `name:"enforce-u8" help:"Fail if any version component does not fit in a u8."`
	Output              string `short:"o" default:"text" enum:"text,json,yaml" help:"Output format (text, json, yaml)"`
	LogLevel            string `default:"warn" env:"LOG_LEVEL" enum:"debug,info,warn,error" help:"Log level for diagnostics on stderr"`
	ShowVersion         bool   `help:"Show version information" name:"version"`
}

// report is the structured form of a composed version.
type report struct {
	Version   string `json:"version" yaml:"version"`
	Major     uint64 `json:"major" yaml:"major"`
	Minor     uint64 `json:"minor" yaml:"minor"`
	Patch     uint64 `json:"patch" yaml:"patch"`
	Revisions uint64 `json:"revisions" yaml:"revisions"`
	Days      int64  `json:"days" yaml:"days"`
}

func main() {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("datever"),
		kong.Description("Generate a version string that is based on the latest tag in a git repo and its creation date."),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		panic(err)
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = cli.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *CLI) Run() error {
	if c.ShowVersion {
		return c.showVersion(os.Stdout)
	}

	slog.SetDefault(datever.NewLogger(os.Stderr, c.LogLevel))

	return c.calculateVersion(os.Stdout)
}

func (c *CLI) options() datever.Options {
	return datever.Options{
		Date:                c.Date,
		DateSplit:           c.DateSplit,
		Revisions:           c.Revisions,
		RevisionsPrerelease: c.RevisionsPrerelease,
		DropMajor:           c.DropMajor,
		DropMinor:           c.DropMinor,
		DropPatch:           c.DropPatch,
		EnforceU8:           c.EnforceU8,
	}
}

func (c *CLI) showVersion(w io.Writer) error {
	versionInfo := map[string]string{
		"version": Version,
		"name":    "datever",
	}

	switch c.Output {
	case "json":
		return json.NewEncoder(w).Encode(versionInfo)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(versionInfo); err != nil {
			return err
		}
		return enc.Close()
	}

	_, err := fmt.Fprintf(w, "datever version %s\n", Version)
	return err
}

func (c *CLI) calculateVersion(w io.Writer) error {
	path := c.Path
	if path == "" {
		path = "."
	}

	opts := c.options()
	if err := opts.Validate(); err != nil {
		return err
	}

	repo, err := datever.OpenRepository(path)
	if err != nil {
		return err
	}
	opts.Repository = repo

	version, err := datever.Calculate(opts)
	if err != nil {
		return err
	}

	return c.writeVersion(w, version)
}

func (c *CLI) writeVersion(w io.Writer, version *datever.Version) error {
	r := report{
		Version:   version.String(),
		Major:     version.Major,
		Minor:     version.Minor,
		Patch:     version.Patch,
		Revisions: version.Revisions,
		Days:      version.Days,
	}

	switch c.Output {
	case "json":
		return json.NewEncoder(w).Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}

	_, err := fmt.Fprintln(w, r.Version)
	return err
}
