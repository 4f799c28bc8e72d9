package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/jarvest/jarvest"
)

var version = "dev"

const description = `Jarvest locates cookies for a target domain in locally installed
browsers (Chrome-family, Firefox, Safari) and writes them to a
Netscape-format cookies.txt for use by downloader pipelines.`

func main() {
	log.SetFlags(0)
	if err := run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:         "jarvest",
		HelpName:     "jarvest",
		Usage:        "export browser cookies to a Netscape cookie jar",
		UsageText:    "jarvest [options]",
		Version:      version,
		Description:  description,
		Flags:        exportFlags,
		Action:       export,
		OnUsageError: usageErrorCallback,
		Commands: []cli.Command{
			{
				Name:         "export",
				Aliases:      []string{"e"},
				Usage:        "extract cookies and write the jar file",
				Action:       export,
				Flags:        exportFlags,
				OnUsageError: usageErrorCallback,
			},
			{
				Name:    "browsers",
				Aliases: []string{"b"},
				Usage:   "list supported browser backends",
				Action:  listBrowsers,
			},
		},
	}
	return app.Run(args)
}

func usageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	fmt.Fprintf(ctx.App.Writer, "jarvest: %v\n", err)
	return cli.NewExitError("", 2)
}

func export(ctx *cli.Context) error {
	opts, err := optionsFromFlags(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	quiet := ctx.Bool("quiet")

	report, rerr := jarvest.Export(context.Background(), opts)
	if !quiet {
		for _, w := range report.Warnings {
			log.Println(w)
		}
	}
	if rerr != nil {
		if errors.Is(rerr, jarvest.ErrNoCookies) {
			return cli.NewExitError(noCookiesMessage(opts.Domain), 1)
		}
		return cli.NewExitError(rerr.Error(), 1)
	}

	fmt.Printf("Saved %d cookies from %s to %s\n", report.Count, report.Browser, report.Path)
	printAudit(report.Audit, quiet)
	return nil
}

func printAudit(a jarvest.AuditReport, quiet bool) {
	total := len(a.Found) + len(a.Missing)
	if total == 0 {
		return
	}
	fmt.Printf("Important cookies found: %d/%d\n", len(a.Found), total)
	if a.Sufficient() {
		fmt.Println("Enough cookies for authenticated downloads")
		return
	}
	fmt.Println("Few important cookies found - authentication may not work")
	if !quiet && len(a.Missing) > 0 {
		fmt.Printf("Missing: %s\n", strings.Join(a.Missing, ", "))
	}
}

func noCookiesMessage(domain string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "no %s cookies found in any browser\n", domain)
	b.WriteString("Make sure to:\n")
	for i, hint := range jarvest.NoCookiesRemedy(domain) {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, hint)
	}
	return strings.TrimRight(b.String(), "\n")
}

func listBrowsers(_ *cli.Context) error {
	for _, b := range jarvest.SupportedBrowsers() {
		fmt.Println(b)
	}
	return nil
}
