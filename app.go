package main

import (
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "seo-engine",
		Usage: "Analyze content for search engine optimization",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"SEO_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveAction,
			},
			{
				Name:      "analyze",
				Usage:     "Analyze a text file, or stdin when no file is given",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "page title"},
					&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "target keyword"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "output format: json or yaml"},
					&cli.BoolFlag{Name: "save", Usage: "store the report in the reports database"},
				},
				Action: analyzeAction,
			},
			{
				Name:      "keywords",
				Usage:     "Print keywords related to a seed",
				ArgsUsage: "<seed>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "maximum number of keywords, 0 for all"},
				},
				Action: keywordsAction,
			},
			{
				Name:  "mcp",
				Usage: "Serve the analysis tools over the Model Context Protocol",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "http", Usage: "HTTP listen address, e.g. ':8090'; stdio when empty"},
					&cli.StringFlag{Name: "endpoint", Value: "/mcp", Usage: "HTTP endpoint path"},
				},
				Action: mcpAction,
			},
		},
	}
}
