package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/seoscope/seoscope/internal/analyze"
)

func main() {
	commonFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Value: "config.yaml",
			Usage: "path to the YAML config file",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "path to the SQLite database (overrides config)",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "only log errors",
		},
	}

	app := &cli.App{
		Name:  "seoscope",
		Usage: "competitive SEO content analysis",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "run a full keyword analysis against the SERP competitors",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "keyword",
						Usage:    "target keyword to analyze",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "our page URL to compare against competitors",
					},
				}, commonFlags...),
				Action: analyze.AnalyzeAction,
			},
			{
				Name:  "difficulty",
				Usage: "score keyword difficulty from live SERP data",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "keyword",
						Usage:    "keyword to score",
						Required: true,
					},
				}, commonFlags...),
				Action: analyze.DifficultyAction,
			},
			{
				Name:  "serve",
				Usage: "start the HTTP API",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address (overrides config)",
					},
				}, commonFlags...),
				Action: analyze.ServeAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
