// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env must be loaded before flags are parsed so EnvVars see it.
	if err := loadEnv(".env"); err != nil {
		log.Fatal(err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadEnv reads KEY=value pairs from path into the environment. Variables
// already set win, and a missing file is not an error.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "coursefinder",
		Usage: "Course discovery and transfer equivalency search for Rutgers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"COURSEFINDER_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Path to the course catalog JSON file",
				Value:   "data/courses.json",
				EnvVars: []string{"COURSEFINDER_CATALOG"},
			},
			&cli.StringFlag{
				Name:    "equivalencies",
				Usage:   "Path to the transfer equivalency CSV file",
				Value:   "data/community_to_college.csv",
				EnvVars: []string{"COURSEFINDER_EQUIVALENCIES"},
			},
			&cli.StringFlag{
				Name:    "index",
				Usage:   "Path to the BadgerDB vector index directory",
				Value:   "data/index",
				EnvVars: []string{"COURSEFINDER_INDEX"},
			},
			&cli.StringFlag{
				Name:    "prompts",
				Usage:   "Directory holding the question answering prompt files",
				EnvVars: []string{"COURSEFINDER_PROMPTS"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "https://api.openai.com/v1",
				EnvVars: []string{"COURSEFINDER_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "text-embedding-3-small",
				EnvVars: []string{"COURSEFINDER_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "embedding-token",
				Usage:   "API key for the embedding service",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "chat-host",
				Usage:   "Chat completion service host URL",
				Value:   "https://openrouter.ai/api/v1",
				EnvVars: []string{"COURSEFINDER_CHAT_HOST"},
			},
			&cli.StringFlag{
				Name:    "chat-model",
				Usage:   "Chat completion model name",
				Value:   "meta-llama/llama-3.3-8b-instruct:free",
				EnvVars: []string{"COURSEFINDER_CHAT_MODEL"},
			},
			&cli.StringFlag{
				Name:    "chat-token",
				Usage:   "API key for the chat completion service",
				EnvVars: []string{"OPENROUTER_API_KEY"},
			},
			&cli.Float64Flag{
				Name:    "temperature",
				Usage:   "Sampling temperature for generated answers",
				Value:   0.7,
				EnvVars: []string{"COURSEFINDER_TEMPERATURE"},
			},
			&cli.DurationFlag{
				Name:    "ai-timeout",
				Usage:   "Timeout for each embedding or chat call",
				Value:   30 * time.Second,
				EnvVars: []string{"COURSEFINDER_AI_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "mapbox-token",
				Usage:   "Mapbox access token for driving distances",
				EnvVars: []string{"MAPBOX_ACCESS_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the distance cache (in-memory when empty)",
				EnvVars: []string{"REDIS_URL"},
			},
			&cli.DurationFlag{
				Name:    "distance-cache-ttl",
				Usage:   "How long computed distances are cached",
				Value:   24 * time.Hour,
				EnvVars: []string{"COURSEFINDER_DISTANCE_CACHE_TTL"},
			},
			&cli.Float64Flag{
				Name:    "distance-grid",
				Usage:   "Round cache keys to this many degrees (0 keys on exact coordinates)",
				EnvVars: []string{"COURSEFINDER_DISTANCE_GRID"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Address to listen on",
						Value:   ":5005",
						EnvVars: []string{"COURSEFINDER_ADDR"},
					},
					&cli.DurationFlag{
						Name:    "session-ttl",
						Usage:   "How long a saved location lives",
						Value:   24 * time.Hour,
						EnvVars: []string{"COURSEFINDER_SESSION_TTL"},
					},
					&cli.BoolFlag{
						Name:    "require-location",
						Usage:   "Reject title and code searches without a location",
						Value:   true,
						EnvVars: []string{"COURSEFINDER_REQUIRE_LOCATION"},
					},
					&cli.BoolFlag{
						Name:  "access-log",
						Usage: "Write one line per request to stdout",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed every catalog course into the vector index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of courses to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N courses",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed courses whose text has not changed",
					},
				},
			},
			{
				Name:  "search",
				Usage: "Search the catalog from the command line",
				Subcommands: []*cli.Command{
					{
						Name:      "title",
						Usage:     "Semantic search by course title",
						ArgsUsage: "<query>",
						Action:    searchTitleCommand,
						Flags:     append(locationFlags(), &cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Trace candidate matches"}),
					},
					{
						Name:      "code",
						Usage:     "Find courses whose code ends with a suffix",
						ArgsUsage: "<code suffix>",
						Action:    searchCodeCommand,
						Flags:     locationFlags(),
					},
					{
						Name:      "professor",
						Usage:     "Find courses taught by an instructor",
						ArgsUsage: "<name>",
						Action:    searchProfessorCommand,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about courses",
				ArgsUsage: "<question>",
				Action:    askCommand,
			},
			{
				Name:   "prereqs",
				Usage:  "Print the prerequisite graph of a subject",
				Action: prereqsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "subject",
						Aliases:  []string{"s"},
						Usage:    "Subject code, for example 198",
						Required: true,
					},
				},
			},
		},
	}
}

func locationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "lat",
			Usage: "Latitude of the student's location",
		},
		&cli.Float64Flag{
			Name:  "lon",
			Usage: "Longitude of the student's location",
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
