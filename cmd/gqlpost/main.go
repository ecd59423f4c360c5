package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/infiotinc/gqlbasic/client"
	"github.com/infiotinc/gqlbasic/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
	"io"
	"os"
	"strings"
	"time"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Error loading .env file:", err)
	}

	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "gqlpost",
		Usage:     "POST a GraphQL query or mutation and print the JSON response",
		ArgsUsage: "[query]",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML or TOML config file", EnvVars: []string{"GQLPOST_CONFIG"}},
			&cli.StringFlag{Name: "endpoint", Aliases: []string{"e"}, Usage: "GraphQL endpoint URL", EnvVars: []string{"GQLPOST_ENDPOINT"}},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "query or mutation text"},
			&cli.StringFlag{Name: "query-file", Usage: "read the query from `FILE`"},
			&cli.StringSliceFlag{Name: "var", Usage: "variable as key=value, value parsed as JSON when possible"},
			&cli.StringFlag{Name: "variables", Usage: "variables as a JSON object"},
			&cli.StringSliceFlag{Name: "header", Aliases: []string{"H"}, Usage: `extra header, "Name: value"`},
			&cli.StringFlag{Name: "token", Usage: "bearer token", EnvVars: []string{"GQLPOST_TOKEN"}},
			&cli.DurationFlag{Name: "timeout", Usage: "total request timeout", Value: client.DefaultRequestTimeout},
			&cli.DurationFlag{Name: "connect-timeout", Usage: "connect timeout", Value: client.DefaultConnectTimeout},
			&cli.BoolFlag{Name: "insecure", Usage: "skip TLS certificate and hostname verification"},
			&cli.BoolFlag{Name: "debug", Usage: "log request details to stderr", EnvVars: []string{"GQLPOST_DEBUG"}},
		},
		Action: run,
		ExitErrHandler: func(c *cli.Context, err error) {
			if err != nil {
				fmt.Fprintln(c.App.ErrWriter, "gqlpost:", err)
			}
		},
	}
}

func run(c *cli.Context) error {
	cfg := &config.Config{VerifyTLS: true}
	if p := c.String("config"); p != "" {
		var err error
		if cfg, err = config.Load(p); err != nil {
			return err
		}
	}

	if c.IsSet("endpoint") {
		cfg.Endpoint = c.String("endpoint")
	}

	query, err := readQuery(c)
	if err != nil {
		return err
	}

	variables, err := readVariables(c)
	if err != nil {
		return err
	}

	header := cfg.Header()
	extra, err := client.ParseHeaderLines(c.StringSlice("header"))
	if err != nil {
		return err
	}
	for k, vs := range extra {
		header[k] = vs
	}

	options := make([]client.Option, 0)
	if c.IsSet("timeout") || cfg.Timeout == "" {
		options = append(options, client.WithRequestTimeout(c.Duration("timeout")))
	}
	if c.IsSet("connect-timeout") || cfg.ConnectTimeout == "" {
		options = append(options, client.WithConnectTimeout(c.Duration("connect-timeout")))
	}
	if c.Bool("insecure") {
		options = append(options, client.WithVerifyTLS(false))
	}
	if c.Bool("debug") || cfg.Debug {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: c.App.ErrWriter, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		options = append(options, client.WithDebug(true), client.WithLogger(logger))
	}
	if tok := c.String("token"); tok != "" {
		options = append(options, client.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok})))
	}

	gql, err := cfg.NewClient(options...)
	if err != nil {
		return err
	}

	res, err := gql.Execute(c.Context, query, variables, header)
	if err != nil {
		return fmt.Errorf("%s: %w", client.KindOf(err), err)
	}

	out, err := json.MarshalIndent(res.Fields, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}

func readQuery(c *cli.Context) (string, error) {
	switch {
	case c.String("query") != "":
		return c.String("query"), nil
	case c.String("query-file") != "":
		b, err := os.ReadFile(c.String("query-file"))
		if err != nil {
			return "", fmt.Errorf("read query file: %w", err)
		}
		return string(b), nil
	default:
		return c.Args().First(), nil
	}
}

func readVariables(c *cli.Context) (map[string]interface{}, error) {
	variables := map[string]interface{}{}

	if s := c.String("variables"); s != "" {
		if err := json.Unmarshal([]byte(s), &variables); err != nil {
			return nil, fmt.Errorf("invalid --variables: %w", err)
		}
	}

	for _, kv := range c.StringSlice("var") {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", kv)
		}

		k, raw := kv[:i], kv[i+1:]
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		variables[k] = v
	}

	return variables, nil
}
