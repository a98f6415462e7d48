package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/localharvest/marketclient/internal/app"
	"github.com/localharvest/marketclient/internal/config"
	"github.com/localharvest/marketclient/internal/notify"
	"github.com/localharvest/marketclient/pkg/logger"
)

// errReported marks a failure the notifier has already shown on stderr.
var errReported = errors.New("request failed")

// cli carries the state shared by every command.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	profile string
	apiURL  string
	token   string
	storage string
	verbose bool

	logger *slog.Logger
	app    *app.App
}

// execute runs marketctl with args and releases the client afterwards.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{stdout: stdout, stderr: stderr}
	root := c.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(context.WithoutCancel(ctx)); cerr != nil {
			c.logger.Warn("close client failed", slog.String("error", cerr.Error()))
		}
	}
	if err != nil && !errors.Is(err, errReported) {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Command-line client for the local-food marketplace",
		Long:          "marketctl talks to the marketplace API. Results are printed as JSON on stdout, notices on stderr.",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.profile, "profile", "", "read settings from <PROFILE>_-prefixed variables, e.g. STAGING_MARKET_API_URL")
	flags.StringVar(&c.apiURL, "api-url", "", "marketplace API base URL (overrides MARKET_API_URL)")
	flags.StringVar(&c.token, "token", "", "bearer token (overrides MARKET_API_TOKEN)")
	flags.StringVar(&c.storage, "wishlist-storage", "", "wishlist storage: memory, file or redis (overrides WISHLIST_STORAGE)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		c.loginCmd(),
		c.categoriesCmd(),
		c.productsCmd(),
		c.ordersCmd(),
		c.harvestCmd(),
		c.earningsCmd(),
		c.deliveriesCmd(),
		c.wishlistCmd(),
		c.dashboardCmd(),
		c.profileCmd(),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.LoadProfile(c.profile)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.APIURL = c.apiURL
	}
	if c.token != "" {
		cfg.APIToken = c.token
	}
	if c.storage != "" {
		cfg.WishlistStorage = c.storage
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}

	c.logger = logger.NewWithWriter(app.ServiceName, cfg.LogLevel, c.stderr)
	a, err := app.New(ctx, cfg, c.logger, app.Options{Notifier: notify.NewWriter(c.stderr)})
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

// print writes v to stdout as indented JSON.
func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printOne writes v, or fails when the read came back empty.
func printOne[T any](c *cli, what, id string, v *T) error {
	if v == nil {
		return fmt.Errorf("%s %q not found", what, id)
	}
	return c.print(v)
}

// printWrite writes the result of a mutation. The notifier has already
// reported a failed one.
func printWrite[T any](c *cli, v *T, err error) error {
	if err != nil {
		return errReported
	}
	return c.print(v)
}

func parseProductID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}
