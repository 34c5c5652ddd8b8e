package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/imgajeed76/dfview/internal/config"
	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/imgajeed76/dfview/internal/db"
	"github.com/imgajeed76/dfview/internal/ui"
	"github.com/imgajeed76/dfview/internal/ui/table"
	"github.com/imgajeed76/dfview/internal/util"
	"github.com/spf13/cobra"
)

func newSQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Browse the result of a PostgreSQL query",
		Long: `Run a read-only query against PostgreSQL and open the result in the
interactive viewer.

The connection URL is taken from --url, then the sql.url setting, then
$DATABASE_URL. Queries run in a read-only transaction; statements that
modify data or schema are rejected.

Use --raw for plain output suitable for piping.`,
		Example: `  dfview sql "SELECT * FROM orders ORDER BY created_at DESC LIMIT 500"
  dfview sql --url postgres://localhost/shop "SELECT * FROM products" --json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return util.MissingArgumentError("query", `dfview sql "SELECT * FROM my_table"`)
			}
			if len(args) > 1 {
				return util.TooManyArgumentsError(1, len(args)).
					WithMessage("Quote the query so the shell passes it as one argument")
			}
			return nil
		},
		RunE: runSQL,
	}

	cmd.Flags().String("url", "", "PostgreSQL connection URL (default: sql.url or $DATABASE_URL)")
	cmd.Flags().Duration("timeout", 0, "Query timeout (default: sql.timeout)")
	addGridFlags(cmd)
	addDisplayFlags(cmd)

	return cmd
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return util.MissingArgumentError("query", `dfview sql "SELECT * FROM my_table"`).Wrap(util.ErrNoQuery)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flagURL, _ := cmd.Flags().GetString("url")
	url, err := resolveDatabaseURL(flagURL, cfg)
	if err != nil {
		return err
	}

	timeout := cfg.QueryTimeout()
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	opts, err := displayOptions(cmd, cfg)
	if err != nil {
		return err
	}

	ds, err := loadQuery(cmd.Context(), dataset.PostgresSource{URL: url, Query: query}, timeout)
	if err != nil {
		return err
	}
	return table.DisplayTo(cmd.OutOrStdout(), ds, opts)
}

// resolveDatabaseURL picks the flag, then the config, then $DATABASE_URL.
func resolveDatabaseURL(flagURL string, cfg *config.GlobalConfig) (string, error) {
	for _, u := range []string{flagURL, cfg.SQL.URL, os.Getenv("DATABASE_URL")} {
		if u != "" {
			return u, nil
		}
	}
	return "", util.NewError("No database URL").
		WithMessage("dfview needs a PostgreSQL connection URL to run a query").
		WithSuggestions(
			`dfview sql --url postgres://user@localhost/db "SELECT 1"`,
			"dfview config set sql.url postgres://user@localhost/db",
			"export DATABASE_URL=postgres://user@localhost/db",
		).
		Wrap(util.ErrNoDatabaseURL)
}

func loadQuery(ctx context.Context, src dataset.PostgresSource, timeout time.Duration) (*dataset.Dataset, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Debug("running query", "url", db.MaskURL(src.URL), "timeout", timeout)

	spinner := ui.NewSpinner("Running query")
	spinner.Start()
	ds, err := src.Load(ctx)
	spinner.Stop()

	if err != nil {
		return nil, queryError(src.URL, timeout, err)
	}
	logger.Debug("query finished", "rows", ds.Len(), "columns", len(ds.Columns()))
	return ds, nil
}

// queryError turns a load failure into the structured error shown to users.
func queryError(url string, timeout time.Duration, err error) error {
	switch {
	case errors.Is(err, dataset.ErrWriteQuery):
		return util.WriteQueryError().Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return util.NewError("Query timed out").
			WithMessage(fmt.Sprintf("The query did not finish within %s", timeout)).
			WithSuggestion("dfview sql --timeout 5m \"...\"   # Allow more time").
			Wrap(util.ErrQueryTimeout)
	case errors.Is(err, dataset.ErrConnect):
		return util.DatabaseConnectionError(db.MaskURL(url), err)
	}
	return err
}
