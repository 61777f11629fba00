// btnlctl is a thin command-line wrapper over the REST façade: one
// subcommand per endpoint, JSON on stdout, non-zero exit on failure.
//
// Grounded on original_source/btnl_client/__main__.py's argparse surface
// (global --base-url/--env, public vs. authenticated subcommand groups,
// repeatable filter flags) and cmd/bot/main.go's logger-setup convention.
// Unlike the teacher's single long-running daemon, this is a short-lived,
// one-shot CLI, so there's no signal-driven shutdown here — each
// subcommand makes one call and exits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bitnomial/btnl-client/internal/auth"
	"github.com/bitnomial/btnl-client/internal/config"
	"github.com/bitnomial/btnl-client/internal/rest"
	"github.com/bitnomial/btnl-client/pkg/types"
)

func main() {
	globalFlags := flag.NewFlagSet("btnlctl", flag.ExitOnError)
	baseURL := globalFlags.String("base-url", config.DefaultRESTBaseURL, "REST API base URL")
	env := globalFlags.String("env", "prod", "environment (prod or sandbox)")

	// flag.Parse stops at the first non-flag token, so any --base-url/--env
	// given ahead of the subcommand land on globalFlags and the subcommand
	// name and its own args fall out in globalFlags.Args().
	globalFlags.Parse(os.Args[1:])
	remaining := globalFlags.Args()
	if len(remaining) < 1 {
		usage()
		os.Exit(1)
	}
	command := remaining[0]
	args := remaining[1:]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var err error
	switch command {
	case "get-product-spec":
		err = runProductByID(baseURL, env, args, logger, "product_id", func(c *rest.Client, id int64, p types.ProductListParams) (any, error) {
			return c.GetProductSpec(context.Background(), id, p)
		})
	case "get-product-datum":
		err = runProductByID(baseURL, env, args, logger, "product_id", func(c *rest.Client, id int64, p types.ProductListParams) (any, error) {
			return c.GetProductDatum(context.Background(), id, p)
		})
	case "get-product-specs":
		err = runProductList(baseURL, env, args, logger, func(c *rest.Client, p types.ProductListParams) (any, error) {
			return c.GetProductSpecs(context.Background(), p)
		})
	case "get-product-data":
		err = runProductList(baseURL, env, args, logger, func(c *rest.Client, p types.ProductListParams) (any, error) {
			return c.GetProductData(context.Background(), p)
		})
	case "get-orders":
		err = runAuthList(baseURL, env, args, logger, false, func(c *rest.Client, p types.ListParams) (any, error) {
			return c.GetOrders(context.Background(), p)
		})
	case "get-fills":
		err = runAuthList(baseURL, env, args, logger, false, func(c *rest.Client, p types.ListParams) (any, error) {
			return c.GetFills(context.Background(), p)
		})
	case "get-block-trades":
		err = runAuthList(baseURL, env, args, logger, true, func(c *rest.Client, p types.ListParams) (any, error) {
			return c.GetBlockTrades(context.Background(), p)
		})
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: btnlctl [--base-url URL] [--env prod|sandbox] <command> [args]

commands:
  get-product-spec    <product_id> [--day YYYY-MM-DD] [--active] [--base-symbol SYM]
  get-product-datum   <product_id> [--day YYYY-MM-DD] [--active] [--base-symbol SYM]
  get-product-specs   [--day YYYY-MM-DD] [--active] [--base-symbol SYM]
  get-product-data    [--day YYYY-MM-DD] [--active] [--base-symbol SYM]
  get-orders          <connection_id> <auth_token> [filters...]
  get-fills           <connection_id> <auth_token> [filters...]
  get-block-trades    <connection_id> <auth_token> [filters...] [--status STATUS]`)
}

func addProductFlags(fs *flag.FlagSet) (day *string, active *optionalBool, baseSymbol *string) {
	day = fs.String("day", "", "filter to this trading day")
	active = &optionalBool{}
	fs.Var(active, "active", "filter to active products only")
	baseSymbol = fs.String("base-symbol", "", "filter to this base symbol")
	return
}

func runProductByID(baseURL, env *string, args []string, logger *slog.Logger, idName string, call func(*rest.Client, int64, types.ProductListParams) (any, error)) error {
	fs := flag.NewFlagSet(idName, flag.ExitOnError)
	day, active, baseSymbol := addProductFlags(fs)
	if err := parseWithPositional(fs, args, 1); err != nil {
		return err
	}
	id, err := parsePositionalInt64(fs.Arg(0), idName)
	if err != nil {
		return err
	}

	client := rest.NewClient(config.Config{API: config.APIConfig{BaseURL: *baseURL, Env: *env}}, nil, logger)
	result, err := call(client, id, types.ProductListParams{Day: *day, Active: active.Ptr(), BaseSymbol: types.BaseSymbol(*baseSymbol)})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runProductList(baseURL, env *string, args []string, logger *slog.Logger, call func(*rest.Client, types.ProductListParams) (any, error)) error {
	fs := flag.NewFlagSet("product-list", flag.ExitOnError)
	day, active, baseSymbol := addProductFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client := rest.NewClient(config.Config{API: config.APIConfig{BaseURL: *baseURL, Env: *env}}, nil, logger)
	result, err := call(client, types.ProductListParams{Day: *day, Active: active.Ptr(), BaseSymbol: types.BaseSymbol(*baseSymbol)})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runAuthList(baseURL, env *string, args []string, logger *slog.Logger, withStatus bool, call func(*rest.Client, types.ListParams) (any, error)) error {
	fs := flag.NewFlagSet("auth-list", flag.ExitOnError)
	var symbols, accountIDs, clearingFirmCodes stringList
	var connectionIDs, productIDs int64List
	var productTypes, statuses stringList
	order := fs.String("order", "", "asc or desc")
	beginTime := fs.String("begin", "", "RFC3339 start time")
	endTime := fs.String("end", "", "RFC3339 end time")
	limit := fs.Int("limit", 0, "max rows to return")
	day := fs.String("day", "", "filter to this trading day")
	cursor := fs.String("cursor", "", "pagination cursor")
	fs.Var(&symbols, "symbol", "repeatable: filter by symbol")
	fs.Var(&connectionIDs, "cid", "repeatable: filter by connection id")
	fs.Var(&productIDs, "pid", "repeatable: filter by product id")
	fs.Var(&accountIDs, "accid", "repeatable: filter by account id")
	fs.Var(&clearingFirmCodes, "clfc", "repeatable: filter by clearing firm code")
	fs.Var(&productTypes, "product-types", "repeatable: filter by product type")
	if withStatus {
		fs.Var(&statuses, "status", "repeatable: filter by block trade status")
	}

	if err := parseWithPositional(fs, args, 2); err != nil {
		return err
	}
	connectionID, err := parsePositionalInt64(fs.Arg(0), "connection_id")
	if err != nil {
		return err
	}
	authToken := fs.Arg(1)

	signer, err := auth.NewSigner(uint64(connectionID), authToken)
	if err != nil {
		return err
	}
	client := rest.NewClient(config.Config{API: config.APIConfig{BaseURL: *baseURL, Env: *env}}, signer, logger)

	params := types.ListParams{
		Symbols:           symbols,
		ConnectionIDs:     connectionIDs,
		ProductIDs:        productIDs,
		AccountIDs:        accountIDs,
		ClearingFirmCodes: clearingFirmCodes,
		ProductTypes:      toProductSpecTypes(productTypes),
		Statuses:          toBlockTradeStatuses(statuses),
		Order:             types.Ordering(*order),
		BeginTime:         *beginTime,
		EndTime:           *endTime,
		Limit:             *limit,
		Day:               *day,
		Cursor:            *cursor,
	}

	result, err := call(client, params)
	if err != nil {
		return err
	}
	return printJSON(result)
}

// parseWithPositional separates the `want` leading positional arguments
// (connection_id, auth_token, product_id — whichever the subcommand takes)
// from the flags that follow them, mirroring argparse's mixed
// positional+optional surface in original_source/btnl_client/__main__.py.
// go's flag package stops parsing at the first non-flag token, so the
// positional arguments must be stripped before the remainder is handed to
// fs.Parse.
func parseWithPositional(fs *flag.FlagSet, args []string, want int) error {
	if len(args) < want {
		return fmt.Errorf("expected %d positional argument(s), got %d", want, len(args))
	}
	positional := args[:want]
	if err := fs.Parse(args[want:]); err != nil {
		return err
	}
	// Re-seed fs.Arg(0..want-1) with the stripped positionals by parsing
	// them back in front of any trailing non-flag arguments flag.Parse left.
	return fs.Parse(append(append([]string{}, positional...), fs.Args()...))
}

func parsePositionalInt64(s, name string) (int64, error) {
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", name, s)
	}
	return n, nil
}

func toProductSpecTypes(vs []string) []types.ProductSpecType {
	if len(vs) == 0 {
		return nil
	}
	out := make([]types.ProductSpecType, len(vs))
	for i, v := range vs {
		out[i] = types.ProductSpecType(v)
	}
	return out
}

func toBlockTradeStatuses(vs []string) []types.BlockTradeStatus {
	if len(vs) == 0 {
		return nil
	}
	out := make([]types.BlockTradeStatus, len(vs))
	for i, v := range vs {
		out[i] = types.BlockTradeStatus(v)
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
