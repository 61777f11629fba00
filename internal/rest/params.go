package rest

import (
	"strconv"

	"github.com/bitnomial/btnl-client/internal/auth"
	"github.com/bitnomial/btnl-client/pkg/types"
)

// productListAuthParams renders types.ProductListParams in a fixed order for
// the transmitted query string. The product endpoints are public, so these
// params are never signed.
func productListAuthParams(p types.ProductListParams) []auth.Param {
	params := []auth.Param{
		auth.Str("day", p.Day),
		auth.Str("base_symbol", string(p.BaseSymbol)),
	}
	if p.Active != nil {
		params = append(params, auth.Param{Key: "active", Value: strconv.FormatBool(*p.Active)})
	}
	return params
}

// listAuthParams renders types.ListParams in a fixed order so the same
// slice feeds both the canonical signing string and the transmitted query
// string, keeping them in lockstep (spec.md §4.4 requires the two to agree
// on parameter order and repetition, not on URL-encoding).
func listAuthParams(p types.ListParams) []auth.Param {
	return []auth.Param{
		auth.Seq("symbol", p.Symbols),
		auth.Seq("connection_id", int64sToStrings(p.ConnectionIDs)),
		auth.Seq("product_id", int64sToStrings(p.ProductIDs)),
		auth.Seq("account_id", p.AccountIDs),
		auth.Seq("clearing_firm_code", p.ClearingFirmCodes),
		auth.Seq("product_type", productTypesToStrings(p.ProductTypes)),
		auth.Seq("status", blockTradeStatusesToStrings(p.Statuses)),
		auth.Str("order", string(p.Order)),
		auth.Str("begin_time", p.BeginTime),
		auth.Str("end_time", p.EndTime),
		limitParam(p.Limit),
		auth.Str("day", p.Day),
		auth.Str("cursor", p.Cursor),
	}
}

func limitParam(limit int) auth.Param {
	if limit == 0 {
		return auth.Param{Key: "limit", Value: nil}
	}
	return auth.Int("limit", int64(limit))
}

func int64sToStrings(vs []int64) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strconv.FormatInt(v, 10)
	}
	return out
}

func productTypesToStrings(vs []types.ProductSpecType) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func blockTradeStatusesToStrings(vs []types.BlockTradeStatus) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
