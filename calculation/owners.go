package calculation

import (
	"context"

	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

// Called before every page request, with the number of owners collected so far
type PageHook func(collected int)

// CollectOwners reads every ownership page for a token, in order.
// Collection stops on an empty page, or on a page shorter than types.OwnersPageSize,
// which is known to be the last one without asking for the next
func CollectOwners(ctx context.Context, lookup types.HolderLookup, tokenID types.TokenID, onPage PageHook) ([]types.TokenOwner, error) {
	var owners []types.TokenOwner
	for page := 1; ; page++ {
		if onPage != nil {
			onPage(len(owners))
		}
		fetched, err := lookup.TokenOwners(ctx, tokenID, page)
		if err != nil {
			return nil, types.NewLookupError("token owners", tokenID, err)
		}
		if len(fetched) == 0 {
			break
		}
		owners = append(owners, fetched...)
		if len(fetched) < types.OwnersPageSize {
			break
		}
	}
	return owners, nil
}
