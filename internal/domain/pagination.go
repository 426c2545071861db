package domain

import (
	"context"

	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/xcontext"
)

func clampPagination(ctx context.Context, offset, limit int) (int, int, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer

	if offset < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Not allow negative offset")
	}

	if limit < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Not allow negative limit")
	}

	if limit == 0 {
		limit = apiCfg.DefaultLimit
	}

	if limit > apiCfg.MaxLimit {
		return 0, 0, errorx.New(errorx.BadRequest, "Exceed the maximum limit (%d)", apiCfg.MaxLimit)
	}

	return offset, limit, nil
}
